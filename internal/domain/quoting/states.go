package quoting

import (
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// RubroState semáforo de un rubro dentro de un sitio/tipo de servicio.
type RubroState int

const (
	StateMissing RubroState = 0 // rojo: sin líneas ni marca
	StateOK      RubroState = 1 // verde: tiene líneas
	StateEmpty   RubroState = 2 // ámbar: marcado "Sin contenido"
)

// String nombre estable usado en la API.
func (s RubroState) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateEmpty:
		return "empty"
	default:
		return "missing"
	}
}

// Color color de la pestaña.
func (s RubroState) Color() string {
	switch s {
	case StateOK:
		return "green"
	case StateEmpty:
		return "amber"
	default:
		return "red"
	}
}

// RubroStatus estado y conteo de un rubro en el alcance consultado.
type RubroStatus struct {
	Code  string
	Count int
	State RubroState
}

// Scope combinación sitio + tipo de servicio.
type Scope struct {
	SiteID      string
	ServiceType string
}

// RubroStates calcula el semáforo de los 14 rubros para un sitio y tipo de servicio.
// Sin sitio o sin tipo todo queda en rojo.
func RubroStates(lines []*entity.QuoteLine, acks []*entity.RubroAck, scope Scope) []RubroStatus {
	out := make([]RubroStatus, 0, len(entity.RubroCodes))
	if scope.SiteID == "" || scope.ServiceType == "" {
		for _, code := range entity.RubroCodes {
			out = append(out, RubroStatus{Code: code, State: StateMissing})
		}
		return out
	}

	counts := make(map[string]int)
	for _, l := range lines {
		if l.InSite(scope.SiteID) && l.ServiceType == scope.ServiceType {
			counts[l.RubroCode]++
		}
	}
	acked := make(map[string]bool)
	for _, a := range acks {
		if a.SiteID == scope.SiteID && a.ServiceType == scope.ServiceType {
			acked[a.RubroCode] = true
		}
	}

	for _, code := range entity.RubroCodes {
		st := RubroStatus{Code: code, Count: counts[code]}
		switch {
		case st.Count > 0:
			st.State = StateOK
		case acked[code]:
			st.State = StateEmpty
		default:
			st.State = StateMissing
		}
		out = append(out, st)
	}
	return out
}

// HasRed informa si algún rubro está en rojo.
func HasRed(states []RubroStatus) bool {
	for _, s := range states {
		if s.State == StateMissing {
			return true
		}
	}
	return false
}

// PendingScopes devuelve los alcances con líneas que aún tienen rubros en rojo.
// Se evalúa antes de autorizar la cotización.
func PendingScopes(lines []*entity.QuoteLine, acks []*entity.RubroAck) []Scope {
	var scopes []Scope
	seen := make(map[Scope]bool)
	for _, l := range lines {
		sc := Scope{ServiceType: l.ServiceType}
		if l.SiteID != nil {
			sc.SiteID = *l.SiteID
		}
		if seen[sc] {
			continue
		}
		seen[sc] = true
		if HasRed(RubroStates(lines, acks, sc)) {
			scopes = append(scopes, sc)
		}
	}
	return scopes
}
