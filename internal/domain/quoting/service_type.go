// Package quoting reglas de negocio de la cotización que no son fórmulas de precio:
// semáforo de rubros, asignación automática de tipo de servicio y armado de la orden de venta.
package quoting

import "github.com/jhoicas/Cotizador-api/internal/domain/entity"

// rubros exclusivos de un tipo de servicio.
var rubroService = map[string]string{
	entity.RubroHerramientaMenor:     entity.ServiceJardineria,
	entity.RubroMaquinariaJardineria: entity.ServiceJardineria,
	entity.RubroFertilizantes:        entity.ServiceJardineria,
	entity.RubroConsumibles:          entity.ServiceJardineria,
	entity.RubroEPPAlturas:           entity.ServiceJardineria,

	entity.RubroMaterialLimpieza:   entity.ServiceLimpieza,
	entity.RubroMaquinariaLimpieza: entity.ServiceLimpieza,
	entity.RubroEquipoEspecial:     entity.ServiceLimpieza,
}

// ServiceTypeForRubro devuelve el tipo de servicio exclusivo del rubro, si lo tiene.
func ServiceTypeForRubro(rubroCode string) (string, bool) {
	s, ok := rubroService[rubroCode]
	return s, ok
}

// ResolveServiceType elige el tipo de servicio de una línea nueva:
// el explícito, el exclusivo del rubro o el tipo actual de la cotización, en ese orden.
func ResolveServiceType(explicit, rubroCode, current string) string {
	if explicit != "" {
		return explicit
	}
	if s, ok := ServiceTypeForRubro(rubroCode); ok {
		return s
	}
	return current
}

// FixServiceTypes corrige el tipo de servicio de las líneas cuyo rubro es exclusivo
// y devuelve las líneas modificadas.
func FixServiceTypes(lines []*entity.QuoteLine) []*entity.QuoteLine {
	var changed []*entity.QuoteLine
	for _, l := range lines {
		want, ok := rubroService[l.RubroCode]
		if !ok || l.ServiceType == want {
			continue
		}
		l.ServiceType = want
		l.Type = entity.LineTypeFor(want)
		changed = append(changed, l)
	}
	return changed
}
