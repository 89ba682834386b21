package quoting

import (
	"sort"
	"strings"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// SequenceStep incremento de secuencia entre líneas exportadas.
const SequenceStep = 10

// HiddenRubrosLabel agrupa en modo por rubro los rubros marcados como solo internos.
const HiddenRubrosLabel = "Otros conceptos"

// ExportLine partida resultante de agrupar la cotización según su modo de presentación.
// Las secciones solo llevan nombre; las partidas llevan cantidad 1 y el importe agrupado.
type ExportLine struct {
	Sequence    int
	DisplayType string
	Name        string
	Amount      decimal.Decimal
}

// ExportInput datos necesarios para armar la exportación.
type ExportInput struct {
	Quote      *entity.Quote
	Lines      []*entity.QuoteLine // en orden de captura
	Sites      []*entity.Site
	Rubros     []*entity.Rubro
	StartAfter int // secuencia máxima existente en la orden destino
}

type siteGroup struct {
	site  *entity.Site
	lines []*entity.QuoteLine
}

// BuildExport agrupa las líneas de la cotización en secciones y partidas.
// El tabulador nunca aparece: solo se exportan importes finales.
func BuildExport(in ExportInput) []ExportLine {
	prest := in.Quote.PrestacionesPercent
	seq := in.StartAfter + SequenceStep
	var out []ExportLine
	emit := func(kind, name string, amount decimal.Decimal) {
		out = append(out, ExportLine{Sequence: seq, DisplayType: kind, Name: name, Amount: amount})
		seq += SequenceStep
	}

	if note := strings.TrimSpace(in.Quote.NoteText); note != "" {
		emit(entity.OrderLineSection, note, decimal.Zero)
	}

	groups := groupBySite(in.Lines, in.Sites)
	multiple := distinctSites(in.Lines) > 1
	siteSection := func(g siteGroup) {
		if g.site != nil && multiple {
			emit(entity.OrderLineSection, "SITIO: "+g.site.Name, decimal.Zero)
		}
	}

	switch in.Quote.DisplayMode {
	case entity.DisplayTotalOnly:
		for _, g := range groups {
			siteSection(g)
			for _, tg := range groupByService(g.lines) {
				emit(entity.OrderLineProduct, "Servicio de "+entity.ServiceTypeLabel(tg.serviceType), pricing.Total(tg.lines, prest))
			}
		}
	case entity.DisplayByRubro:
		rubros := rubroIndex(in.Rubros)
		for _, g := range groups {
			siteSection(g)
			for _, tg := range groupByService(g.lines) {
				emit(entity.OrderLineSection, "Servicio: "+entity.ServiceTypeLabel(tg.serviceType), decimal.Zero)
				hidden := decimal.Zero
				for _, rg := range groupByRubro(tg.lines, rubros) {
					if rg.rubro.InternalOnly {
						hidden = hidden.Add(pricing.Total(rg.lines, prest))
						continue
					}
					emit(entity.OrderLineProduct, rg.rubro.Name, pricing.Total(rg.lines, prest))
				}
				if !hidden.IsZero() {
					emit(entity.OrderLineProduct, HiddenRubrosLabel, hidden)
				}
			}
		}
	default:
		for _, g := range groups {
			siteSection(g)
			emit(entity.OrderLineProduct, ItemizedLabel(g.lines), pricing.Total(g.lines, prest))
		}
	}
	return out
}

// ItemizedLabel "Servicio de X y Y" con los tipos presentes en orden de aparición.
func ItemizedLabel(lines []*entity.QuoteLine) string {
	var labels []string
	seen := make(map[string]bool)
	for _, l := range lines {
		if l.ServiceType == "" || seen[l.ServiceType] {
			continue
		}
		seen[l.ServiceType] = true
		labels = append(labels, entity.ServiceTypeLabel(l.ServiceType))
	}
	if len(labels) == 0 {
		return "Servicio de Servicio"
	}
	return "Servicio de " + strings.Join(labels, " y ")
}

func distinctSites(lines []*entity.QuoteLine) int {
	ids := make(map[string]struct{})
	for _, l := range lines {
		if l.SiteID != nil {
			ids[*l.SiteID] = struct{}{}
		}
	}
	return len(ids)
}

// groupBySite respeta el orden de primera aparición de cada sitio.
func groupBySite(lines []*entity.QuoteLine, sites []*entity.Site) []siteGroup {
	byID := make(map[string]*entity.Site, len(sites))
	for _, s := range sites {
		byID[s.ID] = s
	}
	var groups []siteGroup
	pos := make(map[string]int)
	for _, l := range lines {
		key := ""
		if l.SiteID != nil {
			key = *l.SiteID
		}
		i, ok := pos[key]
		if !ok {
			i = len(groups)
			pos[key] = i
			groups = append(groups, siteGroup{site: byID[key]})
		}
		groups[i].lines = append(groups[i].lines, l)
	}
	return groups
}

type serviceGroup struct {
	serviceType string
	lines       []*entity.QuoteLine
}

func groupByService(lines []*entity.QuoteLine) []serviceGroup {
	var groups []serviceGroup
	pos := make(map[string]int)
	for _, l := range lines {
		i, ok := pos[l.ServiceType]
		if !ok {
			i = len(groups)
			pos[l.ServiceType] = i
			groups = append(groups, serviceGroup{serviceType: l.ServiceType})
		}
		groups[i].lines = append(groups[i].lines, l)
	}
	return groups
}

type rubroGroup struct {
	rubro *entity.Rubro
	lines []*entity.QuoteLine
}

func rubroIndex(rubros []*entity.Rubro) map[string]*entity.Rubro {
	idx := make(map[string]*entity.Rubro, len(rubros))
	for _, r := range rubros {
		idx[r.Code] = r
	}
	return idx
}

// groupByRubro agrupa y ordena por (secuencia, nombre) del rubro.
func groupByRubro(lines []*entity.QuoteLine, rubros map[string]*entity.Rubro) []rubroGroup {
	var groups []rubroGroup
	pos := make(map[string]int)
	for _, l := range lines {
		i, ok := pos[l.RubroCode]
		if !ok {
			r, found := rubros[l.RubroCode]
			if !found {
				r = &entity.Rubro{Code: l.RubroCode, Name: entity.RubroLabel(l.RubroCode)}
			}
			i = len(groups)
			pos[l.RubroCode] = i
			groups = append(groups, rubroGroup{rubro: r})
		}
		groups[i].lines = append(groups[i].lines, l)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].rubro, groups[j].rubro
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		return a.Name < b.Name
	})
	return groups
}
