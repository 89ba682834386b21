package pricing

import (
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// General indicadores de toda la cotización.
type General struct {
	TotalElementos       int
	CostoMensual         decimal.Decimal
	PersonalRequerido    int
	PorcentajeCompletado decimal.Decimal
}

// GeneralIndicators calcula los indicadores generales.
// El porcentaje completado cuenta rubros distintos con al menos una línea sobre los 14 del catálogo.
func GeneralIndicators(lines []*entity.QuoteLine, p Params) General {
	g := General{TotalElementos: len(lines), CostoMensual: decimal.Zero}
	staff := decimal.Zero
	seen := make(map[string]struct{})
	for _, l := range lines {
		g.CostoMensual = g.CostoMensual.Add(Line(l, p.PrestacionesPercent).TotalPrice)
		if l.RubroCode == entity.RubroManoObra {
			staff = staff.Add(l.Quantity)
		}
		if l.RubroCode != "" {
			seen[l.RubroCode] = struct{}{}
		}
	}
	g.PersonalRequerido = int(staff.IntPart())
	g.PorcentajeCompletado = decimal.NewFromInt(int64(len(seen))).
		Mul(hundred).
		DivRound(decimal.NewFromInt(int64(len(entity.RubroCodes))), 2)
	return g
}

// Site resumen económico de un sitio.
type Site struct {
	Colaboradores   int
	Rubros          map[string]decimal.Decimal // Σ TotalPrice por código de rubro
	RubrosTotal     decimal.Decimal
	Subtotal1       decimal.Decimal
	Administracion  decimal.Decimal
	Utilidad        decimal.Decimal
	Subtotal2       decimal.Decimal
	Transporte      decimal.Decimal
	Bienestar       decimal.Decimal
	CostoFinanciero decimal.Decimal
	TotalAntesIVA   decimal.Decimal
	IVA             decimal.Decimal
	TotalConIVA     decimal.Decimal
	OtrosRubros     decimal.Decimal
}

// Rubro devuelve la suma del rubro (cero si no hay líneas).
func (s Site) Rubro(code string) decimal.Decimal {
	if v, ok := s.Rubros[code]; ok {
		return v
	}
	return decimal.Zero
}

// PerPerson divide el importe entre colaboradores; cero si no hay personal.
func (s Site) PerPerson(amount decimal.Decimal) decimal.Decimal {
	return perPerson(amount, s.Colaboradores)
}

// SiteIndicators calcula el "Resumen del Sitio" sobre las líneas ya filtradas por sitio.
func SiteIndicators(lines []*entity.QuoteLine, p Params) Site {
	rubros, staff := sumByRubro(lines, p.PrestacionesPercent)
	s := Site{Colaboradores: staff, Rubros: rubros}
	r := s.Rubro

	for _, v := range rubros {
		s.RubrosTotal = s.RubrosTotal.Add(v)
	}
	s.Subtotal1 = sum(
		r(entity.RubroManoObra), r(entity.RubroUniforme), r(entity.RubroEPP), r(entity.RubroEPPAlturas),
		r(entity.RubroEquipoEspecial), r(entity.RubroComunicacion), r(entity.RubroHerramientaMenor),
		r(entity.RubroMaterialLimpieza),
	)
	s.Administracion = percentOf(s.Subtotal1, p.AdminPercent)
	s.Utilidad = percentOf(s.Subtotal1, p.UtilityPercent)
	s.Subtotal2 = sum(s.Subtotal1, s.Administracion, s.Utilidad)

	heads := decimal.NewFromInt(int64(staff))
	s.Transporte = p.TransporteRate.Mul(heads).Round(2)
	s.Bienestar = p.BienestarRate.Mul(heads).Round(2)

	finBase := sum(
		s.Subtotal1, r(entity.RubroPerfilMedico), r(entity.RubroMaquinariaLimpieza), r(entity.RubroFertilizantes),
		r(entity.RubroConsumibles), s.Transporte, r(entity.RubroCapacitacion),
	)
	s.CostoFinanciero = percentOf(finBase, p.FinancialPercent)

	s.TotalAntesIVA = sum(
		s.Subtotal2, r(entity.RubroPerfilMedico), r(entity.RubroMaquinariaLimpieza),
		r(entity.RubroMaquinariaJardineria), r(entity.RubroFertilizantes), r(entity.RubroConsumibles),
		s.Transporte, s.Bienestar, r(entity.RubroCapacitacion), s.CostoFinanciero,
	)
	s.IVA = s.TotalAntesIVA.Mul(p.VATRate).Round(2)
	s.TotalConIVA = s.TotalAntesIVA.Add(s.IVA)
	s.OtrosRubros = sum(
		r(entity.RubroEPPAlturas), r(entity.RubroEquipoEspecial), r(entity.RubroComunicacion),
		r(entity.RubroHerramientaMenor), r(entity.RubroMaterialLimpieza),
	)
	return s
}

// Service resumen de un sitio filtrado por tipo de servicio.
type Service struct {
	Colaboradores       int
	PrestacionesPercent decimal.Decimal
	SueldoBruto         decimal.Decimal
	Prestaciones        decimal.Decimal
	Rubros              map[string]decimal.Decimal
	Total               decimal.Decimal
}

// Rubro devuelve la suma del rubro (cero si no hay líneas).
func (s Service) Rubro(code string) decimal.Decimal {
	if v, ok := s.Rubros[code]; ok {
		return v
	}
	return decimal.Zero
}

// PerPerson divide el importe entre colaboradores; cero si no hay personal.
func (s Service) PerPerson(amount decimal.Decimal) decimal.Decimal {
	return perPerson(amount, s.Colaboradores)
}

// ServiceIndicators calcula el resumen por servicio sobre las líneas ya filtradas por sitio y tipo.
func ServiceIndicators(lines []*entity.QuoteLine, p Params) Service {
	rubros, staff := sumByRubro(lines, p.PrestacionesPercent)
	s := Service{
		Colaboradores:       staff,
		PrestacionesPercent: p.PrestacionesPercent,
		Rubros:              rubros,
	}
	for _, l := range lines {
		if l.RubroCode != entity.RubroManoObra {
			continue
		}
		a := Line(l, p.PrestacionesPercent)
		s.SueldoBruto = s.SueldoBruto.Add(a.MonthlySubtotal)
		s.Prestaciones = s.Prestaciones.Add(a.Prestaciones)
	}
	for _, code := range entity.RubroCodes {
		s.Total = s.Total.Add(s.Rubro(code))
	}
	return s
}

func sumByRubro(lines []*entity.QuoteLine, prestacionesPercent decimal.Decimal) (map[string]decimal.Decimal, int) {
	rubros := make(map[string]decimal.Decimal)
	staff := decimal.Zero
	for _, l := range lines {
		a := Line(l, prestacionesPercent)
		rubros[l.RubroCode] = rubros[l.RubroCode].Add(a.TotalPrice)
		if l.RubroCode == entity.RubroManoObra {
			staff = staff.Add(l.Quantity)
		}
	}
	return rubros, int(staff.IntPart())
}

func perPerson(amount decimal.Decimal, heads int) decimal.Decimal {
	if heads <= 0 {
		return decimal.Zero
	}
	return amount.DivRound(decimal.NewFromInt(int64(heads)), 2)
}

func sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
