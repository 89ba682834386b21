package entity

// Códigos de rubro (categorías de costo fijas del cotizador).
const (
	RubroManoObra             = "mano_obra"
	RubroUniforme             = "uniforme"
	RubroEPP                  = "epp"
	RubroEPPAlturas           = "epp_alturas"
	RubroEquipoEspecial       = "equipo_especial_limpieza"
	RubroComunicacion         = "comunicacion_computo"
	RubroHerramientaMenor     = "herramienta_menor_jardineria"
	RubroMaterialLimpieza     = "material_limpieza"
	RubroPerfilMedico         = "perfil_medico"
	RubroMaquinariaLimpieza   = "maquinaria_limpieza"
	RubroMaquinariaJardineria = "maquinaria_jardineria"
	RubroFertilizantes        = "fertilizantes_tierra_lama"
	RubroConsumibles          = "consumibles_jardineria"
	RubroCapacitacion         = "capacitacion"
)

// RubroCodes lista los 14 rubros en el orden de presentación.
var RubroCodes = []string{
	RubroManoObra,
	RubroUniforme,
	RubroEPP,
	RubroEPPAlturas,
	RubroEquipoEspecial,
	RubroComunicacion,
	RubroHerramientaMenor,
	RubroMaterialLimpieza,
	RubroPerfilMedico,
	RubroMaquinariaLimpieza,
	RubroMaquinariaJardineria,
	RubroFertilizantes,
	RubroConsumibles,
	RubroCapacitacion,
}

var rubroLabels = map[string]string{
	RubroManoObra:             "Mano de Obra",
	RubroUniforme:             "Uniforme",
	RubroEPP:                  "EPP",
	RubroEPPAlturas:           "EPP Alturas",
	RubroEquipoEspecial:       "Equipo Especial de Limpieza",
	RubroComunicacion:         "Comunicación y Cómputo",
	RubroHerramientaMenor:     "Herramienta Menor de Jardinería",
	RubroMaterialLimpieza:     "Material de Limpieza",
	RubroPerfilMedico:         "Perfil Médico",
	RubroMaquinariaLimpieza:   "Maquinaria de Limpieza",
	RubroMaquinariaJardineria: "Maquinaria de Jardinería",
	RubroFertilizantes:        "Fertilizantes y Tierra Lama",
	RubroConsumibles:          "Consumibles de Jardinería",
	RubroCapacitacion:         "Capacitación",
}

// IsRubroCode informa si el código pertenece al catálogo fijo.
func IsRubroCode(code string) bool {
	_, ok := rubroLabels[code]
	return ok
}

// RubroLabel devuelve el nombre por defecto del rubro (o el código si no existe).
func RubroLabel(code string) string {
	if l, ok := rubroLabels[code]; ok {
		return l
	}
	return code
}

// Rubro categoría de costo configurable (nombre, orden y banderas de aplicación).
type Rubro struct {
	ID           string
	Code         string
	Name         string
	Sequence     int
	ApplyGarden  bool
	ApplyClean   bool
	InternalOnly bool // no se muestra al cliente
	Active       bool
}
