package entity

// Tipos de servicio (segundo eje de clasificación, ortogonal al sitio).
const (
	ServiceJardineria          = "jardineria"
	ServiceLimpieza            = "limpieza"
	ServiceMantenimiento       = "mantenimiento"
	ServiceMateriales          = "materiales"
	ServiceServiciosEspeciales = "servicios_especiales"
	ServiceAlmacenaje          = "almacenaje"
	ServiceFletes              = "fletes"
)

// Tipo de línea derivado del tipo de servicio.
const (
	LineTypeServicio = "servicio"
	LineTypeMaterial = "material"
)

// ServiceTypes orden de presentación de los tipos de servicio.
var ServiceTypes = []string{
	ServiceJardineria,
	ServiceLimpieza,
	ServiceMantenimiento,
	ServiceMateriales,
	ServiceServiciosEspeciales,
	ServiceAlmacenaje,
	ServiceFletes,
}

var serviceTypeLabels = map[string]string{
	ServiceJardineria:          "Jardinería",
	ServiceLimpieza:            "Limpieza",
	ServiceMantenimiento:       "Mantenimiento",
	ServiceMateriales:          "Materiales",
	ServiceServiciosEspeciales: "Servicios Especiales",
	ServiceAlmacenaje:          "Almacenaje",
	ServiceFletes:              "Fletes",
}

// IsServiceType informa si el valor es un tipo de servicio válido.
func IsServiceType(s string) bool {
	_, ok := serviceTypeLabels[s]
	return ok
}

// ServiceTypeLabel etiqueta legible del tipo de servicio.
func ServiceTypeLabel(s string) string {
	if l, ok := serviceTypeLabels[s]; ok {
		return l
	}
	return s
}

// LineTypeFor devuelve material para el tipo materiales, servicio en otro caso.
func LineTypeFor(serviceType string) string {
	if serviceType == ServiceMateriales {
		return LineTypeMaterial
	}
	return LineTypeServicio
}
