package entity

import "time"

// RubroAck marca explícita de "Sin contenido" para un rubro en un sitio/tipo de servicio.
type RubroAck struct {
	ID          string
	QuoteID     string
	SiteID      string
	ServiceType string
	RubroCode   string
	CreatedBy   string
	CreatedAt   time.Time
}
