package entity

import "time"

// GeneralSiteName sitio por defecto creado con cada cotización.
const (
	GeneralSiteName     = "General"
	GeneralSiteSequence = -999
)

// Site ubicación dentro de una cotización.
type Site struct {
	ID        string
	QuoteID   string
	Name      string
	Sequence  int
	Active    bool
	CreatedAt time.Time
}

// IsGeneral informa si es el sitio por defecto.
func (s *Site) IsGeneral() bool {
	return s.Name == GeneralSiteName
}
