package entity

import "time"

// Customer representa un cliente (partner) al que se le cotiza.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string // RFC
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
