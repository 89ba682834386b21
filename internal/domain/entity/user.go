package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleCotizador   = "cotizador"
	RoleAutorizador = "autorizador"
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, cotizador, autorizador
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAuthorize indica si el rol puede autorizar cotizaciones.
func CanAuthorize(role string) bool {
	return role == RoleAdmin || role == RoleAutorizador
}

// IsRole valida el rol.
func IsRole(role string) bool {
	return role == RoleAdmin || role == RoleCotizador || role == RoleAutorizador
}
