package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
)

// ValidRole indica si el rol pertenece al conjunto cerrado de roles.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleVendedor
}

// User cuenta de usuario de la API. El hash es bcrypt; el password en claro
// nunca se persiste ni se loguea.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
