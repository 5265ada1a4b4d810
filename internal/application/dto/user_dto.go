package dto

import "time"

// RegisterRequest body para POST /api/auth/register y POST /api/usuarios.
// La ruta pública ignora el rol; solo el alta administrada lo respeta.
type RegisterRequest struct {
	Name     string `json:"usuarios_nombre"`
	Email    string `json:"usuarios_email"`
	Password string `json:"usuarios_password"`
	Role     string `json:"usuarios_rol,omitempty"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"usuarios_email"`
	Password string `json:"usuarios_password"`
}

// UserResponse usuario sin el hash de password.
type UserResponse struct {
	ID        int64     `json:"usuarios_id"`
	Name      string    `json:"usuarios_nombre"`
	Email     string    `json:"usuarios_email"`
	Role      string    `json:"usuarios_rol"`
	Active    bool      `json:"usuarios_estado"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse token y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}
