package dto

import "time"

// RegisterRequest registro de una empresa nueva junto con su primer usuario (administrador).
type RegisterRequest struct {
	CompanyName     string `json:"company_name" validate:"required,max=100"`
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// RegisterResponse salida del registro.
type RegisterResponse struct {
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// PasswordResetRequest solicita un código de restablecimiento.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest fija la nueva contraseña con el código recibido.
type PasswordResetConfirmRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required,len=6"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// MeResponse usuario autenticado, su perfil y la empresa activa (si hay).
type MeResponse struct {
	User           UserResponse     `json:"user"`
	ActiveCompany  *CompanyResponse `json:"active_company"`
	IsCompanyAdmin bool             `json:"is_company_admin"`
}
