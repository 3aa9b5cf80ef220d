package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User identidad autenticable del sistema. No pertenece a una empresa: la relación
// vive en Membership y la empresa "actual" en UserProfile.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile uno a uno con User. ActiveCompanyID apunta a una de las empresas de las que
// el usuario es miembro (nil = ninguna seleccionada). IsCompanyAdmin se refiere a esa empresa.
type UserProfile struct {
	UserID          string
	ActiveCompanyID *string
	IsCompanyAdmin  bool
	UpdatedAt       time.Time
}

// HasActiveCompany informa si el perfil tiene una empresa seleccionada.
func (p *UserProfile) HasActiveCompany() bool {
	return p != nil && p.ActiveCompanyID != nil && *p.ActiveCompanyID != ""
}
