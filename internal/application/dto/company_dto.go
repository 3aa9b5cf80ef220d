package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa desde una cuenta existente.
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// RenameCompanyRequest entrada para renombrar la empresa activa.
type RenameCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// SwitchCompanyRequest entrada para cambiar de empresa activa.
type SwitchCompanyRequest struct {
	CompanyID string `json:"company_id" validate:"required,uuid"`
}

// AddMemberRequest entrada para añadir un usuario existente a la empresa activa.
type AddMemberRequest struct {
	Username string `json:"username" validate:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyListResponse empresas de las que el usuario es miembro.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
}
