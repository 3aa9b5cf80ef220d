package dto

import "time"

// CreateCustomerRequest entrada para crear un cliente. Number es opcional (0 = asignar).
// No existe campo de empresa: siempre se toma de la empresa activa.
type CreateCustomerRequest struct {
	Number int    `json:"number" validate:"min=0"`
	Name   string `json:"name" validate:"required,max=255"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProjectRequest entrada para crear un proyecto. Fechas en formato YYYY-MM-DD.
type CreateProjectRequest struct {
	CustomerID  string `json:"customer_id" validate:"required,uuid"`
	Number      int    `json:"number" validate:"min=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date"`
	IsActive    *bool  `json:"is_active"`
}

// ProjectResponse salida de un proyecto.
type ProjectResponse struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"company_id"`
	CustomerID  string  `json:"customer_id"`
	Number      int     `json:"number"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	IsActive    bool    `json:"is_active"`
}
