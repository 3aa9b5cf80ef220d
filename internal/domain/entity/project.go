package entity

import "time"

// Project proyecto de un cliente. CompanyID debe coincidir con el del cliente.
type Project struct {
	ID          string
	CompanyID   string
	CustomerID  string
	Number      int // secuencial por empresa
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
