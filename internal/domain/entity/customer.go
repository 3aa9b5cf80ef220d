package entity

import "time"

// Customer cliente de una empresa. Number es secuencial dentro de la empresa (no global).
type Customer struct {
	ID        string
	CompanyID string
	Number    int
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
