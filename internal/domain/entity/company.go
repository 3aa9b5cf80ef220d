package entity

import "time"

// Company representa una empresa (tenant): la unidad de aislamiento de datos.
// Solo se renombra; se elimina en cascada junto con todo lo que posee.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership vincula un usuario con una empresa (relación muchos a muchos).
// IsAdmin es el permiso de administración dentro de esa empresa concreta.
type Membership struct {
	CompanyID string
	UserID    string
	IsAdmin   bool
	JoinedAt  time.Time
}
