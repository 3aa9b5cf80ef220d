package repository

import (
	"context"

	"github.com/jhoicas/timereg-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Rename(ctx context.Context, id, name string) error
	// ListByMember devuelve las empresas de las que el usuario es miembro.
	ListByMember(ctx context.Context, userID string) ([]*entity.Company, error)
}

// MembershipRepository puerto para la relación empresa-usuario.
type MembershipRepository interface {
	// Add inserta la membresía; si ya existe no hace nada.
	Add(ctx context.Context, m *entity.Membership) error
	Get(ctx context.Context, companyID, userID string) (*entity.Membership, error)
}
