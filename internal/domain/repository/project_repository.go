package repository

import (
	"context"

	"github.com/jhoicas/timereg-api/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para Project (siempre con companyID).
type ProjectRepository interface {
	// Create inserta el proyecto. Si Number es 0 asigna max(number)+1 dentro de la empresa.
	Create(ctx context.Context, project *entity.Project) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Project, error)
	GetByNumber(ctx context.Context, companyID string, number int) (*entity.Project, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Project, error)
}
