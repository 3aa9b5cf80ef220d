package repository

import (
	"context"

	"github.com/jhoicas/timereg-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Todas las lecturas exigen companyID: no existe consulta sin alcance de tenant.
type CustomerRepository interface {
	// Create inserta el cliente. Si Number es 0 asigna max(number)+1 dentro de la empresa.
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error)
	GetByNumber(ctx context.Context, companyID string, number int) (*entity.Customer, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error)
}
