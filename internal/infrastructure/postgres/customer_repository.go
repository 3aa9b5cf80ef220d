package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación del puerto CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de persistencia para clientes (pool o tx).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, number, name, email, created_at, updated_at`

// Create inserta el cliente. Con Number 0 el número se calcula en el mismo INSERT como
// max+1 dentro de la empresa; una carrera con otro INSERT termina en el índice único
// (company_id, number) y se devuelve domain.ErrTransactionConflict para reintentar.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	const query = `
		INSERT INTO customers (id, company_id, number, name, email, created_at, updated_at)
		VALUES ($1, $2,
		        CASE WHEN $3::int > 0 THEN $3::int
		             ELSE (SELECT COALESCE(MAX(number), 0) + 1 FROM customers WHERE company_id = $2) END,
		        $4, $5, $6, $7)
		RETURNING number`
	err := r.q.QueryRow(ctx, query,
		c.ID, c.CompanyID, c.Number, c.Name, c.Email, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.Number)
	if err != nil {
		mapped := mapPgError(err)
		// Un número explícito repetido es un duplicado real, no una carrera.
		if c.Number > 0 && isTransactionConflict(mapped) {
			return fmt.Errorf("insert customer: %w: número %d", domain.ErrDuplicate, c.Number)
		}
		return fmt.Errorf("insert customer: %w", mapped)
	}
	return nil
}

// GetByID obtiene un cliente de la empresa por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetByNumber obtiene un cliente de la empresa por su número secuencial.
func (r *CustomerRepo) GetByNumber(ctx context.Context, companyID string, number int) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE company_id = $1 AND number = $2`, companyID, number)
}

// ListByCompany lista los clientes de la empresa ordenados por número.
func (r *CustomerRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 ORDER BY number LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", mapPgError(err))
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Number, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CompanyID, &c.Number, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) || isNotFound(mapPgError(err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
