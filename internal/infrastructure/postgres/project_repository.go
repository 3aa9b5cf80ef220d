package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación del puerto ProjectRepository sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador de persistencia para proyectos (pool o tx).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

const projectColumns = `id, company_id, customer_id, number, name, description, start_date, end_date, is_active, created_at, updated_at`

// Create inserta el proyecto con la misma regla de numeración que los clientes.
// La FK compuesta (company_id, customer_id) rechaza clientes de otra empresa.
func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	const query = `
		INSERT INTO projects (id, company_id, customer_id, number, name, description,
		                      start_date, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3,
		        CASE WHEN $4::int > 0 THEN $4::int
		             ELSE (SELECT COALESCE(MAX(number), 0) + 1 FROM projects WHERE company_id = $2) END,
		        $5, $6, $7, $8, $9, $10, $11)
		RETURNING number`
	err := r.q.QueryRow(ctx, query,
		p.ID, p.CompanyID, p.CustomerID, p.Number, p.Name, p.Description,
		p.StartDate, p.EndDate, p.IsActive, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.Number)
	if err != nil {
		mapped := mapPgError(err)
		if p.Number > 0 && isTransactionConflict(mapped) {
			return fmt.Errorf("insert project: %w: número %d", domain.ErrDuplicate, p.Number)
		}
		return fmt.Errorf("insert project: %w", mapped)
	}
	return nil
}

// GetByID obtiene un proyecto de la empresa por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Project, error) {
	row := r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE company_id = $1 AND id = $2`, companyID, id)
	return scanProjectRow(row)
}

// GetByNumber obtiene un proyecto de la empresa por número.
func (r *ProjectRepo) GetByNumber(ctx context.Context, companyID string, number int) (*entity.Project, error) {
	row := r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE company_id = $1 AND number = $2`, companyID, number)
	return scanProjectRow(row)
}

// ListByCompany lista los proyectos de la empresa ordenados por número.
func (r *ProjectRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Project, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE company_id = $1 ORDER BY number LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", mapPgError(err))
	}
	defer rows.Close()

	var list []*entity.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProjectRow(row pgx.Row) (*entity.Project, error) {
	p, err := scanProject(row)
	if err != nil {
		if isNoRows(err) || isNotFound(mapPgError(err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.CustomerID, &p.Number, &p.Name, &p.Description,
		&p.StartDate, &p.EndDate, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
