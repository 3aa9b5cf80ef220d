package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas (pool o tx).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	const query = `
		INSERT INTO companies (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, company.ID, company.Name, company.CreatedAt, company.UpdatedAt); err != nil {
		return fmt.Errorf("insert company: %w", mapPgError(err))
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	const query = `SELECT id, name, created_at, updated_at FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) || isNotFound(mapPgError(err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Rename cambia el nombre de la empresa.
func (r *CompanyRepo) Rename(ctx context.Context, id, name string) error {
	const query = `UPDATE companies SET name = $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("rename company: %w", mapPgError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByMember devuelve las empresas del usuario ordenadas por nombre.
func (r *CompanyRepo) ListByMember(ctx context.Context, userID string) ([]*entity.Company, error) {
	const query = `
		SELECT c.id, c.name, c.created_at, c.updated_at
		  FROM companies c
		  JOIN company_members m ON m.company_id = c.id
		 WHERE m.user_id = $1
		 ORDER BY c.name, c.created_at`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list companies by member: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo membresías empresa-usuario.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador (pool o tx).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

// Add inserta la membresía; si ya existe no la modifica.
func (r *MembershipRepo) Add(ctx context.Context, m *entity.Membership) error {
	const query = `
		INSERT INTO company_members (company_id, user_id, is_admin, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, user_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, m.CompanyID, m.UserID, m.IsAdmin, m.JoinedAt); err != nil {
		return fmt.Errorf("insert membership: %w", mapPgError(err))
	}
	return nil
}

// Get obtiene la membresía o nil si el usuario no es miembro.
func (r *MembershipRepo) Get(ctx context.Context, companyID, userID string) (*entity.Membership, error) {
	const query = `
		SELECT company_id, user_id, is_admin, joined_at
		  FROM company_members WHERE company_id = $1 AND user_id = $2`
	var m entity.Membership
	err := r.q.QueryRow(ctx, query, companyID, userID).Scan(&m.CompanyID, &m.UserID, &m.IsAdmin, &m.JoinedAt)
	if err != nil {
		if isNoRows(err) || isNotFound(mapPgError(err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}
