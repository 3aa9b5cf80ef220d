package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios (pool o tx).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, email, password_hash, status, created_at, updated_at`

// Create persiste un nuevo usuario. Username duplicado -> domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
		INSERT INTO users (id, username, email, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", mapPgError(err))
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername obtiene un usuario por nombre de usuario.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail obtiene el usuario más antiguo con ese email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) ORDER BY created_at LIMIT 1`, email)
}

// UpdatePassword reemplaza el hash de contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", mapPgError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) || isNotFound(mapPgError(err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo perfiles de usuario.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador (pool o tx).
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

// Create inserta el perfil del usuario.
func (r *ProfileRepo) Create(ctx context.Context, p *entity.UserProfile) error {
	const query = `
		INSERT INTO user_profiles (user_id, active_company_id, is_company_admin, updated_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, p.UserID, p.ActiveCompanyID, p.IsCompanyAdmin, p.UpdatedAt); err != nil {
		return fmt.Errorf("insert profile: %w", mapPgError(err))
	}
	return nil
}

// GetByUserID obtiene el perfil o nil si el usuario no existe.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.UserProfile, error) {
	const query = `
		SELECT user_id, active_company_id::text, is_company_admin, updated_at
		  FROM user_profiles WHERE user_id = $1`
	var p entity.UserProfile
	err := r.q.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.ActiveCompanyID, &p.IsCompanyAdmin, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) || isNotFound(mapPgError(err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// SetActiveCompany actualiza la empresa activa y el flag de administrador.
func (r *ProfileRepo) SetActiveCompany(ctx context.Context, userID, companyID string, isAdmin bool) error {
	const query = `
		UPDATE user_profiles
		   SET active_company_id = $2, is_company_admin = $3, updated_at = now()
		 WHERE user_id = $1`
	cmd, err := r.q.Exec(ctx, query, userID, companyID, isAdmin)
	if err != nil {
		return fmt.Errorf("set active company: %w", mapPgError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
