// Package tenant implementa el directorio de empresas: membresías y empresa activa de cada usuario.
package tenant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

// MaxNameLength longitud máxima del nombre de empresa.
const MaxNameLength = 100

// Directory casos de uso del directorio de empresas.
type Directory struct {
	tx    ports.TxRunner
	repos repository.Repos
	now   func() time.Time
	log   zerolog.Logger
}

// NewDirectory construye el directorio. repos son los repositorios fuera de transacción (lecturas).
func NewDirectory(tx ports.TxRunner, repos repository.Repos, log zerolog.Logger) *Directory {
	return &Directory{tx: tx, repos: repos, now: time.Now, log: log}
}

// WithClock reemplaza el reloj (tests).
func (d *Directory) WithClock(now func() time.Time) *Directory {
	d.now = now
	return d
}

// ResolveActiveCompany devuelve la empresa activa del usuario, o nil si no tiene.
func (d *Directory) ResolveActiveCompany(ctx context.Context, userID string) (*entity.Company, error) {
	profile, err := d.repos.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.HasActiveCompany() {
		return nil, nil
	}
	return d.repos.Companies.GetByID(ctx, *profile.ActiveCompanyID)
}

// ListMemberCompanies devuelve todas las empresas del usuario.
func (d *Directory) ListMemberCompanies(ctx context.Context, userID string) ([]*entity.Company, error) {
	return d.repos.Companies.ListByMember(ctx, userID)
}

// CreateCompany crea una empresa, hace al dueño miembro administrador y la marca como activa.
// Todo en una sola transacción.
func (d *Directory) CreateCompany(ctx context.Context, name, ownerUserID string) (*entity.Company, error) {
	if ownerUserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	var company *entity.Company
	err := d.tx.WithinTx(ctx, func(repos repository.Repos) error {
		c, err := Bootstrap(ctx, repos, name, ownerUserID, d.now())
		if err != nil {
			return err
		}
		company = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.log.Info().Str("company_id", company.ID).Str("user_id", ownerUserID).Msg("empresa creada")
	return company, nil
}

// Bootstrap inserta empresa + membresía de administrador + puntero de empresa activa usando
// los repositorios de la transacción del llamador. También lo usa el registro.
func Bootstrap(ctx context.Context, repos repository.Repos, name, ownerUserID string, now time.Time) (*entity.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxNameLength {
		return nil, fmt.Errorf("%w: nombre de empresa requerido (máx. %d caracteres)", domain.ErrValidation, MaxNameLength)
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repos.Companies.Create(ctx, company); err != nil {
		return nil, err
	}
	if err := repos.Memberships.Add(ctx, &entity.Membership{
		CompanyID: company.ID,
		UserID:    ownerUserID,
		IsAdmin:   true,
		JoinedAt:  now,
	}); err != nil {
		return nil, err
	}
	if err := repos.Profiles.SetActiveCompany(ctx, ownerUserID, company.ID, true); err != nil {
		return nil, err
	}
	return company, nil
}

// SwitchActiveCompany cambia la empresa activa. Falla con ErrNotAMember (sin tocar el perfil)
// si el usuario no es miembro de la empresa destino.
func (d *Directory) SwitchActiveCompany(ctx context.Context, userID, companyID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if companyID == "" {
		return fmt.Errorf("%w: company_id requerido", domain.ErrValidation)
	}
	err := d.tx.WithinTx(ctx, func(repos repository.Repos) error {
		m, err := repos.Memberships.Get(ctx, companyID, userID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotAMember
		}
		return repos.Profiles.SetActiveCompany(ctx, userID, companyID, m.IsAdmin)
	})
	if err != nil {
		return err
	}
	d.log.Info().Str("company_id", companyID).Str("user_id", userID).Msg("empresa activa cambiada")
	return nil
}

// AddMember añade un usuario existente a la empresa activa. Solo administradores.
// Si el usuario no tenía empresa activa, esta pasa a serlo.
func (d *Directory) AddMember(ctx context.Context, sc scope.Scope, username string, isAdmin bool) (*entity.User, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	if !sc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username requerido", domain.ErrValidation)
	}
	var member *entity.User
	err := d.tx.WithinTx(ctx, func(repos repository.Repos) error {
		u, err := repos.Users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrUserNotFound
		}
		if err := repos.Memberships.Add(ctx, &entity.Membership{
			CompanyID: sc.CompanyID(),
			UserID:    u.ID,
			IsAdmin:   isAdmin,
			JoinedAt:  d.now(),
		}); err != nil {
			return err
		}
		profile, err := repos.Profiles.GetByUserID(ctx, u.ID)
		if err != nil {
			return err
		}
		if profile != nil && !profile.HasActiveCompany() {
			if err := repos.Profiles.SetActiveCompany(ctx, u.ID, sc.CompanyID(), isAdmin); err != nil {
				return err
			}
		}
		member = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RenameCompany renombra la empresa activa. Solo administradores.
func (d *Directory) RenameCompany(ctx context.Context, sc scope.Scope, name string) (*entity.Company, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	if !sc.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > MaxNameLength {
		return nil, fmt.Errorf("%w: nombre de empresa requerido (máx. %d caracteres)", domain.ErrValidation, MaxNameLength)
	}
	if err := d.repos.Companies.Rename(ctx, sc.CompanyID(), name); err != nil {
		return nil, err
	}
	return d.repos.Companies.GetByID(ctx, sc.CompanyID())
}
