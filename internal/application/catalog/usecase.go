// Package catalog gestiona clientes y proyectos de la empresa activa.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

// DateLayout formato de fechas de proyecto.
const DateLayout = "2006-01-02"

// assignTries intentos para la asignación del número secuencial: el original + un reintento.
const assignTries = 2

// Recorder recibe los reintentos por colisión del número secuencial (métricas).
type Recorder interface {
	CatalogConflictRetried(kind string)
}

// UseCase casos de uso de clientes y proyectos.
type UseCase struct {
	tx       ports.TxRunner
	repos    repository.Repos
	recorder Recorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, repos repository.Repos, log zerolog.Logger) *UseCase {
	return &UseCase{tx: tx, repos: repos, now: time.Now, log: log}
}

// WithRecorder registra r para contar los reintentos de asignación.
func (uc *UseCase) WithRecorder(r Recorder) *UseCase {
	uc.recorder = r
	return uc
}

// CreateCustomer crea un cliente en la empresa del alcance. Si in.Number es 0 se asigna
// max+1 dentro de la empresa; ante colisión concurrente se reintenta una vez.
func (uc *UseCase) CreateCustomer(ctx context.Context, sc scope.Scope, in dto.CreateCustomerRequest) (*entity.Customer, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len([]rune(name)) > 255 {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrValidation)
	}
	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: email inválido", domain.ErrValidation)
		}
	}
	if in.Number < 0 {
		return nil, fmt.Errorf("%w: number no puede ser negativo", domain.ErrValidation)
	}

	now := uc.now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: sc.CompanyID(), // nunca del request
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.withAssignRetry(ctx, "customer", func(repos repository.Repos) error {
		customer.Number = in.Number
		return repos.Customers.Create(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", customer.CompanyID).Int("number", customer.Number).Msg("cliente creado")
	return customer, nil
}

// ListCustomers lista clientes de la empresa activa.
func (uc *UseCase) ListCustomers(ctx context.Context, sc scope.Scope, page dto.PageRequest) ([]*entity.Customer, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.repos.Customers.ListByCompany(ctx, sc.CompanyID(), page.Limit, page.Offset)
}

// GetCustomer obtiene un cliente por su número dentro de la empresa activa.
func (uc *UseCase) GetCustomer(ctx context.Context, sc scope.Scope, number int) (*entity.Customer, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	c, err := uc.repos.Customers.GetByNumber(ctx, sc.CompanyID(), number)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// CreateProject crea un proyecto. El cliente debe pertenecer a la misma empresa.
func (uc *UseCase) CreateProject(ctx context.Context, sc scope.Scope, in dto.CreateProjectRequest) (*entity.Project, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || len([]rune(name)) > 255 {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrValidation)
	}
	if in.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer_id es requerido", domain.ErrValidation)
	}
	if in.Number < 0 {
		return nil, fmt.Errorf("%w: number no puede ser negativo", domain.ErrValidation)
	}
	start, err := time.Parse(DateLayout, in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date debe tener formato %s", domain.ErrValidation, DateLayout)
	}
	var end *time.Time
	if in.EndDate != "" {
		e, err := time.Parse(DateLayout, in.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: end_date debe tener formato %s", domain.ErrValidation, DateLayout)
		}
		if e.Before(start) {
			return nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrValidation)
		}
		end = &e
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := uc.now()
	project := &entity.Project{
		ID:          uuid.New().String(),
		CompanyID:   sc.CompanyID(),
		CustomerID:  in.CustomerID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		StartDate:   start,
		EndDate:     end,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.withAssignRetry(ctx, "project", func(repos repository.Repos) error {
		customer, err := repos.Customers.GetByID(ctx, sc.CompanyID(), in.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrCustomerNotInTenant
		}
		project.Number = in.Number
		return repos.Projects.Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", project.CompanyID).Int("number", project.Number).Msg("proyecto creado")
	return project, nil
}

// ListProjects lista proyectos de la empresa activa.
func (uc *UseCase) ListProjects(ctx context.Context, sc scope.Scope, page dto.PageRequest) ([]*entity.Project, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.repos.Projects.ListByCompany(ctx, sc.CompanyID(), page.Limit, page.Offset)
}

// GetProject obtiene un proyecto por su número dentro de la empresa activa.
func (uc *UseCase) GetProject(ctx context.Context, sc scope.Scope, number int) (*entity.Project, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	p, err := uc.repos.Projects.GetByNumber(ctx, sc.CompanyID(), number)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// withAssignRetry ejecuta fn en una transacción y la repite una vez si la asignación del
// número secuencial colisionó (ErrTransactionConflict). Cualquier otro error es definitivo.
func (uc *UseCase) withAssignRetry(ctx context.Context, kind string, fn func(repos repository.Repos) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if attempt > 1 && uc.recorder != nil {
			uc.recorder.CatalogConflictRetried(kind)
		}
		err := uc.tx.WithinTx(ctx, fn)
		if err == nil {
			return struct{}{}, nil
		}
		if errors.Is(err, domain.ErrTransactionConflict) {
			uc.log.Warn().Err(err).Str("kind", kind).Int("attempt", attempt).Msg("colisión de número secuencial")
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(assignTries))
	return err
}
