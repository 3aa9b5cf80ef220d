package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

// Querier abstrae *pgxpool.Pool y pgx.Tx para que los repositorios funcionen dentro o fuera
// de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Companies:   NewCompanyRepository(q),
		Memberships: NewMembershipRepository(q),
		Users:       NewUserRepository(q),
		Profiles:    NewProfileRepository(q),
		Customers:   NewCustomerRepository(q),
		Projects:    NewProjectRepository(q),
		TimeEntries: NewTimeEntryRepository(q),
	}
}
