//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
	"github.com/jhoicas/timereg-api/pkg/config"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("timereg"),
		postgrescontainer.WithUsername("timereg"),
		postgrescontainer.WithPassword("timereg"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: connStr, MaxConns: 5, MinConns: 1, ApplicationName: "timereg-test"})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

type seed struct {
	user     *entity.User
	company  *entity.Company
	customer *entity.Customer
	project  *entity.Project
}

func seedTenant(t *testing.T, repos repository.Repos, name string) seed {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	u := &entity.User{ID: uuid.NewString(), Username: "user-" + name, Email: name + "@example.com",
		PasswordHash: "x", Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Users.Create(ctx, u))
	require.NoError(t, repos.Profiles.Create(ctx, &entity.UserProfile{UserID: u.ID, UpdatedAt: now}))

	c := &entity.Company{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Companies.Create(ctx, c))
	require.NoError(t, repos.Memberships.Add(ctx, &entity.Membership{CompanyID: c.ID, UserID: u.ID, IsAdmin: true, JoinedAt: now}))
	require.NoError(t, repos.Profiles.SetActiveCompany(ctx, u.ID, c.ID, true))

	cust := &entity.Customer{ID: uuid.NewString(), CompanyID: c.ID, Name: "Cliente " + name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Customers.Create(ctx, cust))
	p := &entity.Project{ID: uuid.NewString(), CompanyID: c.ID, CustomerID: cust.ID, Name: "Proyecto " + name,
		StartDate: now.Truncate(24 * time.Hour), IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Projects.Create(ctx, p))
	return seed{user: u, company: c, customer: cust, project: p}
}

func TestRepositories_AislamientoYRestricciones(t *testing.T) {
	pool := startPostgres(t)
	repos := NewRepos(pool)
	ctx := context.Background()

	acme := seedTenant(t, repos, "acme")
	beta := seedTenant(t, repos, "beta")

	t.Run("numeración por empresa", func(t *testing.T) {
		assert.Equal(t, 1, acme.customer.Number)
		assert.Equal(t, 1, beta.customer.Number)
		assert.Equal(t, 1, acme.project.Number)
	})

	t.Run("número explícito duplicado", func(t *testing.T) {
		dup := &entity.Customer{ID: uuid.NewString(), CompanyID: acme.company.ID, Number: 1, Name: "Dup"}
		err := repos.Customers.Create(ctx, dup)
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("lecturas con alcance de empresa", func(t *testing.T) {
		got, err := repos.Customers.GetByID(ctx, beta.company.ID, acme.customer.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repos.Customers.GetByID(ctx, acme.company.ID, "no-es-uuid")
		require.NoError(t, err)
		assert.Nil(t, got)

		p, err := repos.Projects.GetByNumber(ctx, acme.company.ID, 1)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, acme.project.ID, p.ID)
	})

	t.Run("proyecto con cliente de otra empresa", func(t *testing.T) {
		p := &entity.Project{ID: uuid.NewString(), CompanyID: acme.company.ID, CustomerID: beta.customer.ID,
			Name: "Intruso", StartDate: time.Now().UTC()}
		assert.ErrorIs(t, repos.Projects.Create(ctx, p), domain.ErrCustomerNotInTenant)
	})

	t.Run("registro con proyecto de otra empresa", func(t *testing.T) {
		e := &entity.TimeEntry{ID: uuid.NewString(), CompanyID: acme.company.ID, UserID: acme.user.ID,
			ProjectID: beta.project.ID, StartTime: time.Now().UTC()}
		assert.ErrorIs(t, repos.TimeEntries.Create(ctx, e), domain.ErrProjectNotInTenant)
	})

	t.Run("un solo temporizador en curso por usuario", func(t *testing.T) {
		start := time.Now().UTC().Add(-10 * time.Minute)
		first := &entity.TimeEntry{ID: uuid.NewString(), CompanyID: acme.company.ID, UserID: acme.user.ID,
			ProjectID: acme.project.ID, StartTime: start}
		require.NoError(t, repos.TimeEntries.Create(ctx, first))

		second := &entity.TimeEntry{ID: uuid.NewString(), CompanyID: acme.company.ID, UserID: acme.user.ID,
			ProjectID: acme.project.ID, StartTime: start.Add(time.Minute)}
		assert.ErrorIs(t, repos.TimeEntries.Create(ctx, second), domain.ErrAlreadyRunning)

		running, err := repos.TimeEntries.GetRunning(ctx, acme.user.ID)
		require.NoError(t, err)
		require.NotNil(t, running)
		assert.Equal(t, first.ID, running.ID)

		other, err := repos.TimeEntries.GetRunning(ctx, beta.user.ID)
		require.NoError(t, err)
		assert.Nil(t, other)

		ajeno, err := repos.TimeEntries.GetForUpdate(ctx, beta.user.ID, first.ID)
		require.NoError(t, err)
		assert.Nil(t, ajeno)

		end := start.Add(7*time.Minute + 30*time.Second)
		require.NoError(t, repos.TimeEntries.Stop(ctx, first.ID, end, "hecho"))
		assert.ErrorIs(t, repos.TimeEntries.Stop(ctx, first.ID, end.Add(time.Hour), "otra vez"), domain.ErrNotRunning)

		rows, err := repos.TimeEntries.ListForReport(ctx, acme.company.ID, repository.TimeEntryFilter{})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.True(t, rows[0].ElapsedSeconds.Valid)
		assert.Equal(t, "450", rows[0].ElapsedSeconds.Decimal.Round(0).String())
		assert.Equal(t, "hecho", rows[0].Entry.Description)
		assert.Equal(t, acme.customer.Name, rows[0].CustomerName)

		rows, err = repos.TimeEntries.ListForReport(ctx, beta.company.ID, repository.TimeEntryFilter{})
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestTxRunner_RollbackDeshaceTodo(t *testing.T) {
	pool := startPostgres(t)
	runner := NewTxRunner(pool)
	repos := NewRepos(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	companyID := uuid.NewString()
	err := runner.WithinTx(ctx, func(tx repository.Repos) error {
		if err := tx.Companies.Create(ctx, &entity.Company{ID: companyID, Name: "Efímera", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		// El usuario no existe: la membresía viola la FK y aborta la transacción.
		return tx.Memberships.Add(ctx, &entity.Membership{CompanyID: companyID, UserID: uuid.NewString(), JoinedAt: now})
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	c, err := repos.Companies.GetByID(ctx, companyID)
	require.NoError(t, err)
	assert.Nil(t, c)
}
