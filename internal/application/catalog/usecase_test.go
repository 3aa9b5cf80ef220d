package catalog_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/testsupport"
)

type fixture struct {
	store   *testsupport.Store
	uc      *catalog.UseCase
	retries *retryRecorder
	acme    scope.Scope
	beta    scope.Scope
}

type retryRecorder struct{ kinds []string }

func (r *retryRecorder) CatalogConflictRetried(kind string) { r.kinds = append(r.kinds, kind) }

// newFixture dos empresas, Acme y Beta, cada una con su propio usuario activo.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testsupport.NewStore()
	ana := store.SeedUser(t, "ana")
	bob := store.SeedUser(t, "bob")
	acme := store.SeedCompany(t, "Acme")
	beta := store.SeedCompany(t, "Beta")
	store.SeedMember(t, acme.ID, ana.ID, true, true)
	store.SeedMember(t, beta.ID, bob.ID, true, true)
	retries := &retryRecorder{}
	return &fixture{
		store:   store,
		retries: retries,
		uc:      catalog.NewUseCase(store, store.Repos(), zerolog.Nop()).WithRecorder(retries),
		acme:    store.Scope(t, ana.ID, scope.OpCustomerCreate),
		beta:    store.Scope(t, bob.ID, scope.OpCustomerCreate),
	}
}

func TestCreateCustomer_NumeracionPorEmpresa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1, err := f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Name: "Cliente A1"})
	require.NoError(t, err)
	b1, err := f.uc.CreateCustomer(ctx, f.beta, dto.CreateCustomerRequest{Name: "Cliente B1"})
	require.NoError(t, err)
	a2, err := f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Name: "Cliente A2"})
	require.NoError(t, err)

	assert.Equal(t, 1, a1.Number)
	assert.Equal(t, 1, b1.Number)
	assert.Equal(t, 2, a2.Number)
	assert.Equal(t, f.acme.CompanyID(), a1.CompanyID)
	assert.Equal(t, f.beta.CompanyID(), b1.CompanyID)
}

func TestCreateCustomer_NumeroExplicitoDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Number: 7, Name: "Siete"})
	require.NoError(t, err)
	_, err = f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Number: 7, Name: "Otro siete"})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// El mismo número en otra empresa es válido.
	_, err = f.uc.CreateCustomer(ctx, f.beta, dto.CreateCustomerRequest{Number: 7, Name: "Siete Beta"})
	require.NoError(t, err)

	next, err := f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Name: "Siguiente"})
	require.NoError(t, err)
	assert.Equal(t, 8, next.Number)
}

func TestCreateCustomer_ReintentaUnaVezAnteColision(t *testing.T) {
	f := newFixture(t)
	f.store.AutoNumberConflicts = 1

	c, err := f.uc.CreateCustomer(context.Background(), f.acme, dto.CreateCustomerRequest{Name: "Reintento"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Number)
	assert.Equal(t, 1, f.store.Count().Customers)
	assert.Equal(t, []string{"customer"}, f.retries.kinds)
}

func TestCreateCustomer_SegundaColisionSeDevuelve(t *testing.T) {
	f := newFixture(t)
	f.store.AutoNumberConflicts = 2

	_, err := f.uc.CreateCustomer(context.Background(), f.acme, dto.CreateCustomerRequest{Name: "Sin suerte"})
	require.ErrorIs(t, err, domain.ErrTransactionConflict)
	assert.Equal(t, 0, f.store.Count().Customers)
	assert.Equal(t, []string{"customer"}, f.retries.kinds)
}

func TestCreateCustomer_Validaciones(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		in   dto.CreateCustomerRequest
	}{
		{"sin nombre", dto.CreateCustomerRequest{Name: "  "}},
		{"email inválido", dto.CreateCustomerRequest{Name: "X", Email: "no-es-email"}},
		{"número negativo", dto.CreateCustomerRequest{Name: "X", Number: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateCustomer(context.Background(), f.acme, tc.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateCustomer_SinEmpresaActiva(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	uc := catalog.NewUseCase(store, store.Repos(), zerolog.Nop())

	// Un alcance de la lista blanca no tiene empresa: el servicio lo rechaza igualmente.
	sc := store.Scope(t, u.ID, scope.OpProfileRead)
	_, err := uc.CreateCustomer(context.Background(), sc, dto.CreateCustomerRequest{Name: "X"})
	require.ErrorIs(t, err, domain.ErrNoActiveCompany)
	assert.Equal(t, 0, store.Count().Customers)
}

func TestGetCustomer_NoVeOtrasEmpresas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.CreateCustomer(ctx, f.beta, dto.CreateCustomerRequest{Name: "Solo Beta"})
	require.NoError(t, err)

	_, err = f.uc.GetCustomer(ctx, f.acme, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c, err := f.uc.GetCustomer(ctx, f.beta, 1)
	require.NoError(t, err)
	assert.Equal(t, "Solo Beta", c.Name)

	list, err := f.uc.ListCustomers(ctx, f.acme, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateProject_ClienteDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ajeno, err := f.uc.CreateCustomer(ctx, f.beta, dto.CreateCustomerRequest{Name: "Cliente Beta"})
	require.NoError(t, err)

	_, err = f.uc.CreateProject(ctx, f.acme, dto.CreateProjectRequest{
		CustomerID: ajeno.ID, Name: "Intruso", StartDate: "2026-03-01",
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotInTenant)
	assert.Equal(t, 0, f.store.Count().Projects)
}

func TestCreateProject_NumeracionYFechas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust, err := f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Name: "Cliente"})
	require.NoError(t, err)

	p1, err := f.uc.CreateProject(ctx, f.acme, dto.CreateProjectRequest{
		CustomerID: cust.ID, Name: "Web", StartDate: "2026-03-01", EndDate: "2026-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, p1.Number)
	assert.True(t, p1.IsActive)
	require.NotNil(t, p1.EndDate)

	inactive := false
	p2, err := f.uc.CreateProject(ctx, f.acme, dto.CreateProjectRequest{
		CustomerID: cust.ID, Name: "App", StartDate: "2026-03-01", IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p2.Number)
	assert.False(t, p2.IsActive)

	got, err := f.uc.GetProject(ctx, f.acme, 2)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, got.ID)

	_, err = f.uc.GetProject(ctx, f.beta, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProject_FechasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust, err := f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Name: "Cliente"})
	require.NoError(t, err)

	_, err = f.uc.CreateProject(ctx, f.acme, dto.CreateProjectRequest{CustomerID: cust.ID, Name: "X", StartDate: "01/03/2026"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.CreateProject(ctx, f.acme, dto.CreateProjectRequest{
		CustomerID: cust.ID, Name: "X", StartDate: "2026-03-10", EndDate: "2026-03-01",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateProject_ReintentaUnaVezAnteColision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cust, err := f.uc.CreateCustomer(ctx, f.acme, dto.CreateCustomerRequest{Name: "Cliente"})
	require.NoError(t, err)
	f.store.AutoNumberConflicts = 1

	p, err := f.uc.CreateProject(ctx, f.acme, dto.CreateProjectRequest{CustomerID: cust.ID, Name: "Web", StartDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, []string{"project"}, f.retries.kinds)
}
