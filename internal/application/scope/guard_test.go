package scope_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/testsupport"
)

type rejections struct{ reasons []string }

func (r *rejections) ScopeRejected(reason string) { r.reasons = append(r.reasons, reason) }

func TestAuthorize_SinIdentidad(t *testing.T) {
	store := testsupport.NewStore()
	rec := &rejections{}
	guard := scope.NewGuard(store.Repos().Profiles, rec, zerolog.Nop())

	_, err := guard.Authorize(context.Background(), scope.Identity{}, scope.OpProjectList)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, []string{scope.ReasonUnauthenticated}, rec.reasons)
}

func TestAuthorize_UsuarioSinPerfil(t *testing.T) {
	store := testsupport.NewStore()
	guard := scope.NewGuard(store.Repos().Profiles, nil, zerolog.Nop())

	_, err := guard.Authorize(context.Background(), scope.Identity{UserID: "borrado"}, scope.OpProfileRead)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthorize_SinEmpresaActiva(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	rec := &rejections{}
	guard := scope.NewGuard(store.Repos().Profiles, rec, zerolog.Nop())

	for _, op := range []string{scope.OpProjectCreate, scope.OpCustomerList, scope.OpTimerStart, scope.OpReportRead, scope.OpDashboard} {
		_, err := guard.Authorize(context.Background(), scope.Identity{UserID: u.ID}, op)
		assert.ErrorIs(t, err, domain.ErrNoActiveCompany, op)
	}
	assert.Len(t, rec.reasons, 5)
	assert.Equal(t, scope.ReasonNoActiveCompany, rec.reasons[0])
}

func TestAuthorize_ListaBlancaSinEmpresa(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	guard := scope.NewGuard(store.Repos().Profiles, nil, zerolog.Nop())

	for _, op := range []string{scope.OpProfileRead, scope.OpCompanyList, scope.OpCompanyCreate, scope.OpCompanySwitch} {
		sc, err := guard.Authorize(context.Background(), scope.Identity{UserID: u.ID}, op)
		require.NoError(t, err, op)
		assert.Equal(t, u.ID, sc.UserID())
		assert.False(t, sc.HasCompany())
		assert.ErrorIs(t, sc.RequireCompany(), domain.ErrNoActiveCompany)
	}
}

func TestAuthorize_EmpresaActiva(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	acme := store.SeedCompany(t, "Acme")
	store.SeedMember(t, acme.ID, u.ID, true, true)
	guard := scope.NewGuard(store.Repos().Profiles, nil, zerolog.Nop())

	sc, err := guard.Authorize(context.Background(), scope.Identity{UserID: u.ID}, scope.OpTimerStart)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, sc.CompanyID())
	assert.True(t, sc.IsAdmin())
	assert.NoError(t, sc.RequireCompany())
}

func TestAuthorize_CambioDeEmpresaSeVeEnLaSiguientePeticion(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	acme := store.SeedCompany(t, "Acme")
	beta := store.SeedCompany(t, "Beta")
	store.SeedMember(t, acme.ID, u.ID, true, true)
	store.SeedMember(t, beta.ID, u.ID, false, false)
	guard := scope.NewGuard(store.Repos().Profiles, nil, zerolog.Nop())

	sc, err := guard.Authorize(context.Background(), scope.Identity{UserID: u.ID}, scope.OpCustomerList)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, sc.CompanyID())

	require.NoError(t, store.Repos().Profiles.SetActiveCompany(context.Background(), u.ID, beta.ID, false))
	sc, err = guard.Authorize(context.Background(), scope.Identity{UserID: u.ID}, scope.OpCustomerList)
	require.NoError(t, err)
	assert.Equal(t, beta.ID, sc.CompanyID())
	assert.False(t, sc.IsAdmin())
}

func TestScope_ValorCeroNoAutenticado(t *testing.T) {
	var sc scope.Scope
	assert.ErrorIs(t, sc.RequireCompany(), domain.ErrUnauthenticated)
}
