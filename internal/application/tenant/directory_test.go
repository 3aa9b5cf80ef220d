package tenant_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/application/tenant"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/testsupport"
)

func newDirectory(store *testsupport.Store) *tenant.Directory {
	return tenant.NewDirectory(store, store.Repos(), zerolog.Nop())
}

func TestCreateCompany_DuenoAdministradorYEmpresaActiva(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	dir := newDirectory(store)

	c, err := dir.CreateCompany(context.Background(), "  Acme  ", u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)

	p := store.Profile(t, u.ID)
	require.NotNil(t, p.ActiveCompanyID)
	assert.Equal(t, c.ID, *p.ActiveCompanyID)
	assert.True(t, p.IsCompanyAdmin)

	m, err := store.Repos().Memberships.Get(context.Background(), c.ID, u.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.IsAdmin)
}

func TestCreateCompany_FalloNoDejaFilas(t *testing.T) {
	store := testsupport.NewStore()
	dir := newDirectory(store)

	// El dueño no existe: la membresía falla después de insertar la empresa.
	_, err := dir.CreateCompany(context.Background(), "Acme", "fantasma")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, 0, store.Count().Companies)
	assert.Equal(t, 0, store.Count().Members)
}

func TestCreateCompany_NombreInvalido(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	dir := newDirectory(store)

	for _, name := range []string{"", "   ", strings.Repeat("x", tenant.MaxNameLength+1)} {
		_, err := dir.CreateCompany(context.Background(), name, u.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Equal(t, 0, store.Count().Companies)
}

func TestSwitchActiveCompany_NoMiembroNoCambiaPerfil(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	acme := store.SeedCompany(t, "Acme")
	beta := store.SeedCompany(t, "Beta")
	store.SeedMember(t, acme.ID, u.ID, true, true)
	dir := newDirectory(store)

	err := dir.SwitchActiveCompany(context.Background(), u.ID, beta.ID)
	require.ErrorIs(t, err, domain.ErrNotAMember)

	p := store.Profile(t, u.ID)
	assert.Equal(t, acme.ID, *p.ActiveCompanyID)
	assert.True(t, p.IsCompanyAdmin)
}

func TestSwitchActiveCompany_ToleraAdminDeLaMembresia(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	acme := store.SeedCompany(t, "Acme")
	beta := store.SeedCompany(t, "Beta")
	store.SeedMember(t, acme.ID, u.ID, true, true)
	store.SeedMember(t, beta.ID, u.ID, false, false)
	dir := newDirectory(store)

	require.NoError(t, dir.SwitchActiveCompany(context.Background(), u.ID, beta.ID))
	p := store.Profile(t, u.ID)
	assert.Equal(t, beta.ID, *p.ActiveCompanyID)
	assert.False(t, p.IsCompanyAdmin)

	active, err := dir.ResolveActiveCompany(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beta", active.Name)
}

func TestSwitchActiveCompany_EntradasInvalidas(t *testing.T) {
	dir := newDirectory(testsupport.NewStore())
	assert.ErrorIs(t, dir.SwitchActiveCompany(context.Background(), "", "x"), domain.ErrUnauthenticated)
	assert.ErrorIs(t, dir.SwitchActiveCompany(context.Background(), "u", ""), domain.ErrValidation)
}

func TestResolveActiveCompany_SinSeleccion(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	c, err := newDirectory(store).ResolveActiveCompany(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestListMemberCompanies_OrdenPorNombre(t *testing.T) {
	store := testsupport.NewStore()
	u := store.SeedUser(t, "ana")
	other := store.SeedUser(t, "bob")
	zeta := store.SeedCompany(t, "Zeta")
	acme := store.SeedCompany(t, "Acme")
	ajena := store.SeedCompany(t, "Ajena")
	store.SeedMember(t, zeta.ID, u.ID, false, true)
	store.SeedMember(t, acme.ID, u.ID, false, false)
	store.SeedMember(t, ajena.ID, other.ID, true, true)

	list, err := newDirectory(store).ListMemberCompanies(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme", list[0].Name)
	assert.Equal(t, "Zeta", list[1].Name)
}

func TestAddMember_SoloAdministrador(t *testing.T) {
	store := testsupport.NewStore()
	admin := store.SeedUser(t, "ana")
	plain := store.SeedUser(t, "bob")
	nuevo := store.SeedUser(t, "carla")
	acme := store.SeedCompany(t, "Acme")
	store.SeedMember(t, acme.ID, admin.ID, true, true)
	store.SeedMember(t, acme.ID, plain.ID, false, true)
	dir := newDirectory(store)

	_, err := dir.AddMember(context.Background(), store.Scope(t, plain.ID, scope.OpMemberAdd), "carla", false)
	require.ErrorIs(t, err, domain.ErrForbidden)

	added, err := dir.AddMember(context.Background(), store.Scope(t, admin.ID, scope.OpMemberAdd), "carla", false)
	require.NoError(t, err)
	assert.Equal(t, nuevo.ID, added.ID)

	// Sin empresa activa previa, la nueva pasa a serlo.
	p := store.Profile(t, nuevo.ID)
	require.NotNil(t, p.ActiveCompanyID)
	assert.Equal(t, acme.ID, *p.ActiveCompanyID)
	assert.False(t, p.IsCompanyAdmin)
}

func TestAddMember_UsuarioDesconocido(t *testing.T) {
	store := testsupport.NewStore()
	admin := store.SeedUser(t, "ana")
	acme := store.SeedCompany(t, "Acme")
	store.SeedMember(t, acme.ID, admin.ID, true, true)

	_, err := newDirectory(store).AddMember(context.Background(), store.Scope(t, admin.ID, scope.OpMemberAdd), "nadie", false)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAddMember_NoCambiaEmpresaActivaExistente(t *testing.T) {
	store := testsupport.NewStore()
	admin := store.SeedUser(t, "ana")
	bob := store.SeedUser(t, "bob")
	acme := store.SeedCompany(t, "Acme")
	beta := store.SeedCompany(t, "Beta")
	store.SeedMember(t, acme.ID, admin.ID, true, true)
	store.SeedMember(t, beta.ID, bob.ID, true, true)

	_, err := newDirectory(store).AddMember(context.Background(), store.Scope(t, admin.ID, scope.OpMemberAdd), "bob", true)
	require.NoError(t, err)
	assert.Equal(t, beta.ID, *store.Profile(t, bob.ID).ActiveCompanyID)
}

func TestRenameCompany(t *testing.T) {
	store := testsupport.NewStore()
	admin := store.SeedUser(t, "ana")
	plain := store.SeedUser(t, "bob")
	acme := store.SeedCompany(t, "Acme")
	store.SeedMember(t, acme.ID, admin.ID, true, true)
	store.SeedMember(t, acme.ID, plain.ID, false, true)
	dir := newDirectory(store)

	_, err := dir.RenameCompany(context.Background(), store.Scope(t, plain.ID, scope.OpCompanyRename), "Otra")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = dir.RenameCompany(context.Background(), store.Scope(t, admin.ID, scope.OpCompanyRename), " ")
	require.ErrorIs(t, err, domain.ErrValidation)

	c, err := dir.RenameCompany(context.Background(), store.Scope(t, admin.ID, scope.OpCompanyRename), "Acme SAS")
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", c.Name)
	assert.Equal(t, acme.ID, c.ID)
}
