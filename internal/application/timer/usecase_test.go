package timer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/application/timer"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
	"github.com/jhoicas/timereg-api/internal/testsupport"
)

type recorder struct {
	mu       sync.Mutex
	started  int
	stopped  []float64
	rejected []string
}

func (r *recorder) TimerStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recorder) TimerStopped(hours float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = append(r.stopped, hours)
}

func (r *recorder) TimerRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

type fixture struct {
	store   *testsupport.Store
	mgr     *timer.Manager
	rec     *recorder
	clock   *clock
	user    *entity.User
	sc      scope.Scope
	project *entity.Project
	foreign *entity.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testsupport.NewStore()
	ana := store.SeedUser(t, "ana")
	bob := store.SeedUser(t, "bob")
	acme := store.SeedCompany(t, "Acme")
	beta := store.SeedCompany(t, "Beta")
	store.SeedMember(t, acme.ID, ana.ID, false, true)
	store.SeedMember(t, beta.ID, bob.ID, true, true)
	project := store.SeedProject(t, acme.ID, store.SeedCustomer(t, acme.ID, "Cliente Acme").ID, "Web")
	foreign := store.SeedProject(t, beta.ID, store.SeedCustomer(t, beta.ID, "Cliente Beta").ID, "Ajeno")

	rec := &recorder{}
	clk := &clock{now: testsupport.Epoch}
	mgr := timer.NewManager(store, store.Repos(), timesheet.Policy{RoundToStep: true}, rec, zerolog.Nop()).WithClock(clk.Now)
	return &fixture{
		store: store, mgr: mgr, rec: rec, clock: clk, user: ana,
		sc:      store.Scope(t, ana.ID, scope.OpTimerStart),
		project: project, foreign: foreign,
	}
}

func TestStartTimer_CreaRegistroEnCurso(t *testing.T) {
	f := newFixture(t)

	e, err := f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "  análisis ")
	require.NoError(t, err)
	assert.True(t, e.IsRunning())
	assert.Equal(t, f.sc.CompanyID(), e.CompanyID)
	assert.Equal(t, f.user.ID, e.UserID)
	assert.Equal(t, "análisis", e.Description)
	assert.Equal(t, testsupport.Epoch, e.StartTime)
	assert.Equal(t, 1, f.rec.started)

	active, err := f.mgr.ActiveTimerFor(context.Background(), f.sc)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, e.ID, active.ID)
}

func TestStartTimer_YaHayUnoEnCurso(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
	require.NoError(t, err)

	_, err = f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
	require.ErrorIs(t, err, domain.ErrAlreadyRunning)
	assert.Len(t, f.store.Entries(f.user.ID), 1)
	assert.Equal(t, []string{"already_running"}, f.rec.rejected)
}

func TestTimer_EnCursoEnOtraEmpresaEsElMismoEstado(t *testing.T) {
	f := newFixture(t)
	gamma := f.store.SeedCompany(t, "Gamma")
	f.store.SeedMember(t, gamma.ID, f.user.ID, false, false)
	gammaProject := f.store.SeedProject(t, gamma.ID, f.store.SeedCustomer(t, gamma.ID, "Cliente Gamma").ID, "Gamma")
	running := f.store.SeedEntry(t, gamma.ID, f.user.ID, gammaProject.ID, testsupport.Epoch.Add(-time.Hour), nil)

	// El usuario está en curso aunque su empresa activa sea Acme.
	_, err := f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
	require.ErrorIs(t, err, domain.ErrAlreadyRunning)

	active, err := f.mgr.ActiveTimerFor(context.Background(), f.sc)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, running.ID, active.ID)
	assert.Equal(t, gamma.ID, active.CompanyID)

	stopped, err := f.mgr.StopTimer(context.Background(), f.sc, running.ID, "cerrado desde Acme")
	require.NoError(t, err)
	assert.False(t, stopped.IsRunning())

	active, err = f.mgr.ActiveTimerFor(context.Background(), f.sc)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
	require.NoError(t, err)
}

func TestStartTimer_ConcurrenteSoloUnoGana(t *testing.T) {
	f := newFixture(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, f.store.Entries(f.user.ID), 1)
}

func TestStartTimer_ProyectoDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.StartTimer(context.Background(), f.sc, f.foreign.ID, "")
	require.ErrorIs(t, err, domain.ErrProjectNotInTenant)
	assert.Empty(t, f.store.Entries(f.user.ID))
	assert.Equal(t, 0, f.rec.started)
}

func TestStartTimer_ProyectoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.StartTimer(context.Background(), f.sc, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrProjectNotInTenant)
}

func TestStartTimer_SinEmpresaActiva(t *testing.T) {
	f := newFixture(t)
	sinEmpresa := f.store.SeedUser(t, "carla")
	sc := f.store.Scope(t, sinEmpresa.ID, scope.OpProfileRead)

	_, err := f.mgr.StartTimer(context.Background(), sc, f.project.ID, "")
	require.ErrorIs(t, err, domain.ErrNoActiveCompany)
	assert.Empty(t, f.store.Entries(sinEmpresa.ID))
}

func TestStopTimer_FijaFinYDescripcion(t *testing.T) {
	f := newFixture(t)
	e, err := f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "inicio")
	require.NoError(t, err)

	f.clock.now = testsupport.Epoch.Add(7*time.Minute + 30*time.Second)
	stopped, err := f.mgr.StopTimer(context.Background(), f.sc, e.ID, "terminado")
	require.NoError(t, err)
	require.NotNil(t, stopped.EndTime)
	assert.Equal(t, f.clock.now, *stopped.EndTime)
	assert.Equal(t, "terminado", stopped.Description)

	// 450 s con redondeo -> 600 s -> 0.17 h
	require.Len(t, f.rec.stopped, 1)
	assert.InDelta(t, 0.17, f.rec.stopped[0], 1e-9)
	assert.True(t, decimal.RequireFromString("0.17").Equal(f.mgr.Policy().Hours(stopped.Elapsed(f.clock.now))))

	active, err := f.mgr.ActiveTimerFor(context.Background(), f.sc)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestStopTimer_DobleDetencionNoCambiaFin(t *testing.T) {
	f := newFixture(t)
	e, err := f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
	require.NoError(t, err)

	f.clock.now = testsupport.Epoch.Add(time.Hour)
	_, err = f.mgr.StopTimer(context.Background(), f.sc, e.ID, "primera")
	require.NoError(t, err)

	f.clock.now = testsupport.Epoch.Add(2 * time.Hour)
	_, err = f.mgr.StopTimer(context.Background(), f.sc, e.ID, "segunda")
	require.ErrorIs(t, err, domain.ErrNotRunning)

	entries := f.store.Entries(f.user.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, testsupport.Epoch.Add(time.Hour), *entries[0].EndTime)
	assert.Equal(t, "primera", entries[0].Description)
}

func TestStopTimer_RegistroDeOtroUsuario(t *testing.T) {
	f := newFixture(t)
	e, err := f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
	require.NoError(t, err)

	colega := f.store.SeedUser(t, "dora")
	f.store.SeedMember(t, f.sc.CompanyID(), colega.ID, false, true)
	_, err = f.mgr.StopTimer(context.Background(), f.store.Scope(t, colega.ID, scope.OpTimerStop), e.ID, "")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.store.Entries(f.user.ID)[0].IsRunning())
}

func TestStopTimer_RelojAtrasadoNoDejaFinAnteriorAlInicio(t *testing.T) {
	f := newFixture(t)
	e, err := f.mgr.StartTimer(context.Background(), f.sc, f.project.ID, "")
	require.NoError(t, err)

	f.clock.now = testsupport.Epoch.Add(-time.Minute)
	stopped, err := f.mgr.StopTimer(context.Background(), f.sc, e.ID, "")
	require.NoError(t, err)
	assert.Equal(t, e.StartTime, *stopped.EndTime)
}
