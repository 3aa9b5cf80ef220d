package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/timereg-api/internal/application/analytics"
	"github.com/jhoicas/timereg-api/internal/application/auth"
	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/report"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/application/tenant"
	"github.com/jhoicas/timereg-api/internal/application/timer"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
	"github.com/jhoicas/timereg-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/timereg-api/internal/interfaces/http"
	"github.com/jhoicas/timereg-api/internal/testsupport"
	pkgjwt "github.com/jhoicas/timereg-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "timereg-test"
	testExpMin    = 60
)

type testServer struct {
	app     *fiber.App
	store   *testsupport.Store
	revoked *testsupport.Revoked
	outbox  *testsupport.Outbox
	reg     *prometheus.Registry
}

// newTestServer arma la API completa sobre el almacén en memoria.
func newTestServer(t *testing.T, authRate int) *testServer {
	t.Helper()
	store := testsupport.NewStore()
	repos := store.Repos()
	log := zerolog.Nop()
	policy := timesheet.Policy{RoundToStep: true}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	revoked := testsupport.NewRevoked()
	outbox := &testsupport.Outbox{}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(auth.Deps{
			Tx: store, Repos: repos, Codes: testsupport.NewResetCodes(), Notifier: outbox, Revoker: revoked,
		}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log),
		Directory:   tenant.NewDirectory(store, repos, log),
		Catalog:     catalog.NewUseCase(store, repos, log).WithRecorder(m),
		Timer:       timer.NewManager(store, repos, policy, m, log),
		Reports:     report.NewUseCase(repos, policy, nil),
		DashboardUC: analytics.NewDashboardUseCase(repos, policy),
		Guard:       scope.NewGuard(repos.Profiles, m, log),
		Policy:      policy,
		Revoker:     revoked,
		Gatherer:    reg,
		JWTSecret:   testJWTSecret,
		AuthRate:    authRate,
	})
	return &testServer{app: app, store: store, revoked: revoked, outbox: outbox, reg: reg}
}

// tokenFor genera un Bearer válido para el usuario.
func tokenFor(t *testing.T, userID, username string) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(testJWTSecret, userID, username, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func (s *testServer) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp)
}
