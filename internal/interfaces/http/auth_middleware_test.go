package http_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/timereg-api/internal/interfaces/http"
	"github.com/jhoicas/timereg-api/internal/testsupport"
)

// buildTestApp aplicación mínima con AuthMiddleware y un handler que devuelve la identidad.
func buildTestApp(revoker *testsupport.Revoked) *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret, revoker), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"token_id": apphttp.GetTokenID(c),
			"has_exp":  !apphttp.GetTokenExpiry(c).IsZero(),
		})
	})
	return app
}

func get(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	resp := get(t, buildTestApp(nil), tokenFor(t, "u-1", "ana"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "u-1", body["user_id"])
	assert.NotEmpty(t, body["token_id"])
	assert.Equal(t, true, body["has_exp"])
}

func TestAuthMiddleware_SinAuthHeader_Retorna401ConRedirect(t *testing.T) {
	resp := get(t, buildTestApp(nil), "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "MISSING_TOKEN", e.Code)
	assert.Equal(t, apphttp.LoginPath, e.Redirect)
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	for _, h := range []string{"Bearer basura", "Basic abc", "Bearer "} {
		resp := get(t, buildTestApp(nil), h)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, h)
	}
}

func TestAuthMiddleware_TokenRevocado(t *testing.T) {
	revoked := testsupport.NewRevoked()
	app := buildTestApp(revoked)
	token := tokenFor(t, "u-1", "ana")

	resp := get(t, app, token)
	body := decode[map[string]any](t, resp)
	jti, _ := body["token_id"].(string)
	require.NotEmpty(t, jti)

	require.NoError(t, revoked.Revoke(t.Context(), jti, time.Hour))
	resp = get(t, app, token)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_REVOKED", decodeError(t, resp).Code)
}

func TestAuthMiddleware_FalloDelRevocadorRetorna503(t *testing.T) {
	revoked := testsupport.NewRevoked()
	revoked.Err = errors.New("redis caído")

	resp := get(t, buildTestApp(revoked), tokenFor(t, "u-1", "ana"))
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "SESSION_CHECK_FAILED", decodeError(t, resp).Code)
}
