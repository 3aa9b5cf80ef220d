package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/scope"
)

// scopeAuthorizer es el contrato mínimo que necesita el middleware; lo implementa *scope.Guard.
type scopeAuthorizer interface {
	Authorize(ctx context.Context, id scope.Identity, op string) (scope.Scope, error)
}

// RequireScope autoriza la operación op con el guardián y deja el Scope en c.Locals.
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 + redirect a login si no hay identidad.
//   - 403 NO_ACTIVE_COMPANY + redirect a selección de empresa si la operación la necesita.
func RequireScope(guard scopeAuthorizer, op string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sc, err := guard.Authorize(c.UserContext(), scope.Identity{UserID: GetUserID(c)}, op)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(localScope, sc)
		return c.Next()
	}
}

// GetScope devuelve el alcance autorizado de la petición. Sin RequireScope es un Scope vacío,
// que cualquier caso de uso rechaza.
func GetScope(c *fiber.Ctx) scope.Scope {
	sc, _ := c.Locals(localScope).(scope.Scope)
	return sc
}
