package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/pkg/jwt"
)

// Locals keys de la identidad autenticada en Fiber.
// La empresa activa no se guarda aquí: la resuelve RequireScope en cada petición.
const (
	LocalUserID    = "user_id"
	LocalUsername  = "username"
	LocalTokenID   = "token_id"
	LocalTokenExp  = "token_exp"
	localScope     = "scope"
	localRequestID = "request_id"
)

// LoginPath destino de redirección cuando falta la sesión.
const LoginPath = "/api/auth/login"

// AuthMiddleware valida el Bearer Token JWT y carga la identidad en c.Locals.
// revoker puede ser nil (sin logout del lado servidor).
func AuthMiddleware(jwtSecret string, revoker ports.TokenRevoker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vacío")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		if revoker != nil {
			revoked, err := revoker.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				requestLogger(c).Error().Err(err).Msg("consulta de revocación")
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code: "SESSION_CHECK_FAILED", Message: "no se pudo verificar la sesión, intente más tarde",
				})
			}
			if revoked {
				return unauthorized(c, "TOKEN_REVOKED", "la sesión fue cerrada")
			}
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Locals(LocalTokenExp, claims.ExpiresAt.Time)
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg, Redirect: LoginPath})
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetTokenID devuelve el jti del token de la petición.
func GetTokenID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalTokenID).(string)
	return s
}

// GetTokenExpiry devuelve la expiración del token de la petición (cero si no hay).
func GetTokenExpiry(c *fiber.Ctx) time.Time {
	t, _ := c.Locals(LocalTokenExp).(time.Time)
	return t
}
