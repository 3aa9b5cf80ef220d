package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/domain"
)

// SelectCompanyPath destino de redirección cuando falta la empresa activa.
const SelectCompanyPath = "/api/companies/select"

// errorMapping traducción de un error de dominio a respuesta HTTP.
type errorMapping struct {
	err      error
	status   int
	code     string
	redirect string
}

// El orden importa: gana la primera coincidencia. Un usuario duplicado en el registro llega como
// ErrValidation envolviendo ErrDuplicate y debe responder 400; un número explícito repetido es 409.
var errorMappings = []errorMapping{
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED", LoginPath},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", ""},
	{domain.ErrNoActiveCompany, fiber.StatusForbidden, "NO_ACTIVE_COMPANY", SelectCompanyPath},
	{domain.ErrNotAMember, fiber.StatusForbidden, "NOT_A_MEMBER", ""},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", ""},
	{domain.ErrProjectNotInTenant, fiber.StatusNotFound, "PROJECT_NOT_FOUND", ""},
	{domain.ErrCustomerNotInTenant, fiber.StatusNotFound, "CUSTOMER_NOT_FOUND", ""},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND", ""},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrAlreadyRunning, fiber.StatusConflict, "ALREADY_RUNNING", ""},
	{domain.ErrNotRunning, fiber.StatusConflict, "NOT_RUNNING", ""},
	{domain.ErrTransactionConflict, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT", ""},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", ""},
}

// respondError escribe la respuesta de error. Lo no reconocido es 500 y se registra.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: publicMessage(err), Redirect: m.redirect})
		}
	}
	requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// publicMessage quita prefijos técnicos ("insert customer: ...") y deja el mensaje de dominio.
func publicMessage(err error) string {
	msg := err.Error()
	for _, prefix := range []string{"insert customer: ", "insert project: ", "insert time entry: ", "commit transaction: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	return msg
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
