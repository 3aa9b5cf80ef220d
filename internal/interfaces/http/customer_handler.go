package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes de la empresa activa.
type CustomerHandler struct {
	uc *catalog.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *catalog.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente en la empresa activa
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCustomerRequest  true  "number (opcional), name, email"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.CreateCustomer(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(customer))
}

// List GET /api/customers?limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	list, err := h.uc.ListCustomers(c.UserContext(), GetScope(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCustomerResponses(list))
}

// GetByNumber GET /api/customers/:number
func (h *CustomerHandler) GetByNumber(c *fiber.Ctx) error {
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de cliente inválido"})
	}
	customer, err := h.uc.GetCustomer(c.UserContext(), GetScope(c), number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCustomerResponse(customer))
}
