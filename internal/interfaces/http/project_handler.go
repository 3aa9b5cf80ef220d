package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/catalog"
	"github.com/jhoicas/timereg-api/internal/application/dto"
)

// ProjectHandler maneja las peticiones HTTP de proyectos de la empresa activa.
type ProjectHandler struct {
	uc *catalog.UseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *catalog.UseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proyecto en la empresa activa
// @Description  El cliente debe pertenecer a la empresa activa. Sin empresa activa responde 403 con redirect a la selección de empresa.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateProjectRequest  true  "customer_id, number (opcional), name, start_date, end_date"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	project, err := h.uc.CreateProject(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProjectResponse(project))
}

// List GET /api/projects?limit=20&offset=0
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	list, err := h.uc.ListProjects(c.UserContext(), GetScope(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProjectResponses(list))
}

// GetByNumber GET /api/projects/:number
func (h *ProjectHandler) GetByNumber(c *fiber.Ctx) error {
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "número de proyecto inválido"})
	}
	project, err := h.uc.GetProject(c.UserContext(), GetScope(c), number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProjectResponse(project))
}
