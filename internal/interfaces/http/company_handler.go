package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/tenant"
	"github.com/jhoicas/timereg-api/internal/domain"
)

// CompanyHandler empresas del usuario: listado, alta, cambio de empresa activa y miembros.
type CompanyHandler struct {
	dir *tenant.Directory
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(dir *tenant.Directory) *CompanyHandler {
	return &CompanyHandler{dir: dir}
}

// List godoc
// @Summary      Empresas de las que el usuario es miembro
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	sc := GetScope(c)
	list, err := h.dir.ListMemberCompanies(c.UserContext(), sc.UserID())
	if err != nil {
		return respondError(c, err)
	}
	out := dto.CompanyListResponse{Items: make([]dto.CompanyResponse, 0, len(list))}
	for _, co := range list {
		out.Items = append(out.Items, toCompanyResponse(co, sc.CompanyID()))
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear empresa (el usuario queda como administrador y la empresa como activa)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCompanyRequest  true  "name"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	company, err := h.dir.CreateCompany(c.UserContext(), in.Name, GetScope(c).UserID())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCompanyResponse(company, company.ID))
}

// Select godoc
// @Summary      Cambiar la empresa activa
// @Tags         companies
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  dto.SwitchCompanyRequest  true  "company_id"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/select [post]
func (h *CompanyHandler) Select(c *fiber.Ctx) error {
	var in dto.SwitchCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	userID := GetScope(c).UserID()
	if err := h.dir.SwitchActiveCompany(c.UserContext(), userID, in.CompanyID); err != nil {
		return respondError(c, err)
	}
	company, err := h.dir.ResolveActiveCompany(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if company == nil {
		return respondError(c, domain.ErrNotFound)
	}
	return c.JSON(toCompanyResponse(company, company.ID))
}

// Active godoc
// @Summary      Empresa activa
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/active [get]
func (h *CompanyHandler) Active(c *fiber.Ctx) error {
	sc := GetScope(c)
	company, err := h.dir.ResolveActiveCompany(c.UserContext(), sc.UserID())
	if err != nil {
		return respondError(c, err)
	}
	if company == nil {
		return respondError(c, sc.RequireCompany())
	}
	return c.JSON(toCompanyResponse(company, company.ID))
}

// Rename godoc
// @Summary      Renombrar la empresa activa (administradores)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RenameCompanyRequest  true  "name"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/active [put]
func (h *CompanyHandler) Rename(c *fiber.Ctx) error {
	var in dto.RenameCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	company, err := h.dir.RenameCompany(c.UserContext(), GetScope(c), in.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCompanyResponse(company, company.ID))
}

// AddMember godoc
// @Summary      Añadir un usuario existente a la empresa activa (administradores)
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AddMemberRequest  true  "username, is_admin"
// @Success      201   {object}  dto.UserResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/active/members [post]
func (h *CompanyHandler) AddMember(c *fiber.Ctx) error {
	var in dto.AddMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.dir.AddMember(c.UserContext(), GetScope(c), in.Username, in.IsAdmin)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{
		ID: user.ID, Username: user.Username, Email: user.Email, Status: user.Status, CreatedAt: user.CreatedAt,
	})
}
