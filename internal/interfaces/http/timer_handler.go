package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/timer"
)

// TimerHandler temporizador del usuario.
type TimerHandler struct {
	m   *timer.Manager
	now func() time.Time
}

// NewTimerHandler construye el handler.
func NewTimerHandler(m *timer.Manager) *TimerHandler {
	return &TimerHandler{m: m, now: time.Now}
}

// Active godoc
// @Summary      Temporizador en curso
// @Tags         timer
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ActiveTimerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/timer [get]
func (h *TimerHandler) Active(c *fiber.Ctx) error {
	sc := GetScope(c)
	entry, err := h.m.ActiveTimerFor(c.UserContext(), sc)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toActiveTimerResponse(entry, sc.CompanyID(), h.m.Policy(), h.now()))
}

// Start godoc
// @Summary      Iniciar temporizador sobre un proyecto
// @Tags         timer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.StartTimerRequest  true  "project_id, description"
// @Success      201   {object}  dto.TimeEntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "ALREADY_RUNNING"
// @Router       /api/timer/start [post]
func (h *TimerHandler) Start(c *fiber.Ctx) error {
	var in dto.StartTimerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProjectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "project_id es requerido"})
	}
	entry, err := h.m.StartTimer(c.UserContext(), GetScope(c), in.ProjectID, in.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTimeEntryResponse(entry, h.m.Policy(), h.now()))
}

// Stop godoc
// @Summary      Detener temporizador
// @Tags         timer
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del registro"
// @Param        body  body  dto.StopTimerRequest   false "description"
// @Success      200   {object}  dto.TimeEntryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "NOT_RUNNING"
// @Router       /api/timer/{id}/stop [post]
func (h *TimerHandler) Stop(c *fiber.Ctx) error {
	var in dto.StopTimerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	entry, err := h.m.StopTimer(c.UserContext(), GetScope(c), c.Params("id"), in.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toTimeEntryResponse(entry, h.m.Policy(), h.now()))
}
