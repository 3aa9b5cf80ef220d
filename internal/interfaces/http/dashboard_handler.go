package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/analytics"
	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
)

// DashboardHandler maneja la página principal de la empresa activa.
type DashboardHandler struct {
	uc     *analytics.DashboardUseCase
	policy timesheet.Policy
	now    func() time.Time
}

// NewDashboardHandler construye el handler. policy se usa para las horas del temporizador en curso.
func NewDashboardHandler(uc *analytics.DashboardUseCase, policy timesheet.Policy) *DashboardHandler {
	return &DashboardHandler{uc: uc, policy: policy, now: time.Now}
}

// GetSummary godoc
// @Summary      Resumen de la empresa activa
// @Description  Proyectos y clientes recientes, temporizador en curso y horas del usuario hoy y en el mes.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	s, err := h.uc.GetSummary(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DashboardResponse{
		Company:    toCompanyResponse(s.Company, s.Company.ID),
		Projects:   toProjectResponses(s.Projects),
		Customers:  toCustomerResponses(s.Customers),
		Timer:      toActiveTimerResponse(s.Running, s.Company.ID, h.policy, h.now()),
		TodayHours: s.TodayHours,
		MonthHours: s.MonthHours,
		DateLabel:  s.DateLabel,
	})
}
