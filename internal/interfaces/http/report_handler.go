package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/report"
)

// ReportHandler reportes de horas de la empresa activa.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Entries godoc
// @Summary      Registros de tiempo de la empresa activa
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from         query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        to           query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        customer_id  query  string  false  "cliente"
// @Param        project_id   query  string  false  "proyecto"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/entries [get]
func (h *ReportHandler) Entries(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Entries(c.UserContext(), GetScope(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Hoja de horas en PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        from         query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        to           query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        customer_id  query  string  false  "cliente"
// @Param        project_id   query  string  false  "proyecto"
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/entries.pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	pdf, err := h.uc.ExportPDF(c.UserContext(), GetScope(c), q)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, pdfFilename(q)))
	return c.Send(pdf)
}

func pdfFilename(q dto.ReportQuery) string {
	switch {
	case q.From != "" && q.To != "":
		return "horas_" + q.From + "_" + q.To + ".pdf"
	case q.From != "":
		return "horas_desde_" + q.From + ".pdf"
	}
	return "horas.pdf"
}
