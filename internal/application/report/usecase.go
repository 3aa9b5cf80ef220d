// Package report entrega al colaborador de reportes/exportación los registros de tiempo ya
// filtrados por empresa y ordenados por inicio ascendente.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
)

// DateLayout formato de los filtros de fecha.
const DateLayout = "2006-01-02"

// PDFGenerator genera la hoja de horas en PDF a partir del reporte ya calculado.
type PDFGenerator interface {
	GenerateTimesheetPDF(ctx context.Context, report *dto.ReportResponse, from, to string) ([]byte, error)
}

// UseCase casos de uso de reportes.
type UseCase struct {
	repos  repository.Repos
	policy timesheet.Policy
	pdf    PDFGenerator
	now    func() time.Time
}

// NewUseCase construye el caso de uso. pdf puede ser nil si no se exporta.
func NewUseCase(repos repository.Repos, policy timesheet.Policy, pdf PDFGenerator) *UseCase {
	return &UseCase{repos: repos, policy: policy, pdf: pdf, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// ParseFilter convierte la query HTTP en filtro de repositorio. "to" es inclusivo.
func ParseFilter(q dto.ReportQuery) (repository.TimeEntryFilter, error) {
	var f repository.TimeEntryFilter
	if q.From != "" {
		from, err := time.Parse(DateLayout, q.From)
		if err != nil {
			return f, fmt.Errorf("%w: from debe tener formato %s", domain.ErrValidation, DateLayout)
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := time.Parse(DateLayout, q.To)
		if err != nil {
			return f, fmt.Errorf("%w: to debe tener formato %s", domain.ErrValidation, DateLayout)
		}
		to = to.AddDate(0, 0, 1)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, fmt.Errorf("%w: from posterior a to", domain.ErrValidation)
	}
	f.CustomerID = q.CustomerID
	f.ProjectID = q.ProjectID
	return f, nil
}

// Entries construye el reporte de la empresa activa.
func (uc *UseCase) Entries(ctx context.Context, sc scope.Scope, q dto.ReportQuery) (*dto.ReportResponse, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	filter, err := ParseFilter(q)
	if err != nil {
		return nil, err
	}
	company, err := uc.repos.Companies.GetByID(ctx, sc.CompanyID())
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNoActiveCompany
	}
	rows, err := uc.repos.TimeEntries.ListForReport(ctx, sc.CompanyID(), filter)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	out := &dto.ReportResponse{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Rounded:     uc.policy.RoundToStep,
		Lines:       make([]dto.ReportLine, 0, len(rows)),
		TotalHours:  decimal.Zero,
	}
	for _, r := range rows {
		var hours decimal.Decimal
		if r.ElapsedSeconds.Valid {
			hours = uc.policy.HoursFromSeconds(r.ElapsedSeconds.Decimal)
		} else {
			hours = uc.policy.Hours(r.Entry.Elapsed(now))
		}
		out.Lines = append(out.Lines, dto.ReportLine{
			EntryID:        r.Entry.ID,
			Username:       r.Username,
			CustomerNumber: r.CustomerNumber,
			CustomerName:   r.CustomerName,
			ProjectNumber:  r.ProjectNumber,
			ProjectName:    r.ProjectName,
			StartTime:      r.Entry.StartTime,
			EndTime:        r.Entry.EndTime,
			Description:    r.Entry.Description,
			Running:        r.Entry.IsRunning(),
			Hours:          hours,
		})
		out.TotalHours = out.TotalHours.Add(hours)
	}
	return out, nil
}

// ExportPDF genera la hoja de horas en PDF con los mismos filtros.
func (uc *UseCase) ExportPDF(ctx context.Context, sc scope.Scope, q dto.ReportQuery) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportación PDF no configurada")
	}
	rep, err := uc.Entries(ctx, sc, q)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateTimesheetPDF(ctx, rep, q.From, q.To)
}
