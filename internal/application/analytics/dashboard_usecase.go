// Package analytics contiene el resumen de la página principal: proyectos, clientes,
// temporizador en curso y horas del usuario en la empresa activa.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
)

const dashboardListLimit = 10 // elementos por lista en el dashboard

// Summary datos del dashboard, sin formato de presentación.
type Summary struct {
	Company    *entity.Company
	Projects   []*entity.Project
	Customers  []*entity.Customer
	Running    *entity.TimeEntry
	TodayHours decimal.Decimal
	MonthHours decimal.Decimal
	DateLabel  string
}

// DashboardUseCase genera el resumen de la empresa activa para el usuario del alcance.
// Solo lecturas; todas filtradas por la empresa del alcance.
type DashboardUseCase struct {
	repos  repository.Repos
	policy timesheet.Policy
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Repos, policy timesheet.Policy) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, policy: policy, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el Summary.
//
// Cuatro lecturas en paralelo:
//  1. Proyectos de la empresa
//  2. Clientes de la empresa
//  3. Temporizador en curso del usuario
//  4. Registros del usuario en el mes (horas de hoy y del mes)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, sc scope.Scope) (*Summary, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	company, err := uc.repos.Companies.GetByID(ctx, sc.CompanyID())
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNoActiveCompany
	}

	now := uc.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	type projectsResult struct {
		list []*entity.Project
		err  error
	}
	type customersResult struct {
		list []*entity.Customer
		err  error
	}
	type runningResult struct {
		entry *entity.TimeEntry
		err   error
	}
	type entriesResult struct {
		rows []*repository.TimeEntryRow
		err  error
	}

	projectsCh := make(chan projectsResult, 1)
	customersCh := make(chan customersResult, 1)
	runningCh := make(chan runningResult, 1)
	entriesCh := make(chan entriesResult, 1)

	go func() {
		list, err := uc.repos.Projects.ListByCompany(ctx, sc.CompanyID(), dashboardListLimit, 0)
		projectsCh <- projectsResult{list, err}
	}()
	go func() {
		list, err := uc.repos.Customers.ListByCompany(ctx, sc.CompanyID(), dashboardListLimit, 0)
		customersCh <- customersResult{list, err}
	}()
	go func() {
		e, err := uc.repos.TimeEntries.GetRunning(ctx, sc.UserID())
		runningCh <- runningResult{e, err}
	}()
	go func() {
		rows, err := uc.repos.TimeEntries.ListForReport(ctx, sc.CompanyID(), repository.TimeEntryFilter{
			From: &monthStart, To: &monthEnd, UserID: sc.UserID(),
		})
		entriesCh <- entriesResult{rows, err}
	}()

	projects := <-projectsCh
	customers := <-customersCh
	running := <-runningCh
	entries := <-entriesCh

	if projects.err != nil {
		return nil, fmt.Errorf("dashboard: proyectos: %w", projects.err)
	}
	if customers.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", customers.err)
	}
	if running.err != nil {
		return nil, fmt.Errorf("dashboard: temporizador: %w", running.err)
	}
	if entries.err != nil {
		return nil, fmt.Errorf("dashboard: registros del mes: %w", entries.err)
	}

	out := &Summary{
		Company:    company,
		Projects:   projects.list,
		Customers:  customers.list,
		Running:    running.entry,
		TodayHours: decimal.Zero,
		MonthHours: decimal.Zero,
		DateLabel:  monthLabel(now),
	}
	for _, r := range entries.rows {
		var h decimal.Decimal
		if r.ElapsedSeconds.Valid {
			h = uc.policy.HoursFromSeconds(r.ElapsedSeconds.Decimal)
		} else {
			h = uc.policy.Hours(r.Entry.Elapsed(now))
		}
		out.MonthHours = out.MonthHours.Add(h)
		if !r.Entry.StartTime.Before(todayStart) {
			out.TodayHours = out.TodayHours.Add(h)
		}
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
