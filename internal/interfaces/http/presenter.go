package http

import (
	"time"

	"github.com/jhoicas/timereg-api/internal/application/dto"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
)

const dateLayout = "2006-01-02"

func toCompanyResponse(c *entity.Company, activeID string) dto.CompanyResponse {
	return dto.CompanyResponse{ID: c.ID, Name: c.Name, Active: c.ID == activeID, CreatedAt: c.CreatedAt}
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Number:    c.Number,
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

func toCustomerResponses(list []*entity.Customer) []*dto.CustomerResponse {
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	out := &dto.ProjectResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		CustomerID:  p.CustomerID,
		Number:      p.Number,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate.Format(dateLayout),
		IsActive:    p.IsActive,
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(dateLayout)
		out.EndDate = &end
	}
	return out
}

func toProjectResponses(list []*entity.Project) []*dto.ProjectResponse {
	out := make([]*dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	return out
}

func toTimeEntryResponse(e *entity.TimeEntry, policy timesheet.Policy, now time.Time) *dto.TimeEntryResponse {
	return &dto.TimeEntryResponse{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		ProjectID:   e.ProjectID,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Description: e.Description,
		Running:     e.IsRunning(),
		Hours:       policy.Hours(e.Elapsed(now)),
	}
}

func toActiveTimerResponse(e *entity.TimeEntry, activeCompanyID string, policy timesheet.Policy, now time.Time) dto.ActiveTimerResponse {
	if e == nil {
		return dto.ActiveTimerResponse{Running: false}
	}
	out := dto.ActiveTimerResponse{
		Running:         true,
		InActiveCompany: e.CompanyID == activeCompanyID,
		Entry:           toTimeEntryResponse(e, policy, now),
	}
	if !out.InActiveCompany {
		out.Redirect = SelectCompanyPath
	}
	return out
}
