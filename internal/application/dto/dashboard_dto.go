package dto

import "github.com/shopspring/decimal"

// DashboardResponse página principal: proyectos, clientes y temporizador de la empresa activa.
type DashboardResponse struct {
	Company    CompanyResponse     `json:"company"`
	Projects   []*ProjectResponse  `json:"projects"`
	Customers  []*CustomerResponse `json:"customers"`
	Timer      ActiveTimerResponse `json:"timer"`
	TodayHours decimal.Decimal     `json:"today_hours"`
	MonthHours decimal.Decimal     `json:"month_hours"`
	DateLabel  string              `json:"date_label"`
}
