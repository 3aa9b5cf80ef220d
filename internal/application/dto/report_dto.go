package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportQuery filtros del reporte (fechas YYYY-MM-DD, ambas inclusivas).
type ReportQuery struct {
	From       string `query:"from"`
	To         string `query:"to"`
	CustomerID string `query:"customer_id"`
	ProjectID  string `query:"project_id"`
}

// ReportLine una línea del reporte de horas.
type ReportLine struct {
	EntryID        string          `json:"entry_id"`
	Username       string          `json:"username"`
	CustomerNumber int             `json:"customer_number"`
	CustomerName   string          `json:"customer_name"`
	ProjectNumber  int             `json:"project_number"`
	ProjectName    string          `json:"project_name"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        *time.Time      `json:"end_time"`
	Description    string          `json:"description"`
	Running        bool            `json:"running"`
	Hours          decimal.Decimal `json:"hours"`
}

// ReportResponse reporte de horas de la empresa activa, ordenado por inicio ascendente.
type ReportResponse struct {
	CompanyID   string          `json:"company_id"`
	CompanyName string          `json:"company_name"`
	Rounded     bool            `json:"rounded"`
	Lines       []ReportLine    `json:"lines"`
	TotalHours  decimal.Decimal `json:"total_hours"`
}
