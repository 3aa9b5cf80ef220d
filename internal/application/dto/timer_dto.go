package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartTimerRequest entrada para iniciar un temporizador.
type StartTimerRequest struct {
	ProjectID   string `json:"project_id" validate:"required,uuid"`
	Description string `json:"description"`
}

// StopTimerRequest entrada para detener un temporizador.
type StopTimerRequest struct {
	Description string `json:"description"`
}

// TimeEntryResponse salida de un registro de tiempo.
// Hours aplica la política de redondeo configurada; en curso se calcula hasta "ahora".
type TimeEntryResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	ProjectID   string          `json:"project_id"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     *time.Time      `json:"end_time"`
	Description string          `json:"description"`
	Running     bool            `json:"running"`
	Hours       decimal.Decimal `json:"hours"`
}

// ActiveTimerResponse estado del temporizador del usuario.
// Si el registro en curso es de otra empresa, InActiveCompany es false y Redirect apunta a
// la selección de empresa.
type ActiveTimerResponse struct {
	Running         bool               `json:"running"`
	InActiveCompany bool               `json:"in_active_company"`
	Redirect        string             `json:"redirect,omitempty"`
	Entry           *TimeEntryResponse `json:"entry,omitempty"`
}
