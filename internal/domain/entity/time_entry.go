package entity

import "time"

// TimeEntry registro de tiempo de un usuario sobre un proyecto.
// EndTime nil significa que el temporizador sigue en curso.
type TimeEntry struct {
	ID          string
	CompanyID   string
	UserID      string
	ProjectID   string
	StartTime   time.Time
	EndTime     *time.Time
	Description string
}

// IsRunning informa si el registro no ha sido detenido.
func (e *TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// Elapsed devuelve la duración transcurrida; para un registro en curso usa now.
func (e *TimeEntry) Elapsed(now time.Time) time.Duration {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	if end.Before(e.StartTime) {
		return 0
	}
	return end.Sub(e.StartTime)
}
