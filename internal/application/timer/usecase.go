// Package timer implementa el ciclo de vida del temporizador: Idle <-> Running por usuario.
package timer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
)

// Recorder recibe las transiciones del temporizador (métricas).
type Recorder interface {
	TimerStarted()
	TimerStopped(hours float64)
	TimerRejected(reason string)
}

// Manager casos de uso del temporizador.
type Manager struct {
	tx       ports.TxRunner
	repos    repository.Repos
	policy   timesheet.Policy
	recorder Recorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewManager construye el gestor. recorder puede ser nil.
func NewManager(tx ports.TxRunner, repos repository.Repos, policy timesheet.Policy, recorder Recorder, log zerolog.Logger) *Manager {
	return &Manager{tx: tx, repos: repos, policy: policy, recorder: recorder, now: time.Now, log: log}
}

// WithClock reemplaza el reloj (tests).
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Policy devuelve la política de horas compartida con los reportes.
func (m *Manager) Policy() timesheet.Policy { return m.policy }

// StartTimer inicia un registro sobre projectID para el usuario del alcance.
// Falla con ErrProjectNotInTenant si el proyecto no es de la empresa activa y con
// ErrAlreadyRunning si el usuario ya tiene un registro abierto (en cualquier empresa).
func (m *Manager) StartTimer(ctx context.Context, sc scope.Scope, projectID, description string) (*entity.TimeEntry, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	var entry *entity.TimeEntry
	err := m.tx.WithinTx(ctx, func(repos repository.Repos) error {
		project, err := repos.Projects.GetByID(ctx, sc.CompanyID(), projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return domain.ErrProjectNotInTenant
		}
		running, err := repos.TimeEntries.GetRunning(ctx, sc.UserID())
		if err != nil {
			return err
		}
		if running != nil {
			return domain.ErrAlreadyRunning
		}
		e := &entity.TimeEntry{
			ID:          uuid.New().String(),
			CompanyID:   sc.CompanyID(),
			UserID:      sc.UserID(),
			ProjectID:   project.ID,
			StartTime:   m.now().UTC(),
			Description: strings.TrimSpace(description),
		}
		// El índice único parcial convierte al perdedor de una carrera en ErrAlreadyRunning.
		if err := repos.TimeEntries.Create(ctx, e); err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		m.rejected(err)
		return nil, err
	}
	if m.recorder != nil {
		m.recorder.TimerStarted()
	}
	m.log.Info().Str("entry_id", entry.ID).Str("user_id", entry.UserID).Str("project_id", entry.ProjectID).Msg("temporizador iniciado")
	return entry, nil
}

// StopTimer detiene el registro entryID del usuario, aunque pertenezca a otra de sus empresas.
// ErrNotFound si no existe para ese usuario; ErrNotRunning si ya estaba detenido (el fin no cambia).
func (m *Manager) StopTimer(ctx context.Context, sc scope.Scope, entryID, description string) (*entity.TimeEntry, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	var entry *entity.TimeEntry
	err := m.tx.WithinTx(ctx, func(repos repository.Repos) error {
		e, err := repos.TimeEntries.GetForUpdate(ctx, sc.UserID(), entryID)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrNotFound
		}
		if !e.IsRunning() {
			return domain.ErrNotRunning
		}
		end := m.now().UTC()
		if end.Before(e.StartTime) {
			end = e.StartTime
		}
		desc := strings.TrimSpace(description)
		if err := repos.TimeEntries.Stop(ctx, e.ID, end, desc); err != nil {
			return err
		}
		e.EndTime = &end
		e.Description = desc
		entry = e
		return nil
	})
	if err != nil {
		m.rejected(err)
		return nil, err
	}
	hours := m.policy.Hours(entry.Elapsed(m.now()))
	if m.recorder != nil {
		h, _ := hours.Float64()
		m.recorder.TimerStopped(h)
	}
	m.log.Info().Str("entry_id", entry.ID).Str("user_id", entry.UserID).Str("hours", hours.String()).Msg("temporizador detenido")
	return entry, nil
}

// ActiveTimerFor devuelve el registro en curso del usuario, o nil. Es el mismo registro que
// bloquea StartTimer; su CompanyID puede diferir de la empresa activa.
func (m *Manager) ActiveTimerFor(ctx context.Context, sc scope.Scope) (*entity.TimeEntry, error) {
	if err := sc.RequireCompany(); err != nil {
		return nil, err
	}
	return m.repos.TimeEntries.GetRunning(ctx, sc.UserID())
}

func (m *Manager) rejected(err error) {
	if m.recorder == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrAlreadyRunning):
		m.recorder.TimerRejected("already_running")
	case errors.Is(err, domain.ErrNotRunning):
		m.recorder.TimerRejected("not_running")
	case errors.Is(err, domain.ErrProjectNotInTenant):
		m.recorder.TimerRejected("project_not_in_tenant")
	case errors.Is(err, domain.ErrNotFound):
		m.recorder.TimerRejected("not_found")
	}
}
