package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

var _ repository.TimeEntryRepository = (*TimeEntryRepo)(nil)

// TimeEntryRepo implementación del puerto TimeEntryRepository sobre PostgreSQL.
type TimeEntryRepo struct {
	q Querier
}

// NewTimeEntryRepository construye el adaptador de persistencia para registros de tiempo.
func NewTimeEntryRepository(q Querier) *TimeEntryRepo {
	return &TimeEntryRepo{q: q}
}

const timeEntryColumns = `id, company_id, user_id, project_id, start_time, end_time, description`

// Create inserta un registro en curso. El índice único parcial sobre end_time IS NULL
// garantiza un solo temporizador abierto por usuario aunque dos peticiones compitan.
func (r *TimeEntryRepo) Create(ctx context.Context, e *entity.TimeEntry) error {
	const query = `
		INSERT INTO time_entries (id, company_id, user_id, project_id, start_time, end_time, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.CompanyID, e.UserID, e.ProjectID, e.StartTime, e.EndTime, e.Description)
	if err != nil {
		return fmt.Errorf("insert time entry: %w", mapPgError(err))
	}
	return nil
}

// GetForUpdate obtiene y bloquea el registro id del usuario.
func (r *TimeEntryRepo) GetForUpdate(ctx context.Context, userID, id string) (*entity.TimeEntry, error) {
	const query = `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE user_id = $1 AND id = $2 FOR UPDATE`
	return scanTimeEntryRow(r.q.QueryRow(ctx, query, userID, id))
}

// GetRunning devuelve el registro abierto del usuario, o nil. El índice único parcial
// running_entry_per_user garantiza a lo sumo una fila.
func (r *TimeEntryRepo) GetRunning(ctx context.Context, userID string) (*entity.TimeEntry, error) {
	const query = `SELECT ` + timeEntryColumns + ` FROM time_entries
		WHERE user_id = $1 AND end_time IS NULL`
	return scanTimeEntryRow(r.q.QueryRow(ctx, query, userID))
}

// Stop cierra el registro. Solo afecta a registros abiertos.
func (r *TimeEntryRepo) Stop(ctx context.Context, id string, end time.Time, description string) error {
	const query = `UPDATE time_entries SET end_time = $2, description = $3 WHERE id = $1 AND end_time IS NULL`
	cmd, err := r.q.Exec(ctx, query, id, end, description)
	if err != nil {
		return fmt.Errorf("stop time entry: %w", mapPgError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotRunning
	}
	return nil
}

// ListForReport lista los registros de la empresa con usuario, proyecto y cliente.
// La duración llega como NUMERIC (segundos) para no perder precisión; es NULL si está en curso.
func (r *TimeEntryRepo) ListForReport(ctx context.Context, companyID string, f repository.TimeEntryFilter) ([]*repository.TimeEntryRow, error) {
	var (
		where = []string{"te.company_id = $1"}
		args  = []any{companyID}
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("te.start_time >= $%d", *f.From)
	}
	if f.To != nil {
		add("te.start_time < $%d", *f.To)
	}
	if f.CustomerID != "" {
		add("p.customer_id = $%d", f.CustomerID)
	}
	if f.ProjectID != "" {
		add("te.project_id = $%d", f.ProjectID)
	}
	if f.UserID != "" {
		add("te.user_id = $%d", f.UserID)
	}

	query := `
		SELECT te.id, te.company_id, te.user_id, te.project_id, te.start_time, te.end_time, te.description,
		       u.username, p.number, p.name, c.number, c.name,
		       EXTRACT(EPOCH FROM (te.end_time - te.start_time))::numeric
		  FROM time_entries te
		  JOIN users u     ON u.id = te.user_id
		  JOIN projects p  ON p.company_id = te.company_id AND p.id = te.project_id
		  JOIN customers c ON c.company_id = p.company_id AND c.id = p.customer_id
		 WHERE ` + strings.Join(where, " AND ") + `
		 ORDER BY te.start_time ASC, te.id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", mapPgError(err))
	}
	defer rows.Close()

	var list []*repository.TimeEntryRow
	for rows.Next() {
		var row repository.TimeEntryRow
		e := &row.Entry
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.UserID, &e.ProjectID, &e.StartTime, &e.EndTime, &e.Description,
			&row.Username, &row.ProjectNumber, &row.ProjectName, &row.CustomerNumber, &row.CustomerName,
			&row.ElapsedSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		list = append(list, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list time entries: %w", mapPgError(err))
	}
	return list, nil
}

func scanTimeEntryRow(row pgx.Row) (*entity.TimeEntry, error) {
	var e entity.TimeEntry
	err := row.Scan(&e.ID, &e.CompanyID, &e.UserID, &e.ProjectID, &e.StartTime, &e.EndTime, &e.Description)
	if err != nil {
		if isNoRows(err) || isNotFound(mapPgError(err)) {
			return nil, nil
		}
		return nil, fmt.Errorf("get time entry: %w", err)
	}
	return &e, nil
}
