package repository

import (
	"context"
	"time"

	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TimeEntryFilter filtros opcionales para el listado de reportes.
type TimeEntryFilter struct {
	From       *time.Time // inicio >= From
	To         *time.Time // inicio < To
	CustomerID string
	ProjectID  string
	UserID     string
}

// TimeEntryRow registro enriquecido para reportes.
// ElapsedSeconds es inválido (Valid=false) mientras el temporizador sigue en curso.
type TimeEntryRow struct {
	Entry          entity.TimeEntry
	Username       string
	ProjectNumber  int
	ProjectName    string
	CustomerNumber int
	CustomerName   string
	ElapsedSeconds decimal.NullDecimal
}

// TimeEntryRepository define el puerto de persistencia para TimeEntry.
type TimeEntryRepository interface {
	// Create inserta un registro en curso. Devuelve domain.ErrAlreadyRunning si el
	// usuario ya tiene uno abierto (índice único parcial).
	Create(ctx context.Context, entry *entity.TimeEntry) error
	// GetForUpdate bloquea el registro id si pertenece al usuario, sin importar la empresa.
	GetForUpdate(ctx context.Context, userID, id string) (*entity.TimeEntry, error)
	// GetRunning devuelve el registro abierto del usuario (a lo sumo uno en todas sus
	// empresas), o nil.
	GetRunning(ctx context.Context, userID string) (*entity.TimeEntry, error)
	// Stop fija fin y descripción.
	Stop(ctx context.Context, id string, end time.Time, description string) error
	// ListForReport devuelve los registros de la empresa ordenados por inicio ascendente.
	ListForReport(ctx context.Context, companyID string, filter TimeEntryFilter) ([]*TimeEntryRow, error)
}

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Companies   CompanyRepository
	Memberships MembershipRepository
	Users       UserRepository
	Profiles    ProfileRepository
	Customers   CustomerRepository
	Projects    ProjectRepository
	TimeEntries TimeEntryRepository
}
