// Package scope implementa el guardián de alcance de tenant: toda operación sobre datos de
// empresa pasa por Guard.Authorize y recibe un Scope del que sale el company_id.
package scope

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
)

// Nombres de operación. Los del flujo de selección/creación de empresa no exigen empresa activa.
const (
	OpProfileRead    = "profile.read"
	OpCompanyList    = "company.list"
	OpCompanyCreate  = "company.create"
	OpCompanySwitch  = "company.switch"
	OpCompanyRead    = "company.read"
	OpCompanyRename  = "company.rename"
	OpMemberAdd      = "company.member.add"
	OpCustomerList   = "customer.list"
	OpCustomerRead   = "customer.read"
	OpCustomerCreate = "customer.create"
	OpProjectList    = "project.list"
	OpProjectRead    = "project.read"
	OpProjectCreate  = "project.create"
	OpTimerRead      = "timer.read"
	OpTimerStart     = "timer.start"
	OpTimerStop      = "timer.stop"
	OpReportRead     = "report.read"
	OpReportExport   = "report.export"
	OpDashboard      = "dashboard.read"
)

// companySelectionOps lista blanca: evita el bucle "necesitas empresa" <-> "elige empresa".
var companySelectionOps = map[string]struct{}{
	OpProfileRead:   {},
	OpCompanyList:   {},
	OpCompanyCreate: {},
	OpCompanySwitch: {},
}

// AllowsWithoutCompany informa si la operación forma parte del flujo de selección de empresa.
func AllowsWithoutCompany(op string) bool {
	_, ok := companySelectionOps[op]
	return ok
}

// Motivos de rechazo (etiqueta de métricas).
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonNoActiveCompany = "no_active_company"
)

// Identity identidad ya autenticada que entrega la capa de presentación.
type Identity struct {
	UserID string
}

// Authenticated informa si hay un usuario.
func (i Identity) Authenticated() bool { return i.UserID != "" }

// Scope alcance resuelto de una petición. Solo Guard puede construirlo con empresa.
type Scope struct {
	userID    string
	companyID string
	isAdmin   bool
}

// UserID usuario que actúa.
func (s Scope) UserID() string { return s.userID }

// CompanyID empresa activa; vacío solo en operaciones de la lista blanca.
func (s Scope) CompanyID() string { return s.companyID }

// IsAdmin indica si el usuario administra la empresa activa.
func (s Scope) IsAdmin() bool { return s.isAdmin }

// HasCompany informa si el alcance está atado a una empresa.
func (s Scope) HasCompany() bool { return s.companyID != "" }

// RequireCompany devuelve ErrNoActiveCompany si el alcance no tiene empresa.
// Los servicios la llaman antes de cualquier acceso a datos de tenant.
func (s Scope) RequireCompany() error {
	if s.userID == "" {
		return domain.ErrUnauthenticated
	}
	if s.companyID == "" {
		return domain.ErrNoActiveCompany
	}
	return nil
}

// Recorder recibe los rechazos del guardián (lo implementa infrastructure/metrics).
type Recorder interface {
	ScopeRejected(reason string)
}

// Guard aplica, en orden, la comprobación de identidad y la de empresa activa.
type Guard struct {
	profiles repository.ProfileRepository
	recorder Recorder
	log      zerolog.Logger
}

// NewGuard construye el guardián. recorder puede ser nil.
func NewGuard(profiles repository.ProfileRepository, recorder Recorder, log zerolog.Logger) *Guard {
	return &Guard{profiles: profiles, recorder: recorder, log: log}
}

// Authorize resuelve el alcance para la operación op.
func (g *Guard) Authorize(ctx context.Context, id Identity, op string) (Scope, error) {
	if !id.Authenticated() {
		g.reject(ReasonUnauthenticated, op, "")
		return Scope{}, domain.ErrUnauthenticated
	}
	profile, err := g.profiles.GetByUserID(ctx, id.UserID)
	if err != nil {
		return Scope{}, fmt.Errorf("resolver perfil: %w", err)
	}
	if profile == nil {
		// Identidad válida pero usuario eliminado: se trata como no autenticado.
		g.reject(ReasonUnauthenticated, op, id.UserID)
		return Scope{}, domain.ErrUnauthenticated
	}
	if !profile.HasActiveCompany() {
		if AllowsWithoutCompany(op) {
			return Scope{userID: id.UserID}, nil
		}
		g.reject(ReasonNoActiveCompany, op, id.UserID)
		return Scope{}, domain.ErrNoActiveCompany
	}
	return Scope{
		userID:    id.UserID,
		companyID: *profile.ActiveCompanyID,
		isAdmin:   profile.IsCompanyAdmin,
	}, nil
}

func (g *Guard) reject(reason, op, userID string) {
	if g.recorder != nil {
		g.recorder.ScopeRejected(reason)
	}
	g.log.Debug().Str("reason", reason).Str("op", op).Str("user_id", userID).Msg("operación rechazada por alcance")
}
