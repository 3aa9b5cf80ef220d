package testsupport

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/timereg-api/internal/application/scope"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
)

// Epoch instante fijo para los datos sembrados.
var Epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// SeedUser crea un usuario activo con su perfil vacío.
func (s *Store) SeedUser(t testing.TB, username string) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Status:       entity.UserStatusActive,
		CreatedAt:    Epoch,
		UpdatedAt:    Epoch,
	}
	repos := s.Repos()
	require.NoError(t, repos.Users.Create(context.Background(), u))
	require.NoError(t, repos.Profiles.Create(context.Background(), &entity.UserProfile{UserID: u.ID, UpdatedAt: Epoch}))
	return u
}

// SeedCompany crea una empresa sin miembros.
func (s *Store) SeedCompany(t testing.TB, name string) *entity.Company {
	t.Helper()
	c := &entity.Company{ID: uuid.New().String(), Name: name, CreatedAt: Epoch, UpdatedAt: Epoch}
	require.NoError(t, s.Repos().Companies.Create(context.Background(), c))
	return c
}

// SeedMember añade la membresía y, si activate, la marca como empresa activa del usuario.
func (s *Store) SeedMember(t testing.TB, companyID, userID string, admin, activate bool) {
	t.Helper()
	repos := s.Repos()
	require.NoError(t, repos.Memberships.Add(context.Background(), &entity.Membership{
		CompanyID: companyID, UserID: userID, IsAdmin: admin, JoinedAt: Epoch,
	}))
	if activate {
		require.NoError(t, repos.Profiles.SetActiveCompany(context.Background(), userID, companyID, admin))
	}
}

// SeedCustomer crea un cliente con número automático.
func (s *Store) SeedCustomer(t testing.TB, companyID, name string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{ID: uuid.New().String(), CompanyID: companyID, Name: name, CreatedAt: Epoch, UpdatedAt: Epoch}
	require.NoError(t, s.Repos().Customers.Create(context.Background(), c))
	return c
}

// SeedProject crea un proyecto activo con número automático.
func (s *Store) SeedProject(t testing.TB, companyID, customerID, name string) *entity.Project {
	t.Helper()
	p := &entity.Project{
		ID: uuid.New().String(), CompanyID: companyID, CustomerID: customerID, Name: name,
		StartDate: Epoch, IsActive: true, CreatedAt: Epoch, UpdatedAt: Epoch,
	}
	require.NoError(t, s.Repos().Projects.Create(context.Background(), p))
	return p
}

// SeedEntry inserta un registro; end nil lo deja en curso.
func (s *Store) SeedEntry(t testing.TB, companyID, userID, projectID string, start time.Time, end *time.Time) *entity.TimeEntry {
	t.Helper()
	e := &entity.TimeEntry{
		ID: uuid.New().String(), CompanyID: companyID, UserID: userID, ProjectID: projectID, StartTime: start, EndTime: end,
	}
	require.NoError(t, s.Repos().TimeEntries.Create(context.Background(), e))
	return e
}

// Profile devuelve el perfil confirmado del usuario.
func (s *Store) Profile(t testing.TB, userID string) *entity.UserProfile {
	t.Helper()
	p, err := s.Repos().Profiles.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// Entries devuelve los registros confirmados del usuario, por inicio.
func (s *Store) Entries(userID string) []entity.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.TimeEntry
	for _, e := range s.data.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Counts número de filas por tabla en el estado confirmado.
type Counts struct {
	Companies, Members, Users, Customers, Projects, Entries int
}

// Count devuelve el número de filas confirmadas por tabla.
func (s *Store) Count() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Companies: len(s.data.companies),
		Members:   len(s.data.members),
		Users:     len(s.data.users),
		Customers: len(s.data.customers),
		Projects:  len(s.data.projects),
		Entries:   len(s.data.entries),
	}
}

// Scope autoriza op para el usuario con un Guard real sobre este almacén.
func (s *Store) Scope(t testing.TB, userID, op string) scope.Scope {
	t.Helper()
	sc, err := scope.NewGuard(s.Repos().Profiles, nil, zerolog.Nop()).Authorize(context.Background(), scope.Identity{UserID: userID}, op)
	require.NoError(t, err)
	return sc
}
