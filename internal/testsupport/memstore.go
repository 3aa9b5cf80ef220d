// Package testsupport ofrece un almacén en memoria que implementa los puertos de repositorio
// y ports.TxRunner con las mismas restricciones que el esquema PostgreSQL, para tests unitarios.
package testsupport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/timereg-api/internal/application/ports"
	"github.com/jhoicas/timereg-api/internal/domain"
	"github.com/jhoicas/timereg-api/internal/domain/entity"
	"github.com/jhoicas/timereg-api/internal/domain/repository"
	"github.com/jhoicas/timereg-api/internal/domain/timesheet"
)

type memberKey struct{ companyID, userID string }

type state struct {
	companies map[string]entity.Company
	members   map[memberKey]entity.Membership
	users     map[string]entity.User
	profiles  map[string]entity.UserProfile
	customers map[string]entity.Customer
	projects  map[string]entity.Project
	entries   map[string]entity.TimeEntry
}

func newState() *state {
	return &state{
		companies: map[string]entity.Company{},
		members:   map[memberKey]entity.Membership{},
		users:     map[string]entity.User{},
		profiles:  map[string]entity.UserProfile{},
		customers: map[string]entity.Customer{},
		projects:  map[string]entity.Project{},
		entries:   map[string]entity.TimeEntry{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		companies: cloneMap(s.companies),
		members:   cloneMap(s.members),
		users:     cloneMap(s.users),
		profiles:  cloneMap(s.profiles),
		customers: cloneMap(s.customers),
		projects:  cloneMap(s.projects),
		entries:   cloneMap(s.entries),
	}
}

var _ ports.TxRunner = (*Store)(nil)

// Store almacén en memoria. Las transacciones se serializan y trabajan sobre una copia que
// solo se publica si fn no devuelve error.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data *state

	// AutoNumberConflicts simula carreras en la asignación de números: las próximas N altas
	// con número automático fallan con domain.ErrTransactionConflict.
	AutoNumberConflicts int
	// Commits cuenta las transacciones confirmadas.
	Commits int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Repos repositorios fuera de transacción (cada llamada ve el estado confirmado).
func (s *Store) Repos() repository.Repos {
	return s.repos(nil)
}

// WithinTx ejecuta fn sobre una copia del estado y la confirma si no hay error.
func (s *Store) WithinTx(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s.repos(snapshot)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = snapshot
	s.Commits++
	s.mu.Unlock()
	return nil
}

func (s *Store) repos(tx *state) repository.Repos {
	v := &view{s: s, tx: tx}
	return repository.Repos{
		Companies:   companyRepo{v},
		Memberships: membershipRepo{v},
		Users:       userRepo{v},
		Profiles:    profileRepo{v},
		Customers:   customerRepo{v},
		Projects:    projectRepo{v},
		TimeEntries: timeEntryRepo{v},
	}
}

// view resuelve el estado sobre el que opera un repositorio: la copia de la tx o el confirmado.
type view struct {
	s  *Store
	tx *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

// takeAutoNumberConflict consume una carrera simulada si hay pendientes.
func (v *view) takeAutoNumberConflict() bool {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.AutoNumberConflicts > 0 {
		v.s.AutoNumberConflicts--
		return true
	}
	return false
}

// ── Companies / memberships ──────────────────────────────────────────────────

type companyRepo struct{ v *view }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.companies[c.ID]; ok {
			return fmt.Errorf("%w: companies_pkey", domain.ErrDuplicate)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: companies name", domain.ErrValidation)
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.v.do(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r companyRepo) Rename(_ context.Context, id, name string) error {
	return r.v.do(func(st *state) error {
		c, ok := st.companies[id]
		if !ok {
			return domain.ErrNotFound
		}
		c.Name = name
		c.UpdatedAt = time.Now()
		st.companies[id] = c
		return nil
	})
}

func (r companyRepo) ListByMember(_ context.Context, userID string) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.v.do(func(st *state) error {
		for k := range st.members {
			if k.userID != userID {
				continue
			}
			if c, ok := st.companies[k.companyID]; ok {
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

type membershipRepo struct{ v *view }

func (r membershipRepo) Add(_ context.Context, m *entity.Membership) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.companies[m.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.users[m.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		k := memberKey{m.CompanyID, m.UserID}
		if _, ok := st.members[k]; !ok {
			st.members[k] = *m
		}
		return nil
	})
}

func (r membershipRepo) Get(_ context.Context, companyID, userID string) (*entity.Membership, error) {
	var out *entity.Membership
	err := r.v.do(func(st *state) error {
		if m, ok := st.members[memberKey{companyID, userID}]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

// ── Users / profiles ─────────────────────────────────────────────────────────

type userRepo struct{ v *view }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.do(func(st *state) error {
		for _, existing := range st.users {
			if existing.Username == u.Username {
				return fmt.Errorf("%w: users_username_key", domain.ErrDuplicate)
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) find(match func(entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if match(u) && (out == nil || u.CreatedAt.Before(out.CreatedAt)) {
				u := u
				out = &u
			}
		}
		return nil
	})
	return out, err
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.PasswordHash = hash
		st.users[id] = u
		return nil
	})
}

type profileRepo struct{ v *view }

func (r profileRepo) Create(_ context.Context, p *entity.UserProfile) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.users[p.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		if _, ok := st.profiles[p.UserID]; ok {
			return fmt.Errorf("%w: user_profiles_pkey", domain.ErrDuplicate)
		}
		st.profiles[p.UserID] = *p
		return nil
	})
}

func (r profileRepo) GetByUserID(_ context.Context, userID string) (*entity.UserProfile, error) {
	var out *entity.UserProfile
	err := r.v.do(func(st *state) error {
		if p, ok := st.profiles[userID]; ok {
			if p.ActiveCompanyID != nil {
				id := *p.ActiveCompanyID
				p.ActiveCompanyID = &id
			}
			out = &p
		}
		return nil
	})
	return out, err
}

func (r profileRepo) SetActiveCompany(_ context.Context, userID, companyID string, isAdmin bool) error {
	return r.v.do(func(st *state) error {
		p, ok := st.profiles[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		if _, ok := st.companies[companyID]; !ok {
			return domain.ErrNotFound
		}
		id := companyID
		p.ActiveCompanyID = &id
		p.IsCompanyAdmin = isAdmin
		p.UpdatedAt = time.Now()
		st.profiles[userID] = p
		return nil
	})
}

// ── Customers / projects ─────────────────────────────────────────────────────

type customerRepo struct{ v *view }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	if c.Number == 0 && r.v.takeAutoNumberConflict() {
		return fmt.Errorf("%w: customers_company_number_key", domain.ErrTransactionConflict)
	}
	return r.v.do(func(st *state) error {
		if _, ok := st.companies[c.CompanyID]; !ok {
			return domain.ErrNotFound
		}
		max := 0
		for _, other := range st.customers {
			if other.CompanyID != c.CompanyID {
				continue
			}
			if c.Number > 0 && other.Number == c.Number {
				return fmt.Errorf("%w: número %d", domain.ErrDuplicate, c.Number)
			}
			if other.Number > max {
				max = other.Number
			}
		}
		if c.Number == 0 {
			c.Number = max + 1
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepo) find(match func(entity.Customer) bool) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.do(func(st *state) error {
		for _, c := range st.customers {
			if match(c) {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r customerRepo) GetByID(_ context.Context, companyID, id string) (*entity.Customer, error) {
	return r.find(func(c entity.Customer) bool { return c.CompanyID == companyID && c.ID == id })
}

func (r customerRepo) GetByNumber(_ context.Context, companyID string, number int) (*entity.Customer, error) {
	return r.find(func(c entity.Customer) bool { return c.CompanyID == companyID && c.Number == number })
}

func (r customerRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.v.do(func(st *state) error {
		for _, c := range st.customers {
			if c.CompanyID == companyID {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return page(out, limit, offset), err
}

type projectRepo struct{ v *view }

func (r projectRepo) Create(_ context.Context, p *entity.Project) error {
	if p.Number == 0 && r.v.takeAutoNumberConflict() {
		return fmt.Errorf("%w: projects_company_number_key", domain.ErrTransactionConflict)
	}
	return r.v.do(func(st *state) error {
		cust, ok := st.customers[p.CustomerID]
		if !ok || cust.CompanyID != p.CompanyID {
			return domain.ErrCustomerNotInTenant
		}
		max := 0
		for _, other := range st.projects {
			if other.CompanyID != p.CompanyID {
				continue
			}
			if p.Number > 0 && other.Number == p.Number {
				return fmt.Errorf("%w: número %d", domain.ErrDuplicate, p.Number)
			}
			if other.Number > max {
				max = other.Number
			}
		}
		if p.Number == 0 {
			p.Number = max + 1
		}
		st.projects[p.ID] = *p
		return nil
	})
}

func (r projectRepo) find(match func(entity.Project) bool) (*entity.Project, error) {
	var out *entity.Project
	err := r.v.do(func(st *state) error {
		for _, p := range st.projects {
			if match(p) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r projectRepo) GetByID(_ context.Context, companyID, id string) (*entity.Project, error) {
	return r.find(func(p entity.Project) bool { return p.CompanyID == companyID && p.ID == id })
}

func (r projectRepo) GetByNumber(_ context.Context, companyID string, number int) (*entity.Project, error) {
	return r.find(func(p entity.Project) bool { return p.CompanyID == companyID && p.Number == number })
}

func (r projectRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Project, error) {
	var out []*entity.Project
	err := r.v.do(func(st *state) error {
		for _, p := range st.projects {
			if p.CompanyID == companyID {
				p := p
				out = append(out, &p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return page(out, limit, offset), err
}

func page[T any](list []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset >= len(list) {
		return nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

// ── Time entries ─────────────────────────────────────────────────────────────

type timeEntryRepo struct{ v *view }

func (r timeEntryRepo) Create(_ context.Context, e *entity.TimeEntry) error {
	return r.v.do(func(st *state) error {
		p, ok := st.projects[e.ProjectID]
		if !ok || p.CompanyID != e.CompanyID {
			return domain.ErrProjectNotInTenant
		}
		if e.EndTime == nil {
			for _, other := range st.entries {
				if other.UserID == e.UserID && other.EndTime == nil {
					return domain.ErrAlreadyRunning
				}
			}
		}
		st.entries[e.ID] = *e
		return nil
	})
}

func (r timeEntryRepo) find(match func(entity.TimeEntry) bool) (*entity.TimeEntry, error) {
	var out *entity.TimeEntry
	err := r.v.do(func(st *state) error {
		for _, e := range st.entries {
			if match(e) {
				e := e
				out = &e
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r timeEntryRepo) GetForUpdate(_ context.Context, userID, id string) (*entity.TimeEntry, error) {
	return r.find(func(e entity.TimeEntry) bool { return e.UserID == userID && e.ID == id })
}

func (r timeEntryRepo) GetRunning(_ context.Context, userID string) (*entity.TimeEntry, error) {
	return r.find(func(e entity.TimeEntry) bool { return e.UserID == userID && e.EndTime == nil })
}

func (r timeEntryRepo) Stop(_ context.Context, id string, end time.Time, description string) error {
	return r.v.do(func(st *state) error {
		e, ok := st.entries[id]
		if !ok || e.EndTime != nil {
			return domain.ErrNotRunning
		}
		if end.Before(e.StartTime) {
			return fmt.Errorf("%w: time_entries_range_check", domain.ErrValidation)
		}
		e.EndTime = &end
		e.Description = description
		st.entries[id] = e
		return nil
	})
}

func (r timeEntryRepo) ListForReport(_ context.Context, companyID string, f repository.TimeEntryFilter) ([]*repository.TimeEntryRow, error) {
	var out []*repository.TimeEntryRow
	err := r.v.do(func(st *state) error {
		for _, e := range st.entries {
			if e.CompanyID != companyID {
				continue
			}
			if f.From != nil && e.StartTime.Before(*f.From) {
				continue
			}
			if f.To != nil && !e.StartTime.Before(*f.To) {
				continue
			}
			if f.ProjectID != "" && e.ProjectID != f.ProjectID {
				continue
			}
			if f.UserID != "" && e.UserID != f.UserID {
				continue
			}
			p := st.projects[e.ProjectID]
			if f.CustomerID != "" && p.CustomerID != f.CustomerID {
				continue
			}
			c := st.customers[p.CustomerID]
			row := &repository.TimeEntryRow{
				Entry:          e,
				Username:       st.users[e.UserID].Username,
				ProjectNumber:  p.Number,
				ProjectName:    p.Name,
				CustomerNumber: c.Number,
				CustomerName:   c.Name,
			}
			if e.EndTime != nil {
				row.ElapsedSeconds = decimal.NullDecimal{Decimal: timesheet.Seconds(e.EndTime.Sub(e.StartTime)), Valid: true}
			}
			out = append(out, row)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entry.StartTime.Equal(out[j].Entry.StartTime) {
			return out[i].Entry.ID < out[j].Entry.ID
		}
		return out[i].Entry.StartTime.Before(out[j].Entry.StartTime)
	})
	return out, err
}
