// Package mocks provides in-memory implementations of the ports for testing.
package mocks

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/domain/tracking"
)

type companyRow struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

type employeeRow struct {
	ID        int64
	Email     string
	Title     entities.Title
	CreatedAt time.Time
}

type linkRow struct {
	CompanyID  int64
	EmployeeID int64
	Title      entities.Title
}

type state struct {
	companies      map[int64]companyRow
	employees      map[int64]employeeRow
	links          []linkRow
	nextCompanyID  int64
	nextEmployeeID int64
}

func (s *state) clone() *state {
	c := &state{
		companies:      make(map[int64]companyRow, len(s.companies)),
		employees:      make(map[int64]employeeRow, len(s.employees)),
		links:          slices.Clone(s.links),
		nextCompanyID:  s.nextCompanyID,
		nextEmployeeID: s.nextEmployeeID,
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	return c
}

// EntityStore is an in-memory implementation of ports.EntityStore.
// Sessions are serialized: BeginTx blocks until the previous session ends.
// Unique constraints mirror the relational schema.
type EntityStore struct {
	mu      sync.Mutex
	data    *state
	capture ports.ChangeCapture

	// Err, when set, is returned by every repository call.
	Err error
	// BeginErr is returned by BeginTx.
	BeginErr error
	// CommitErr is returned by Commit.
	CommitErr error
	// SkipPreChecks makes AnyMatch and AllMatch see an empty store, so
	// workflows reach the storage constraints as they would under a race.
	SkipPreChecks bool

	BeginCount    int
	CommitCount   int
	RollbackCount int
}

// NewEntityStore creates a new in-memory store. capture may be nil.
func NewEntityStore(capture ports.ChangeCapture) *EntityStore {
	return &EntityStore{
		data: &state{
			companies: make(map[int64]companyRow),
			employees: make(map[int64]employeeRow),
		},
		capture: capture,
	}
}

// EnsureSchema is a no-op.
func (m *EntityStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close is a no-op.
func (m *EntityStore) Close() error {
	return nil
}

// BeginTx starts a session on a copy of the current state.
func (m *EntityStore) BeginTx(_ context.Context) (ports.Session, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	m.mu.Lock()
	m.BeginCount++
	return &session{
		store:   m,
		work:    m.data.clone(),
		tracker: tracking.New(m.capture, zerolog.Nop()),
	}, nil
}

// CompanyCount returns the number of committed companies.
func (m *EntityStore) CompanyCount() int {
	return len(m.data.companies)
}

// EmployeeCount returns the number of committed employees.
func (m *EntityStore) EmployeeCount() int {
	return len(m.data.employees)
}

type session struct {
	store   *EntityStore
	work    *state
	tracker *tracking.Tracker
	done    bool
}

func (s *session) Companies() ports.CompanyRepository {
	return &companyRepo{s: s}
}

func (s *session) Employees() ports.EmployeeRepository {
	return &employeeRepo{s: s}
}

func (s *session) Commit(ctx context.Context) error {
	if s.done {
		return fmt.Errorf("session already closed")
	}
	if s.store.CommitErr != nil {
		return s.store.CommitErr
	}
	s.store.data = s.work
	s.store.CommitCount++
	s.done = true
	s.store.mu.Unlock()

	_ = s.tracker.Committed(ctx)
	return nil
}

func (s *session) Rollback(_ context.Context) error {
	if s.done {
		return nil
	}
	s.tracker.Discard()
	s.store.RollbackCount++
	s.done = true
	s.store.mu.Unlock()
	return nil
}

func (s *session) insertEmployee(e *entities.Employee) error {
	for _, row := range s.work.employees {
		if row.Email == e.Email {
			return fmt.Errorf("inserting employee: %w", ports.ErrEmployeeEmailTaken)
		}
	}
	s.work.nextEmployeeID++
	e.ID = s.work.nextEmployeeID
	s.work.employees[e.ID] = employeeRow{ID: e.ID, Email: e.Email, Title: e.Title, CreatedAt: e.CreatedAt}
	return nil
}

func (s *session) link(companyID int64, e *entities.Employee) error {
	for _, l := range s.work.links {
		if l.CompanyID == companyID && l.Title == e.Title {
			return fmt.Errorf("linking employee: %w", ports.ErrTitleTakenInCompany)
		}
	}
	s.work.links = append(s.work.links, linkRow{CompanyID: companyID, EmployeeID: e.ID, Title: e.Title})
	return nil
}

func (s *session) hydrateCompany(row companyRow) *entities.Company {
	return &entities.Company{
		AuditableFields: entities.AuditableFields{ID: row.ID, CreatedAt: row.CreatedAt},
		Name:            row.Name,
	}
}

func (s *session) hydrateEmployee(row employeeRow) *entities.Employee {
	return &entities.Employee{
		AuditableFields: entities.AuditableFields{ID: row.ID, CreatedAt: row.CreatedAt},
		Email:           row.Email,
		Title:           row.Title,
	}
}

type companyRepo struct {
	s *session
}

func matchCompany(f ports.CompanyFilter, row companyRow) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, row.ID) {
		return false
	}
	if len(f.Names) > 0 && !slices.Contains(f.Names, row.Name) {
		return false
	}
	return true
}

func (r *companyRepo) sortedRows(f ports.CompanyFilter) []companyRow {
	var rows []companyRow
	for _, row := range r.s.work.companies {
		if matchCompany(f, row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (r *companyRepo) Add(_ context.Context, c *entities.Company) (*entities.Company, error) {
	if r.s.store.Err != nil {
		return nil, r.s.store.Err
	}

	tracked := []ports.TrackedEntity{{State: ports.StateAdded, Entity: c}}
	for _, e := range c.Employees {
		if e.IsNew() {
			tracked = append(tracked, ports.TrackedEntity{State: ports.StateAdded, Entity: e})
		}
	}
	r.s.tracker.Track(tracked...)

	for _, row := range r.s.work.companies {
		if row.Name == c.Name {
			return nil, fmt.Errorf("inserting company: %w", ports.ErrCompanyNameTaken)
		}
	}
	r.s.work.nextCompanyID++
	c.ID = r.s.work.nextCompanyID
	r.s.work.companies[c.ID] = companyRow{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}

	for _, e := range c.Employees {
		if e.IsNew() {
			if err := r.s.insertEmployee(e); err != nil {
				return nil, err
			}
		}
		if err := r.s.link(c.ID, e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *companyRepo) AllMatch(_ context.Context, f ports.CompanyFilter) (bool, error) {
	if r.s.store.Err != nil {
		return false, r.s.store.Err
	}
	if r.s.store.SkipPreChecks {
		return true, nil
	}
	for _, row := range r.s.work.companies {
		if !matchCompany(f, row) {
			return false, nil
		}
	}
	return true, nil
}

func (r *companyRepo) AnyMatch(_ context.Context, f ports.CompanyFilter) (bool, error) {
	if r.s.store.Err != nil {
		return false, r.s.store.Err
	}
	if r.s.store.SkipPreChecks {
		return false, nil
	}
	return len(r.sortedRows(f)) > 0, nil
}

func (r *companyRepo) Where(_ context.Context, f ports.CompanyFilter) ([]*entities.Company, error) {
	if r.s.store.Err != nil {
		return nil, r.s.store.Err
	}
	var out []*entities.Company
	for _, row := range r.sortedRows(f) {
		out = append(out, r.s.hydrateCompany(row))
	}
	return out, nil
}

func (r *companyRepo) WhereWithRelated(ctx context.Context, f ports.CompanyFilter) ([]*entities.Company, error) {
	companies, err := r.Where(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, c := range companies {
		for _, l := range r.s.work.links {
			if l.CompanyID == c.ID {
				c.Employees = append(c.Employees, r.s.hydrateEmployee(r.s.work.employees[l.EmployeeID]))
			}
		}
	}
	return companies, nil
}

type employeeRepo struct {
	s *session
}

func matchEmployee(f ports.EmployeeFilter, row employeeRow) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, row.ID) {
		return false
	}
	if len(f.Emails) > 0 && !slices.Contains(f.Emails, row.Email) {
		return false
	}
	return true
}

func (r *employeeRepo) sortedRows(f ports.EmployeeFilter) []employeeRow {
	var rows []employeeRow
	for _, row := range r.s.work.employees {
		if matchEmployee(f, row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (r *employeeRepo) Add(_ context.Context, e *entities.Employee) (*entities.Employee, error) {
	if r.s.store.Err != nil {
		return nil, r.s.store.Err
	}

	r.s.tracker.Track(ports.TrackedEntity{State: ports.StateAdded, Entity: e})

	if err := r.s.insertEmployee(e); err != nil {
		return nil, err
	}
	for _, c := range e.Companies {
		if err := r.s.link(c.ID, e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (r *employeeRepo) AllMatch(_ context.Context, f ports.EmployeeFilter) (bool, error) {
	if r.s.store.Err != nil {
		return false, r.s.store.Err
	}
	if r.s.store.SkipPreChecks {
		return true, nil
	}
	for _, row := range r.s.work.employees {
		if !matchEmployee(f, row) {
			return false, nil
		}
	}
	return true, nil
}

func (r *employeeRepo) AnyMatch(_ context.Context, f ports.EmployeeFilter) (bool, error) {
	if r.s.store.Err != nil {
		return false, r.s.store.Err
	}
	if r.s.store.SkipPreChecks {
		return false, nil
	}
	return len(r.sortedRows(f)) > 0, nil
}

func (r *employeeRepo) Where(_ context.Context, f ports.EmployeeFilter) ([]*entities.Employee, error) {
	if r.s.store.Err != nil {
		return nil, r.s.store.Err
	}
	var out []*entities.Employee
	for _, row := range r.sortedRows(f) {
		out = append(out, r.s.hydrateEmployee(row))
	}
	return out, nil
}

func (r *employeeRepo) WhereWithRelated(ctx context.Context, f ports.EmployeeFilter) ([]*entities.Employee, error) {
	employees, err := r.Where(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		for _, l := range r.s.work.links {
			if l.EmployeeID == e.ID {
				e.Companies = append(e.Companies, r.s.hydrateCompany(r.s.work.companies[l.CompanyID]))
			}
		}
	}
	return employees, nil
}
