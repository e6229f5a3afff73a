package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/domain/tracking"
	"github.com/ersonp/roster-core/internal/infrastructure/relationaldb"
)

// Store implements ports.EntityStore using PostgreSQL.
// Sessions run at READ COMMITTED; the unique constraints decide races.
type Store struct {
	pool    *pgxpool.Pool
	capture ports.ChangeCapture
	logger  zerolog.Logger
}

var _ ports.EntityStore = (*Store)(nil)

// NewStore wraps an open pool. capture may be nil to disable auditing.
func NewStore(pool *pgxpool.Pool, capture ports.ChangeCapture, logger zerolog.Logger) *Store {
	return &Store{
		pool:    pool,
		capture: capture,
		logger:  logger,
	}
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// EnsureSchema applies the pending entity migrations.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return runMigrations(ctx, s.pool, scopeStore, s.logger)
}

// BeginTx starts a session.
func (s *Store) BeginTx(ctx context.Context) (ports.Session, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", mapPostgresError(err))
	}
	return &session{
		tx:      tx,
		tracker: tracking.New(s.capture, s.logger),
	}, nil
}

type session struct {
	tx      pgx.Tx
	tracker *tracking.Tracker
	done    bool
}

func (s *session) Companies() ports.CompanyRepository {
	return &companyRepo{s: s}
}

func (s *session) Employees() ports.EmployeeRepository {
	return &employeeRepo{s: s}
}

// Commit commits the transaction, then flushes the audit records.
func (s *session) Commit(ctx context.Context) error {
	if s.done {
		return errors.New("session already closed")
	}
	s.done = true

	if err := s.tx.Commit(ctx); err != nil {
		s.tracker.Discard()
		return fmt.Errorf("committing transaction: %w", mapPostgresError(err))
	}

	_ = s.tracker.Committed(ctx)
	return nil
}

// Rollback discards the transaction and the pending audit records.
func (s *session) Rollback(ctx context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	s.tracker.Discard()

	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

func (s *session) insertEmployee(ctx context.Context, e *entities.Employee) error {
	query := `INSERT INTO employees (email, title, created_at) VALUES ($1, $2, $3) RETURNING id`
	if err := s.tx.QueryRow(ctx, query, e.Email, string(e.Title), e.CreatedAt).Scan(&e.ID); err != nil {
		return fmt.Errorf("inserting employee: %w", mapPostgresError(err))
	}
	return nil
}

func (s *session) link(ctx context.Context, companyID int64, e *entities.Employee) error {
	query := `INSERT INTO company_employees (company_id, employee_id, employee_title) VALUES ($1, $2, $3)`
	if _, err := s.tx.Exec(ctx, query, companyID, e.ID, string(e.Title)); err != nil {
		return fmt.Errorf("linking employee %d to company %d: %w", e.ID, companyID, mapPostgresError(err))
	}
	return nil
}

func (s *session) queryBool(ctx context.Context, query string, args []any) (bool, error) {
	var ok bool
	if err := s.tx.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("evaluating filter: %w", mapPostgresError(err))
	}
	return ok, nil
}

func (s *session) queryCompanies(ctx context.Context, query string, args []any) ([]*entities.Company, error) {
	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var companies []*entities.Company
	for rows.Next() {
		var c entities.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

func (s *session) queryEmployees(ctx context.Context, query string, args []any) ([]*entities.Employee, error) {
	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var employees []*entities.Employee
	for rows.Next() {
		var e entities.Employee
		var title string
		if err := rows.Scan(&e.ID, &e.Email, &title, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		e.Title = entities.Title(title)
		e.CreatedAt = e.CreatedAt.UTC()
		employees = append(employees, &e)
	}
	return employees, rows.Err()
}

type companyRepo struct {
	s *session
}

// Add inserts the company, its new employees and the association rows.
func (r *companyRepo) Add(ctx context.Context, c *entities.Company) (*entities.Company, error) {
	tracked := []ports.TrackedEntity{{State: ports.StateAdded, Entity: c}}
	for _, e := range c.Employees {
		if e.IsNew() {
			tracked = append(tracked, ports.TrackedEntity{State: ports.StateAdded, Entity: e})
		}
	}
	r.s.tracker.Track(tracked...)

	query := `INSERT INTO companies (name, created_at) VALUES ($1, $2) RETURNING id`
	if err := r.s.tx.QueryRow(ctx, query, c.Name, c.CreatedAt).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("inserting company: %w", mapPostgresError(err))
	}

	for _, e := range c.Employees {
		if e.IsNew() {
			if err := r.s.insertEmployee(ctx, e); err != nil {
				return nil, err
			}
		}
		if err := r.s.link(ctx, c.ID, e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *companyRepo) AllMatch(ctx context.Context, f ports.CompanyFilter) (bool, error) {
	cond := relationaldb.CompanyCondition(f, relationaldb.Dollar)
	return r.s.queryBool(ctx, relationaldb.AllMatchQuery("companies", cond), cond.Args())
}

func (r *companyRepo) AnyMatch(ctx context.Context, f ports.CompanyFilter) (bool, error) {
	cond := relationaldb.CompanyCondition(f, relationaldb.Dollar)
	return r.s.queryBool(ctx, relationaldb.AnyMatchQuery("companies", cond), cond.Args())
}

func (r *companyRepo) Where(ctx context.Context, f ports.CompanyFilter) ([]*entities.Company, error) {
	cond := relationaldb.CompanyCondition(f, relationaldb.Dollar)
	query := `SELECT id, name, created_at FROM companies` + cond.Where() + ` ORDER BY id`
	return r.s.queryCompanies(ctx, query, cond.Args())
}

// WhereWithRelated loads the matching companies with their employees.
// The company rows are locked so a concurrent link sees this session's view.
func (r *companyRepo) WhereWithRelated(ctx context.Context, f ports.CompanyFilter) ([]*entities.Company, error) {
	cond := relationaldb.CompanyCondition(f, relationaldb.Dollar)
	query := `SELECT id, name, created_at FROM companies` + cond.Where() + ` ORDER BY id FOR SHARE`
	companies, err := r.s.queryCompanies(ctx, query, cond.Args())
	if err != nil || len(companies) == 0 {
		return companies, err
	}

	byID := make(map[int64]*entities.Company, len(companies))
	ids := make([]int64, 0, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	rows, err := r.s.tx.Query(ctx, `
		SELECT ce.company_id, e.id, e.email, e.title, e.created_at
		FROM company_employees ce
		JOIN employees e ON e.id = ce.employee_id
		WHERE ce.company_id = ANY($1)
		ORDER BY e.id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying company employees: %w", mapPostgresError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var companyID int64
		var e entities.Employee
		var title string
		if err := rows.Scan(&companyID, &e.ID, &e.Email, &title, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning company employee: %w", err)
		}
		e.Title = entities.Title(title)
		e.CreatedAt = e.CreatedAt.UTC()
		byID[companyID].Employees = append(byID[companyID].Employees, &e)
	}
	return companies, rows.Err()
}

type employeeRepo struct {
	s *session
}

// Add inserts the employee and its association rows.
func (r *employeeRepo) Add(ctx context.Context, e *entities.Employee) (*entities.Employee, error) {
	r.s.tracker.Track(ports.TrackedEntity{State: ports.StateAdded, Entity: e})

	if err := r.s.insertEmployee(ctx, e); err != nil {
		return nil, err
	}
	for _, c := range e.Companies {
		if err := r.s.link(ctx, c.ID, e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (r *employeeRepo) AllMatch(ctx context.Context, f ports.EmployeeFilter) (bool, error) {
	cond := relationaldb.EmployeeCondition(f, relationaldb.Dollar)
	return r.s.queryBool(ctx, relationaldb.AllMatchQuery("employees", cond), cond.Args())
}

func (r *employeeRepo) AnyMatch(ctx context.Context, f ports.EmployeeFilter) (bool, error) {
	cond := relationaldb.EmployeeCondition(f, relationaldb.Dollar)
	return r.s.queryBool(ctx, relationaldb.AnyMatchQuery("employees", cond), cond.Args())
}

func (r *employeeRepo) Where(ctx context.Context, f ports.EmployeeFilter) ([]*entities.Employee, error) {
	cond := relationaldb.EmployeeCondition(f, relationaldb.Dollar)
	query := `SELECT id, email, title, created_at FROM employees` + cond.Where() + ` ORDER BY id`
	return r.s.queryEmployees(ctx, query, cond.Args())
}

// WhereWithRelated loads the matching employees with their companies.
func (r *employeeRepo) WhereWithRelated(ctx context.Context, f ports.EmployeeFilter) ([]*entities.Employee, error) {
	employees, err := r.Where(ctx, f)
	if err != nil || len(employees) == 0 {
		return employees, err
	}

	byID := make(map[int64]*entities.Employee, len(employees))
	ids := make([]int64, 0, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	rows, err := r.s.tx.Query(ctx, `
		SELECT ce.employee_id, c.id, c.name, c.created_at
		FROM company_employees ce
		JOIN companies c ON c.id = ce.company_id
		WHERE ce.employee_id = ANY($1)
		ORDER BY c.id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying employee companies: %w", mapPostgresError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID int64
		var c entities.Company
		if err := rows.Scan(&employeeID, &c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning employee company: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		byID[employeeID].Companies = append(byID[employeeID].Companies, &c)
	}
	return employees, rows.Err()
}
