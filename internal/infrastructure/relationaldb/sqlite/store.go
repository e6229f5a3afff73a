package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/domain/tracking"
	"github.com/ersonp/roster-core/internal/infrastructure/config"
	"github.com/ersonp/roster-core/internal/infrastructure/relationaldb"
)

// Store implements ports.EntityStore using SQLite.
type Store struct {
	db      *sql.DB
	path    string
	capture ports.ChangeCapture
	logger  zerolog.Logger
}

var _ ports.EntityStore = (*Store)(nil)

// NewStore opens the entity database. capture may be nil to disable auditing.
func NewStore(cfg config.SQLiteConfig, capture ports.ChangeCapture, logger zerolog.Logger) (*Store, error) {
	db, err := open(cfg.Path)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:      db,
		path:    cfg.Path,
		capture: capture,
		logger:  logger,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, entitySchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// BeginTx starts a session. It blocks while another session holds the connection.
func (s *Store) BeginTx(ctx context.Context) (ports.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &session{
		tx:      tx,
		tracker: tracking.New(s.capture, s.logger),
	}, nil
}

type session struct {
	tx      *sql.Tx
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

	if err := s.tx.Commit(); err != nil {
		s.tracker.Discard()
		return fmt.Errorf("committing transaction: %w", err)
	}

	_ = s.tracker.Committed(ctx)
	return nil
}

// Rollback discards the transaction and the pending audit records.
func (s *session) Rollback(_ context.Context) error {
	if s.done {
		return nil
	}
	s.done = true
	s.tracker.Discard()

	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

func (s *session) insertEmployee(ctx context.Context, e *entities.Employee) error {
	query := `INSERT INTO employees (email, title, created_at) VALUES (?, ?, ?) RETURNING id`
	if err := s.tx.QueryRowContext(ctx, query, e.Email, string(e.Title), e.CreatedAt).Scan(&e.ID); err != nil {
		return fmt.Errorf("inserting employee: %w", mapError(err))
	}
	return nil
}

func (s *session) link(ctx context.Context, companyID int64, e *entities.Employee) error {
	query := `INSERT INTO company_employees (company_id, employee_id, employee_title) VALUES (?, ?, ?)`
	if _, err := s.tx.ExecContext(ctx, query, companyID, e.ID, string(e.Title)); err != nil {
		return fmt.Errorf("linking employee %d to company %d: %w", e.ID, companyID, mapError(err))
	}
	return nil
}

func (s *session) queryBool(ctx context.Context, query string, args []any) (bool, error) {
	var ok bool
	if err := s.tx.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("evaluating filter: %w", err)
	}
	return ok, nil
}

func (s *session) queryCompanies(ctx context.Context, query string, args []any) ([]*entities.Company, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", err)
	}
	defer rows.Close()

	var companies []*entities.Company
	for rows.Next() {
		var c entities.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		companies = append(companies, &c)
	}
	return companies, rows.Err()
}

func (s *session) queryEmployees(ctx context.Context, query string, args []any) ([]*entities.Employee, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
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

	query := `INSERT INTO companies (name, created_at) VALUES (?, ?) RETURNING id`
	if err := r.s.tx.QueryRowContext(ctx, query, c.Name, c.CreatedAt).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("inserting company: %w", mapError(err))
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
	cond := relationaldb.CompanyCondition(f, relationaldb.QuestionMark)
	return r.s.queryBool(ctx, relationaldb.AllMatchQuery("companies", cond), cond.Args())
}

func (r *companyRepo) AnyMatch(ctx context.Context, f ports.CompanyFilter) (bool, error) {
	cond := relationaldb.CompanyCondition(f, relationaldb.QuestionMark)
	return r.s.queryBool(ctx, relationaldb.AnyMatchQuery("companies", cond), cond.Args())
}

func (r *companyRepo) Where(ctx context.Context, f ports.CompanyFilter) ([]*entities.Company, error) {
	cond := relationaldb.CompanyCondition(f, relationaldb.QuestionMark)
	query := `SELECT id, name, created_at FROM companies` + cond.Where() + ` ORDER BY id`
	return r.s.queryCompanies(ctx, query, cond.Args())
}

// WhereWithRelated loads the matching companies with their employees.
func (r *companyRepo) WhereWithRelated(ctx context.Context, f ports.CompanyFilter) ([]*entities.Company, error) {
	companies, err := r.Where(ctx, f)
	if err != nil || len(companies) == 0 {
		return companies, err
	}

	byID := make(map[int64]*entities.Company, len(companies))
	ids := make([]int64, 0, len(companies))
	for _, c := range companies {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	cond := relationaldb.In(relationaldb.NewCondition(relationaldb.QuestionMark, 0), "ce.company_id", ids)
	query := `
		SELECT ce.company_id, e.id, e.email, e.title, e.created_at
		FROM company_employees ce
		JOIN employees e ON e.id = ce.employee_id` + cond.Where() + `
		ORDER BY e.id`

	rows, err := r.s.tx.QueryContext(ctx, query, cond.Args()...)
	if err != nil {
		return nil, fmt.Errorf("querying company employees: %w", err)
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
	cond := relationaldb.EmployeeCondition(f, relationaldb.QuestionMark)
	return r.s.queryBool(ctx, relationaldb.AllMatchQuery("employees", cond), cond.Args())
}

func (r *employeeRepo) AnyMatch(ctx context.Context, f ports.EmployeeFilter) (bool, error) {
	cond := relationaldb.EmployeeCondition(f, relationaldb.QuestionMark)
	return r.s.queryBool(ctx, relationaldb.AnyMatchQuery("employees", cond), cond.Args())
}

func (r *employeeRepo) Where(ctx context.Context, f ports.EmployeeFilter) ([]*entities.Employee, error) {
	cond := relationaldb.EmployeeCondition(f, relationaldb.QuestionMark)
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

	cond := relationaldb.In(relationaldb.NewCondition(relationaldb.QuestionMark, 0), "ce.employee_id", ids)
	query := `
		SELECT ce.employee_id, c.id, c.name, c.created_at
		FROM company_employees ce
		JOIN companies c ON c.id = ce.company_id` + cond.Where() + `
		ORDER BY c.id`

	rows, err := r.s.tx.QueryContext(ctx, query, cond.Args()...)
	if err != nil {
		return nil, fmt.Errorf("querying employee companies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var employeeID int64
		var c entities.Company
		if err := rows.Scan(&employeeID, &c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning employee company: %w", err)
		}
		byID[employeeID].Companies = append(byID[employeeID].Companies, &c)
	}
	return employees, rows.Err()
}
