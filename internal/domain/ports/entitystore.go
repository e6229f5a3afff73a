// Package ports defines the storage interfaces the workflows depend on.
package ports

import (
	"context"

	"github.com/ersonp/roster-core/internal/domain/entities"
)

// EntityStore opens transactional sessions against the primary store.
type EntityStore interface {
	// EnsureSchema creates the tables and constraints if they don't exist.
	EnsureSchema(ctx context.Context) error

	// BeginTx starts a session. The caller must end it with Commit or Rollback.
	BeginTx(ctx context.Context) (Session, error)

	// Close releases the underlying connections.
	Close() error
}

// Session is one transaction. It is owned by a single workflow invocation
// and must not be shared between goroutines.
type Session interface {
	Companies() CompanyRepository
	Employees() EmployeeRepository

	// Commit makes every write durable, then flushes the captured audit
	// records. An audit failure is logged and does not fail the commit.
	Commit(ctx context.Context) error

	// Rollback discards every write and every pending audit record.
	// It is safe to call after Commit.
	Rollback(ctx context.Context) error
}

// Repository is the per-entity contract consumed by the workflows.
// F is the entity's filter type.
type Repository[T any, F any] interface {
	// Add inserts the entity, its new related rows and the association rows,
	// and populates generated IDs. A uniqueness violation returns an error
	// wrapping one of the conflict sentinels.
	Add(ctx context.Context, entity *T) (*T, error)

	// AllMatch reports whether every persisted row satisfies the filter.
	AllMatch(ctx context.Context, filter F) (bool, error)

	// AnyMatch reports whether at least one persisted row satisfies the filter.
	AnyMatch(ctx context.Context, filter F) (bool, error)

	// Where returns the rows matching the filter without associations.
	Where(ctx context.Context, filter F) ([]*T, error)

	// WhereWithRelated returns the matching rows with their associated
	// collection loaded.
	WhereWithRelated(ctx context.Context, filter F) ([]*T, error)
}

// CompanyRepository is the Repository for companies.
type CompanyRepository = Repository[entities.Company, CompanyFilter]

// EmployeeRepository is the Repository for employees.
type EmployeeRepository = Repository[entities.Employee, EmployeeFilter]

// CompanyFilter selects companies. Values within a field are alternatives,
// non-empty fields must all match, and an empty filter matches every row.
type CompanyFilter struct {
	IDs   []int64
	Names []string
}

// EmployeeFilter selects employees with the same semantics as CompanyFilter.
type EmployeeFilter struct {
	IDs    []int64
	Emails []string
}
