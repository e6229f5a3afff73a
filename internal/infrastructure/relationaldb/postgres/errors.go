package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ersonp/roster-core/internal/domain/ports"
)

// Constraint names declared in migrations/store.
const (
	constraintCompanyName    = "companies_name_key"
	constraintEmployeeEmail  = "employees_email_key"
	constraintTitleInCompany = "company_employees_title_key"
)

// mapPostgresError maps PostgreSQL errors to the port sentinels where one applies.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintCompanyName:
			return fmt.Errorf("%w: %w", ports.ErrCompanyNameTaken, err)
		case constraintEmployeeEmail:
			return fmt.Errorf("%w: %w", ports.ErrEmployeeEmailTaken, err)
		case constraintTitleInCompany:
			return fmt.Errorf("%w: %w", ports.ErrTitleTakenInCompany, err)
		}
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("foreign key violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.CheckViolation:
		return fmt.Errorf("check constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s (detail: %s): %w",
			pgErr.Code, pgErr.Message, pgErr.Detail, err)
	}
}
