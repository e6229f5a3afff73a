package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ersonp/roster-core/internal/domain/ports"
)

// uniqueColumns maps the column named in a UNIQUE failure to its sentinel.
var uniqueColumns = []struct {
	column   string
	sentinel error
}{
	{"companies.name", ports.ErrCompanyNameTaken},
	{"employees.email", ports.ErrEmployeeEmailTaken},
	{"company_employees.employee_title", ports.ErrTitleTakenInCompany},
}

// mapError wraps unique constraint failures with the matching sentinel.
func mapError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return err
	}
	for _, u := range uniqueColumns {
		if strings.Contains(sqliteErr.Error(), u.column) {
			return fmt.Errorf("%w: %w", u.sentinel, err)
		}
	}
	return err
}
