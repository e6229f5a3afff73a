// Package relationaldb holds SQL helpers shared by the relational stores.
package relationaldb

import (
	"strconv"
	"strings"

	"github.com/ersonp/roster-core/internal/domain/ports"
)

// Placeholder renders the bind parameter for the n-th argument (1-based).
type Placeholder func(n int) string

// QuestionMark renders "?" placeholders (SQLite).
func QuestionMark(int) string { return "?" }

// Dollar renders "$n" placeholders (PostgreSQL).
func Dollar(n int) string { return "$" + strconv.Itoa(n) }

// Condition accumulates IN clauses joined with AND.
type Condition struct {
	placeholder Placeholder
	offset      int
	clauses     []string
	args        []any
}

// NewCondition creates an empty condition. Its args start after offset
// already-bound arguments.
func NewCondition(placeholder Placeholder, offset int) *Condition {
	return &Condition{
		placeholder: placeholder,
		offset:      offset,
	}
}

// In adds "column IN (...)" when values is non-empty.
func In[T any](c *Condition, column string, values []T) *Condition {
	if len(values) == 0 {
		return c
	}
	marks := make([]string, len(values))
	for i, v := range values {
		c.args = append(c.args, v)
		marks[i] = c.placeholder(c.offset + len(c.args))
	}
	c.clauses = append(c.clauses, column+" IN ("+strings.Join(marks, ", ")+")")
	return c
}

// Empty reports whether no clause was added.
func (c *Condition) Empty() bool {
	return len(c.clauses) == 0
}

// Expr returns the clauses joined with AND, or "1 = 1" when empty.
func (c *Condition) Expr() string {
	if c.Empty() {
		return "1 = 1"
	}
	return strings.Join(c.clauses, " AND ")
}

// Where returns " WHERE <expr>" or "" when empty.
func (c *Condition) Where() string {
	if c.Empty() {
		return ""
	}
	return " WHERE " + c.Expr()
}

// Args returns the values bound by the clauses, in placeholder order.
func (c *Condition) Args() []any {
	return c.args
}

// CompanyCondition translates a company filter to columns id and name.
func CompanyCondition(f ports.CompanyFilter, placeholder Placeholder) *Condition {
	c := NewCondition(placeholder, 0)
	In(c, "id", f.IDs)
	In(c, "name", f.Names)
	return c
}

// EmployeeCondition translates an employee filter to columns id and email.
func EmployeeCondition(f ports.EmployeeFilter, placeholder Placeholder) *Condition {
	c := NewCondition(placeholder, 0)
	In(c, "id", f.IDs)
	In(c, "email", f.Emails)
	return c
}

// AnyMatchQuery returns a query yielding one boolean: whether a row of table matches.
func AnyMatchQuery(table string, c *Condition) string {
	return "SELECT EXISTS (SELECT 1 FROM " + table + c.Where() + ")"
}

// AllMatchQuery returns a query yielding one boolean: whether every row of
// table matches. An empty table matches.
func AllMatchQuery(table string, c *Condition) string {
	if c.Empty() {
		return "SELECT 1 = 1"
	}
	return "SELECT NOT EXISTS (SELECT 1 FROM " + table + " WHERE NOT (" + c.Expr() + "))"
}
