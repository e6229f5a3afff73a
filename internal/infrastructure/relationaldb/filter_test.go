package relationaldb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/roster-core/internal/domain/ports"
)

func TestCompanyCondition(t *testing.T) {
	tests := []struct {
		name        string
		filter      ports.CompanyFilter
		placeholder Placeholder
		wantWhere   string
		wantArgs    []any
	}{
		{
			name:        "empty filter",
			filter:      ports.CompanyFilter{},
			placeholder: QuestionMark,
			wantWhere:   "",
			wantArgs:    nil,
		},
		{
			name:        "names only",
			filter:      ports.CompanyFilter{Names: []string{"Company1", "Company2"}},
			placeholder: QuestionMark,
			wantWhere:   " WHERE name IN (?, ?)",
			wantArgs:    []any{"Company1", "Company2"},
		},
		{
			name:        "ids and names with dollar placeholders",
			filter:      ports.CompanyFilter{IDs: []int64{1, 2}, Names: []string{"Company1"}},
			placeholder: Dollar,
			wantWhere:   " WHERE id IN ($1, $2) AND name IN ($3)",
			wantArgs:    []any{int64(1), int64(2), "Company1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CompanyCondition(tt.filter, tt.placeholder)
			assert.Equal(t, tt.wantWhere, c.Where())
			assert.Equal(t, tt.wantArgs, c.Args())
		})
	}
}

func TestEmployeeCondition(t *testing.T) {
	c := EmployeeCondition(ports.EmployeeFilter{Emails: []string{"a@email.com"}}, Dollar)

	assert.Equal(t, "email IN ($1)", c.Expr())
	assert.Equal(t, []any{"a@email.com"}, c.Args())
}

func TestNewCondition_Offset(t *testing.T) {
	c := In(NewCondition(Dollar, 2), "company_id", []int64{7, 8})

	assert.Equal(t, "company_id IN ($3, $4)", c.Expr())
	assert.Len(t, c.Args(), 2)
}

func TestMatchQueries(t *testing.T) {
	t.Run("any match", func(t *testing.T) {
		c := CompanyCondition(ports.CompanyFilter{Names: []string{"x"}}, QuestionMark)
		assert.Equal(t, "SELECT EXISTS (SELECT 1 FROM companies WHERE name IN (?))", AnyMatchQuery("companies", c))
	})

	t.Run("any match without filter", func(t *testing.T) {
		c := CompanyCondition(ports.CompanyFilter{}, QuestionMark)
		assert.Equal(t, "SELECT EXISTS (SELECT 1 FROM companies)", AnyMatchQuery("companies", c))
	})

	t.Run("all match", func(t *testing.T) {
		c := EmployeeCondition(ports.EmployeeFilter{IDs: []int64{1}}, QuestionMark)
		assert.Equal(t, "SELECT NOT EXISTS (SELECT 1 FROM employees WHERE NOT (id IN (?)))", AllMatchQuery("employees", c))
	})

	t.Run("all match without filter", func(t *testing.T) {
		c := EmployeeCondition(ports.EmployeeFilter{}, QuestionMark)
		assert.Equal(t, "SELECT 1 = 1", AllMatchQuery("employees", c))
	})
}
