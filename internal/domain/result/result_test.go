package result

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_Success(t *testing.T) {
	r := Success(42)

	assert.False(t, r.HasError())
	assert.Equal(t, 42, r.Value())
	assert.Panics(t, func() { r.Err() })
}

func TestResult_Failure(t *testing.T) {
	r := Failure[int](CompanyNameConflict())

	require.True(t, r.HasError())
	assert.Equal(t, KindCompanyNameConflict, r.Err().Kind())
	assert.Equal(t, "name", r.Err().Key())
	assert.Panics(t, func() { r.Value() })
}

func TestResult_FailureNilIsInternal(t *testing.T) {
	r := Failure[string](nil)

	require.True(t, r.HasError())
	assert.Equal(t, KindInternal, r.Err().Kind())
}

func TestMap(t *testing.T) {
	t.Run("transforms success", func(t *testing.T) {
		r := Map(Success(2), func(v int) string { return fmt.Sprint(v * 10) })
		assert.Equal(t, "20", r.Value())
	})

	t.Run("propagates error without calling fn", func(t *testing.T) {
		called := false
		r := Map(Failure[int](EmployeeNotFound()), func(v int) string {
			called = true
			return ""
		})
		assert.False(t, called)
		assert.Equal(t, KindEmployeeNotFound, r.Err().Kind())
	})
}

func TestResult_MapErrorIfKind(t *testing.T) {
	toValue := func(e *Error) string { return "recovered " + e.Key() }

	t.Run("matching kind becomes success", func(t *testing.T) {
		r := Failure[string](CompanyNotFound()).MapErrorIfKind(KindCompanyNotFound, toValue)
		require.False(t, r.HasError())
		assert.Equal(t, "recovered companyIds", r.Value())
	})

	t.Run("other kind is propagated", func(t *testing.T) {
		r := Failure[string](Internal()).MapErrorIfKind(KindCompanyNotFound, toValue)
		require.True(t, r.HasError())
		assert.Equal(t, KindInternal, r.Err().Kind())
	})

	t.Run("success is untouched", func(t *testing.T) {
		r := Success("ok").MapErrorIfKind(KindCompanyNotFound, toValue)
		assert.Equal(t, "ok", r.Value())
	})
}

func TestFold(t *testing.T) {
	status := func(r Result[int]) int {
		return Fold(r, func(int) int { return 200 }, func(e *Error) int {
			if e.Kind() == KindInternal {
				return 500
			}
			return 409
		})
	}

	assert.Equal(t, 200, status(Success(1)))
	assert.Equal(t, 409, status(Failure[int](DuplicateEmailInCompany())))
	assert.Equal(t, 500, status(Failure[int](Internal())))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		kind    Kind
		key     string
		message string
	}{
		{"missing name", MissingUniqueIdentifier(KeyName), KindMissingUniqueIdentifier, "name", "Unique identifier cannot be null or empty."},
		{"employee with id", CannotCreateEmployeeWithID(), KindCannotCreateEmployeeWithID, "employees.id", "Cannot create an employee with an assigned Id. Properties Email and Title are mutually exclusive with the Id property."},
		{"email conflict", EmployeeEmailConflict(KeyEmail), KindEmployeeEmailConflict, "email", "An Employee with the same email address already exists."},
		{"title in request", DuplicateTitleInCompany(), KindDuplicateTitleInCompany, "employees.title", "Cannot create more than one employee in a company with the same title."},
		{"title taken", TitleTakenInCompany(), KindDuplicateTitleInCompany, "title", "An Employee with the same title already exists within the company."},
		{"internal", Internal(), KindInternal, "", "An internal server error has occured."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind())
			assert.Equal(t, tt.key, tt.err.Key())
			assert.Equal(t, tt.message, tt.err.Message())
		})
	}
}

func TestError_Is(t *testing.T) {
	var err error = fmt.Errorf("wrapped: %w", CompanyNameConflict())

	assert.True(t, errors.Is(err, CompanyNameConflict()))
	assert.False(t, errors.Is(err, EmployeeNotFound()))
	assert.Equal(t, "employee_not_found", KindEmployeeNotFound.String())
}
