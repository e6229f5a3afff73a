package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/mocks"
)

type testEnv struct {
	store     *mocks.EntityStore
	audit     *mocks.AuditStore
	companies *CompanyService
	employees *EmployeeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	audit := mocks.NewAuditStore()
	store := mocks.NewEntityStore(NewChangeCaptureInterceptor(audit, zerolog.Nop()))
	return &testEnv{
		store:     store,
		audit:     audit,
		companies: NewCompanyService(store, zerolog.Nop()),
		employees: NewEmployeeService(store, zerolog.Nop()),
	}
}

func titlePtr(t entities.Title) *entities.Title { return &t }

func idPtr(id int64) *int64 { return &id }

func newSpec(email string, title entities.Title) EmployeeSpec {
	return EmployeeSpec{Email: email, Title: titlePtr(title)}
}

// mustCreateCompany creates a company and fails the test on any error.
func (e *testEnv) mustCreateCompany(t *testing.T, name string, specs ...EmployeeSpec) CompanyResponse {
	t.Helper()
	res := e.companies.CreateCompany(context.Background(), CreateCompanyRequest{Name: name, Employees: specs})
	require.False(t, res.HasError(), "creating company %s", name)
	return res.Value()
}

// mustCreateEmployee creates an employee and fails the test on any error.
func (e *testEnv) mustCreateEmployee(t *testing.T, email string, title entities.Title, companyIDs ...int64) EmployeeResponse {
	t.Helper()
	res := e.employees.CreateEmployee(context.Background(), CreateEmployeeRequest{Email: email, Title: title, CompanyIDs: companyIDs})
	require.False(t, res.HasError(), "creating employee %s", email)
	return res.Value()
}
