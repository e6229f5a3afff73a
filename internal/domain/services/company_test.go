package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/result"
)

func TestCompanyService_CreateCompany_NoEmployees(t *testing.T) {
	env := newTestEnv(t)

	res := env.companies.CreateCompany(context.Background(), CreateCompanyRequest{Name: "Company1"})

	require.False(t, res.HasError())
	company := res.Value()
	assert.Equal(t, int64(1), company.ID)
	assert.Equal(t, "Company1", company.Name)
	assert.Empty(t, company.Employees)
	assert.False(t, company.CreatedAt.IsZero())

	created := env.audit.Created(entities.ResourceCompany)
	require.Len(t, created, 1)
	assert.Equal(t, "Company1", created[0].UniqueIdentifierValue)
	assert.Equal(t, "New company Company1 was created.", created[0].Comment)
	assert.Equal(t, "1", created[0].ChangesetValue("id").NewValue)
}

func TestCompanyService_CreateCompany_NewEmployee(t *testing.T) {
	env := newTestEnv(t)

	company := env.mustCreateCompany(t, "Company1", newSpec("dev1@email.com", entities.TitleDeveloper))

	require.Len(t, company.Employees, 1)
	employee := company.Employees[0]
	assert.Equal(t, int64(1), employee.ID)
	assert.Equal(t, "dev1@email.com", employee.Email)
	assert.Equal(t, entities.TitleDeveloper, employee.Title)
	assert.Equal(t, []int64{company.ID}, employee.CompanyIDs)
}

func TestCompanyService_CreateCompany_ExistingEmployee(t *testing.T) {
	env := newTestEnv(t)
	first := env.mustCreateCompany(t, "Company1", newSpec("dev1@email.com", entities.TitleDeveloper))
	existingID := first.Employees[0].ID

	second := env.mustCreateCompany(t, "Company2",
		EmployeeSpec{ID: idPtr(existingID)},
		newSpec("mng1@email.com", entities.TitleManager),
	)

	require.Len(t, second.Employees, 2)
	byEmail := map[string]EmployeeResponse{}
	for _, e := range second.Employees {
		byEmail[e.Email] = e
	}
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, byEmail["dev1@email.com"].CompanyIDs)
	assert.Equal(t, []int64{second.ID}, byEmail["mng1@email.com"].CompanyIDs)
	assert.Equal(t, 2, env.store.EmployeeCount())
}

func TestCompanyService_CreateCompany_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(t *testing.T, env *testEnv)
		req     CreateCompanyRequest
		kind    result.Kind
		wantKey string
	}{
		{
			name:    "empty name",
			req:     CreateCompanyRequest{Name: ""},
			kind:    result.KindMissingUniqueIdentifier,
			wantKey: "name",
		},
		{
			name:    "employee without id or email",
			req:     CreateCompanyRequest{Name: "Company1", Employees: []EmployeeSpec{{Title: titlePtr(entities.TitleTester)}}},
			kind:    result.KindMissingUniqueIdentifier,
			wantKey: "employees.email",
		},
		{
			name:    "employee with id and email",
			req:     CreateCompanyRequest{Name: "Company1", Employees: []EmployeeSpec{{ID: idPtr(1), Email: "dev1@email.com"}}},
			kind:    result.KindCannotCreateEmployeeWithID,
			wantKey: "employees.id",
		},
		{
			name:    "employee with id and title",
			req:     CreateCompanyRequest{Name: "Company1", Employees: []EmployeeSpec{{ID: idPtr(1), Title: titlePtr(entities.TitleManager)}}},
			kind:    result.KindCannotCreateEmployeeWithID,
			wantKey: "employees.id",
		},
		{
			name: "same company name",
			seed: func(t *testing.T, env *testEnv) { env.mustCreateCompany(t, "Company1") },
			req:  CreateCompanyRequest{Name: "Company1"},
			kind: result.KindCompanyNameConflict, wantKey: "name",
		},
		{
			name: "existing employee email",
			seed: func(t *testing.T, env *testEnv) {
				env.mustCreateCompany(t, "Company1", newSpec("dev1@email.com", entities.TitleDeveloper))
			},
			req:     CreateCompanyRequest{Name: "Company2", Employees: []EmployeeSpec{newSpec("dev1@email.com", entities.TitleDeveloper)}},
			kind:    result.KindEmployeeEmailConflict,
			wantKey: "employees.email",
		},
		{
			name:    "unknown employee id",
			req:     CreateCompanyRequest{Name: "Company1", Employees: []EmployeeSpec{{ID: idPtr(0)}}},
			kind:    result.KindEmployeeNotFound,
			wantKey: "employees.id",
		},
		{
			name: "duplicate title in request",
			req: CreateCompanyRequest{Name: "Company1", Employees: []EmployeeSpec{
				newSpec("mng1@email.com", entities.TitleManager),
				newSpec("mng2@email.com", entities.TitleManager),
			}},
			kind:    result.KindDuplicateTitleInCompany,
			wantKey: "employees.title",
		},
		{
			name: "duplicate title with existing employee",
			seed: func(t *testing.T, env *testEnv) {
				env.mustCreateEmployee(t, "dev1@email.com", entities.TitleDeveloper)
			},
			req: CreateCompanyRequest{Name: "Company1", Employees: []EmployeeSpec{
				{ID: idPtr(1)},
				newSpec("dev2@email.com", entities.TitleDeveloper),
			}},
			kind:    result.KindDuplicateTitleInCompany,
			wantKey: "employees.title",
		},
		{
			name: "duplicate email in request",
			req: CreateCompanyRequest{Name: "Company1", Employees: []EmployeeSpec{
				newSpec("dev1@email.com", entities.TitleDeveloper),
				newSpec("dev1@email.com", entities.TitleTester),
			}},
			kind:    result.KindDuplicateEmailInCompany,
			wantKey: "employees.email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.seed != nil {
				tt.seed(t, env)
			}
			companiesBefore, employeesBefore := env.store.CompanyCount(), env.store.EmployeeCount()
			auditBefore := len(env.audit.Records)

			res := env.companies.CreateCompany(context.Background(), tt.req)

			require.True(t, res.HasError())
			assert.Equal(t, tt.kind, res.Err().Kind())
			assert.Equal(t, tt.wantKey, res.Err().Key())
			assert.Equal(t, companiesBefore, env.store.CompanyCount())
			assert.Equal(t, employeesBefore, env.store.EmployeeCount())
			assert.Len(t, env.audit.Records, auditBefore)
		})
	}
}

func TestCompanyService_CreateCompany_ValidationOrder(t *testing.T) {
	env := newTestEnv(t)

	// An id+email spec would fail later checks too, but the missing email of
	// the first spec is reported first.
	res := env.companies.CreateCompany(context.Background(), CreateCompanyRequest{
		Name: "Company1",
		Employees: []EmployeeSpec{
			{ID: idPtr(3), Email: "dev1@email.com"},
			{Title: titlePtr(entities.TitleTester)},
		},
	})

	require.True(t, res.HasError())
	assert.Equal(t, result.KindMissingUniqueIdentifier, res.Err().Kind())
	assert.Zero(t, env.store.BeginCount, "structural checks run before any session")
}

func TestCompanyService_CreateCompany_RejectionIsRepeatable(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateCompany(t, "Company1")

	for i := 0; i < 3; i++ {
		res := env.companies.CreateCompany(context.Background(), CreateCompanyRequest{Name: "Company1"})
		require.True(t, res.HasError())
		assert.Equal(t, result.KindCompanyNameConflict, res.Err().Kind())
	}
	assert.Equal(t, 1, env.store.CompanyCount())
	assert.Equal(t, 1, env.store.CommitCount)
}

func TestCompanyService_CreateCompany_StorageConflictsMapToDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		seed func(t *testing.T, env *testEnv)
		req  CreateCompanyRequest
		kind result.Kind
		key  string
	}{
		{
			name: "name",
			seed: func(t *testing.T, env *testEnv) { env.mustCreateCompany(t, "Company1") },
			req:  CreateCompanyRequest{Name: "Company1"},
			kind: result.KindCompanyNameConflict,
			key:  "name",
		},
		{
			name: "email",
			seed: func(t *testing.T, env *testEnv) { env.mustCreateEmployee(t, "dev1@email.com", entities.TitleDeveloper) },
			req:  CreateCompanyRequest{Name: "Company2", Employees: []EmployeeSpec{newSpec("dev1@email.com", entities.TitleDeveloper)}},
			kind: result.KindEmployeeEmailConflict,
			key:  "employees.email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.seed(t, env)
			env.store.SkipPreChecks = true

			res := env.companies.CreateCompany(context.Background(), tt.req)

			require.True(t, res.HasError())
			assert.Equal(t, tt.kind, res.Err().Kind())
			assert.Equal(t, tt.key, res.Err().Key())
		})
	}
}

func TestCompanyService_CreateCompany_StorageFailuresAreInternal(t *testing.T) {
	t.Run("begin fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.BeginErr = errors.New("connection refused")

		res := env.companies.CreateCompany(context.Background(), CreateCompanyRequest{Name: "Company1"})

		require.True(t, res.HasError())
		assert.Equal(t, result.KindInternal, res.Err().Kind())
		assert.Empty(t, res.Err().Key())
	})

	t.Run("query fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.Err = errors.New("disk I/O error")

		res := env.companies.CreateCompany(context.Background(), CreateCompanyRequest{Name: "Company1"})

		require.True(t, res.HasError())
		assert.Equal(t, result.KindInternal, res.Err().Kind())
		assert.Equal(t, 1, env.store.RollbackCount)
	})

	t.Run("commit fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.CommitErr = errors.New("commit failed")

		res := env.companies.CreateCompany(context.Background(), CreateCompanyRequest{Name: "Company1"})

		require.True(t, res.HasError())
		assert.Equal(t, result.KindInternal, res.Err().Kind())
		assert.Zero(t, env.store.CompanyCount())
		assert.Empty(t, env.audit.Records, "nothing is audited when the commit fails")
	})
}

func TestCompanyService_CreateCompany_AuditInvariant(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateEmployee(t, "existing@email.com", entities.TitleTester)
	auditBefore := len(env.audit.Records)

	company := env.mustCreateCompany(t, "Company1",
		EmployeeSpec{ID: idPtr(1)},
		newSpec("dev1@email.com", entities.TitleDeveloper),
		newSpec("mng1@email.com", entities.TitleManager),
	)

	newRecords := env.audit.Records[auditBefore:]
	// One company and two new employees; the existing employee is only re-associated.
	require.Len(t, newRecords, 3)

	ids := map[string]int64{"Company1": company.ID}
	for _, e := range company.Employees {
		ids[e.Email] = e.ID
	}
	for _, rec := range newRecords {
		assert.Equal(t, entities.EventCreate, rec.EventType)
		require.Contains(t, ids, rec.UniqueIdentifierValue)
		idEntry := rec.ChangesetValue("id")
		require.NotNil(t, idEntry)
		assert.Empty(t, idEntry.OldValue)
		assert.Equal(t, strconv.FormatInt(ids[rec.UniqueIdentifierValue], 10), idEntry.NewValue)
		assert.NotEqual(t, "0", idEntry.NewValue)
	}
}

func TestCompanyService_CreateCompany_AuditFailureKeepsCompany(t *testing.T) {
	env := newTestEnv(t)
	env.audit.Err = errors.New("audit store unavailable")

	res := env.companies.CreateCompany(context.Background(), CreateCompanyRequest{Name: "Company1"})

	require.False(t, res.HasError())
	assert.Equal(t, 1, env.store.CompanyCount())
	assert.Equal(t, 1, env.audit.SaveCallCount)
	assert.Empty(t, env.audit.Records)
}
