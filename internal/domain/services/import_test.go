package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/roster-core/internal/domain/result"
	"github.com/ersonp/roster-core/internal/infrastructure/parsers"
)

func TestImportService_Import_CreatesEachCompany(t *testing.T) {
	env := newTestEnv(t)
	service := NewImportService(env.companies)

	raw := []parsers.RawCompany{
		{Name: "Company1", LineNum: 2, Employees: []parsers.RawEmployee{{Email: "dev1@email.com", Title: "developer"}}},
		{Name: "Company2", LineNum: 3},
	}

	res, err := service.Import(context.Background(), raw, ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Companies, 2)
	assert.Equal(t, 2, env.store.CompanyCount())
	assert.Equal(t, 1, env.store.EmployeeCount())
}

func TestImportService_Import_ReportsPerRecordErrors(t *testing.T) {
	env := newTestEnv(t)
	env.mustCreateCompany(t, "Existing")
	service := NewImportService(env.companies)

	raw := []parsers.RawCompany{
		{Name: "Existing", LineNum: 2},
		{Name: "BadTitle", LineNum: 3, Employees: []parsers.RawEmployee{{Email: "x@email.com", Title: "Intern"}}},
		{Name: "", LineNum: 4},
		{Name: "Fresh", LineNum: 5},
	}

	res, err := service.Import(context.Background(), raw, ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 2, res.Errors[0].Line)
	assert.Equal(t, "name", res.Errors[0].Key)
	assert.Equal(t, "employees.title", res.Errors[1].Key)
	assert.Contains(t, res.Errors[1].Error(), "line 3")
	assert.Equal(t, 4, res.Errors[2].Line)
	assert.Equal(t, 2, env.store.CompanyCount())
}

func TestImportService_Import_DryRun(t *testing.T) {
	env := newTestEnv(t)
	service := NewImportService(env.companies)

	raw := []parsers.RawCompany{
		{Name: "Company1"},
		{Name: "Company2", Employees: []parsers.RawEmployee{{ID: idPtr(1), Email: "dev1@email.com"}}},
	}

	res, err := service.Import(context.Background(), raw, ImportOptions{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 2, res.Errors[0].Line)
	assert.Equal(t, "employees.id", res.Errors[0].Key)
	assert.Zero(t, env.store.BeginCount)
}

func TestImportService_Import_CancelledContext(t *testing.T) {
	env := newTestEnv(t)
	service := NewImportService(env.companies)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Import(ctx, []parsers.RawCompany{{Name: "Company1"}}, ImportOptions{})

	require.Error(t, err)
	assert.Zero(t, env.store.CompanyCount())
}

func TestImportService_Import_UsesCreator(t *testing.T) {
	var names []string
	creator := CompanyCreatorFunc(func(_ context.Context, req CreateCompanyRequest) result.Result[CompanyResponse] {
		names = append(names, req.Name)
		return result.Success(CompanyResponse{ID: int64(len(names)), Name: req.Name})
	})
	service := NewImportService(creator)

	res, err := service.Import(context.Background(), []parsers.RawCompany{{Name: "A"}, {Name: "B"}}, ImportOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, int64(2), res.Companies[1].ID)
}
