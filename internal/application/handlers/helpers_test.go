package handlers

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/mocks"
	"github.com/ersonp/roster-core/internal/domain/services"
	"github.com/ersonp/roster-core/internal/infrastructure/metrics"
)

type testEnv struct {
	store     *mocks.EntityStore
	audit     *mocks.AuditStore
	metrics   *metrics.Metrics
	companies *CompanyHandler
	employees *EmployeeHandler
	imports   *ImportHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	audit := mocks.NewAuditStore()
	store := mocks.NewEntityStore(services.NewChangeCaptureInterceptor(audit, zerolog.Nop()))
	m := metrics.New()

	companies := NewCompanyHandler(services.NewCompanyService(store, zerolog.Nop()), m)
	return &testEnv{
		store:     store,
		audit:     audit,
		metrics:   m,
		companies: companies,
		employees: NewEmployeeHandler(services.NewEmployeeService(store, zerolog.Nop()), m),
		imports:   NewImportHandler(services.NewImportService(services.CompanyCreatorFunc(companies.Handle))),
	}
}

func titlePtr(t entities.Title) *entities.Title { return &t }

func idPtr(id int64) *int64 { return &id }
