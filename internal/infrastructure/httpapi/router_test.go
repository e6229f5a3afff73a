package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/roster-core/internal/application/handlers"
	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/mocks"
	"github.com/ersonp/roster-core/internal/domain/services"
	"github.com/ersonp/roster-core/internal/infrastructure/metrics"
)

type testServer struct {
	store  *mocks.EntityStore
	audit  *mocks.AuditStore
	router http.Handler
	logs   *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	audit := mocks.NewAuditStore()
	store := mocks.NewEntityStore(services.NewChangeCaptureInterceptor(audit, zerolog.Nop()))
	m := metrics.New()
	logs := &bytes.Buffer{}
	logger := zerolog.New(logs)

	api := New(
		handlers.NewCompanyHandler(services.NewCompanyService(store, zerolog.Nop()), m),
		handlers.NewEmployeeHandler(services.NewEmployeeService(store, zerolog.Nop()), m),
		handlers.NewAuditHandler(audit),
		m,
		logger,
	)
	return &testServer{store: store, audit: audit, router: api.Router(), logs: logs}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreateCompany(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/companies", `{
		"name": "Company1",
		"employees": [{"email": "dev1@email.com", "title": "Developer"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decodeBody[services.CompanyResponse](t, rec)
	assert.Equal(t, "Company1", body.Name)
	require.Len(t, body.Employees, 1)
	assert.Equal(t, entities.TitleDeveloper, body.Employees[0].Title)
	assert.Equal(t, []int64{body.ID}, body.Employees[0].CompanyIDs)
}

func TestCreateCompany_Conflict(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/companies", `{"name": "Company1"}`).Code)

	rec := srv.do(t, http.MethodPost, "/api/companies", `{"name": "Company1"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody[errorBody](t, rec)
	assert.Equal(t, "name", body.Key)
	assert.Equal(t, "A company with the same name already exists.", body.Message)
}

func TestCreateCompany_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"name": `},
		{name: "unknown title", body: `{"name": "Company1", "employees": [{"email": "a@email.com", "title": "Intern"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec := srv.do(t, http.MethodPost, "/api/companies", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "body", decodeBody[errorBody](t, rec).Key)
			assert.Zero(t, srv.store.BeginCount)
		})
	}
}

func TestCreateCompany_InternalError(t *testing.T) {
	srv := newTestServer(t)
	srv.store.BeginErr = assert.AnError

	rec := srv.do(t, http.MethodPost, "/api/companies", `{"name": "Company1"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCreateEmployee(t *testing.T) {
	srv := newTestServer(t)
	company := decodeBody[services.CompanyResponse](t, srv.do(t, http.MethodPost, "/api/companies", `{"name": "Company1"}`))

	rec := srv.do(t, http.MethodPost, "/api/employees", `{"email": "dev1@email.com", "title": "Developer", "companyIds": [`+jsonInt(company.ID)+`]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[services.EmployeeResponse](t, rec)
	assert.Equal(t, "dev1@email.com", body.Email)
	assert.Equal(t, []int64{company.ID}, body.CompanyIDs)
}

func TestCreateEmployee_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKey    string
	}{
		{name: "missing email", body: `{"title": "Tester"}`, wantStatus: http.StatusConflict, wantKey: "email"},
		{name: "missing title", body: `{"email": "dev1@email.com"}`, wantStatus: http.StatusBadRequest, wantKey: "title"},
		{name: "unknown company", body: `{"email": "dev1@email.com", "title": "Tester", "companyIds": [99]}`, wantStatus: http.StatusConflict, wantKey: "companyIds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			rec := srv.do(t, http.MethodPost, "/api/employees", tt.body)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantKey, decodeBody[errorBody](t, rec).Key)
		})
	}
}

func TestListAudit(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, srv.do(t, http.MethodPost, "/api/companies", `{
		"name": "Company1",
		"employees": [{"email": "dev1@email.com", "title": "Developer"}]
	}`).Code)

	rec := srv.do(t, http.MethodGet, "/api/audit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]entities.AuditRecord](t, rec), 2)

	rec = srv.do(t, http.MethodGet, "/api/audit?resource=company", "")
	require.Equal(t, http.StatusOK, rec.Code)
	records := decodeBody[[]entities.AuditRecord](t, rec)
	require.Len(t, records, 1)
	assert.Equal(t, entities.ResourceCompany, records[0].ResourceType)
	assert.Equal(t, "Company1", records[0].UniqueIdentifierValue)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/audit?resource=invoice", "").Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/audit?limit=abc", "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.do(t, http.MethodPost, "/api/companies", `{"name": "Company1"}`)
	rec = srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "roster_companies_created_total 1")
}

func TestRequestLogger(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodGet, "/healthz", "")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(srv.logs.Bytes()), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/healthz", entry["path"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
