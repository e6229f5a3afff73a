package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ersonp/roster-core/internal/application/handlers"
	"github.com/ersonp/roster-core/internal/domain/result"
	"github.com/ersonp/roster-core/internal/domain/services"
)

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("invalid create company request")
		writeBadRequest(w, "body", err.Error())
		return
	}

	writeResult(w, a.companies.Handle(r.Context(), req))
}

func (a *API) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req services.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.logger.Warn().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("invalid create employee request")
		writeBadRequest(w, "body", err.Error())
		return
	}
	if !req.Title.IsValid() {
		writeBadRequest(w, result.KeyTitle, "title is required (valid: Developer, Manager, Tester)")
		return
	}

	writeResult(w, a.employees.Handle(r.Context(), req))
}

func (a *API) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := handlers.AuditQuery{
		Resource:   r.URL.Query().Get("resource"),
		Identifier: r.URL.Query().Get("identifier"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeBadRequest(w, "limit", "limit must be a non-negative integer")
			return
		}
		q.Limit = limit
	}

	if _, err := handlers.ParseResource(q.Resource); err != nil {
		writeBadRequest(w, "resource", err.Error())
		return
	}

	records, err := a.audit.Handle(r.Context(), q)
	if err != nil {
		a.logger.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("listing audit records")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
