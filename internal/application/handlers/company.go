package handlers

import (
	"context"
	"time"

	"github.com/ersonp/roster-core/internal/domain/result"
	"github.com/ersonp/roster-core/internal/domain/services"
	"github.com/ersonp/roster-core/internal/infrastructure/metrics"
)

// CompanyHandler handles company creation.
type CompanyHandler struct {
	service *services.CompanyService
	metrics *metrics.Metrics
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(service *services.CompanyService, m *metrics.Metrics) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		metrics: m,
	}
}

// Handle runs the company creation workflow and records its outcome.
func (h *CompanyHandler) Handle(ctx context.Context, req services.CreateCompanyRequest) result.Result[services.CompanyResponse] {
	defer h.metrics.ObserveWorkflow(metrics.WorkflowCreateCompany, time.Now())

	res := h.service.CreateCompany(ctx, req)
	if res.HasError() {
		h.metrics.IncrementRejection(metrics.WorkflowCreateCompany, res.Err().Kind().String())
		return res
	}

	h.metrics.AddCompanyCreated(newEmployeeCount(req))
	return res
}

// newEmployeeCount returns how many employees a successful request created.
// Specs with an ID reference existing employees; specs lacking a title are ignored.
func newEmployeeCount(req services.CreateCompanyRequest) int {
	n := 0
	for _, spec := range req.Employees {
		if spec.ID == nil && spec.Email != "" && spec.Title != nil {
			n++
		}
	}
	return n
}
