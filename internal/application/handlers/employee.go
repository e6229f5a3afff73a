package handlers

import (
	"context"
	"time"

	"github.com/ersonp/roster-core/internal/domain/result"
	"github.com/ersonp/roster-core/internal/domain/services"
	"github.com/ersonp/roster-core/internal/infrastructure/metrics"
)

// EmployeeHandler handles employee creation.
type EmployeeHandler struct {
	service *services.EmployeeService
	metrics *metrics.Metrics
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(service *services.EmployeeService, m *metrics.Metrics) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		metrics: m,
	}
}

// Handle runs the employee creation workflow and records its outcome.
func (h *EmployeeHandler) Handle(ctx context.Context, req services.CreateEmployeeRequest) result.Result[services.EmployeeResponse] {
	defer h.metrics.ObserveWorkflow(metrics.WorkflowCreateEmployee, time.Now())

	res := h.service.CreateEmployee(ctx, req)
	if res.HasError() {
		h.metrics.IncrementRejection(metrics.WorkflowCreateEmployee, res.Err().Kind().String())
		return res
	}

	h.metrics.IncrementEmployeeCreated()
	return res
}
