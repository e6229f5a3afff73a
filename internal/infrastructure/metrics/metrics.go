// Package metrics exposes Prometheus metrics for the creation workflows.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Workflow label values.
const (
	WorkflowCreateCompany  = "create_company"
	WorkflowCreateEmployee = "create_employee"
)

// Metrics tracks workflow outcomes and durations on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	CompaniesCreated   prometheus.Counter
	EmployeesCreated   prometheus.Counter
	WorkflowRejections *prometheus.CounterVec
	WorkflowDuration   *prometheus.HistogramVec
}

// New creates a new Metrics instance with its own registry, including the
// Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		CompaniesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "roster_companies_created_total",
			Help: "Total number of companies created",
		}),
		EmployeesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "roster_employees_created_total",
			Help: "Total number of employees created, including those created with a company",
		}),
		WorkflowRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "roster_workflow_rejections_total",
			Help: "Total number of rejected creation requests by error kind",
		}, []string{"workflow", "reason"}),
		WorkflowDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "roster_workflow_duration_seconds",
			Help:    "Duration of creation workflows",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"workflow"}),
	}
}

// ObserveWorkflow records the duration of a workflow.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveWorkflow(workflow string, start time.Time) {
	m.WorkflowDuration.WithLabelValues(workflow).Observe(time.Since(start).Seconds())
}

// IncrementRejection records a rejected request.
func (m *Metrics) IncrementRejection(workflow, reason string) {
	m.WorkflowRejections.WithLabelValues(workflow, reason).Inc()
}

// AddCompanyCreated records a created company and its newly created employees.
func (m *Metrics) AddCompanyCreated(newEmployees int) {
	m.CompaniesCreated.Inc()
	m.EmployeesCreated.Add(float64(newEmployees))
}

// IncrementEmployeeCreated records a created employee.
func (m *Metrics) IncrementEmployeeCreated() {
	m.EmployeesCreated.Inc()
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
