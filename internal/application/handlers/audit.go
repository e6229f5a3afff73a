package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
)

// Audit listing limits.
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 1000
)

// AuditHandler lists the audit trail.
type AuditHandler struct {
	store ports.AuditStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(store ports.AuditStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// AuditQuery selects audit records. Resource is "company", "employee" or empty.
type AuditQuery struct {
	Resource   string
	Identifier string
	Limit      int
}

// Handle returns the matching records, newest first.
func (h *AuditHandler) Handle(ctx context.Context, q AuditQuery) ([]entities.AuditRecord, error) {
	resource, err := ParseResource(q.Resource)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}

	records, err := h.store.ListAuditRecords(ctx, ports.AuditFilter{
		ResourceType:          resource,
		UniqueIdentifierValue: q.Identifier,
		Limit:                 limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing audit records: %w", err)
	}
	return records, nil
}

// ParseResource converts a case-insensitive resource name into a ResourceType.
// An empty name means every resource.
func ParseResource(name string) (entities.ResourceType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return "", nil
	case "company":
		return entities.ResourceCompany, nil
	case "employee":
		return entities.ResourceEmployee, nil
	default:
		return "", fmt.Errorf("invalid resource %q (valid: company, employee)", name)
	}
}
