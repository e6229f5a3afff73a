package ports

import (
	"context"

	"github.com/ersonp/roster-core/internal/domain/entities"
)

// EntityState is the tracking state of an entity within a session.
type EntityState int

const (
	StateUnchanged EntityState = iota
	StateAdded
	StateModified
)

// TrackedEntity is one entity observed by a session write.
// Original holds the pre-write snapshot of a modified entity and is nil otherwise.
type TrackedEntity struct {
	State    EntityState
	Entity   entities.Auditable
	Original entities.Auditable
}

// ChangeCapture turns session writes into audit records.
type ChangeCapture interface {
	// CapturePending snapshots the entries before they are written.
	CapturePending(entries []TrackedEntity) []*entities.AuditRecord

	// FinalizeAndPersist backfills generated IDs into the pending records and
	// writes them to the audit store in one batch. Called after commit.
	FinalizeAndPersist(ctx context.Context, entries []TrackedEntity, pending []*entities.AuditRecord) error
}

// AuditStore is the append-only audit trail.
type AuditStore interface {
	// EnsureSchema creates the audit table if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// SaveAuditRecords appends the records in one batch.
	SaveAuditRecords(ctx context.Context, records []*entities.AuditRecord) error

	// ListAuditRecords returns records newest first.
	ListAuditRecords(ctx context.Context, filter AuditFilter) ([]entities.AuditRecord, error)

	// Close releases the underlying connections.
	Close() error
}

// AuditFilter narrows ListAuditRecords. Zero values mean no restriction.
type AuditFilter struct {
	ResourceType          entities.ResourceType
	UniqueIdentifierValue string
	Limit                 int
}
