package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
)

// AuditStore implements ports.AuditStore on its own pool.
type AuditStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ ports.AuditStore = (*AuditStore)(nil)

// NewAuditStore wraps an open pool. It must not be the entity store's pool.
func NewAuditStore(pool *pgxpool.Pool, logger zerolog.Logger) *AuditStore {
	return &AuditStore{pool: pool, logger: logger}
}

// Close closes the pool.
func (a *AuditStore) Close() error {
	a.pool.Close()
	return nil
}

// EnsureSchema applies the pending audit migrations.
func (a *AuditStore) EnsureSchema(ctx context.Context) error {
	return runMigrations(ctx, a.pool, scopeAudit, a.logger)
}

// SaveAuditRecords inserts the records in one batch.
// Records without an ID get a new UUID.
func (a *AuditStore) SaveAuditRecords(ctx context.Context, records []*entities.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		id := uuid.New()
		if rec.ID != "" {
			parsed, err := uuid.Parse(rec.ID)
			if err != nil {
				return fmt.Errorf("parsing audit record id %q: %w", rec.ID, err)
			}
			id = parsed
		}
		rec.ID = id.String()

		changeset, err := json.Marshal(rec.Changeset)
		if err != nil {
			return fmt.Errorf("marshaling changeset: %w", err)
		}

		batch.Queue(`
			INSERT INTO audit_log (id, resource_type, event_type, unique_identifier_value, created_at, changeset, comment)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, string(rec.ResourceType), string(rec.EventType), rec.UniqueIdentifierValue, rec.CreatedAt, changeset, rec.Comment)
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning audit transaction: %w", mapPostgresError(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting audit records: %w", mapPostgresError(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing audit records: %w", mapPostgresError(err))
	}
	return nil
}

// ListAuditRecords returns the matching records, newest first.
func (a *AuditStore) ListAuditRecords(ctx context.Context, filter ports.AuditFilter) ([]entities.AuditRecord, error) {
	query := `
		SELECT id, resource_type, event_type, unique_identifier_value, created_at, changeset, comment
		FROM audit_log
		WHERE ($1 = '' OR resource_type = $1)
		  AND ($2 = '' OR unique_identifier_value = $2)
		ORDER BY created_at DESC, seq DESC
	`
	args := []any{string(filter.ResourceType), filter.UniqueIdentifierValue}
	if filter.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, filter.Limit)
	}

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var records []entities.AuditRecord
	for rows.Next() {
		var rec entities.AuditRecord
		var id uuid.UUID
		var resource, event string
		var changeset []byte

		if err := rows.Scan(
			&id,
			&resource,
			&event,
			&rec.UniqueIdentifierValue,
			&rec.CreatedAt,
			&changeset,
			&rec.Comment,
		); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}

		rec.ID = id.String()
		rec.ResourceType = entities.ResourceType(resource)
		rec.EventType = entities.EventType(event)
		rec.CreatedAt = rec.CreatedAt.UTC()
		if err := json.Unmarshal(changeset, &rec.Changeset); err != nil {
			return nil, fmt.Errorf("unmarshaling changeset: %w", err)
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}
