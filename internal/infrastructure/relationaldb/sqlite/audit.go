package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/infrastructure/config"
)

// AuditStore implements ports.AuditStore on its own SQLite database.
type AuditStore struct {
	db   *sql.DB
	path string
}

var _ ports.AuditStore = (*AuditStore)(nil)

// NewAuditStore opens the audit database.
func NewAuditStore(cfg config.SQLiteConfig) (*AuditStore, error) {
	db, err := open(cfg.Path)
	if err != nil {
		return nil, err
	}
	return &AuditStore{db: db, path: cfg.Path}, nil
}

// Close closes the database connection.
func (a *AuditStore) Close() error {
	return a.db.Close()
}

// EnsureSchema creates the audit table if it doesn't exist.
func (a *AuditStore) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, auditSchema); err != nil {
		return fmt.Errorf("creating audit schema: %w", err)
	}
	return nil
}

// SaveAuditRecords inserts the records in one transaction.
// Records without an ID get a new UUID.
func (a *AuditStore) SaveAuditRecords(ctx context.Context, records []*entities.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning audit transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit_log (id, resource_type, event_type, unique_identifier_value, created_at, changeset, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing audit insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		changeset, err := json.Marshal(rec.Changeset)
		if err != nil {
			return fmt.Errorf("marshaling changeset: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID,
			string(rec.ResourceType),
			string(rec.EventType),
			rec.UniqueIdentifierValue,
			rec.CreatedAt.UTC(),
			string(changeset),
			rec.Comment,
		); err != nil {
			return fmt.Errorf("inserting audit record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing audit records: %w", err)
	}
	return nil
}

// ListAuditRecords returns the matching records, newest first.
func (a *AuditStore) ListAuditRecords(ctx context.Context, filter ports.AuditFilter) ([]entities.AuditRecord, error) {
	query := `
		SELECT id, resource_type, event_type, unique_identifier_value, created_at, changeset, comment
		FROM audit_log
		WHERE (? = '' OR resource_type = ?)
		  AND (? = '' OR unique_identifier_value = ?)
		ORDER BY created_at DESC, rowid DESC
	`
	args := []any{
		string(filter.ResourceType), string(filter.ResourceType),
		filter.UniqueIdentifierValue, filter.UniqueIdentifierValue,
	}
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var records []entities.AuditRecord
	if filter.Limit > 0 {
		records = make([]entities.AuditRecord, 0, filter.Limit)
	}

	for rows.Next() {
		var rec entities.AuditRecord
		var resource, event, changeset string
		var createdAt time.Time

		if err := rows.Scan(
			&rec.ID,
			&resource,
			&event,
			&rec.UniqueIdentifierValue,
			&createdAt,
			&changeset,
			&rec.Comment,
		); err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}

		rec.ResourceType = entities.ResourceType(resource)
		rec.EventType = entities.EventType(event)
		rec.CreatedAt = createdAt.UTC()
		if err := json.Unmarshal([]byte(changeset), &rec.Changeset); err != nil {
			return nil, fmt.Errorf("unmarshaling changeset: %w", err)
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}
