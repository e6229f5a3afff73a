package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
)

// AuditStore is a mock implementation of ports.AuditStore.
type AuditStore struct {
	mu      sync.Mutex
	Records []entities.AuditRecord
	Err     error

	SaveCallCount int
}

// NewAuditStore creates a new mock AuditStore.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// EnsureSchema is a no-op.
func (m *AuditStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close is a no-op.
func (m *AuditStore) Close() error {
	return nil
}

// SaveAuditRecords appends copies of the records.
func (m *AuditStore) SaveAuditRecords(_ context.Context, records []*entities.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCallCount++
	if m.Err != nil {
		return m.Err
	}
	for _, r := range records {
		rec := *r
		rec.Changeset = append([]entities.ChangesetEntry(nil), r.Changeset...)
		m.Records = append(m.Records, rec)
	}
	return nil
}

// ListAuditRecords returns matching records newest first.
func (m *AuditStore) ListAuditRecords(_ context.Context, filter ports.AuditFilter) ([]entities.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	var out []entities.AuditRecord
	for i := len(m.Records) - 1; i >= 0; i-- {
		r := m.Records[i]
		if filter.ResourceType != "" && r.ResourceType != filter.ResourceType {
			continue
		}
		if filter.UniqueIdentifierValue != "" && r.UniqueIdentifierValue != filter.UniqueIdentifierValue {
			continue
		}
		out = append(out, r)
	}
	// Stable on CreatedAt so equal timestamps keep insertion order (newest first)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Created returns the records with the Create event for a resource type.
func (m *AuditStore) Created(resource entities.ResourceType) []entities.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []entities.AuditRecord
	for _, r := range m.Records {
		if r.ResourceType == resource && r.EventType == entities.EventCreate {
			out = append(out, r)
		}
	}
	return out
}
