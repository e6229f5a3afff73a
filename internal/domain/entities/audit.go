package entities

import "time"

// ResourceType identifies the kind of audited entity.
type ResourceType string

const (
	ResourceCompany  ResourceType = "Company"
	ResourceEmployee ResourceType = "Employee"
)

// EventType identifies what happened to an audited entity.
type EventType string

const (
	EventCreate EventType = "Create"
	EventUpdate EventType = "Update"
)

// ChangesetEntry is the old and new string form of one tracked property.
// OldValue is empty for newly created entities.
type ChangesetEntry struct {
	Key      string `json:"key"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// AuditRecord is an append-only description of one create or update.
// UniqueIdentifierValue holds the business identifier (name or email),
// never the numeric ID.
type AuditRecord struct {
	ID                    string           `json:"id"`
	ResourceType          ResourceType     `json:"resourceType"`
	EventType             EventType        `json:"eventType"`
	UniqueIdentifierValue string           `json:"uniqueIdentifierValue"`
	CreatedAt             time.Time        `json:"createdAt"`
	Changeset             []ChangesetEntry `json:"changeset"`
	Comment               string           `json:"comment"`
}

// ChangesetValue returns the entry for key, or nil.
func (r *AuditRecord) ChangesetValue(key string) *ChangesetEntry {
	for i := range r.Changeset {
		if r.Changeset[i].Key == key {
			return &r.Changeset[i]
		}
	}
	return nil
}
