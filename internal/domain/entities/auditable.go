package entities

import (
	"strconv"
	"time"
)

// AuditableFields holds the columns every audited entity carries.
// ID is assigned by the store on insert; zero means not yet persisted.
type AuditableFields struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identifier returns the store-assigned ID.
func (f *AuditableFields) Identifier() int64 {
	return f.ID
}

// Created returns the creation timestamp.
func (f *AuditableFields) Created() time.Time {
	return f.CreatedAt
}

// IsNew reports whether the entity has not been persisted yet.
func (f *AuditableFields) IsNew() bool {
	return f.ID == 0
}

func (f *AuditableFields) properties() []Property {
	return []Property{
		{Key: PropertyID, Value: strconv.FormatInt(f.ID, 10)},
		{Key: PropertyCreatedAt, Value: f.CreatedAt.UTC().Format(time.RFC3339Nano)},
	}
}

// Auditable is implemented by entities whose writes are recorded in the audit trail.
type Auditable interface {
	ResourceType() ResourceType
	// BusinessIdentifier returns the unique human-meaningful value (name or email).
	BusinessIdentifier() string
	Identifier() int64
	Created() time.Time
	// Properties lists every tracked column as a key and its string form.
	Properties() []Property
}
