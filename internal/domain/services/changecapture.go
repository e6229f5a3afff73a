package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// ErrMissingIDEntry is returned when a pending record has no "id" changeset entry.
var ErrMissingIDEntry = errors.New("pending audit record has no id entry")

// ChangeCaptureInterceptor turns tracked session writes into audit records.
// Records are written to a store separate from the primary one, after the
// primary commit, so a failed audit write leaves the trail incomplete but
// never undoes the committed data.
type ChangeCaptureInterceptor struct {
	store  ports.AuditStore
	logger zerolog.Logger
}

// NewChangeCaptureInterceptor creates a new interceptor writing to store.
func NewChangeCaptureInterceptor(store ports.AuditStore, logger zerolog.Logger) *ChangeCaptureInterceptor {
	return &ChangeCaptureInterceptor{
		store:  store,
		logger: logger,
	}
}

var _ ports.ChangeCapture = (*ChangeCaptureInterceptor)(nil)

// CapturePending builds one pending record per added or modified entity.
// Unchanged entities and unknown resource types are skipped.
func (i *ChangeCaptureInterceptor) CapturePending(entries []ports.TrackedEntity) []*entities.AuditRecord {
	records := make([]*entities.AuditRecord, 0, len(entries))

	for _, entry := range entries {
		eventType, ok := eventTypeFor(entry.State)
		if !ok || entry.Entity == nil {
			continue
		}

		resource := entry.Entity.ResourceType()
		if resource != entities.ResourceCompany && resource != entities.ResourceEmployee {
			continue
		}

		identifier := entry.Entity.BusinessIdentifier()
		records = append(records, &entities.AuditRecord{
			ID:                    uuid.New().String(),
			ResourceType:          resource,
			EventType:             eventType,
			UniqueIdentifierValue: identifier,
			CreatedAt:             timeNow().UTC(),
			Changeset:             entities.Diff(entry.Original, entry.Entity),
			Comment:               comment(eventType, resource, identifier),
		})
	}

	return records
}

// FinalizeAndPersist copies each entity's generated ID into the "id" entry of
// its pending records, matched by resource type and business identifier,
// then writes all records in one batch.
func (i *ChangeCaptureInterceptor) FinalizeAndPersist(ctx context.Context, entries []ports.TrackedEntity, pending []*entities.AuditRecord) error {
	if len(pending) == 0 {
		return nil
	}

	byIdentifier := make(map[pendingKey][]*entities.AuditRecord, len(pending))
	for _, rec := range pending {
		key := pendingKey{resource: rec.ResourceType, identifier: rec.UniqueIdentifierValue}
		byIdentifier[key] = append(byIdentifier[key], rec)
	}

	for _, entry := range entries {
		if entry.Entity == nil {
			continue
		}
		key := pendingKey{resource: entry.Entity.ResourceType(), identifier: entry.Entity.BusinessIdentifier()}
		for _, rec := range byIdentifier[key] {
			idEntry := rec.ChangesetValue(entities.PropertyID)
			if idEntry == nil {
				return fmt.Errorf("%s %s: %w", rec.ResourceType, rec.UniqueIdentifierValue, ErrMissingIDEntry)
			}
			idEntry.NewValue = strconv.FormatInt(entry.Entity.Identifier(), 10)
		}
	}

	if err := i.store.SaveAuditRecords(ctx, pending); err != nil {
		return fmt.Errorf("saving audit records: %w", err)
	}

	i.logger.Debug().Int("records", len(pending)).Msg("audit records persisted")
	return nil
}

type pendingKey struct {
	resource   entities.ResourceType
	identifier string
}

func eventTypeFor(state ports.EntityState) (entities.EventType, bool) {
	switch state {
	case ports.StateAdded:
		return entities.EventCreate, true
	case ports.StateModified:
		return entities.EventUpdate, true
	default:
		return "", false
	}
}

func comment(event entities.EventType, resource entities.ResourceType, identifier string) string {
	name := strings.ToLower(string(resource))
	if event == entities.EventUpdate {
		return fmt.Sprintf("The %s %s was updated.", name, identifier)
	}
	return fmt.Sprintf("New %s %s was created.", name, identifier)
}
