package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
)

type fakeCapture struct {
	captured  int
	finalized [][]*entities.AuditRecord
	err       error
}

func (f *fakeCapture) CapturePending(entries []ports.TrackedEntity) []*entities.AuditRecord {
	records := make([]*entities.AuditRecord, 0, len(entries))
	for _, e := range entries {
		f.captured++
		records = append(records, &entities.AuditRecord{UniqueIdentifierValue: e.Entity.BusinessIdentifier()})
	}
	return records
}

func (f *fakeCapture) FinalizeAndPersist(_ context.Context, _ []ports.TrackedEntity, pending []*entities.AuditRecord) error {
	if f.err != nil {
		return f.err
	}
	f.finalized = append(f.finalized, pending)
	return nil
}

func added(name string) ports.TrackedEntity {
	return ports.TrackedEntity{State: ports.StateAdded, Entity: entities.NewCompany(name, nil)}
}

func TestTracker_TrackAndCommit(t *testing.T) {
	capture := &fakeCapture{}
	tracker := New(capture, zerolog.Nop())

	tracker.Track(added("A"))
	tracker.Track(added("B"), added("C"))

	assert.Equal(t, 3, capture.captured)
	assert.Equal(t, 3, tracker.Pending())
	assert.Len(t, tracker.Entries(), 3)

	require.NoError(t, tracker.Committed(context.Background()))

	require.Len(t, capture.finalized, 1)
	assert.Len(t, capture.finalized[0], 3)
	assert.Zero(t, tracker.Pending())
	assert.Empty(t, tracker.Entries())
}

func TestTracker_Discard(t *testing.T) {
	capture := &fakeCapture{}
	tracker := New(capture, zerolog.Nop())

	tracker.Track(added("A"))
	tracker.Discard()

	require.NoError(t, tracker.Committed(context.Background()))
	assert.Empty(t, capture.finalized)
}

func TestTracker_CommittedReturnsAuditFailureAndClears(t *testing.T) {
	capture := &fakeCapture{err: errors.New("audit db down")}
	tracker := New(capture, zerolog.Nop())

	tracker.Track(added("A"))
	err := tracker.Committed(context.Background())

	require.Error(t, err)
	assert.Zero(t, tracker.Pending())
}

func TestTracker_NilCapture(t *testing.T) {
	tracker := New(nil, zerolog.Nop())

	tracker.Track(added("A"))

	assert.Len(t, tracker.Entries(), 1)
	assert.Zero(t, tracker.Pending())
	assert.NoError(t, tracker.Committed(context.Background()))
}
