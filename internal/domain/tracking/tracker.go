// Package tracking records the entities written through a session and drives
// the audit capture pipeline around the session's commit.
package tracking

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/entities"
	"github.com/ersonp/roster-core/internal/domain/ports"
)

// Tracker buffers tracked entities and their pending audit records for one session.
// A nil capture disables auditing.
type Tracker struct {
	capture ports.ChangeCapture
	logger  zerolog.Logger
	entries []ports.TrackedEntity
	pending []*entities.AuditRecord
}

// New creates a tracker.
func New(capture ports.ChangeCapture, logger zerolog.Logger) *Tracker {
	return &Tracker{
		capture: capture,
		logger:  logger,
	}
}

// Track snapshots entries before they are written. Call it right before
// executing the write so generated values are still unset.
func (t *Tracker) Track(entries ...ports.TrackedEntity) {
	if len(entries) == 0 {
		return
	}
	t.entries = append(t.entries, entries...)
	if t.capture != nil {
		t.pending = append(t.pending, t.capture.CapturePending(entries)...)
	}
}

// Entries returns the entities tracked so far.
func (t *Tracker) Entries() []ports.TrackedEntity {
	return t.entries
}

// Pending returns the number of buffered audit records.
func (t *Tracker) Pending() int {
	return len(t.pending)
}

// Committed finalizes and persists the pending records and clears the buffer.
// The primary commit has already happened, so a failed audit write is only
// logged and returned for the caller's information.
func (t *Tracker) Committed(ctx context.Context) error {
	defer t.reset()

	if t.capture == nil || len(t.pending) == 0 {
		return nil
	}

	if err := t.capture.FinalizeAndPersist(ctx, t.entries, t.pending); err != nil {
		t.logger.Warn().
			Err(err).
			Int("records", len(t.pending)).
			Msg("audit records were not persisted")
		return err
	}
	return nil
}

// Discard drops the buffer without writing anything.
func (t *Tracker) Discard() {
	t.reset()
}

func (t *Tracker) reset() {
	t.entries = nil
	t.pending = nil
}
