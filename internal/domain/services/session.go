package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ersonp/roster-core/internal/domain/ports"
	"github.com/ersonp/roster-core/internal/domain/result"
)

// errRejected marks a workflow step that produced a domain error.
type errRejected struct {
	err *result.Error
}

func (e *errRejected) Error() string {
	return e.err.Error()
}

func reject(err *result.Error) error {
	return &errRejected{err: err}
}

// conflictMapping maps storage uniqueness sentinels to domain errors.
type conflictMapping map[error]func() *result.Error

// inSession runs fn in a fresh session and commits when fn succeeds.
// The session is rolled back on any error. Rejections come back as their
// domain error; storage conflicts are mapped through conflicts; anything else
// is logged and hidden behind Internal.
func inSession[R any](
	ctx context.Context,
	store ports.EntityStore,
	logger zerolog.Logger,
	conflicts conflictMapping,
	fn func(ports.Session) (R, error),
) result.Result[R] {
	out, err := runSession(ctx, store, fn)
	if err == nil {
		return result.Success(out)
	}

	var rejected *errRejected
	if errors.As(err, &rejected) {
		return result.Failure[R](rejected.err)
	}

	for sentinel, toDomain := range conflicts {
		if errors.Is(err, sentinel) {
			logger.Debug().Err(err).Msg("storage constraint rejected write")
			return result.Failure[R](toDomain())
		}
	}

	logger.Error().Err(err).Msg("unexpected storage failure")
	return result.Failure[R](result.Internal())
}

func runSession[R any](ctx context.Context, store ports.EntityStore, fn func(ports.Session) (R, error)) (out R, err error) {
	session, err := store.BeginTx(ctx)
	if err != nil {
		return out, fmt.Errorf("beginning transaction: %w", err)
	}
	defer session.Rollback(ctx) //nolint:errcheck // rollback is a no-op after commit
	defer func() {
		if p := recover(); p != nil {
			var zero R
			out, err = zero, fmt.Errorf("panic in session: %v", p)
		}
	}()

	out, err = fn(session)
	if err != nil {
		var zero R
		return zero, err
	}

	if err := session.Commit(ctx); err != nil {
		var zero R
		return zero, fmt.Errorf("committing transaction: %w", err)
	}
	return out, nil
}
