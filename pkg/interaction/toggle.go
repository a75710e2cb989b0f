package interaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skillshare/cli/pkg/api"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

// toggle describes one interaction over entities of type E whose pre-toggle
// value has type V. The accessors run with the table lock held except send.
type toggle[E, V any] struct {
	kind  Kind
	table *table[E]

	// verb and noun build messages like "Failed to like post: ..."
	verb string
	noun string

	// validate rejects a toggle before anything is mutated
	validate func(id, actor int64) error
	// capture copies the values apply is about to change
	capture func(e *E, actor int64) V
	// apply makes the optimistic change; a non-empty result is a repaired desync
	apply func(e *E, actor int64, prev V) string
	// restore puts back exactly what capture copied
	restore func(e *E, prev V) string
	// send issues the confirming request and may return a fresher entity
	send func(ctx context.Context, id, actor int64, prev V) (*E, error)
	// adopt merges a snapshot returned by send
	adopt func(e *E, snapshot *E, actor int64) string
}

func runToggle[E, V any](ctx context.Context, s *Synchronizer, t toggle[E, V], id int64) (Result, error) {
	key := pairKey{t.kind, id}

	if _, ok := s.session.CurrentActor(); !ok {
		return s.reject(t.kind, id, fmt.Sprintf("You must be logged in to %s a %s", t.verb, t.noun),
			clierrors.UnauthenticatedError("Not logged in"))
	}

	release, err := s.acquire(ctx, key)
	if err != nil {
		return s.reject(t.kind, id, fmt.Sprintf("Failed to %s %s: %v", t.verb, t.noun, err),
			clierrors.FromRequest(t.verb+" "+t.noun, err))
	}
	defer release()

	// Sampled before the actor check so an invalidation from here on is
	// always seen by one of the epoch comparisons below.
	epoch := s.epoch.Load()

	// The session may have ended while this toggle waited its turn.
	actor, ok := s.session.CurrentActor()
	if !ok {
		return s.reject(t.kind, id, fmt.Sprintf("You must be logged in to %s a %s", t.verb, t.noun),
			clierrors.UnauthenticatedError("Not logged in"))
	}
	if t.validate != nil {
		if err := t.validate(id, actor); err != nil {
			return s.reject(t.kind, id, err.Error(), err)
		}
	}

	start := time.Now()

	t.table.mu.Lock()
	if s.epoch.Load() != epoch {
		t.table.mu.Unlock()
		return s.reject(t.kind, id, fmt.Sprintf("You must be logged in to %s a %s", t.verb, t.noun),
			clierrors.UnauthenticatedError("Session ended before the change was applied"))
	}
	entity, ok := t.table.items[id]
	if !ok {
		t.table.mu.Unlock()
		return s.reject(t.kind, id, fmt.Sprintf("%s %d is not loaded", t.noun, id),
			clierrors.NotFoundError(t.noun, fmt.Sprint(id)))
	}
	prev := t.capture(entity, actor)
	repaired := t.apply(entity, actor, prev)
	s.setPending(Pending{Kind: t.kind, EntityID: id, Previous: prev})
	t.table.mu.Unlock()

	if repaired != "" {
		s.desync(t.kind, id, repaired)
	}
	logger.Debug("Applied optimistic toggle", "kind", t.kind, "id", id, "actor", actor)
	s.notify(Change{Kind: t.kind, ID: id, Phase: PhaseOptimistic})

	snapshot, err := t.send(ctx, id, actor, prev)

	if err == nil && s.epoch.Load() != epoch {
		err = clierrors.UnauthenticatedError("Session ended before the change was confirmed")
	}

	t.table.mu.Lock()
	current, ok := t.table.items[id]
	s.clearPending(key)
	if !ok || current != entity {
		t.table.mu.Unlock()
		logger.Debug("Discarded toggle resolution", "kind", t.kind, "id", id)
		s.metrics.RecordToggle(string(t.kind), string(Discarded), time.Since(start))
		s.notify(Change{Kind: t.kind, ID: id, Phase: PhaseDiscarded})
		return Result{Outcome: Discarded}, nil
	}

	if err != nil {
		repaired = t.restore(entity, prev)
		t.table.mu.Unlock()
		if repaired != "" {
			s.desync(t.kind, id, repaired)
		}

		cliErr := clierrors.FromRequest(t.verb+" "+t.noun, err)
		logger.Warn("Rolled back toggle", "kind", t.kind, "id", id, "error", err)
		s.metrics.RecordToggle(string(t.kind), string(RolledBack), time.Since(start))
		s.notify(Change{Kind: t.kind, ID: id, Phase: PhaseRolledBack})
		return Result{
			Outcome: RolledBack,
			Message: fmt.Sprintf("Failed to %s %s: %s", t.verb, t.noun, reason(err)),
		}, cliErr
	}

	repaired = ""
	if snapshot != nil {
		repaired = t.adopt(entity, snapshot, actor)
	}
	t.table.mu.Unlock()
	if repaired != "" {
		s.desync(t.kind, id, repaired)
	}

	logger.Debug("Confirmed toggle", "kind", t.kind, "id", id, "snapshot", snapshot != nil)
	s.metrics.RecordToggle(string(t.kind), string(Confirmed), time.Since(start))
	s.notify(Change{Kind: t.kind, ID: id, Phase: PhaseConfirmed})
	return Result{Outcome: Confirmed}, nil
}

func (s *Synchronizer) reject(kind Kind, id int64, message string, err error) (Result, error) {
	logger.Debug("Rejected toggle", "kind", kind, "id", id, "reason", message)
	s.metrics.RecordToggle(string(kind), string(Rejected), 0)
	return Result{Outcome: Rejected, Message: message}, err
}

// reason prefers the server's own message, then the classified one
func reason(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Message
	}
	return err.Error()
}
