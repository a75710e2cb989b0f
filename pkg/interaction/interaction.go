// Package interaction keeps the local like, favorite and follow state of a
// session in step with the API. Toggles are applied to local state at once,
// confirmed with one request, and restored to their exact previous values if
// that request fails.
//
// Toggles on the same (kind, id) pair are serialized: a second toggle waits
// for the first to resolve and then computes its change against the current
// state. Different pairs never wait on each other.
package interaction

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/skillshare/cli/pkg/api"
	"github.com/skillshare/cli/pkg/logger"
	"github.com/skillshare/cli/pkg/metrics"
	"github.com/skillshare/cli/pkg/session"
	"golang.org/x/sync/semaphore"
)

// Kind names the interaction being toggled
type Kind string

const (
	KindLike     Kind = "like"
	KindFavorite Kind = "favorite"
	KindFollow   Kind = "follow"
)

// Outcome is how a toggle resolved
type Outcome string

const (
	// Confirmed means the API accepted the change and local state stands.
	Confirmed Outcome = "confirmed"
	// RolledBack means the change was undone locally after a failure.
	RolledBack Outcome = "rolled_back"
	// Rejected means nothing was changed and no request was sent.
	Rejected Outcome = "rejected"
	// Discarded means the entity left the collection while in flight.
	Discarded Outcome = "discarded"
)

// Result is what a toggle reports to its caller. Message is suitable for
// display and empty on confirmation.
type Result struct {
	Outcome Outcome
	Message string
}

// Phase is the stage a Change reports
type Phase string

const (
	PhaseOptimistic Phase = "optimistic"
	PhaseConfirmed  Phase = "confirmed"
	PhaseRolledBack Phase = "rolled_back"
	PhaseDiscarded  Phase = "discarded"
)

// Change is delivered to observers whenever local state moves
type Change struct {
	Kind  Kind
	ID    int64
	Phase Phase
}

// Remote is the subset of the API the synchronizer confirms against.
// *api.Client satisfies it.
type Remote interface {
	LikePost(ctx context.Context, postID, userID int64) (*api.Post, error)
	FavoritePost(ctx context.Context, postID, userID int64) (*api.Post, error)
	FollowUser(ctx context.Context, targetID, followerID int64) error
	UnfollowUser(ctx context.Context, targetID, followerID int64) error
	GetUser(ctx context.Context, userID int64) (*api.User, error)
}

// Pending describes a toggle whose confirming request is in flight
type Pending struct {
	Kind     Kind
	EntityID int64
	Previous any
}

type pairKey struct {
	kind Kind
	id   int64
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithMetrics records toggle outcomes and desync repairs on m
func WithMetrics(m *metrics.InteractionMetrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

// WithObserver adds fn to the observers notified of every Change. Observers
// run on the toggling goroutine with no locks held.
func WithObserver(fn func(Change)) Option {
	return func(s *Synchronizer) {
		s.observers = append(s.observers, fn)
	}
}

// Synchronizer owns the interaction state of loaded posts and follow
// relationships. It is safe for concurrent use.
type Synchronizer struct {
	remote    Remote
	session   *session.Session
	metrics   *metrics.InteractionMetrics
	observers []func(Change)

	posts   *table[PostState]
	follows *table[FollowState]

	epoch       atomic.Uint64
	unsubscribe func()

	mu      sync.Mutex
	locks   map[pairKey]*pairLock
	pending map[pairKey]Pending
}

// New creates a synchronizer bound to sess. It subscribes to session
// invalidation until Close is called.
func New(remote Remote, sess *session.Session, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		remote:  remote,
		session: sess,
		posts:   newTable[PostState](),
		follows: newTable[FollowState](),
		locks:   make(map[pairKey]*pairLock),
		pending: make(map[pairKey]Pending),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.unsubscribe = sess.OnUnauthenticated(func() {
		epoch := s.epoch.Add(1)
		logger.Info("Abandoning in-flight interactions", "epoch", epoch, "pending", s.pendingCount())
	})
	return s
}

// Close stops listening for session invalidation
func (s *Synchronizer) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// InFlight reports the pending toggle for (kind, id), if any
func (s *Synchronizer) InFlight(kind Kind, id int64) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[pairKey{kind, id}]
	return p, ok
}

func (s *Synchronizer) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// pairLock serializes toggles on one pair. refs counts the toggles holding
// or waiting on sem; the entry is dropped when it reaches zero.
type pairLock struct {
	sem  *semaphore.Weighted
	refs int
}

// acquire waits for the pair's turn. On success the caller must call the
// returned release exactly once.
func (s *Synchronizer) acquire(ctx context.Context, key pairKey) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &pairLock{sem: semaphore.NewWeighted(1)}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		s.unref(key, l)
		return nil, err
	}
	return func() {
		l.sem.Release(1)
		s.unref(key, l)
	}, nil
}

func (s *Synchronizer) unref(key pairKey, l *pairLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.refs--
	if l.refs == 0 && s.locks[key] == l {
		delete(s.locks, key)
	}
}

func (s *Synchronizer) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func (s *Synchronizer) setPending(p Pending) {
	s.mu.Lock()
	s.pending[pairKey{p.Kind, p.EntityID}] = p
	s.mu.Unlock()
}

func (s *Synchronizer) clearPending(key pairKey) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
}

func (s *Synchronizer) notify(c Change) {
	for _, fn := range s.observers {
		fn(c)
	}
}
