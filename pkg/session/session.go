// Package session holds the identity of the signed-in user for the lifetime
// of a client. It replaces ambient auth state: everything that needs the
// current actor is handed a *Session explicitly.
package session

import (
	"strconv"
	"strings"
	"sync"

	json "github.com/json-iterator/go"
	clierrors "github.com/skillshare/cli/pkg/errors"
	"github.com/skillshare/cli/pkg/logger"
)

// Principal is the raw identity payload returned by GET /user. Password
// logins carry a numeric id; OAuth logins may only carry sub.
type Principal struct {
	ID           json.Number `json:"id,omitempty"`
	Sub          string      `json:"sub,omitempty"`
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email,omitempty"`
	ProfileImage string      `json:"profileImage,omitempty"`
}

// Actor is the normalized identity used by the rest of the client.
type Actor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Normalize collapses the id/sub duality into Actor.ID. id wins when both
// are present.
func Normalize(p Principal) (Actor, error) {
	actor := Actor{Name: p.Name, Email: p.Email}

	if id, ok := parseID(string(p.ID)); ok {
		actor.ID = id
		return actor, nil
	}
	if id, ok := parseID(p.Sub); ok {
		actor.ID = id
		return actor, nil
	}

	return Actor{}, clierrors.UnauthenticatedError("Unable to determine user ID. Please log in again.")
}

func parseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	actor    *Actor
	nextID   int
	handlers map[int]func()
}

// New returns an unauthenticated session
func New() *Session {
	return &Session{handlers: make(map[int]func())}
}

// SignIn makes actor the current user
func (s *Session) SignIn(actor Actor) {
	s.mu.Lock()
	s.actor = &actor
	s.mu.Unlock()
	logger.Debug("Session signed in", "user_id", actor.ID)
}

// SignOut clears the current user without notifying handlers
func (s *Session) SignOut() {
	s.mu.Lock()
	s.actor = nil
	s.mu.Unlock()
}

// CurrentActor returns the current user ID, or false when nobody is signed in
func (s *Session) CurrentActor() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.actor == nil {
		return 0, false
	}
	return s.actor.ID, true
}

// Actor returns a copy of the current actor
func (s *Session) Actor() (Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.actor == nil {
		return Actor{}, false
	}
	return *s.actor, true
}

// OnUnauthenticated registers fn to run whenever the session is invalidated.
// The returned func removes the registration.
func (s *Session) OnUnauthenticated(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
}

// Invalidate clears the current user and runs every OnUnauthenticated
// handler. Handlers run outside the session lock.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.actor = nil
	handlers := make([]func(), 0, len(s.handlers))
	for _, fn := range s.handlers {
		handlers = append(handlers, fn)
	}
	s.mu.Unlock()

	logger.Info("Session invalidated", "handlers", len(handlers))
	for _, fn := range handlers {
		fn()
	}
}
