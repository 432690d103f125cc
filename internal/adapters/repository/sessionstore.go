package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/pkg/metrics"
)

const defaultMaxSessions = 10000

// Session is one viewer's selection.
type Session struct {
	ID        string              `json:"id"`
	Selection selection.Selection `json:"selection"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// SessionStore keeps viewer sessions in memory. It holds at most maxSessions;
// creating one more evicts the least recently used.
type SessionStore struct {
	// mu serialises read-modify-write on sessions; the cache guards only its
	// own bookkeeping.
	mu    sync.Mutex
	max   int
	cache *lru.Cache[string, *Session]
	now   func() time.Time
	newID func() string
}

// NewSessionStore creates an empty session store.
func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		max:   defaultMaxSessions,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	// WithMaxSessions keeps max positive, the only thing NewWithEvict checks.
	s.cache, _ = lru.NewWithEvict(s.max, func(string, *Session) {
		metrics.RecordSessionEviction()
	})
	metrics.UpdateActiveSessions(0)
	return s
}

// Create starts an idle session.
func (s *SessionStore) Create(ctx context.Context) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{ID: s.newID(), Selection: selection.Idle(), CreatedAt: now, UpdatedAt: now}
	s.cache.Add(sess.ID, sess)
	metrics.UpdateActiveSessions(s.cache.Len())
	return *sess
}

// Get returns the session with id and marks it recently used.
func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *sess, nil
}

// Update replaces the selection of session id with fn's result. If fn fails
// the session is left untouched.
func (s *SessionStore) Update(ctx context.Context, id string, fn func(selection.Selection) (selection.Selection, error)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next, err := fn(sess.Selection)
	if err != nil {
		return *sess, err
	}
	sess.Selection = next
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// UpdateAll applies fn to every session, oldest first, and returns the
// sessions whose selection changed. Recency is left as it was.
func (s *SessionStore) UpdateAll(ctx context.Context, fn func(selection.Selection) selection.Selection) []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var changed []Session
	for _, sess := range s.cache.Values() {
		next := fn(sess.Selection)
		if next.Equal(sess.Selection) {
			continue
		}
		sess.Selection = next
		sess.UpdatedAt = now
		changed = append(changed, *sess)
	}
	return changed
}

// Count returns the number of sessions held.
func (s *SessionStore) Count(ctx context.Context) int {
	return s.cache.Len()
}
