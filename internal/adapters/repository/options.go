package repository

import (
	"time"

	"github.com/okian/skillwheel/pkg/logger"
)

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithMaxSessions bounds the number of sessions held.
func WithMaxSessions(n int) SessionOption {
	return func(s *SessionStore) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) SessionOption {
	return func(s *SessionStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithSessionClock replaces time.Now for session timestamps.
func WithSessionClock(fn func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher's logger.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}
