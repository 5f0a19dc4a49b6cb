package chat

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oilnova/chat-ai/backend/internal/model/chat"
)

// DefaultHistoryLimit is the number of turns kept per session.
const DefaultHistoryLimit = 12

var ErrSessionIDRequired = errors.New("session id is required")

type entry struct {
	mu           sync.Mutex
	history      []chat.Turn
	lastActivity time.Time
}

// Service owns all conversation state.
//
// Locking: callers that touch a single session hold mu for reading and the
// entry's own mutex for the mutation. Eviction holds mu for writing, which
// excludes every entry mutation at once.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	limit    int
	now      func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService bootstraps the in-memory session store. A non-positive limit falls
// back to DefaultHistoryLimit.
func NewService(historyLimit int, opts ...Option) *Service {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	s := &Service{
		sessions: make(map[string]*entry),
		limit:    historyLimit,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryLimit reports the per-session turn cap.
func (s *Service) HistoryLimit() int {
	return s.limit
}

// GetOrCreate returns a snapshot of the session, creating it when absent, and
// refreshes its activity time.
func (s *Service) GetOrCreate(_ context.Context, sessionID string) (chat.Session, error) {
	if sessionID == "" {
		return chat.Session{}, ErrSessionIDRequired
	}

	var snapshot chat.Session
	s.withEntry(sessionID, func(e *entry) {
		e.lastActivity = s.now()
		snapshot = e.snapshot(sessionID)
	})
	return snapshot, nil
}

// Append adds a turn and trims the history to the newest turns.
func (s *Service) Append(_ context.Context, sessionID string, role chat.Role, content string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}

	s.withEntry(sessionID, func(e *entry) {
		e.history = append(e.history, chat.Turn{Role: role, Content: content})
		if over := len(e.history) - s.limit; over > 0 {
			trimmed := make([]chat.Turn, s.limit)
			copy(trimmed, e.history[over:])
			e.history = trimmed
		}
		e.lastActivity = s.now()
	})
	return nil
}

// Clear empties the history but keeps the session and its activity time.
// It reports whether the session existed before the call.
func (s *Service) Clear(_ context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, ErrSessionIDRequired
	}

	existed := true
	s.withEntry(sessionID, func(e *entry) {
		if e.lastActivity.IsZero() {
			existed = false
			e.lastActivity = s.now()
		}
		e.history = nil
	})
	return existed, nil
}

// EvictExpired removes every session idle for longer than ttl and returns the
// removed ids in sorted order.
func (s *Service) EvictExpired(ttl time.Duration) []string {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var evicted []string
	for id, e := range s.sessions {
		if e.lastActivity.Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	s.mu.Unlock()

	sort.Strings(evicted)
	return evicted
}

// List returns the ids of all live sessions in sorted order.
func (s *Service) List() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor sweeps expired sessions on a ticker until ctx is done. onEvict,
// when set, receives the ids removed by each sweep.
func (s *Service) StartJanitor(ctx context.Context, interval, ttl time.Duration, onEvict func([]string)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := s.EvictExpired(ttl); len(evicted) > 0 && onEvict != nil {
					onEvict(evicted)
				}
			}
		}
	}()
}

// withEntry runs fn on the entry for id, creating it first if needed. A freshly
// created entry has a zero lastActivity until fn sets it.
func (s *Service) withEntry(id string, fn func(*entry)) {
	for {
		s.mu.RLock()
		e, ok := s.sessions[id]
		if ok {
			e.mu.Lock()
			fn(e)
			e.mu.Unlock()
			s.mu.RUnlock()
			return
		}
		s.mu.RUnlock()

		s.mu.Lock()
		if _, ok := s.sessions[id]; !ok {
			s.sessions[id] = &entry{}
		}
		s.mu.Unlock()
	}
}

func (e *entry) snapshot(id string) chat.Session {
	history := make([]chat.Turn, len(e.history))
	copy(history, e.history)
	return chat.Session{ID: id, History: history, LastActivity: e.lastActivity}
}
