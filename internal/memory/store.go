package memory

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxTurns bounds each conversation buffer to the five most
// recent user/assistant exchange pairs.
const DefaultMaxTurns = 10

// SessionStore owns every per-user conversation buffer. Appends against one
// user are serialized by that user's buffer lock; different users never
// contend beyond the brief outer map access.
type SessionStore struct {
	mu       sync.RWMutex
	buffers  map[string]*buffer
	maxTurns int
	idleTTL  time.Duration
	onEvict  func(userID string)
}

type buffer struct {
	mu           sync.Mutex
	turns        []Turn
	lastActivity time.Time
}

// NewSessionStore creates a store trimming each buffer to maxTurns entries.
// idleTTL bounds how long an untouched buffer survives; zero disables the
// janitor so buffers live for the process lifetime.
func NewSessionStore(maxTurns int, idleTTL time.Duration) *SessionStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &SessionStore{
		buffers:  make(map[string]*buffer),
		maxTurns: maxTurns,
		idleTTL:  idleTTL,
	}
}

// SetEvictHook registers a callback invoked after the janitor drops an idle buffer.
func (s *SessionStore) SetEvictHook(hook func(userID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = hook
}

// Append adds a turn to the user's buffer, creating it if absent, then trims
// the buffer to the most recent maxTurns entries, oldest first out.
func (s *SessionStore) Append(userID string, t Turn) {
	b := s.bufferFor(userID)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.turns = append(b.turns, t)
	if excess := len(b.turns) - s.maxTurns; excess > 0 {
		// Copy rather than re-slice so evicted turns do not pin the backing array.
		trimmed := make([]Turn, s.maxTurns)
		copy(trimmed, b.turns[excess:])
		b.turns = trimmed
	}
	b.lastActivity = time.Now().UTC()
}

// Snapshot returns a copy of the user's turns in insertion order.
// An unknown user yields an empty slice.
func (s *SessionStore) Snapshot(userID string) []Turn {
	s.mu.RLock()
	b, ok := s.buffers[userID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Turn, len(b.turns))
	copy(out, b.turns)
	return out
}

// ActiveCount reports how many per-user buffers currently exist.
func (s *SessionStore) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffers)
}

func (s *SessionStore) bufferFor(userID string) *buffer {
	s.mu.RLock()
	b, ok := s.buffers[userID]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buffers[userID]; ok {
		return b
	}
	b = &buffer{lastActivity: time.Now().UTC()}
	s.buffers[userID] = b
	return b
}

// StartJanitor periodically drops buffers idle longer than the configured TTL.
// It is a no-op when the TTL is zero.
func (s *SessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

func (s *SessionStore) evictIdle() {
	now := time.Now().UTC()
	var evicted []string

	s.mu.Lock()
	for userID, b := range s.buffers {
		b.mu.Lock()
		idle := now.Sub(b.lastActivity) >= s.idleTTL
		b.mu.Unlock()
		if idle {
			delete(s.buffers, userID)
			evicted = append(evicted, userID)
		}
	}
	hook := s.onEvict
	s.mu.Unlock()

	if hook != nil {
		for _, userID := range evicted {
			hook(userID)
		}
	}
}
