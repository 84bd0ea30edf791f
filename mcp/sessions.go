package mcp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raffazizzi/relaxwalk/validator"
)

// sessionEntry pairs a live Validator with its last-touched time for TTL
// expiry and eviction ordering.
type sessionEntry struct {
	v         *validator.Validator
	touchedAt time.Time
}

// sessionStore is a process-wide registry of named validator sessions, one
// per in-progress document. Entries expire after cfg.SessionTTL of
// inactivity; a background sweeper reclaims them, mirroring the spec-cache
// discipline this server's ancestor uses for parsed-document caching.
type sessionStore struct {
	mu             sync.Mutex
	entries        map[string]*sessionEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var sessions = &sessionStore{
	entries: make(map[string]*sessionEntry),
	maxSize: cfg.MaxSessions,
}

func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// create stores v under a freshly generated session id, evicting the
// least-recently-touched entry if the store is at capacity.
func (s *sessionStore) create(v *validator.Validator) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictIfFullLocked()
	s.entries[id] = &sessionEntry{v: v, touchedAt: time.Now()}
	return id, nil
}

// put stores v under an explicit id, overwriting any prior entry. Used by
// clone, which must mint its own id before this call.
func (s *sessionStore) put(id string, v *validator.Validator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictIfFullLocked()
	s.entries[id] = &sessionEntry{v: v, touchedAt: time.Now()}
}

func (s *sessionStore) evictIfFullLocked() {
	if len(s.entries) < s.maxSize {
		return
	}
	var oldestID string
	var oldestTime time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.touchedAt.Before(oldestTime) {
			oldestID = id
			oldestTime = e.touchedAt
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}

// get returns the validator for id, touching its expiry clock. Expired
// entries are lazily removed and reported as not found.
func (s *sessionStore) get(id string) (*validator.Validator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if cfg.SessionTTL > 0 && time.Since(e.touchedAt) > cfg.SessionTTL {
		delete(s.entries, id)
		return nil, false
	}
	e.touchedAt = time.Now()
	return e.v, true
}

func (s *sessionStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, e := range s.entries {
		if cfg.SessionTTL > 0 && now.Sub(e.touchedAt) > cfg.SessionTTL {
			delete(s.entries, id)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired sessions. Safe to call multiple times; only the first call
// spawns a goroutine. It stops when ctx is cancelled.
func (s *sessionStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !s.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// reset clears all sessions. Used in tests.
func (s *sessionStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*sessionEntry)
}

// size returns the number of live sessions.
func (s *sessionStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
