package repositories

import (
	"log"
	"sync"
	"time"

	"chatorder/internal/models"
)

// SessionSweepInterval is how often idle sessions are looked for.
const SessionSweepInterval = time.Minute

// SessionStore holds one session per device identifier.
type SessionStore interface {
	// Resolve returns the session of deviceID, creating an empty one on first contact.
	Resolve(deviceID string) *models.Session
	Remove(deviceID string)
}

type sessionEntry struct {
	session  *models.Session
	lastSeen time.Time
}

// MemorySessionStore is an in-memory SessionStore with idle eviction.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMemorySessionStore creates a store. Sessions idle for longer than ttl are
// evicted by a background sweeper; a ttl of zero keeps sessions forever.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	if ttl > 0 {
		s.wg.Add(1)
		go s.sweepLoop()
	}
	return s
}

func (s *MemorySessionStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				log.Printf("Evicted %d idle sessions", n)
			}
		case <-s.stop:
			return
		}
	}
}

// Resolve returns the session for deviceID. Creation happens under the store
// lock so concurrent first contacts share one record.
func (s *MemorySessionStore) Resolve(deviceID string) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.sessions[deviceID]; ok {
		entry.lastSeen = now
		return entry.session
	}

	session := models.NewSession(deviceID)
	s.sessions[deviceID] = &sessionEntry{session: session, lastSeen: now}
	return session
}

// Remove drops the session of deviceID, if any.
func (s *MemorySessionStore) Remove(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, deviceID)
}

// Len returns the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL as of now and returns how
// many were removed. Sessions that are locked or still wait on a payment are kept.
func (s *MemorySessionStore) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) <= s.ttl || !entry.session.TryLock() {
			continue
		}
		awaiting := entry.session.HasPending()
		entry.session.Unlock()
		if awaiting {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

// Close stops the background sweeper.
func (s *MemorySessionStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}
