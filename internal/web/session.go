package web

import (
	"sync"
	"time"
)

// Session is the per-browser state shared between requests.
type Session struct {
	Result           string
	OriginalFilename string
	Flashes          []string
}

type sessionEntry struct {
	session  Session
	lastSeen time.Time
}

// SessionStore keeps sessions in memory and evicts idle ones after ttl.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*sessionEntry
}

// NewSessionStore creates an empty store.
func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Get returns a copy of the session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		return Session{}, false
	}
	entry.lastSeen = now
	return copySession(entry.session), true
}

// Save stores a copy of sess under id.
func (s *SessionStore) Save(id string, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &sessionEntry{session: copySession(sess), lastSeen: s.now()}
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

func copySession(sess Session) Session {
	sess.Flashes = append([]string(nil), sess.Flashes...)
	return sess
}
