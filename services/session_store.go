package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one browser's view state for both screens.
type Session struct {
	ID      string
	Catalog *CatalogManager
	Daily   *DailyMenuManager

	lastSeen time.Time
}

type SessionStore struct {
	backend  MenuBackend
	uploader AssetUploader
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore(backend MenuBackend, uploader AssetUploader) *SessionStore {
	return &SessionStore{
		backend:  backend,
		uploader: uploader,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session for id and marks it as seen.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = s.now()
	}
	return sess, ok
}

func (s *SessionStore) Create() *Session {
	return s.createWithID(uuid.NewString())
}

// GetOrCreate resumes id when it is still live and otherwise starts a new
// session under id. The bool reports whether a new session was made.
func (s *SessionStore) GetOrCreate(id string) (*Session, bool) {
	if id == "" {
		return s.Create(), true
	}
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.createWithID(id), true
}

func (s *SessionStore) createWithID(id string) *Session {
	sess := &Session{
		ID:       id,
		Catalog:  NewCatalogManager(s.backend, s.uploader),
		Daily:    NewDailyMenuManager(s.backend),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		existing.lastSeen = s.now()
		return existing
	}
	s.sessions[id] = sess
	return sess
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were dropped.
func (s *SessionStore) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
