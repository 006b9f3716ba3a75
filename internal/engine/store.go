package engine

import (
	"fmt"
	"sort"
	"sync"
)

// SessionStore is the narrow persistence interface for live sessions.
// Sessions are transient by definition; an external backing (file,
// networked, TTL-evicting) can be swapped in behind this interface.
// Implementations return ErrSessionNotFound for unknown ids.
type SessionStore interface {
	Put(session *Session) error
	Get(id string) (*Session, error)
	Delete(id string) error
	List() ([]*Session, error)
}

// ResultStore persists completed test results, keyed both by result id
// and by the session that produced them. Implementations return
// ErrResultNotFound for unknown ids.
type ResultStore interface {
	Put(result TestResult) error
	Get(resultID string) (TestResult, error)
	GetBySession(sessionID string) (TestResult, error)
	List() ([]TestResult, error)
	Delete(resultID string) error
}

// --- In-memory implementations ---

// MemorySessionStore keeps sessions in a mutex-guarded map. The mutex
// protects the map only, not the sessions inside it.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Put(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *MemorySessionStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return session, nil
}

func (s *MemorySessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) List() ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		result = append(result, session)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// MemoryResultStore keeps completed results in mutex-guarded maps.
type MemoryResultStore struct {
	mu        sync.RWMutex
	byID      map[string]TestResult
	bySession map[string]string
}

// NewMemoryResultStore creates an empty in-memory result store.
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{
		byID:      make(map[string]TestResult),
		bySession: make(map[string]string),
	}
}

func (s *MemoryResultStore) Put(result TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[result.ID] = result
	s.bySession[result.SessionID] = result.ID
	return nil
}

func (s *MemoryResultStore) Get(resultID string) (TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.byID[resultID]
	if !ok {
		return TestResult{}, fmt.Errorf("%w: %q", ErrResultNotFound, resultID)
	}
	return result, nil
}

func (s *MemoryResultStore) GetBySession(sessionID string) (TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySession[sessionID]
	if !ok {
		return TestResult{}, fmt.Errorf("%w: session %q", ErrResultNotFound, sessionID)
	}
	return s.byID[id], nil
}

func (s *MemoryResultStore) List() ([]TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]TestResult, 0, len(s.byID))
	for _, r := range s.byID {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryResultStore) Delete(resultID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.byID[resultID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrResultNotFound, resultID)
	}
	delete(s.byID, resultID)
	delete(s.bySession, result.SessionID)
	return nil
}
