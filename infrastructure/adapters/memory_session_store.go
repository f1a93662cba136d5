package adapters

import (
	"sync"

	"voice-call-relay/application/ports/outbound"
	"voice-call-relay/domain"
)

type sessionEntry struct {
	mu      sync.Mutex
	session *domain.CallSession
}

type memorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
	logger  outbound.LoggerPort
}

func NewMemorySessionStore(logger outbound.LoggerPort) outbound.SessionStorePort {
	return &memorySessionStore{
		entries: make(map[string]*sessionEntry),
		logger:  logger,
	}
}

func (s *memorySessionStore) Create(callID string) (domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[callID]; exists {
		return domain.SessionSnapshot{}, domain.ErrSessionExists
	}
	session := domain.NewCallSession(callID)
	s.entries[callID] = &sessionEntry{session: session}
	s.logger.InfoWithFields("call session created", map[string]interface{}{
		"call_id": callID,
	})
	return session.Snapshot(), nil
}

func (s *memorySessionStore) Get(callID string) (domain.SessionSnapshot, error) {
	s.mu.RLock()
	entry, ok := s.entries[callID]
	s.mu.RUnlock()
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.Snapshot(), nil
}

// Mutate applies fn under the entry's lock. Holding only the entry
// lock keeps concurrent mutations of different calls independent; the
// map lock is released before fn runs.
func (s *memorySessionStore) Mutate(callID string, fn func(*domain.CallSession) error) (domain.SessionSnapshot, error) {
	s.mu.RLock()
	entry, ok := s.entries[callID]
	s.mu.RUnlock()
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.session.State == domain.CallStateStopped {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	if err := fn(entry.session); err != nil {
		return domain.SessionSnapshot{}, err
	}
	return entry.session.Snapshot(), nil
}

// Delete is idempotent: the stop event and a racing transport error
// may both tear the same call down.
func (s *memorySessionStore) Delete(callID string) {
	s.mu.Lock()
	entry, ok := s.entries[callID]
	if ok {
		delete(s.entries, callID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	entry.mu.Lock()
	entry.session.State = domain.CallStateStopped
	entry.mu.Unlock()
	s.logger.InfoWithFields("call session deleted", map[string]interface{}{
		"call_id": callID,
	})
}
