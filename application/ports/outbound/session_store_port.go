package outbound

import "voice-call-relay/domain"

// SessionStorePort is the authoritative registry of live call sessions.
// Mutate is the only sanctioned write path after creation: fn runs
// under per-key exclusive access, so sessions for different call IDs
// never block each other. Get returns a snapshot, never a live pointer.
type SessionStorePort interface {
	Create(callID string) (domain.SessionSnapshot, error)
	Get(callID string) (domain.SessionSnapshot, error)
	Mutate(callID string, fn func(*domain.CallSession) error) (domain.SessionSnapshot, error)
	Delete(callID string)
}
