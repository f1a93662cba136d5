package adapters

import (
	"errors"
	"sync"
	"testing"

	"voice-call-relay/domain"
)

func TestMemorySessionStore_DuplicateCreateFails(t *testing.T) {
	store := NewMemorySessionStore(NewZerologWrapper())

	if _, err := store.Create("call-1"); err != nil {
		t.Fatal("first create failed:", err)
	}
	if _, err := store.Create("call-1"); !errors.Is(err, domain.ErrSessionExists) {
		t.Errorf("expected ErrSessionExists, got %v", err)
	}
}

func TestMemorySessionStore_GetUnknownCall(t *testing.T) {
	store := NewMemorySessionStore(NewZerologWrapper())

	if _, err := store.Get("missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestMemorySessionStore_ConcurrentMutationsAllApplied(t *testing.T) {
	store := NewMemorySessionStore(NewZerologWrapper())
	if _, err := store.Create("call-1"); err != nil {
		t.Fatal("create failed:", err)
	}

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		key := string(rune('a' + i%26))
		go func(i int, key string) {
			defer wg.Done()
			_, err := store.Mutate("call-1", func(s *domain.CallSession) error {
				s.WorkflowContext[key] = i
				s.SendSequence++
				return nil
			})
			if err != nil {
				t.Error("mutate failed:", err)
			}
		}(i, key)
	}
	wg.Wait()

	snapshot, err := store.Get("call-1")
	if err != nil {
		t.Fatal("get failed:", err)
	}
	if snapshot.InboundBytes != 0 {
		t.Error("inbound buffer should be untouched")
	}
	if len(snapshot.WorkflowContext) != 26 {
		t.Errorf("expected 26 distinct keys, got %d", len(snapshot.WorkflowContext))
	}
}

func TestMemorySessionStore_StreamIDWriteOnce(t *testing.T) {
	store := NewMemorySessionStore(NewZerologWrapper())
	if _, err := store.Create("call-1"); err != nil {
		t.Fatal("create failed:", err)
	}

	const attempts = 20
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = store.Mutate("call-1", func(s *domain.CallSession) error {
				if s.StreamID == "" {
					s.StreamID = string(rune('A' + i))
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	first, err := store.Get("call-1")
	if err != nil {
		t.Fatal("get failed:", err)
	}
	second, _ := store.Get("call-1")
	if first.StreamID == "" || first.StreamID != second.StreamID {
		t.Errorf("stream id must be set exactly once, got %q then %q", first.StreamID, second.StreamID)
	}
}

func TestMemorySessionStore_SnapshotReadersRaceFreeWithMerges(t *testing.T) {
	store := NewMemorySessionStore(NewZerologWrapper())
	if _, err := store.Create("call-1"); err != nil {
		t.Fatal("create failed:", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			_, err := store.Mutate("call-1", func(s *domain.CallSession) error {
				variables, ok := s.WorkflowContext["variables"].(map[string]interface{})
				if !ok {
					variables = make(map[string]interface{})
					s.WorkflowContext["variables"] = variables
				}
				variables[string(rune('a'+i%26))] = i
				return nil
			})
			if err != nil {
				t.Error("mutate failed:", err)
				return
			}
		}
	}()

	// Readers walk the snapshot's inner maps outside any store lock,
	// the way the HTTP handler serializes it.
	for i := 0; i < 200; i++ {
		snapshot, err := store.Get("call-1")
		if err != nil {
			t.Fatal("get failed:", err)
		}
		if variables, ok := snapshot.WorkflowContext["variables"].(map[string]interface{}); ok {
			for k, v := range variables {
				_ = k
				_ = v
			}
		}
	}
	close(done)
	wg.Wait()
}

func TestMemorySessionStore_DeleteIsIdempotent(t *testing.T) {
	store := NewMemorySessionStore(NewZerologWrapper())
	if _, err := store.Create("call-1"); err != nil {
		t.Fatal("create failed:", err)
	}

	store.Delete("call-1")
	store.Delete("call-1")

	if _, err := store.Get("call-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if _, err := store.Mutate("call-1", func(s *domain.CallSession) error { return nil }); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected mutate on deleted session to fail, got %v", err)
	}
}

func TestMemorySessionStore_DifferentCallsDoNotShareState(t *testing.T) {
	store := NewMemorySessionStore(NewZerologWrapper())
	if _, err := store.Create("call-1"); err != nil {
		t.Fatal("create failed:", err)
	}
	if _, err := store.Create("call-2"); err != nil {
		t.Fatal("create failed:", err)
	}

	_, err := store.Mutate("call-1", func(s *domain.CallSession) error {
		s.WorkflowContext["owner"] = "call-1"
		return nil
	})
	if err != nil {
		t.Fatal("mutate failed:", err)
	}

	other, err := store.Get("call-2")
	if err != nil {
		t.Fatal("get failed:", err)
	}
	if _, ok := other.WorkflowContext["owner"]; ok {
		t.Error("mutation leaked across sessions")
	}
}
