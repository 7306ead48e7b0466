package schedule

import "testing"

func TestPendingStorePutTake(t *testing.T) {
	s := NewPendingStore()

	if replaced := s.Put("session-a", "ev1", "Standup sync"); replaced {
		t.Error("first Put must not report a replacement")
	}

	p, ok := s.Take("session-a")
	if !ok {
		t.Fatal("expected a pending deletion")
	}
	if p.EventID != "ev1" || p.Summary != "Standup sync" {
		t.Errorf("unexpected pending deletion: %+v", p)
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestPendingStoreTakeConsumes(t *testing.T) {
	s := NewPendingStore()
	s.Put("session-a", "ev1", "Standup sync")

	if _, ok := s.Take("session-a"); !ok {
		t.Fatal("first Take should succeed")
	}
	if _, ok := s.Take("session-a"); ok {
		t.Error("second Take for the same session must report nothing pending")
	}
}

func TestPendingStoreTakeEmpty(t *testing.T) {
	s := NewPendingStore()
	if _, ok := s.Take("nobody"); ok {
		t.Error("Take on an empty store must report nothing pending")
	}
}

func TestPendingStorePutReplaces(t *testing.T) {
	s := NewPendingStore()

	s.Put("session-a", "ev1", "Standup sync")
	if replaced := s.Put("session-a", "ev2", "Team lunch"); !replaced {
		t.Error("second Put for the same session must report a replacement")
	}

	p, ok := s.Take("session-a")
	if !ok {
		t.Fatal("expected a pending deletion")
	}
	if p.EventID != "ev2" {
		t.Errorf("expected the later proposal to win, got %q", p.EventID)
	}
}

func TestPendingStoreSessionIsolation(t *testing.T) {
	s := NewPendingStore()

	s.Put("session-a", "ev1", "Standup sync")
	s.Put("session-b", "ev2", "Team lunch")

	if s.Len() != 2 {
		t.Errorf("expected 2 pending sessions, got %d", s.Len())
	}

	p, ok := s.Take("session-b")
	if !ok || p.EventID != "ev2" {
		t.Errorf("session-b should see only its own proposal, got %+v ok=%v", p, ok)
	}

	// session-a's proposal is untouched
	if p, ok := s.Peek("session-a"); !ok || p.EventID != "ev1" {
		t.Errorf("session-a proposal should survive, got %+v ok=%v", p, ok)
	}
}

func TestPendingStorePeekDoesNotConsume(t *testing.T) {
	s := NewPendingStore()
	s.Put("session-a", "ev1", "Standup sync")

	if _, ok := s.Peek("session-a"); !ok {
		t.Fatal("expected Peek to find the proposal")
	}
	if _, ok := s.Take("session-a"); !ok {
		t.Error("Take after Peek should still succeed")
	}
}
