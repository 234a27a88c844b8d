package api

import (
	"testing"
)

func TestSessionManager_CreateAndGet(t *testing.T) {
	sm := NewSessionManager(nil)

	session, err := sm.CreateSession(SessionCreateRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == "" {
		t.Error("Expected a non-empty session ID")
	}

	got, err := sm.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("Expected session ID %s, got %s", session.ID, got.ID)
	}
}

func TestSessionManager_CreateSession_MaxCyclesOverride(t *testing.T) {
	sm := NewSessionManager(nil)

	session, err := sm.CreateSession(SessionCreateRequest{MaxCycles: 42})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if got := session.Service.GetVM().MaxCycles; got != 42 {
		t.Errorf("Expected MaxCycles 42, got %d", got)
	}
}

func TestSessionManager_GetSession_NotFound(t *testing.T) {
	sm := NewSessionManager(nil)

	if _, err := sm.GetSession("nonexistent"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_DestroySession(t *testing.T) {
	sm := NewSessionManager(nil)

	session, err := sm.CreateSession(SessionCreateRequest{})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if err := sm.DestroySession(session.ID); err != nil {
		t.Fatalf("DestroySession failed: %v", err)
	}

	if _, err := sm.GetSession(session.ID); err != ErrSessionNotFound {
		t.Errorf("Expected session to be gone after destroy, got err=%v", err)
	}

	if err := sm.DestroySession(session.ID); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound destroying twice, got %v", err)
	}
}

func TestSessionManager_ListSessions_And_Count(t *testing.T) {
	sm := NewSessionManager(nil)

	if sm.Count() != 0 {
		t.Errorf("Expected 0 sessions initially, got %d", sm.Count())
	}

	s1, _ := sm.CreateSession(SessionCreateRequest{})
	s2, _ := sm.CreateSession(SessionCreateRequest{})

	if sm.Count() != 2 {
		t.Errorf("Expected 2 sessions, got %d", sm.Count())
	}

	ids := sm.ListSessions()
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[s1.ID] || !seen[s2.ID] {
		t.Errorf("Expected both session IDs in list, got %v", ids)
	}
}
