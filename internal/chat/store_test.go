package chat

import "testing"

func TestStoreStartsWithOneActiveThread(t *testing.T) {
	s := NewStore()

	threads := s.Threads()
	if len(threads) != 1 {
		t.Fatalf("expected 1 thread, got %d", len(threads))
	}
	if s.ActiveID() != threads[0].ID {
		t.Errorf("active id %q does not match the seeded thread", s.ActiveID())
	}
}

func TestStoreDeleteActiveFallsBackToFirst(t *testing.T) {
	s := NewStore()
	first := s.Threads()[0]
	second := s.NewThread()

	if s.ActiveID() != second.ID {
		t.Fatalf("new thread should become active")
	}

	s.Delete(second.ID)
	if s.ActiveID() != first.ID {
		t.Errorf("active id = %q, want fallback to first thread %q", s.ActiveID(), first.ID)
	}
}

func TestStoreDeleteLastThreadCreatesFresh(t *testing.T) {
	s := NewStore()
	only := s.Threads()[0]

	s.Delete(only.ID)

	threads := s.Threads()
	if len(threads) != 1 {
		t.Fatalf("expected a fresh thread, got %d threads", len(threads))
	}
	if threads[0].ID == only.ID {
		t.Error("fresh thread should have a new id")
	}
	if s.ActiveID() != threads[0].ID {
		t.Error("fresh thread should be active")
	}
}

func TestStoreSetMessagesUpdatesOnlyTarget(t *testing.T) {
	s := NewStore()
	first := s.Threads()[0]
	second := s.NewThread()

	s.SetMessages(first.ID, []Message{NewUserMessage("hello")})

	got, _ := s.Thread(first.ID)
	if len(got.Messages) != 1 {
		t.Errorf("first thread has %d messages, want 1", len(got.Messages))
	}
	other, _ := s.Thread(second.ID)
	if len(other.Messages) != 0 {
		t.Errorf("second thread has %d messages, want 0", len(other.Messages))
	}
}

func TestStoreChangeHandlerSeesSnapshots(t *testing.T) {
	s := NewStore()
	var calls int
	s.SetChangeHandler(func(threads []Thread, activeID string) {
		calls++
		if activeID == "" {
			t.Error("handler received empty active id")
		}
	})

	s.NewThread()
	s.SetMessages(s.ActiveID(), []Message{NewUserMessage("hi")})

	if calls != 2 {
		t.Errorf("handler called %d times, want 2", calls)
	}
}

func TestStoreSetAgentSelection(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()

	s.SetAgentSelection(id, &AgentSelection{AgentID: "analyzer", Reason: "test", Status: StatusSuggested})

	th, _ := s.Thread(id)
	if th.AgentSelection == nil || th.AgentSelection.AgentID != "analyzer" {
		t.Fatalf("selection not recorded: %+v", th.AgentSelection)
	}
	if th.AgentID != "analyzer" {
		t.Errorf("AgentID = %q, want analyzer", th.AgentID)
	}

	s.SetAgentSelection(id, nil)
	th, _ = s.Thread(id)
	if th.AgentSelection != nil || th.AgentID != "" {
		t.Error("clearing the selection should reset AgentID")
	}
}
