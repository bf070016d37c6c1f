package chat

import (
	"sync"
)

// ChangeHandler is called after every store mutation with the latest
// snapshot of the thread list and the active thread id.
type ChangeHandler func(threads []Thread, activeID string)

// Store owns the thread list and the active-thread reference. All mutations
// replace whole Thread values (copy-on-write); callers must always re-read
// the latest snapshot rather than cache references across an await boundary.
type Store struct {
	mu       sync.RWMutex
	threads  []Thread
	activeID string
	onChange ChangeHandler
}

// NewStore creates a store seeded with one empty thread, which is active.
func NewStore() *Store {
	initial := NewThread()
	return &Store{
		threads:  []Thread{initial},
		activeID: initial.ID,
	}
}

// SetChangeHandler sets the callback invoked after each mutation.
func (s *Store) SetChangeHandler(handler ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = handler
}

// notifyLocked calls the change handler with a snapshot. Caller holds s.mu.
func (s *Store) notifyLocked() {
	if s.onChange == nil {
		return
	}
	threads := make([]Thread, len(s.threads))
	copy(threads, s.threads)
	activeID := s.activeID
	handler := s.onChange

	// Call outside the lock so the handler can read the store.
	s.mu.Unlock()
	defer s.mu.Lock()
	handler(threads, activeID)
}

// Threads returns a snapshot of all threads.
func (s *Store) Threads() []Thread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Thread, len(s.threads))
	copy(out, s.threads)
	return out
}

// ActiveID returns the id of the active thread.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// ActiveThread returns a copy of the active thread.
func (s *Store) ActiveThread() (Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(s.activeID)
}

// Thread returns a copy of the thread with the given id.
func (s *Store) Thread(id string) (Thread, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

func (s *Store) findLocked(id string) (Thread, bool) {
	for _, t := range s.threads {
		if t.ID == id {
			return t, true
		}
	}
	return Thread{}, false
}

// NewThread appends a fresh thread and makes it active.
func (s *Store) NewThread() Thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := NewThread()
	s.threads = append(s.threads, t)
	s.activeID = t.ID
	s.notifyLocked()
	return t
}

// Select makes the thread with the given id active. Unknown ids are ignored.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findLocked(id); !ok {
		return
	}
	s.activeID = id
	s.notifyLocked()
}

// Delete removes a thread. Deleting the active thread activates the first
// remaining one, or a fresh thread if none remain.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.threads[:0:0]
	for _, t := range s.threads {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}

	if len(remaining) == len(s.threads) {
		return
	}
	s.threads = remaining

	if s.activeID == id {
		if len(s.threads) == 0 {
			t := NewThread()
			s.threads = []Thread{t}
			s.activeID = t.ID
		} else {
			s.activeID = s.threads[0].ID
		}
	}
	s.notifyLocked()
}

// SetMessages replaces the message sequence of a thread via
// Thread.WithMessages (title derivation, UpdatedAt bump).
func (s *Store) SetMessages(threadID string, messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.threads {
		if t.ID == threadID {
			s.threads[i] = t.WithMessages(messages)
			s.notifyLocked()
			return
		}
	}
}

// ClearMessages removes all messages from a thread.
func (s *Store) ClearMessages(threadID string) {
	s.SetMessages(threadID, []Message{})
}

// SetAgentSelection replaces the agent selection of a thread.
func (s *Store) SetAgentSelection(threadID string, sel *AgentSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.threads {
		if t.ID == threadID {
			s.threads[i] = t.WithAgentSelection(sel)
			s.notifyLocked()
			return
		}
	}
}
