package application

import (
	"sync"
	"time"
)

// FillState is the in-memory progress of one identity through a meeting.
// ResponseID is fixed when the fill begins. Written turns true once the
// response has been cleared of a previous fill's answers.
type FillState struct {
	MeetingID  uint
	ResponseID uint
	Index      int
	Written    bool
	TouchedAt  time.Time
}

// FillSessionStore owns the identity → FillState map. It is process local:
// a restart loses every fill in progress.
type FillSessionStore struct {
	mu     sync.Mutex
	states map[string]*FillState
	now    func() time.Time
}

func NewFillSessionStore() *FillSessionStore {
	return &FillSessionStore{
		states: make(map[string]*FillState),
		now:    time.Now,
	}
}

// Start creates the state at index 0, silently replacing an unfinished one.
func (s *FillSessionStore) Start(identity string, meetingID, responseID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[identity] = &FillState{MeetingID: meetingID, ResponseID: responseID, TouchedAt: s.now()}
}

// Get returns a copy of the state.
func (s *FillSessionStore) Get(identity string) (FillState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[identity]
	if !ok {
		return FillState{}, false
	}
	return *st, true
}

// Advance moves to the next question; no-op without a state.
func (s *FillSessionStore) Advance(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[identity]; ok {
		st.Index++
		st.TouchedAt = s.now()
	}
}

// MarkWritten records that the fill has started writing to its response.
func (s *FillSessionStore) MarkWritten(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[identity]; ok {
		st.Written = true
	}
}

func (s *FillSessionStore) Touch(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[identity]; ok {
		st.TouchedAt = s.now()
	}
}

func (s *FillSessionStore) Clear(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, identity)
}

// Idle lists identities whose state was last touched before cutoff.
func (s *FillSessionStore) Idle(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for id, st := range s.states {
		if st.TouchedAt.Before(cutoff) {
			out = append(out, id)
		}
	}
	return out
}

// ClearIfIdle removes the state only if it is still idle at cutoff.
func (s *FillSessionStore) ClearIfIdle(identity string, cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[identity]
	if !ok || !st.TouchedAt.Before(cutoff) {
		return false
	}
	delete(s.states, identity)
	return true
}

func (s *FillSessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
