package workflow

import "sync"

// Feedback is a reviewer's guidance for the next attempt at a phase.
type Feedback struct {
	PhaseID int    `json:"phase_id"`
	Attempt int    `json:"attempt"`
	Message string `json:"message"`
}

// FeedbackStore holds the most recent feedback per phase. Only the
// latest entry is kept: feedback exists to steer the next retry, and a
// new attempt supersedes anything said about earlier ones.
// It is safe for concurrent use.
type FeedbackStore struct {
	mu      sync.RWMutex
	entries map[int]Feedback
}

// NewFeedbackStore creates an empty feedback store.
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{
		entries: make(map[int]Feedback),
	}
}

// Put stores feedback for a phase, replacing any previous entry.
func (s *FeedbackStore) Put(fb Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[fb.PhaseID] = fb
}

// Get returns the stored feedback for a phase, if any.
func (s *FeedbackStore) Get(phaseID int) (Feedback, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fb, ok := s.entries[phaseID]
	return fb, ok
}

// Clear removes any feedback stored for a phase. Called once the phase
// completes so stale guidance never leaks into a later workflow step.
func (s *FeedbackStore) Clear(phaseID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phaseID)
}

// Len returns the number of phases with stored feedback.
func (s *FeedbackStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
