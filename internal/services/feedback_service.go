package services

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"
)

// FeedbackStore abstracts the append-only feedback log.
type FeedbackStore interface {
	AddFeedback(e *FeedbackEntry) error
	// ListFeedback returns the session's entries in submission order.
	ListFeedback(sessionID string) []*FeedbackEntry
}

// ErrEmptyFeedback is returned when the submitted content is blank.
var ErrEmptyFeedback = errors.New("feedback content is empty")

// FeedbackService records free-text feedback tied to a tutor session.
// Entries are never mutated or removed.
type FeedbackService struct {
	store FeedbackStore
	now   func() time.Time
}

// NewFeedbackService constructs a service bound to the provided store.
func NewFeedbackService(store FeedbackStore) *FeedbackService {
	return &FeedbackService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Record appends a feedback entry for the tutor session.
func (s *FeedbackService) Record(sessionID, submitter, content string) (*FeedbackEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyFeedback
	}
	e := &FeedbackEntry{
		SessionID:   strings.TrimSpace(sessionID),
		Submitter:   submitter,
		Content:     content,
		SubmittedAt: s.now(),
	}
	if err := s.store.AddFeedback(e); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}
	return e, nil
}

// List yields the session's entries in submission order. The sequence is
// finite and can be ranged over more than once.
func (s *FeedbackService) List(sessionID string) iter.Seq[*FeedbackEntry] {
	id := strings.TrimSpace(sessionID)
	return func(yield func(*FeedbackEntry) bool) {
		for _, e := range s.store.ListFeedback(id) {
			if !yield(e) {
				return
			}
		}
	}
}
