package services

import (
	"errors"
	"testing"
	"time"
)

type stubFeedbackStore struct {
	entries []*FeedbackEntry
}

func (s *stubFeedbackStore) AddFeedback(e *FeedbackEntry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *stubFeedbackStore) ListFeedback(sessionID string) []*FeedbackEntry {
	var out []*FeedbackEntry
	for _, e := range s.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}

func TestRecordRejectsBlankContent(t *testing.T) {
	svc := NewFeedbackService(&stubFeedbackStore{})
	if _, err := svc.Record("TS-7", "u1", "   "); !errors.Is(err, ErrEmptyFeedback) {
		t.Fatalf("expected ErrEmptyFeedback, got %v", err)
	}
}

func TestRecordAndListInOrder(t *testing.T) {
	svc := NewFeedbackService(&stubFeedbackStore{})
	svc.now = func() time.Time { return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC) }

	if _, err := svc.Record("TS-7", "u1", "good session"); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if _, err := svc.Record(" TS-7 ", "u2", "too fast"); err != nil {
		t.Fatalf("second record: %v", err)
	}
	if _, err := svc.Record("TS-8", "u3", "other session"); err != nil {
		t.Fatalf("third record: %v", err)
	}

	var contents []string
	for e := range svc.List("TS-7") {
		contents = append(contents, e.Content)
	}
	if len(contents) != 2 || contents[0] != "good session" || contents[1] != "too fast" {
		t.Fatalf("contents = %v, want [good session, too fast]", contents)
	}
}

func TestListIsRestartable(t *testing.T) {
	svc := NewFeedbackService(&stubFeedbackStore{})
	if _, err := svc.Record("TS-7", "u1", "entry"); err != nil {
		t.Fatalf("record: %v", err)
	}

	seq := svc.List("TS-7")
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != 1 || second != 1 {
		t.Fatalf("iteration counts = (%d, %d), want (1, 1)", first, second)
	}
}

func TestListUnknownSessionIsEmpty(t *testing.T) {
	svc := NewFeedbackService(&stubFeedbackStore{})
	for range svc.List("nope") {
		t.Fatal("expected no entries")
	}
}
