package services

import (
	"errors"
	"testing"
	"time"
)

type stubSurveyStore struct {
	surveys   map[string]*Survey
	responses []*Response
}

func newStubSurveyStore() *stubSurveyStore {
	return &stubSurveyStore{surveys: map[string]*Survey{}}
}

func (s *stubSurveyStore) AddSurvey(sv *Survey) error {
	s.surveys[sv.ID] = sv
	return nil
}

func (s *stubSurveyStore) GetSurvey(id string) *Survey {
	return s.surveys[id]
}

func (s *stubSurveyStore) PutResponse(r *Response) error {
	kept := s.responses[:0]
	for _, prev := range s.responses {
		if prev.SurveyID != r.SurveyID || prev.Respondent != r.Respondent {
			kept = append(kept, prev)
		}
	}
	s.responses = append(kept, r)
	return nil
}

func (s *stubSurveyStore) GetResponse(surveyID, respondent string) *Response {
	for _, r := range s.responses {
		if r.SurveyID == surveyID && r.Respondent == respondent {
			return r
		}
	}
	return nil
}

func (s *stubSurveyStore) ListResponses(surveyID string) []*Response {
	var out []*Response
	for _, r := range s.responses {
		if r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out
}

func newTestSurveyService(store SurveyStore) *SurveyService {
	svc := NewSurveyService(store)
	svc.now = func() time.Time { return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC) }
	n := 0
	svc.idGenerator = func() string {
		n++
		return []string{"SV1", "SV2", "SV3"}[n-1]
	}
	return svc
}

func TestCreateRejectsEmptyQuestionSet(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	if _, err := svc.Create("tutor", "", nil); !errors.Is(err, ErrEmptyQuestionSet) {
		t.Fatalf("expected ErrEmptyQuestionSet, got %v", err)
	}
}

func TestCreateRejectsBlankPrompt(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	_, err := svc.Create("tutor", "", []Question{{Prompt: "ok"}, {Prompt: "   "}})
	if !errors.Is(err, ErrBlankPrompt) {
		t.Fatalf("expected ErrBlankPrompt, got %v", err)
	}
}

func TestCreateTrimsPromptsAndAnswers(t *testing.T) {
	store := newStubSurveyStore()
	svc := newTestSurveyService(store)
	sv, err := svc.Create("tutor", " T01E01 ", []Question{
		{Prompt: " Did you attend? ", Answers: []string{" yes ", "no", "  "}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sv.ID != "SV1" {
		t.Fatalf("survey id = %q, want SV1", sv.ID)
	}
	if sv.Topic != "T01E01" {
		t.Fatalf("topic = %q, want T01E01", sv.Topic)
	}
	q := sv.Questions[0]
	if q.Prompt != "Did you attend?" {
		t.Fatalf("prompt = %q", q.Prompt)
	}
	if len(q.Answers) != 2 || q.Answers[0] != "yes" || q.Answers[1] != "no" {
		t.Fatalf("answers = %v, want [yes no]", q.Answers)
	}
}

func TestSubmitResponseUnknownSurvey(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	if err := svc.SubmitResponse("missing", "u1", []string{"yes"}); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound, got %v", err)
	}
}

func TestSubmitResponseAnswerCountMismatch(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	sv, err := svc.Create("tutor", "", []Question{{Prompt: "Q1"}, {Prompt: "Q2"}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u1", []string{"only one"}); !errors.Is(err, ErrAnswerCountMismatch) {
		t.Fatalf("expected ErrAnswerCountMismatch, got %v", err)
	}
}

func TestSubmitResponseInvalidAnswer(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	sv, err := svc.Create("tutor", "", []Question{
		{Prompt: "Did you attend?", Answers: []string{"yes", "no"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u1", []string{"maybe"}); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
}

func TestTallyZeroFillsFixedAnswerSets(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	sv, err := svc.Create("tutor", "", []Question{
		{Prompt: "Did you attend?", Answers: []string{"yes", "no"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u1", []string{"yes"}); err != nil {
		t.Fatalf("SubmitResponse returned error: %v", err)
	}
	tally, err := svc.Tally(sv.ID)
	if err != nil {
		t.Fatalf("Tally returned error: %v", err)
	}
	if tally.Responses != 1 {
		t.Fatalf("responses = %d, want 1", tally.Responses)
	}
	counts := tally.Questions[0].Counts
	if counts["yes"] != 1 || counts["no"] != 0 {
		t.Fatalf("counts = %v, want yes:1 no:0", counts)
	}
}

func TestSubmitResponseLastWriteWins(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	sv, err := svc.Create("tutor", "", []Question{
		{Prompt: "Rate it", Answers: []string{"1", "2", "3"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u1", []string{"1"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u1", []string{"3"}); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	tally, err := svc.Tally(sv.ID)
	if err != nil {
		t.Fatalf("Tally returned error: %v", err)
	}
	counts := tally.Questions[0].Counts
	if counts["1"] != 0 || counts["3"] != 1 {
		t.Fatalf("counts = %v, want only the second submission", counts)
	}
	if tally.Responses != 1 {
		t.Fatalf("responses = %d, want 1", tally.Responses)
	}
}

func TestTallyCollectsFreeTextInOrder(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	sv, err := svc.Create("tutor", "", []Question{{Prompt: "Any comments?"}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u1", []string{"great"}); err != nil {
		t.Fatalf("submit u1: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u2", []string{"too fast"}); err != nil {
		t.Fatalf("submit u2: %v", err)
	}
	tally, err := svc.Tally(sv.ID)
	if err != nil {
		t.Fatalf("Tally returned error: %v", err)
	}
	texts := tally.Questions[0].Texts
	if len(texts) != 2 || texts[0] != "great" || texts[1] != "too fast" {
		t.Fatalf("texts = %v, want [great, too fast]", texts)
	}
}

func TestSubmitAnswerBuildsDraftUntilComplete(t *testing.T) {
	store := newStubSurveyStore()
	svc := newTestSurveyService(store)
	sv, err := svc.Create("tutor", "", []Question{
		{Prompt: "Q1", Answers: []string{"a", "b"}},
		{Prompt: "Q2", Answers: []string{"x", "y"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	complete, err := svc.SubmitAnswer(sv.ID, "u1", 0, "a")
	if err != nil {
		t.Fatalf("first answer: %v", err)
	}
	if complete {
		t.Fatal("response stored before every question was answered")
	}
	if len(store.responses) != 0 {
		t.Fatalf("responses stored = %d, want 0", len(store.responses))
	}

	complete, err = svc.SubmitAnswer(sv.ID, "u1", 1, "y")
	if err != nil {
		t.Fatalf("second answer: %v", err)
	}
	if !complete {
		t.Fatal("expected the completed draft to be stored")
	}
	r := store.GetResponse(sv.ID, "u1")
	if r == nil {
		t.Fatal("no response stored")
	}
	if r.Answers[0] != "a" || r.Answers[1] != "y" {
		t.Fatalf("answers = %v, want [a y]", r.Answers)
	}
}

func TestSubmitAnswerValidates(t *testing.T) {
	svc := newTestSurveyService(newStubSurveyStore())
	sv, err := svc.Create("tutor", "", []Question{{Prompt: "Q1", Answers: []string{"a"}}})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.SubmitAnswer("missing", "u1", 0, "a"); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound, got %v", err)
	}
	if _, err := svc.SubmitAnswer(sv.ID, "u1", 5, "a"); !errors.Is(err, ErrQuestionIndex) {
		t.Fatalf("expected ErrQuestionIndex, got %v", err)
	}
	if _, err := svc.SubmitAnswer(sv.ID, "u1", 0, "nope"); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
}

func TestSubmitAnswerSeedsDraftFromStoredResponse(t *testing.T) {
	store := newStubSurveyStore()
	svc := newTestSurveyService(store)
	sv, err := svc.Create("tutor", "", []Question{
		{Prompt: "Q1", Answers: []string{"a", "b"}},
		{Prompt: "Q2", Answers: []string{"x", "y"}},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.SubmitResponse(sv.ID, "u1", []string{"a", "x"}); err != nil {
		t.Fatalf("SubmitResponse returned error: %v", err)
	}

	// Correcting a single answer resubmits the full response.
	complete, err := svc.SubmitAnswer(sv.ID, "u1", 1, "y")
	if err != nil {
		t.Fatalf("SubmitAnswer returned error: %v", err)
	}
	if !complete {
		t.Fatal("expected the corrected response to be stored immediately")
	}
	r := store.GetResponse(sv.ID, "u1")
	if r.Answers[0] != "a" || r.Answers[1] != "y" {
		t.Fatalf("answers = %v, want [a y]", r.Answers)
	}
	if len(store.responses) != 1 {
		t.Fatalf("responses stored = %d, want 1", len(store.responses))
	}
}
