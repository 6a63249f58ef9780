package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SurveyStore abstracts persistence for survey definitions and their
// responses. Getters return nil when the entity does not exist.
type SurveyStore interface {
	AddSurvey(sv *Survey) error
	GetSurvey(id string) *Survey
	PutResponse(r *Response) error
	GetResponse(surveyID, respondent string) *Response
	ListResponses(surveyID string) []*Response
}

var (
	// ErrEmptyQuestionSet is returned when a survey is created without questions.
	ErrEmptyQuestionSet = errors.New("survey has no questions")
	// ErrBlankPrompt is returned when a question prompt is empty.
	ErrBlankPrompt = errors.New("question prompt is blank")
	// ErrSurveyNotFound is returned when an operation references an unknown survey.
	ErrSurveyNotFound = errors.New("survey not found")
	// ErrAnswerCountMismatch is returned when a response does not answer every question.
	ErrAnswerCountMismatch = errors.New("answer count does not match question count")
	// ErrInvalidAnswer is returned when an answer is not allowed for its question.
	ErrInvalidAnswer = errors.New("answer not allowed for question")
	// ErrQuestionIndex is returned when a per-question submission is out of range.
	ErrQuestionIndex = errors.New("question index out of range")
)

// SurveyService owns survey definitions and the mutable response set.
// Definitions are immutable once created; resubmitting a response replaces
// the respondent's prior one (last-write-wins).
type SurveyService struct {
	store       SurveyStore
	now         func() time.Time
	idGenerator func() string

	mu     sync.Mutex
	drafts map[draftKey][]string
}

// draftKey identifies a partially answered response built up one question
// at a time (the button path).
type draftKey struct {
	surveyID   string
	respondent string
}

// NewSurveyService constructs a service bound to the provided store.
func NewSurveyService(store SurveyStore) *SurveyService {
	return &SurveyService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: defaultSurveyID,
		drafts:      map[draftKey][]string{},
	}
}

func defaultSurveyID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Create validates and stores a new survey. The single-question and
// multi-question command variants both land here.
func (s *SurveyService) Create(creator, topic string, questions []Question) (*Survey, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}
	qs := make([]Question, len(questions))
	for i, q := range questions {
		q.Prompt = strings.TrimSpace(q.Prompt)
		if q.Prompt == "" {
			return nil, fmt.Errorf("%w: question %d", ErrBlankPrompt, i+1)
		}
		var answers []string
		for _, a := range q.Answers {
			if a = strings.TrimSpace(a); a != "" {
				answers = append(answers, a)
			}
		}
		q.Answers = answers
		qs[i] = q
	}
	sv := &Survey{
		ID:        s.idGenerator(),
		Topic:     strings.TrimSpace(topic),
		Creator:   creator,
		Questions: qs,
		CreatedAt: s.now(),
	}
	if err := s.store.AddSurvey(sv); err != nil {
		return nil, fmt.Errorf("store survey: %w", err)
	}
	return sv, nil
}

// Get returns the survey definition for id.
func (s *SurveyService) Get(id string) (*Survey, error) {
	sv := s.store.GetSurvey(id)
	if sv == nil {
		return nil, ErrSurveyNotFound
	}
	return sv, nil
}

// SubmitResponse stores the respondent's full answer vector, replacing any
// prior response for the same survey.
func (s *SurveyService) SubmitResponse(surveyID, respondent string, answers []string) error {
	sv := s.store.GetSurvey(surveyID)
	if sv == nil {
		return ErrSurveyNotFound
	}
	if len(answers) != len(sv.Questions) {
		return fmt.Errorf("%w: got %d answers for %d questions", ErrAnswerCountMismatch, len(answers), len(sv.Questions))
	}
	clean := make([]string, len(answers))
	for i, a := range answers {
		a = strings.TrimSpace(a)
		if !sv.Questions[i].Accepts(a) {
			return fmt.Errorf("%w: %q for question %d", ErrInvalidAnswer, a, i+1)
		}
		clean[i] = a
	}
	r := &Response{
		SurveyID:    surveyID,
		Respondent:  respondent,
		Answers:     clean,
		SubmittedAt: s.now(),
	}
	if err := s.store.PutResponse(r); err != nil {
		return fmt.Errorf("store response: %w", err)
	}
	// A full submission supersedes any partially answered draft.
	s.mu.Lock()
	delete(s.drafts, draftKey{surveyID: surveyID, respondent: respondent})
	s.mu.Unlock()
	return nil
}

// SubmitAnswer records one positional answer for the respondent. Partial
// answers are kept as a draft; once every question is answered the draft
// is stored through SubmitResponse, so stored responses never hold fewer
// answers than questions. A prior stored response seeds the draft, which
// makes single-answer corrections possible after a full submission.
// The returned bool reports whether the full response was stored.
func (s *SurveyService) SubmitAnswer(surveyID, respondent string, index int, answer string) (bool, error) {
	sv := s.store.GetSurvey(surveyID)
	if sv == nil {
		return false, ErrSurveyNotFound
	}
	if index < 0 || index >= len(sv.Questions) {
		return false, fmt.Errorf("%w: %d", ErrQuestionIndex, index)
	}
	answer = strings.TrimSpace(answer)
	if !sv.Questions[index].Accepts(answer) {
		return false, fmt.Errorf("%w: %q for question %d", ErrInvalidAnswer, answer, index+1)
	}

	s.mu.Lock()
	key := draftKey{surveyID: surveyID, respondent: respondent}
	draft, ok := s.drafts[key]
	if !ok {
		draft = make([]string, len(sv.Questions))
		if prev := s.store.GetResponse(surveyID, respondent); prev != nil && len(prev.Answers) == len(sv.Questions) {
			copy(draft, prev.Answers)
		}
		s.drafts[key] = draft
	}
	draft[index] = answer
	for _, a := range draft {
		if a == "" {
			s.mu.Unlock()
			return false, nil
		}
	}
	delete(s.drafts, key)
	answers := append([]string(nil), draft...)
	s.mu.Unlock()

	return true, s.SubmitResponse(surveyID, respondent, answers)
}

// Tally aggregates all stored responses for the survey.
func (s *SurveyService) Tally(surveyID string) (*SurveyTally, error) {
	sv := s.store.GetSurvey(surveyID)
	if sv == nil {
		return nil, ErrSurveyNotFound
	}
	responses := s.store.ListResponses(surveyID)
	t := &SurveyTally{
		Survey:    sv,
		Responses: len(responses),
		Questions: make([]QuestionTally, len(sv.Questions)),
	}
	for i, q := range sv.Questions {
		qt := QuestionTally{Prompt: q.Prompt}
		if !q.FreeText() {
			qt.Options = append([]string(nil), q.Answers...)
			qt.Counts = make(map[string]int, len(q.Answers))
			for _, a := range q.Answers {
				qt.Counts[a] = 0
			}
		}
		t.Questions[i] = qt
	}
	for _, r := range responses {
		if len(r.Answers) != len(sv.Questions) {
			continue
		}
		for i, a := range r.Answers {
			if sv.Questions[i].FreeText() {
				t.Questions[i].Texts = append(t.Questions[i].Texts, a)
			} else {
				t.Questions[i].Counts[a]++
			}
		}
	}
	return t, nil
}
