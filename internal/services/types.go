package services

import "time"

// Question is a single survey prompt. An empty Answers set means the
// question accepts free text.
type Question struct {
	Prompt  string   `json:"prompt"`
	Answers []string `json:"answers,omitempty"`
}

// FreeText reports whether the question has no fixed answer set.
func (q Question) FreeText() bool { return len(q.Answers) == 0 }

// Accepts reports whether a is a valid answer for the question. Fixed-set
// questions require membership; free-text questions require any non-blank
// value.
func (q Question) Accepts(a string) bool {
	if q.FreeText() {
		return a != ""
	}
	for _, allowed := range q.Answers {
		if a == allowed {
			return true
		}
	}
	return false
}

// Survey is an immutable ordered question sequence created once and
// answered by multiple respondents independently.
type Survey struct {
	ID        string     `json:"id"`
	Topic     string     `json:"topic,omitempty"`
	Creator   string     `json:"creator"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}

// Response is one respondent's full set of answers to a survey. Answers
// correspond positionally to the survey's questions and always have the
// same length as the question sequence.
type Response struct {
	SurveyID    string    `json:"survey_id"`
	Respondent  string    `json:"respondent"`
	Answers     []string  `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// FeedbackEntry is one append-only feedback record for a tutor session.
type FeedbackEntry struct {
	SessionID   string    `json:"session_id"`
	Submitter   string    `json:"submitter"`
	Content     string    `json:"content"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AttendanceSession is an open attendance check for one tutor group.
// Members holds the display names of students who checked in while the
// session was open, in check-in order.
type AttendanceSession struct {
	Group    string
	OpenedAt time.Time
	Members  []string
}

// QuestionTally aggregates the stored answers for one question. Fixed-set
// questions fill Counts over Options (zero counts included); free-text
// questions collect the raw answers in submission order.
type QuestionTally struct {
	Prompt  string
	Options []string
	Counts  map[string]int
	Texts   []string
}

// SurveyTally is the aggregation of every stored response for a survey.
type SurveyTally struct {
	Survey    *Survey
	Responses int
	Questions []QuestionTally
}
