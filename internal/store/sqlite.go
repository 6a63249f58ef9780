package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/infun-course/tutorbot/internal/services"
)

// SQLite persists surveys, responses and feedback across restarts.
// Attendance checks are ephemeral by contract and stay in memory even
// when a database is configured.
type SQLite struct {
	db  *sql.DB
	mem *Memory
}

// NewSQLite wraps an opened database. Migrations must have been run.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLite{db: db, mem: NewMemory()}, nil
}

var (
	_ services.SurveyStore     = (*SQLite)(nil)
	_ services.FeedbackStore   = (*SQLite)(nil)
	_ services.AttendanceStore = (*SQLite)(nil)
)

func (s *SQLite) logErr(prefix string, err error) {
	if err != nil {
		log.WithError(err).Errorf("sqlite store: %s", prefix)
	}
}

func (s *SQLite) AddSurvey(sv *services.Survey) error {
	questions, err := json.Marshal(sv.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO surveys (id, topic, creator, questions, created_at) VALUES (?, ?, ?, ?, ?)`,
		sv.ID, sv.Topic, sv.Creator, string(questions), sv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert survey %s: %w", sv.ID, err)
	}
	return nil
}

func (s *SQLite) GetSurvey(id string) *services.Survey {
	row := s.db.QueryRow(`SELECT id, topic, creator, questions, created_at FROM surveys WHERE id = ?`, id)
	var (
		sv           services.Survey
		rawQuestions string
	)
	err := row.Scan(&sv.ID, &sv.Topic, &sv.Creator, &rawQuestions, &sv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("get survey", err)
		return nil
	}
	if err := json.Unmarshal([]byte(rawQuestions), &sv.Questions); err != nil {
		s.logErr("decode questions", err)
		return nil
	}
	return &sv
}

func (s *SQLite) PutResponse(r *services.Response) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO survey_responses (survey_id, respondent, answers, submitted_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(survey_id, respondent) DO UPDATE SET answers = excluded.answers, submitted_at = excluded.submitted_at`,
		r.SurveyID, r.Respondent, string(answers), r.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert response: %w", err)
	}
	return nil
}

func (s *SQLite) GetResponse(surveyID, respondent string) *services.Response {
	row := s.db.QueryRow(
		`SELECT survey_id, respondent, answers, submitted_at FROM survey_responses WHERE survey_id = ? AND respondent = ?`,
		surveyID, respondent,
	)
	r, err := scanResponse(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("get response", err)
		return nil
	}
	return r
}

func (s *SQLite) ListResponses(surveyID string) []*services.Response {
	rows, err := s.db.Query(
		`SELECT survey_id, respondent, answers, submitted_at FROM survey_responses WHERE survey_id = ? ORDER BY submitted_at, respondent`,
		surveyID,
	)
	if err != nil {
		s.logErr("list responses", err)
		return nil
	}
	defer rows.Close()
	var out []*services.Response
	for rows.Next() {
		r, err := scanResponse(rows.Scan)
		if err != nil {
			s.logErr("scan response", err)
			continue
		}
		out = append(out, r)
	}
	s.logErr("iterate responses", rows.Err())
	return out
}

func scanResponse(scan func(...any) error) (*services.Response, error) {
	var (
		r          services.Response
		rawAnswers string
	)
	if err := scan(&r.SurveyID, &r.Respondent, &rawAnswers, &r.SubmittedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(rawAnswers), &r.Answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return &r, nil
}

func (s *SQLite) AddFeedback(e *services.FeedbackEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO feedback (session_id, submitter, content, submitted_at) VALUES (?, ?, ?, ?)`,
		e.SessionID, e.Submitter, e.Content, e.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *SQLite) ListFeedback(sessionID string) []*services.FeedbackEntry {
	rows, err := s.db.Query(
		`SELECT session_id, submitter, content, submitted_at FROM feedback WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		s.logErr("list feedback", err)
		return nil
	}
	defer rows.Close()
	var out []*services.FeedbackEntry
	for rows.Next() {
		var e services.FeedbackEntry
		if err := rows.Scan(&e.SessionID, &e.Submitter, &e.Content, &e.SubmittedAt); err != nil {
			s.logErr("scan feedback", err)
			continue
		}
		out = append(out, &e)
	}
	s.logErr("iterate feedback", rows.Err())
	return out
}

func (s *SQLite) OpenSession(group string, at time.Time) bool {
	return s.mem.OpenSession(group, at)
}

func (s *SQLite) CloseSession(group string) *services.AttendanceSession {
	return s.mem.CloseSession(group)
}

func (s *SQLite) GetSession(group string) *services.AttendanceSession {
	return s.mem.GetSession(group)
}

func (s *SQLite) AddSessionMember(group, member string) (added, open bool) {
	return s.mem.AddSessionMember(group, member)
}
