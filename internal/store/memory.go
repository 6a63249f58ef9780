package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/infun-course/tutorbot/internal/services"
)

// Memory is the in-process store used when no database is configured.
// Every mutation runs under the write lock, so each keyed operation is
// atomic with respect to the others.
type Memory struct {
	mu        sync.RWMutex
	sessions  map[string]*services.AttendanceSession
	surveys   map[string]*services.Survey
	responses map[string][]*services.Response
	feedback  map[string][]*services.FeedbackEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions:  map[string]*services.AttendanceSession{},
		surveys:   map[string]*services.Survey{},
		responses: map[string][]*services.Response{},
		feedback:  map[string][]*services.FeedbackEntry{},
	}
}

var (
	_ services.SurveyStore     = (*Memory)(nil)
	_ services.FeedbackStore   = (*Memory)(nil)
	_ services.AttendanceStore = (*Memory)(nil)
)

func (m *Memory) OpenSession(group string, at time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[group]; ok {
		return false
	}
	m.sessions[group] = &services.AttendanceSession{Group: group, OpenedAt: at}
	return true
}

func (m *Memory) CloseSession(group string) *services.AttendanceSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[group]
	if !ok {
		return nil
	}
	delete(m.sessions, group)
	return copySession(sess)
}

func (m *Memory) GetSession(group string) *services.AttendanceSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySession(m.sessions[group])
}

func (m *Memory) AddSessionMember(group, member string) (added, open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[group]
	if !ok {
		return false, false
	}
	for _, name := range sess.Members {
		if name == member {
			return false, true
		}
	}
	sess.Members = append(sess.Members, member)
	return true, true
}

func copySession(s *services.AttendanceSession) *services.AttendanceSession {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Members = append([]string(nil), s.Members...)
	return &cp
}

func (m *Memory) AddSurvey(sv *services.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.surveys[sv.ID]; ok {
		return fmt.Errorf("survey %s already exists", sv.ID)
	}
	m.surveys[sv.ID] = sv
	return nil
}

func (m *Memory) GetSurvey(id string) *services.Survey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Surveys are immutable once stored, sharing the pointer is fine.
	return m.surveys[id]
}

func (m *Memory) PutResponse(r *services.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.responses[r.SurveyID]
	kept := make([]*services.Response, 0, len(list)+1)
	for _, prev := range list {
		if prev.Respondent != r.Respondent {
			kept = append(kept, prev)
		}
	}
	m.responses[r.SurveyID] = append(kept, r)
	return nil
}

func (m *Memory) GetResponse(surveyID, respondent string) *services.Response {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.responses[surveyID] {
		if r.Respondent == respondent {
			return r
		}
	}
	return nil
}

func (m *Memory) ListResponses(surveyID string) []*services.Response {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*services.Response(nil), m.responses[surveyID]...)
}

func (m *Memory) AddFeedback(e *services.FeedbackEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback[e.SessionID] = append(m.feedback[e.SessionID], e)
	return nil
}

func (m *Memory) ListFeedback(sessionID string) []*services.FeedbackEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*services.FeedbackEntry(nil), m.feedback[sessionID]...)
}
