package services

import (
	"errors"
	"strings"
	"time"
)

// AttendanceStore abstracts the keyed open-session state. Each mutation is
// an atomic check-and-set, so concurrent commands for the same group
// cannot interleave mid-update.
type AttendanceStore interface {
	// OpenSession creates an open session for the group; false when one
	// is already open.
	OpenSession(group string, at time.Time) bool
	// CloseSession removes and returns the group's open session; nil when
	// none is open.
	CloseSession(group string) *AttendanceSession
	// GetSession returns a snapshot of the group's open session, or nil.
	GetSession(group string) *AttendanceSession
	// AddSessionMember appends member to the open session. The first bool
	// reports whether the member was newly added, the second whether a
	// session was open at all.
	AddSessionMember(group, member string) (added, open bool)
}

var (
	// ErrSessionAlreadyOpen is returned when starting a check that is already running.
	ErrSessionAlreadyOpen = errors.New("attendance check already open for group")
	// ErrSessionNotOpen is returned when stopping or checking into a check that is not running.
	ErrSessionNotOpen = errors.New("no open attendance check for group")
	// ErrBlankGroup is returned when the group id is empty.
	ErrBlankGroup = errors.New("group id is blank")
)

// AttendanceService tracks at most one open attendance check per tutor
// group. Closing discards the session; restarting creates a fresh one.
type AttendanceService struct {
	store AttendanceStore
	now   func() time.Time
}

// NewAttendanceService constructs a service bound to the provided store.
func NewAttendanceService(store AttendanceStore) *AttendanceService {
	return &AttendanceService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeGroup canonicalizes a group id. Students type these by hand,
// so "G5" and "g5" name the same group.
func NormalizeGroup(group string) string {
	return strings.ToLower(strings.TrimSpace(group))
}

// Start opens an attendance check for the group.
func (s *AttendanceService) Start(group string) error {
	g := NormalizeGroup(group)
	if g == "" {
		return ErrBlankGroup
	}
	if !s.store.OpenSession(g, s.now()) {
		return ErrSessionAlreadyOpen
	}
	return nil
}

// Stop closes the group's attendance check and returns the final session,
// including everyone who checked in.
func (s *AttendanceService) Stop(group string) (*AttendanceSession, error) {
	g := NormalizeGroup(group)
	if g == "" {
		return nil, ErrBlankGroup
	}
	sess := s.store.CloseSession(g)
	if sess == nil {
		return nil, ErrSessionNotOpen
	}
	return sess, nil
}

// IsOpen reports whether the group has an open attendance check.
func (s *AttendanceService) IsOpen(group string) bool {
	return s.store.GetSession(NormalizeGroup(group)) != nil
}

// CheckIn adds a student to the group's open check. Checking in twice is
// not an error; the bool reports whether the student was newly added.
func (s *AttendanceService) CheckIn(group, member string) (bool, error) {
	g := NormalizeGroup(group)
	if g == "" {
		return false, ErrBlankGroup
	}
	member = strings.TrimSpace(member)
	if member == "" {
		return false, nil
	}
	added, open := s.store.AddSessionMember(g, member)
	if !open {
		return false, ErrSessionNotOpen
	}
	return added, nil
}
