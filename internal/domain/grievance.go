package domain

import (
	"errors"
	"time"
)

// GrievanceStatus enumerates lifecycle states for grievances.
type GrievanceStatus string

const (
	GrievanceStatusPending       GrievanceStatus = "pending"
	GrievanceStatusForwardedToHR GrievanceStatus = "forwarded-to-hr"
	GrievanceStatusResolved      GrievanceStatus = "resolved"
	GrievanceStatusRejected      GrievanceStatus = "rejected"
)

var (
	// ErrGrievanceClosed is returned when a terminal grievance is mutated.
	ErrGrievanceClosed = errors.New("grievance is closed")
	// ErrInvalidStatus is returned for statuses outside the enumerated set.
	ErrInvalidStatus = errors.New("invalid grievance status")
)

// IsValid reports whether s is one of the four grievance statuses.
func (s GrievanceStatus) IsValid() bool {
	switch s {
	case GrievanceStatusPending, GrievanceStatusForwardedToHR, GrievanceStatusResolved, GrievanceStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether s permits no further replies or transitions.
func (s GrievanceStatus) IsTerminal() bool {
	return s == GrievanceStatusResolved || s == GrievanceStatusRejected
}

func (s GrievanceStatus) String() string { return string(s) }

// TerminalStatuses lists the sticky statuses.
func TerminalStatuses() []GrievanceStatus {
	return []GrievanceStatus{GrievanceStatusResolved, GrievanceStatusRejected}
}

// Grievance is the aggregate for a submitted workplace grievance.
// Title, Description and Department are fixed at creation.
type Grievance struct {
	ID          string
	SubmitterID string
	Title       string
	Description string
	Department  string
	Status      GrievanceStatus
	Replies     []Reply
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reply is one entry in a grievance thread. SenderRole is captured when the reply is sent.
type Reply struct {
	ID         string
	SenderID   string
	SenderRole Role
	Message    string
	CreatedAt  time.Time
}

// IsClosed reports whether the grievance reached a terminal status.
func (g *Grievance) IsClosed() bool {
	return g.Status.IsTerminal()
}

// AcceptsReplies reports whether new replies may be appended.
func (g *Grievance) AcceptsReplies() bool {
	return !g.IsClosed()
}

// TransitionTo moves the grievance to target. Any non-terminal status may move to any
// valid status; terminal statuses are final. It reports whether the status changed.
func (g *Grievance) TransitionTo(target GrievanceStatus) (bool, error) {
	if !target.IsValid() {
		return false, ErrInvalidStatus
	}
	if g.IsClosed() {
		return false, ErrGrievanceClosed
	}
	if g.Status == target {
		return false, nil
	}
	g.Status = target
	return true, nil
}

// AppendReply adds reply to the end of the thread.
func (g *Grievance) AppendReply(reply Reply) error {
	if !g.AcceptsReplies() {
		return ErrGrievanceClosed
	}
	g.Replies = append(g.Replies, reply)
	return nil
}
