package events

import (
	"time"

	"github.com/workforce-portal/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGrievanceCreated       EventType = "grievance_created"
	EventGrievanceStatusChanged EventType = "grievance_status_changed"
	EventGrievanceReplyAdded    EventType = "grievance_reply_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ID         string      `json:"id"`
	Role       domain.Role `json:"role"`
	Department string      `json:"department,omitempty"`
}

// ActorFrom snapshots a request actor.
func ActorFrom(a domain.Actor) Actor {
	return Actor{ID: a.ID, Role: a.Role, Department: a.Department}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	GrievanceID string      `json:"grievance_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// GrievanceCreatedPayload payload.
type GrievanceCreatedPayload struct {
	SubmitterID string `json:"submitter_id"`
	Department  string `json:"department"`
	Title       string `json:"title"`
}

// GrievanceStatusChangedPayload payload.
type GrievanceStatusChangedPayload struct {
	OldStatus domain.GrievanceStatus `json:"old_status"`
	NewStatus domain.GrievanceStatus `json:"new_status"`
}

// GrievanceReplyAddedPayload payload.
type GrievanceReplyAddedPayload struct {
	ReplyID     string      `json:"reply_id"`
	SenderRole  domain.Role `json:"sender_role"`
	BodyPreview string      `json:"body_preview"`
}
