package dto

import (
	"time"

	"github.com/workforce-portal/grievance-service/internal/domain"
)

// CreateGrievanceRequest payload.
type CreateGrievanceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Department  string `json:"department"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.GrievanceStatus `json:"status"`
}

// CreateReplyRequest payload.
type CreateReplyRequest struct {
	Message string `json:"message"`
}

// GrievanceSummary is the list representation of a grievance.
type GrievanceSummary struct {
	ID          string                 `json:"id"`
	SubmitterID string                 `json:"submitter_id"`
	Title       string                 `json:"title"`
	Department  string                 `json:"department"`
	Status      domain.GrievanceStatus `json:"status"`
	ReplyCount  int                    `json:"reply_count"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// GrievanceDetailResponse provides full grievance info.
type GrievanceDetailResponse struct {
	ID          string                 `json:"id"`
	SubmitterID string                 `json:"submitter_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Department  string                 `json:"department"`
	Status      domain.GrievanceStatus `json:"status"`
	Replies     []ReplyResponse        `json:"replies"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ReplyResponse represents a thread entry.
type ReplyResponse struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"sender_id"`
	SenderRole domain.Role `json:"sender_role"`
	Message    string      `json:"message"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewGrievanceSummary maps a grievance to its list representation.
func NewGrievanceSummary(g *domain.Grievance) GrievanceSummary {
	return GrievanceSummary{
		ID:          g.ID,
		SubmitterID: g.SubmitterID,
		Title:       g.Title,
		Department:  g.Department,
		Status:      g.Status,
		ReplyCount:  len(g.Replies),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// NewGrievanceDetail maps a grievance with its reply thread.
func NewGrievanceDetail(g *domain.Grievance) GrievanceDetailResponse {
	replies := make([]ReplyResponse, 0, len(g.Replies))
	for _, r := range g.Replies {
		replies = append(replies, ReplyResponse{
			ID:         r.ID,
			SenderID:   r.SenderID,
			SenderRole: r.SenderRole,
			Message:    r.Message,
			CreatedAt:  r.CreatedAt,
		})
	}
	return GrievanceDetailResponse{
		ID:          g.ID,
		SubmitterID: g.SubmitterID,
		Title:       g.Title,
		Description: g.Description,
		Department:  g.Department,
		Status:      g.Status,
		Replies:     replies,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
