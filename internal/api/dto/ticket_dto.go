package dto

import (
	"time"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Text string `json:"text"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// ChangePriorityRequest payload.
type ChangePriorityRequest struct {
	Priority domain.TicketPriority `json:"priority"`
}

// TicketSummary response row for listings.
type TicketSummary struct {
	ID            string                `json:"id"`
	Subject       string                `json:"subject"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	Status        domain.TicketStatus   `json:"status"`
	CreatedByName string                `json:"created_by_name"`
	AssignedTo    string                `json:"assigned_to,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// TimelineEventResponse represents one audit entry.
type TimelineEventResponse struct {
	Action    string    `json:"action"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// CommentResponse represents one ticket comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TicketDetailResponse provides full ticket info plus the derived age and
// SLA classification.
type TicketDetailResponse struct {
	ID            string                  `json:"id"`
	Subject       string                  `json:"subject"`
	Description   string                  `json:"description"`
	Category      domain.TicketCategory   `json:"category"`
	Priority      domain.TicketPriority   `json:"priority"`
	Status        domain.TicketStatus     `json:"status"`
	CreatedBy     string                  `json:"created_by"`
	CreatedByName string                  `json:"created_by_name"`
	AssignedTo    string                  `json:"assigned_to,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	ClosedAt      *time.Time              `json:"closed_at,omitempty"`
	AgeHours      float64                 `json:"age_hours"`
	SLAStatus     domain.SLAStatus        `json:"sla_status"`
	Timeline      []TimelineEventResponse `json:"timeline"`
	Comments      []CommentResponse       `json:"comments"`
}
