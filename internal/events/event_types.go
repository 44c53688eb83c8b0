package events

import (
	"time"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketCommentAdded    EventType = "ticket_comment_added"
	EventProjectCreated        EventType = "project_created"
	EventProjectDeleted        EventType = "project_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject    string                `json:"subject"`
	Category   domain.TicketCategory `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	AssignedTo string                `json:"assigned_to"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	TextPreview string `json:"text_preview"`
	// NotifyEmail is the ticket creator to notify, when different from
	// the commenting actor.
	NotifyEmail string `json:"notify_email,omitempty"`
}

// ProjectCreatedPayload payload.
type ProjectCreatedPayload struct {
	Name     string                `json:"name"`
	Status   domain.ProjectStatus  `json:"status"`
	Priority domain.TicketPriority `json:"priority"`
	Deadline string                `json:"deadline"`
}
