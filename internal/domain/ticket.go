package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// TicketCategory enumerates issue categories used for team routing.
type TicketCategory string

const (
	CategorySoftware TicketCategory = "Software Issue"
	CategoryHardware TicketCategory = "Hardware Issue"
	CategoryNetwork  TicketCategory = "Network Issue"
	CategoryEmail    TicketCategory = "Email Issue"
)

// ValidTicketStatus reports enum membership.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidTicketPriority reports enum membership.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// ValidTicketCategory reports enum membership.
func ValidTicketCategory(c TicketCategory) bool {
	switch c {
	case CategorySoftware, CategoryHardware, CategoryNetwork, CategoryEmail:
		return true
	}
	return false
}

// TimelineEvent is one append-only audit entry on a ticket. Entries are
// never edited or removed once written.
type TimelineEvent struct {
	Action    string    `json:"action"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// Comment is an immutable user-visible note on a ticket.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID            string          `json:"id"`
	Subject       string          `json:"subject"`
	Description   string          `json:"description"`
	Category      TicketCategory  `json:"category"`
	Priority      TicketPriority  `json:"priority"`
	Status        TicketStatus    `json:"status"`
	CreatedBy     string          `json:"createdBy"`
	CreatedByName string          `json:"createdByName"`
	AssignedTo    string          `json:"assignedTo,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	Timeline      []TimelineEvent `json:"timeline"`
	Comments      []Comment       `json:"comments"`
}

// SLAStatus classifies a ticket against its response-time threshold.
type SLAStatus string

const (
	SLAOnTrack     SLAStatus = "On Track"
	SLAApproaching SLAStatus = "Approaching"
	SLABreached    SLAStatus = "Breached"
	SLACompleted   SLAStatus = "Completed"
)
