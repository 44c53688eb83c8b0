package dto

import (
	"time"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
)

// CreateProjectRequest payload. TeamEmails is a comma-separated list.
type CreateProjectRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Status      domain.ProjectStatus  `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	StartDate   string                `json:"start_date"`
	Deadline    string                `json:"deadline"`
	TeamEmails  string                `json:"team_emails"`
}

// UpdateProjectRequest payload; nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Status      *domain.ProjectStatus  `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	StartDate   *string                `json:"start_date"`
	Deadline    *string                `json:"deadline"`
	TeamEmails  *string                `json:"team_emails"`
}

// SetProgressRequest payload. ConfirmCompleted acknowledges the promotion
// prompt shown when progress reaches 100 on a non-completed project.
type SetProgressRequest struct {
	Progress         int  `json:"progress"`
	ConfirmCompleted bool `json:"confirm_completed"`
}

// TeamMemberResponse is one roster entry.
type TeamMemberResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ProjectResponse carries a project plus its deadline classification.
type ProjectResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Status        domain.ProjectStatus  `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	StartDate     string                `json:"start_date"`
	Deadline      string                `json:"deadline"`
	Team          []TeamMemberResponse  `json:"team"`
	Progress      int                   `json:"progress"`
	CreatedBy     string                `json:"created_by"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	DeadlineClass domain.DeadlineClass  `json:"deadline_class"`
	DeadlineDays  int                   `json:"deadline_days"`
}
