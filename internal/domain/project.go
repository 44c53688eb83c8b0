package domain

import "time"

// ProjectStatus enumerates project lifecycle states.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "Planning"
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
)

// ValidProjectStatus reports enum membership.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusCompleted:
		return true
	}
	return false
}

// TeamMember pairs a roster email with its resolved display name.
type TeamMember struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Project tracks a parallel initiative with a team roster and deadline.
// StartDate and Deadline are calendar dates (ISO yyyy-mm-dd, no time part).
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      ProjectStatus  `json:"status"`
	Priority    TicketPriority `json:"priority"`
	StartDate   string         `json:"startDate"`
	Deadline    string         `json:"deadline"`
	Team        []TeamMember   `json:"team"`
	Progress    int            `json:"progress"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// DeadlineClass buckets a project by deadline proximity.
type DeadlineClass string

const (
	DeadlineCompleted DeadlineClass = "Completed"
	DeadlineOverdue   DeadlineClass = "Overdue"
	DeadlineDueToday  DeadlineClass = "Due Today"
	DeadlineUrgent    DeadlineClass = "Urgent"
	DeadlineSoon      DeadlineClass = "Soon"
	DeadlineNormal    DeadlineClass = "Normal"
)

// DeadlineInfo carries the bucket plus the signed day distance used to
// compute it (days until deadline, negative when overdue).
type DeadlineInfo struct {
	Class DeadlineClass `json:"class"`
	Days  int           `json:"days"`
}
