package dto

import (
	"time"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
)

// AddStaffRequest payload.
type AddStaffRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Team  string `json:"team"`
}

// StaffResponse is one directory record.
type StaffResponse struct {
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Team     string             `json:"team"`
	Status   domain.StaffStatus `json:"status"`
	JoinedAt time.Time          `json:"joined_at"`
}
