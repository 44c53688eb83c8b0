package domain

import "time"

// StaffStatus marks directory members as available for work or not.
type StaffStatus string

const (
	StaffStatusActive   StaffStatus = "Active"
	StaffStatusInactive StaffStatus = "Inactive"
)

// StaffMember is one IT staff directory record. Email is the unique key
// within the directory.
type StaffMember struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Team     string      `json:"team"`
	Status   StaffStatus `json:"status"`
	JoinedAt time.Time   `json:"joinedAt"`
}
