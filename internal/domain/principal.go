package domain

// Role is the closed set of caller roles. Authorization decisions match on
// this enum, never on raw strings from the transport.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleITStaff  Role = "itstaff"
	RoleAdmin    Role = "admin"
)

// ValidRole reports enum membership.
func ValidRole(r Role) bool {
	switch r {
	case RoleEmployee, RoleITStaff, RoleAdmin:
		return true
	}
	return false
}

// Principal is the already-authenticated caller identity. It is issued by
// the external authentication collaborator; the core never verifies
// credentials.
type Principal struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
}

// IsStaff reports whether the principal may operate on any ticket.
func (p *Principal) IsStaff() bool {
	return p != nil && (p.Role == RoleITStaff || p.Role == RoleAdmin)
}

// IsAdmin reports whether the principal holds the administrator role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
