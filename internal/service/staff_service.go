package service

import (
	"context"
	"strings"
	"time"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/repository"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

// StaffService owns the IT staff directory: membership and the
// active/inactive toggle. All operations are admin-only.
type StaffService struct {
	staff repository.StaffRepository
	now   func() time.Time
}

// StaffDependencies bundles collaborators for the staff directory service.
type StaffDependencies struct {
	StaffRepo repository.StaffRepository
	Now       func() time.Time
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies) *StaffService {
	svc := &StaffService{staff: deps.StaffRepo, now: deps.Now}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// AddStaff appends a new directory member. The email is the directory's
// unique key; the duplicate check is a case-sensitive exact match against
// the stored value.
func (s *StaffService) AddStaff(ctx context.Context, principal *domain.Principal, name, email, team string) (*domain.StaffMember, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	team = strings.TrimSpace(team)
	if name == "" || email == "" || team == "" {
		return nil, apperrors.NewValidationError("name, email, and team are required", nil)
	}

	staff, err := s.staff.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range staff {
		if staff[i].Email == email {
			return nil, apperrors.NewConflict("staff email already exists", map[string]any{"email": email})
		}
	}

	member := domain.StaffMember{
		Name:     name,
		Email:    email,
		Team:     team,
		Status:   domain.StaffStatusActive,
		JoinedAt: s.now(),
	}
	staff = append(staff, member)
	if err := s.staff.ReplaceAll(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &member, nil
}

// ToggleStatus flips a member between Active and Inactive. Lookup is keyed
// by email rather than list position so a stale listing cannot toggle the
// wrong member.
func (s *StaffService) ToggleStatus(ctx context.Context, principal *domain.Principal, email string) (*domain.StaffMember, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	staff, err := s.staff.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range staff {
		if staff[i].Email != email {
			continue
		}
		if staff[i].Status == domain.StaffStatusActive {
			staff[i].Status = domain.StaffStatusInactive
		} else {
			staff[i].Status = domain.StaffStatusActive
		}
		if err := s.staff.ReplaceAll(ctx, staff); err != nil {
			return nil, apperrors.MapError(err)
		}
		out := staff[i]
		return &out, nil
	}
	return nil, apperrors.NewNotFound("staff member", map[string]any{"email": email})
}

// ListStaff returns the directory in stored order.
func (s *StaffService) ListStaff(ctx context.Context, principal *domain.Principal) ([]domain.StaffMember, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	staff, err := s.staff.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return staff, nil
}
