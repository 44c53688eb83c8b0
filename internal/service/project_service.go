package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/events"
	"github.com/ticket-tally/helpdesk-service/internal/identifier"
	"github.com/ticket-tally/helpdesk-service/internal/query"
	"github.com/ticket-tally/helpdesk-service/internal/repository"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

const dateLayout = "2006-01-02"

// ProjectService owns project creation and edits, roster management,
// progress tracking, and deadline urgency classification. All operations
// are admin-only.
type ProjectService struct {
	projects   repository.ProjectRepository
	tickets    repository.TicketRepository
	session    repository.SessionRepository
	ids        *identifier.Generator
	dispatcher events.Dispatcher
	now        func() time.Time
}

// ProjectDependencies bundles collaborators for the project service.
type ProjectDependencies struct {
	ProjectRepo repository.ProjectRepository
	TicketRepo  repository.TicketRepository
	SessionRepo repository.SessionRepository
	IDs         *identifier.Generator
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// ProjectCreateInput describes project creation payload. TeamEmails is the
// raw comma-separated roster input.
type ProjectCreateInput struct {
	Name        string
	Description string
	Status      domain.ProjectStatus
	Priority    domain.TicketPriority
	StartDate   string
	Deadline    string
	TeamEmails  string
}

// ProjectUpdateInput patches an existing project. Nil fields are left
// unchanged; a non-nil TeamEmails rebuilds the roster.
type ProjectUpdateInput struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	Priority    *domain.TicketPriority
	StartDate   *string
	Deadline    *string
	TeamEmails  *string
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	svc := &ProjectService{
		projects:   deps.ProjectRepo,
		tickets:    deps.TicketRepo,
		session:    deps.SessionRepo,
		ids:        deps.IDs,
		dispatcher: deps.Dispatcher,
		now:        deps.Now,
	}
	if svc.ids == nil {
		svc.ids = identifier.NewGenerator()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// ClassifyDeadline buckets a project by deadline proximity on the given day.
// The day boundary is the calendar date in the clock's own location, so a
// non-UTC deployment does not shift the Due Today and Urgent buckets.
func ClassifyDeadline(project *domain.Project, today time.Time) domain.DeadlineInfo {
	if project.Status == domain.ProjectStatusCompleted {
		return domain.DeadlineInfo{Class: domain.DeadlineCompleted}
	}
	deadline, err := time.Parse(dateLayout, project.Deadline)
	if err != nil {
		return domain.DeadlineInfo{Class: domain.DeadlineNormal}
	}
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	daysUntil := int(deadline.Sub(day).Hours() / 24)
	switch {
	case daysUntil < 0:
		return domain.DeadlineInfo{Class: domain.DeadlineOverdue, Days: daysUntil}
	case daysUntil == 0:
		return domain.DeadlineInfo{Class: domain.DeadlineDueToday}
	case daysUntil <= 3:
		return domain.DeadlineInfo{Class: domain.DeadlineUrgent, Days: daysUntil}
	case daysUntil <= 7:
		return domain.DeadlineInfo{Class: domain.DeadlineSoon, Days: daysUntil}
	default:
		return domain.DeadlineInfo{Class: domain.DeadlineNormal, Days: daysUntil}
	}
}

// CreateProject validates input, resolves the roster, and persists a new
// project. Progress starts at 100 for completed projects, 0 otherwise.
func (s *ProjectService) CreateProject(ctx context.Context, principal *domain.Principal, input ProjectCreateInput) (*domain.Project, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("project name is required", nil)
	}
	if !domain.ValidProjectStatus(input.Status) {
		return nil, apperrors.NewValidationError("unknown project status", map[string]any{"status": input.Status})
	}
	if !domain.ValidTicketPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	team, err := s.buildTeam(ctx, principal, input.TeamEmails)
	if err != nil {
		return nil, err
	}

	progress := 0
	if input.Status == domain.ProjectStatusCompleted {
		progress = 100
	}

	now := s.now()
	project := domain.Project{
		ID:          s.ids.ProjectID(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
		Priority:    input.Priority,
		StartDate:   input.StartDate,
		Deadline:    input.Deadline,
		Team:        team,
		Progress:    progress,
		CreatedBy:   principal.Email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	projects, err := s.projects.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	projects = append(projects, project)
	if err := s.projects.ReplaceAll(ctx, projects); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventProjectCreated,
		EntityID: project.ID,
		Actor:    actorFor(principal),
		Payload: events.ProjectCreatedPayload{
			Name:     project.Name,
			Status:   project.Status,
			Priority: project.Priority,
			Deadline: project.Deadline,
		},
	})
	return &project, nil
}

// UpdateProject applies a patch, rebuilding the roster when a fresh email
// list is supplied and re-applying the completed-means-100 rule.
func (s *ProjectService) UpdateProject(ctx context.Context, principal *domain.Principal, projectID string, input ProjectUpdateInput) (*domain.Project, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	projects, err := s.projects.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idx := findProject(projects, projectID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("project", map[string]any{"id": projectID})
	}

	project := &projects[idx]
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("project name is required", nil)
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !domain.ValidProjectStatus(*input.Status) {
			return nil, apperrors.NewValidationError("unknown project status", map[string]any{"status": *input.Status})
		}
		project.Status = *input.Status
	}
	if input.Priority != nil {
		if !domain.ValidTicketPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		project.Priority = *input.Priority
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.Deadline != nil {
		project.Deadline = *input.Deadline
	}
	if input.TeamEmails != nil {
		team, err := s.buildTeam(ctx, principal, *input.TeamEmails)
		if err != nil {
			return nil, err
		}
		project.Team = team
	}
	if project.Status == domain.ProjectStatusCompleted && project.Progress < 100 {
		project.Progress = 100
	}
	project.UpdatedAt = s.now()

	if err := s.projects.ReplaceAll(ctx, projects); err != nil {
		return nil, apperrors.MapError(err)
	}
	out := projects[idx]
	return &out, nil
}

// SetProgress updates the completion percentage. Reaching 100 does not
// promote the status on its own; the caller must confirm the promotion
// explicitly (confirmCompleted), since that prompt lives at the boundary.
func (s *ProjectService) SetProgress(ctx context.Context, principal *domain.Principal, projectID string, value int, confirmCompleted bool) (*domain.Project, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if value < 0 || value > 100 {
		return nil, apperrors.NewValidationError("progress must be between 0 and 100", map[string]any{"progress": value})
	}

	projects, err := s.projects.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idx := findProject(projects, projectID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("project", map[string]any{"id": projectID})
	}

	project := &projects[idx]
	project.Progress = value
	if value == 100 && project.Status != domain.ProjectStatusCompleted && confirmCompleted {
		project.Status = domain.ProjectStatusCompleted
	}
	project.UpdatedAt = s.now()

	if err := s.projects.ReplaceAll(ctx, projects); err != nil {
		return nil, apperrors.MapError(err)
	}
	out := projects[idx]
	return &out, nil
}

// DeleteProject removes a project permanently. There is no soft delete.
func (s *ProjectService) DeleteProject(ctx context.Context, principal *domain.Principal, projectID string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	projects, err := s.projects.LoadAll(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}
	idx := findProject(projects, projectID)
	if idx < 0 {
		return apperrors.NewNotFound("project", map[string]any{"id": projectID})
	}

	projects = append(projects[:idx], projects[idx+1:]...)
	if err := s.projects.ReplaceAll(ctx, projects); err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventProjectDeleted,
		EntityID: projectID,
		Actor:    actorFor(principal),
	})
	return nil
}

// GetProject fetches one project.
func (s *ProjectService) GetProject(ctx context.Context, principal *domain.Principal, projectID string) (*domain.Project, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	projects, err := s.projects.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idx := findProject(projects, projectID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("project", map[string]any{"id": projectID})
	}
	out := projects[idx]
	return &out, nil
}

// ListProjects returns the portfolio ordered by deadline, closest first.
func (s *ProjectService) ListProjects(ctx context.Context, principal *domain.Principal) ([]domain.Project, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	projects, err := s.projects.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].Deadline < projects[j].Deadline
	})
	return projects, nil
}

// PortfolioStats summarizes the project collection.
func (s *ProjectService) PortfolioStats(ctx context.Context, principal *domain.Principal) (query.ProjectStats, error) {
	if err := requireAdmin(principal); err != nil {
		return query.ProjectStats{}, err
	}
	projects, err := s.projects.LoadAll(ctx)
	if err != nil {
		return query.ProjectStats{}, apperrors.MapError(err)
	}
	return query.CountProjects(projects, s.now()), nil
}

// ResolveDisplayName finds a display name for an email from ticket creator
// records, then the current session, falling back to the raw email.
func (s *ProjectService) ResolveDisplayName(ctx context.Context, principal *domain.Principal, email string) string {
	tickets, err := s.tickets.LoadAll(ctx)
	if err == nil {
		for i := range tickets {
			if tickets[i].CreatedBy == email {
				return tickets[i].CreatedByName
			}
		}
	}
	if principal != nil && principal.Email == email {
		return principal.Name
	}
	if s.session != nil {
		if current, err := s.session.Load(ctx); err == nil && current != nil && current.Email == email {
			return current.Name
		}
	}
	return email
}

func (s *ProjectService) buildTeam(ctx context.Context, principal *domain.Principal, rawEmails string) ([]domain.TeamMember, error) {
	team := []domain.TeamMember{}
	for _, raw := range strings.Split(rawEmails, ",") {
		email := strings.TrimSpace(raw)
		if email == "" {
			continue
		}
		team = append(team, domain.TeamMember{
			Email: email,
			Name:  s.ResolveDisplayName(ctx, principal, email),
		})
	}
	return team, nil
}

func (s *ProjectService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func requireAdmin(principal *domain.Principal) error {
	if !principal.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

func findProject(projects []domain.Project, id string) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}
