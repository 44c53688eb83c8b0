package service

import (
	"context"
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

// slaHours maps priority to the maximum acceptable ticket age before breach.
var slaHours = map[domain.TicketPriority]int{
	domain.TicketPriorityCritical: 4,
	domain.TicketPriorityHigh:     8,
	domain.TicketPriorityMedium:   24,
	domain.TicketPriorityLow:      48,
}

const defaultSLAHours = 24

// slaApproachingFactor is the fraction of the threshold after which a ticket
// is flagged as approaching breach.
const slaApproachingFactor = 0.8

const commentNoteLimit = 100

// TicketService coordinates the ticket lifecycle: creation, routing,
// comments, status and priority transitions, and the listings every screen
// reads.
type TicketService struct {
	tickets    repository.TicketRepository
	ids        *identifier.Generator
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	IDs        *identifier.Generator
	Dispatcher events.Dispatcher
	// Now overrides the clock; tests use it, production leaves it nil.
	Now func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
}

// TicketListOptions describe a listing request.
type TicketListOptions struct {
	Tab    query.StatusTab
	Search string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	svc := &TicketService{
		tickets:    deps.TicketRepo,
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

// RouteTeam maps an issue category to the owning team. Unknown categories
// fall back to general IT support.
func RouteTeam(category domain.TicketCategory) string {
	switch category {
	case domain.CategorySoftware, domain.CategoryEmail:
		return "Software Team"
	case domain.CategoryHardware:
		return "Hardware Team"
	case domain.CategoryNetwork:
		return "Network Team"
	}
	return "IT Support"
}

// ComputeAge returns how long the ticket has existed at the given instant.
func ComputeAge(ticket *domain.Ticket, now time.Time) time.Duration {
	return now.Sub(ticket.CreatedAt)
}

// ComputeSLAStatus classifies the ticket against its priority threshold.
// Resolved and closed tickets always report Completed regardless of age.
func ComputeSLAStatus(ticket *domain.Ticket, now time.Time) domain.SLAStatus {
	if ticket.Status == domain.TicketStatusResolved || ticket.Status == domain.TicketStatusClosed {
		return domain.SLACompleted
	}
	threshold, ok := slaHours[ticket.Priority]
	if !ok {
		threshold = defaultSLAHours
	}
	ageHours := ComputeAge(ticket, now).Hours()
	switch {
	case ageHours > float64(threshold):
		return domain.SLABreached
	case ageHours > float64(threshold)*slaApproachingFactor:
		return domain.SLAApproaching
	default:
		return domain.SLAOnTrack
	}
}

// CreateTicket validates input, routes the ticket to a team, and persists it
// with its initial timeline entry.
func (s *TicketService) CreateTicket(ctx context.Context, principal *domain.Principal, input TicketCreateInput) (*domain.Ticket, error) {
	subject := strings.TrimSpace(input.Subject)
	description := strings.TrimSpace(input.Description)
	if subject == "" || description == "" {
		return nil, apperrors.NewValidationError("subject and description are required", nil)
	}
	if !domain.ValidTicketCategory(input.Category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if !domain.ValidTicketPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	taken := make(map[string]struct{}, len(tickets))
	for i := range tickets {
		taken[tickets[i].ID] = struct{}{}
	}

	now := s.now()
	ticket := domain.Ticket{
		ID:            s.ids.TicketID(taken),
		Subject:       subject,
		Description:   description,
		Category:      input.Category,
		Priority:      input.Priority,
		Status:        domain.TicketStatusOpen,
		CreatedBy:     principal.Email,
		CreatedByName: principal.Name,
		AssignedTo:    RouteTeam(input.Category),
		CreatedAt:     now,
		UpdatedAt:     now,
		Timeline: []domain.TimelineEvent{{
			Action:    "Ticket Created",
			User:      principal.Name,
			Timestamp: now,
		}},
		Comments: []domain.Comment{},
	}

	tickets = append(tickets, ticket)
	if err := s.tickets.ReplaceAll(ctx, tickets); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		EntityID: ticket.ID,
		Actor:    actorFor(principal),
		Payload: events.TicketCreatedPayload{
			Subject:    ticket.Subject,
			Category:   ticket.Category,
			Priority:   ticket.Priority,
			AssignedTo: ticket.AssignedTo,
		},
	})
	return &ticket, nil
}

// AddComment appends an immutable comment plus its linked timeline entry.
func (s *TicketService) AddComment(ctx context.Context, ticketID string, principal *domain.Principal, text string) (*domain.Ticket, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment text is required", nil)
	}

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idx := findTicket(tickets, ticketID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}

	ticket := &tickets[idx]
	if err := s.requireTicketAccess(principal, ticket); err != nil {
		return nil, err
	}

	now := s.now()
	comment := domain.Comment{
		ID:        s.ids.CommentID(),
		Author:    principal.Email,
		UserName:  principal.Name,
		Text:      text,
		Timestamp: now,
	}
	ticket.Comments = append(ticket.Comments, comment)
	ticket.Timeline = append(ticket.Timeline, domain.TimelineEvent{
		Action:    "Comment added",
		User:      principal.Name,
		Timestamp: now,
		Note:      notePreview(text, commentNoteLimit),
	})
	ticket.UpdatedAt = now

	if err := s.tickets.ReplaceAll(ctx, tickets); err != nil {
		return nil, apperrors.MapError(err)
	}

	payload := events.TicketCommentAddedPayload{
		CommentID:   comment.ID,
		TextPreview: notePreview(text, commentNoteLimit),
	}
	if ticket.CreatedBy != principal.Email {
		payload.NotifyEmail = ticket.CreatedBy
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		EntityID: ticket.ID,
		Actor:    actorFor(principal),
		Payload:  payload,
	})
	out := tickets[idx]
	return &out, nil
}

// ChangeStatus moves a ticket to any enumerated status. The transition graph
// is deliberately flat; which transitions are offered to a role is a
// presentation concern. Closing stamps closedAt.
func (s *TicketService) ChangeStatus(ctx context.Context, ticketID string, principal *domain.Principal, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidTicketStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idx := findTicket(tickets, ticketID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}

	ticket := &tickets[idx]
	now := s.now()
	oldStatus := ticket.Status
	ticket.Status = newStatus
	if newStatus == domain.TicketStatusClosed {
		closed := now
		ticket.ClosedAt = &closed
	}
	ticket.Timeline = append(ticket.Timeline, domain.TimelineEvent{
		Action:    "Status changed from " + string(oldStatus) + " to " + string(newStatus),
		User:      principal.Name,
		Timestamp: now,
	})
	ticket.UpdatedAt = now

	if err := s.tickets.ReplaceAll(ctx, tickets); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		EntityID: ticket.ID,
		Actor:    actorFor(principal),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	out := tickets[idx]
	return &out, nil
}

// ChangePriority moves a ticket to any enumerated priority.
func (s *TicketService) ChangePriority(ctx context.Context, ticketID string, principal *domain.Principal, newPriority domain.TicketPriority) (*domain.Ticket, error) {
	if !domain.ValidTicketPriority(newPriority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": newPriority})
	}

	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idx := findTicket(tickets, ticketID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}

	ticket := &tickets[idx]
	now := s.now()
	oldPriority := ticket.Priority
	ticket.Priority = newPriority
	ticket.Timeline = append(ticket.Timeline, domain.TimelineEvent{
		Action:    "Priority changed from " + string(oldPriority) + " to " + string(newPriority),
		User:      principal.Name,
		Timestamp: now,
	})
	ticket.UpdatedAt = now

	if err := s.tickets.ReplaceAll(ctx, tickets); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		EntityID: ticket.ID,
		Actor:    actorFor(principal),
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: newPriority,
		},
	})
	out := tickets[idx]
	return &out, nil
}

// GetTicket fetches one ticket, enforcing that employees only see their own.
func (s *TicketService) GetTicket(ctx context.Context, principal *domain.Principal, ticketID string) (*domain.Ticket, error) {
	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	idx := findTicket(tickets, ticketID)
	if idx < 0 {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	ticket := tickets[idx]
	if err := s.requireTicketAccess(principal, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListTickets returns the role-scoped, retention-filtered, sorted listing.
// Employees see their own tickets under the self-scoped retention rule;
// staff and admins see everything, with the retention window re-applied only
// on the closed tab.
func (s *TicketService) ListTickets(ctx context.Context, principal *domain.Principal, opts TicketListOptions) ([]domain.Ticket, error) {
	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	if principal.IsStaff() {
		tickets = query.FilterByTab(tickets, opts.Tab, now)
	} else {
		tickets = query.OwnedBy(tickets, principal.Email)
		tickets = query.ApplyRetention(tickets, now)
		if opts.Tab != "" && opts.Tab != query.TabAll {
			tickets = query.FilterByTab(tickets, opts.Tab, now)
		}
	}
	tickets = query.Search(tickets, opts.Search)
	return query.SortByPriorityThenRecency(tickets), nil
}

// TicketStats summarizes the listing visible to staff dashboards.
type TicketStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
	Breached   int `json:"breached"`
}

// Stats counts tickets by status and SLA breach.
func (s *TicketService) Stats(ctx context.Context) (TicketStats, error) {
	tickets, err := s.tickets.LoadAll(ctx)
	if err != nil {
		return TicketStats{}, apperrors.MapError(err)
	}
	now := s.now()
	stats := TicketStats{Total: len(tickets)}
	for i := range tickets {
		switch tickets[i].Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
		if ComputeSLAStatus(&tickets[i], now) == domain.SLABreached {
			stats.Breached++
		}
	}
	return stats, nil
}

func (s *TicketService) requireTicketAccess(principal *domain.Principal, ticket *domain.Ticket) error {
	if principal.IsStaff() {
		return nil
	}
	if ticket.CreatedBy != principal.Email {
		return apperrors.NewForbidden("ticket belongs to another user")
	}
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func actorFor(principal *domain.Principal) events.Actor {
	return events.Actor{
		Email: principal.Email,
		Name:  principal.Name,
		Role:  principal.Role,
	}
}

func findTicket(tickets []domain.Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}

// notePreview truncates to max characters, not bytes, so multibyte text is
// never cut mid-rune.
func notePreview(text string, max int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
