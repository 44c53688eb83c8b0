package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/events"
	"github.com/ticket-tally/helpdesk-service/internal/query"
	"github.com/ticket-tally/helpdesk-service/internal/repository"
	"github.com/ticket-tally/helpdesk-service/internal/store"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var (
	employee = &domain.Principal{Email: "alice@example.com", Name: "Alice Jones", Role: domain.RoleEmployee}
	otherEmp = &domain.Principal{Email: "bob@example.com", Name: "Bob Smith", Role: domain.RoleEmployee}
	itStaff  = &domain.Principal{Email: "staff@example.com", Name: "Sam Staff", Role: domain.RoleITStaff}
	admin    = &domain.Principal{Email: "admin@example.com", Name: "Ada Admin", Role: domain.RoleAdmin}
)

func newTestTicketService() (*TicketService, *fakeClock) {
	clock := &fakeClock{t: testTime}
	svc := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository(store.NewMemoryStore()),
		Now:        clock.Now,
	})
	return svc, clock
}

func mustCreateTicket(t *testing.T, svc *TicketService, principal *domain.Principal, input TicketCreateInput) *domain.Ticket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), principal, input)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	return ticket
}

func TestCreateTicket(t *testing.T) {
	svc, _ := newTestTicketService()

	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject:     "  Laptop will not boot  ",
		Description: "Screen stays black after power on",
		Category:    domain.CategoryHardware,
		Priority:    domain.TicketPriorityHigh,
	})

	if !strings.HasPrefix(ticket.ID, "TKT-") || len(ticket.ID) != 9 {
		t.Errorf("unexpected ticket id %q", ticket.ID)
	}
	if ticket.Subject != "Laptop will not boot" {
		t.Errorf("subject not trimmed: %q", ticket.Subject)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %s, want Open", ticket.Status)
	}
	if ticket.AssignedTo != "Hardware Team" {
		t.Errorf("assignedTo = %s, want Hardware Team", ticket.AssignedTo)
	}
	if ticket.CreatedBy != employee.Email || ticket.CreatedByName != employee.Name {
		t.Errorf("creator fields wrong: %s / %s", ticket.CreatedBy, ticket.CreatedByName)
	}
	if len(ticket.Timeline) != 1 {
		t.Fatalf("timeline length = %d, want 1", len(ticket.Timeline))
	}
	if ticket.Timeline[0].Action != "Ticket Created" || ticket.Timeline[0].User != employee.Name {
		t.Errorf("unexpected initial timeline entry: %+v", ticket.Timeline[0])
	}
	if !ticket.CreatedAt.Equal(testTime) || !ticket.UpdatedAt.Equal(testTime) {
		t.Errorf("timestamps not taken from clock: created=%v updated=%v", ticket.CreatedAt, ticket.UpdatedAt)
	}
	if ticket.ClosedAt != nil {
		t.Error("new ticket must not carry a close timestamp")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _ := newTestTicketService()

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{"blank subject", TicketCreateInput{Subject: "   ", Description: "d", Category: domain.CategorySoftware, Priority: domain.TicketPriorityLow}},
		{"blank description", TicketCreateInput{Subject: "s", Description: "", Category: domain.CategorySoftware, Priority: domain.TicketPriorityLow}},
		{"unknown category", TicketCreateInput{Subject: "s", Description: "d", Category: "Gardening", Priority: domain.TicketPriorityLow}},
		{"unknown priority", TicketCreateInput{Subject: "s", Description: "d", Category: domain.CategorySoftware, Priority: "Extreme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTicket(context.Background(), employee, tt.input)
			if !apperrors.IsCode(err, "VALIDATION_FAILED") {
				t.Errorf("error = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestRouteTeam(t *testing.T) {
	tests := []struct {
		category domain.TicketCategory
		want     string
	}{
		{domain.CategorySoftware, "Software Team"},
		{domain.CategoryEmail, "Software Team"},
		{domain.CategoryHardware, "Hardware Team"},
		{domain.CategoryNetwork, "Network Team"},
		{"Something Else", "IT Support"},
	}
	for _, tt := range tests {
		if got := RouteTeam(tt.category); got != tt.want {
			t.Errorf("RouteTeam(%s) = %s, want %s", tt.category, got, tt.want)
		}
	}
}

func TestComputeSLAStatus(t *testing.T) {
	mk := func(priority domain.TicketPriority, status domain.TicketStatus, age time.Duration) *domain.Ticket {
		return &domain.Ticket{Priority: priority, Status: status, CreatedAt: testTime.Add(-age)}
	}

	tests := []struct {
		name   string
		ticket *domain.Ticket
		want   domain.SLAStatus
	}{
		{"critical fresh", mk(domain.TicketPriorityCritical, domain.TicketStatusOpen, time.Hour), domain.SLAOnTrack},
		{"critical approaching", mk(domain.TicketPriorityCritical, domain.TicketStatusOpen, 3*time.Hour+30*time.Minute), domain.SLAApproaching},
		{"critical breached", mk(domain.TicketPriorityCritical, domain.TicketStatusOpen, 5*time.Hour), domain.SLABreached},
		{"high on track", mk(domain.TicketPriorityHigh, domain.TicketStatusInProgress, 6*time.Hour), domain.SLAOnTrack},
		{"high approaching", mk(domain.TicketPriorityHigh, domain.TicketStatusOpen, 7*time.Hour), domain.SLAApproaching},
		{"medium breached", mk(domain.TicketPriorityMedium, domain.TicketStatusOpen, 25*time.Hour), domain.SLABreached},
		{"low on track after a day", mk(domain.TicketPriorityLow, domain.TicketStatusOpen, 24*time.Hour), domain.SLAOnTrack},
		{"resolved is completed despite age", mk(domain.TicketPriorityCritical, domain.TicketStatusResolved, 100*time.Hour), domain.SLACompleted},
		{"closed is completed despite age", mk(domain.TicketPriorityCritical, domain.TicketStatusClosed, 100*time.Hour), domain.SLACompleted},
		{"unknown priority uses default threshold", mk("", domain.TicketStatusOpen, 23*time.Hour), domain.SLAApproaching},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeSLAStatus(tt.ticket, testTime); got != tt.want {
				t.Errorf("ComputeSLAStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAddComment(t *testing.T) {
	svc, clock := newTestTicketService()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityMedium,
	})

	clock.Advance(time.Hour)
	longText := strings.Repeat("x", 150)
	updated, err := svc.AddComment(context.Background(), ticket.ID, itStaff, longText)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	if len(updated.Comments) != 1 {
		t.Fatalf("comments length = %d, want 1", len(updated.Comments))
	}
	comment := updated.Comments[0]
	if comment.Text != longText {
		t.Error("comment text must be stored untruncated")
	}
	if comment.Author != itStaff.Email || comment.UserName != itStaff.Name {
		t.Errorf("comment author fields wrong: %s / %s", comment.Author, comment.UserName)
	}
	if !strings.HasPrefix(comment.ID, "CMT-") {
		t.Errorf("comment id %q missing CMT- prefix", comment.ID)
	}

	if len(updated.Timeline) != 2 {
		t.Fatalf("timeline length = %d, want 2", len(updated.Timeline))
	}
	entry := updated.Timeline[1]
	if entry.Action != "Comment added" {
		t.Errorf("timeline action = %q", entry.Action)
	}
	wantNote := strings.Repeat("x", 100) + "..."
	if entry.Note != wantNote {
		t.Errorf("timeline note = %q, want 100-char preview with ellipsis", entry.Note)
	}
	if !updated.UpdatedAt.Equal(clock.t) {
		t.Errorf("updatedAt = %v, want %v", updated.UpdatedAt, clock.t)
	}
}

func TestAddCommentNotePreviewMultibyte(t *testing.T) {
	svc, _ := newTestTicketService()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityMedium,
	})

	text := strings.Repeat("日", 150)
	updated, err := svc.AddComment(context.Background(), ticket.ID, employee, text)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	note := updated.Timeline[1].Note
	if !utf8.ValidString(note) {
		t.Fatalf("note preview is not valid UTF-8: %q", note)
	}
	if want := strings.Repeat("日", 100) + "..."; note != want {
		t.Errorf("note preview carries %d characters, want 100", utf8.RuneCountInString(strings.TrimSuffix(note, "...")))
	}
}

func TestAddCommentShortTextKeptWhole(t *testing.T) {
	svc, _ := newTestTicketService()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityMedium,
	})

	updated, err := svc.AddComment(context.Background(), ticket.ID, employee, "brief note")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if note := updated.Timeline[1].Note; note != "brief note" {
		t.Errorf("short note altered: %q", note)
	}
}

func TestAddCommentErrors(t *testing.T) {
	svc, _ := newTestTicketService()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityMedium,
	})

	if _, err := svc.AddComment(context.Background(), ticket.ID, employee, "   "); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("blank comment: error = %v, want VALIDATION_FAILED", err)
	}
	if _, err := svc.AddComment(context.Background(), "TKT-99999", employee, "hello"); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing ticket: error = %v, want NOT_FOUND", err)
	}
	if _, err := svc.AddComment(context.Background(), ticket.ID, otherEmp, "hello"); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("foreign employee: error = %v, want FORBIDDEN", err)
	}
}

func TestAddCommentNotifiesTicketCreator(t *testing.T) {
	clock := &fakeClock{t: testTime}
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewTicketRepository(store.NewMemoryStore()),
		Dispatcher: dispatcher,
		Now:        clock.Now,
	})

	var captured []events.Event
	dispatcher.Subscribe(events.EventTicketCommentAdded, func(ctx context.Context, event events.Event) error {
		captured = append(captured, event)
		return nil
	})

	ctx := context.Background()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityMedium,
	})

	if _, err := svc.AddComment(ctx, ticket.ID, itStaff, "we are on it"); err != nil {
		t.Fatalf("staff comment: %v", err)
	}
	if _, err := svc.AddComment(ctx, ticket.ID, employee, "thanks"); err != nil {
		t.Fatalf("self comment: %v", err)
	}

	if len(captured) != 2 {
		t.Fatalf("captured %d events, want 2", len(captured))
	}
	first, ok := captured[0].Payload.(events.TicketCommentAddedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", captured[0].Payload)
	}
	if first.NotifyEmail != employee.Email {
		t.Errorf("staff comment should notify the creator, got %q", first.NotifyEmail)
	}
	second := captured[1].Payload.(events.TicketCommentAddedPayload)
	if second.NotifyEmail != "" {
		t.Errorf("self comment should notify nobody, got %q", second.NotifyEmail)
	}
	if captured[0].ID == "" || captured[0].Actor.Email != itStaff.Email {
		t.Errorf("event envelope incomplete: %+v", captured[0])
	}
}

func TestChangeStatus(t *testing.T) {
	svc, clock := newTestTicketService()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategoryNetwork, Priority: domain.TicketPriorityHigh,
	})

	clock.Advance(30 * time.Minute)
	updated, err := svc.ChangeStatus(context.Background(), ticket.ID, itStaff, domain.TicketStatusInProgress)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Errorf("status = %s", updated.Status)
	}
	if updated.ClosedAt != nil {
		t.Error("non-closing transition must not stamp closedAt")
	}
	entry := updated.Timeline[len(updated.Timeline)-1]
	if entry.Action != "Status changed from Open to In Progress" {
		t.Errorf("timeline action = %q", entry.Action)
	}

	clock.Advance(time.Hour)
	closed, err := svc.ChangeStatus(context.Background(), ticket.ID, itStaff, domain.TicketStatusClosed)
	if err != nil {
		t.Fatalf("ChangeStatus to Closed: %v", err)
	}
	if closed.ClosedAt == nil || !closed.ClosedAt.Equal(clock.t) {
		t.Errorf("closedAt = %v, want %v", closed.ClosedAt, clock.t)
	}

	if _, err := svc.ChangeStatus(context.Background(), ticket.ID, itStaff, "Archived"); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("unknown status: error = %v, want VALIDATION_FAILED", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), "TKT-99999", itStaff, domain.TicketStatusOpen); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing ticket: error = %v, want NOT_FOUND", err)
	}
}

func TestChangePriority(t *testing.T) {
	svc, _ := newTestTicketService()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityLow,
	})

	updated, err := svc.ChangePriority(context.Background(), ticket.ID, itStaff, domain.TicketPriorityCritical)
	if err != nil {
		t.Fatalf("ChangePriority: %v", err)
	}
	if updated.Priority != domain.TicketPriorityCritical {
		t.Errorf("priority = %s", updated.Priority)
	}
	entry := updated.Timeline[len(updated.Timeline)-1]
	if entry.Action != "Priority changed from Low to Critical" {
		t.Errorf("timeline action = %q", entry.Action)
	}

	if _, err := svc.ChangePriority(context.Background(), ticket.ID, itStaff, "Extreme"); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("unknown priority: error = %v, want VALIDATION_FAILED", err)
	}
}

func TestGetTicketAccess(t *testing.T) {
	svc, _ := newTestTicketService()
	ticket := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "s", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityMedium,
	})

	if _, err := svc.GetTicket(context.Background(), employee, ticket.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.GetTicket(context.Background(), itStaff, ticket.ID); err != nil {
		t.Errorf("staff read failed: %v", err)
	}
	if _, err := svc.GetTicket(context.Background(), otherEmp, ticket.ID); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("foreign employee: error = %v, want FORBIDDEN", err)
	}
	if _, err := svc.GetTicket(context.Background(), itStaff, "TKT-99999"); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("missing ticket: error = %v, want NOT_FOUND", err)
	}
}

func TestListTickets(t *testing.T) {
	svc, clock := newTestTicketService()
	ctx := context.Background()

	mine := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "My VPN issue", Description: "d",
		Category: domain.CategoryNetwork, Priority: domain.TicketPriorityLow,
	})
	theirs := mustCreateTicket(t, svc, otherEmp, TicketCreateInput{
		Subject: "Monitor flicker", Description: "d",
		Category: domain.CategoryHardware, Priority: domain.TicketPriorityCritical,
	})
	stale := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "Old printer ticket", Description: "d",
		Category: domain.CategoryHardware, Priority: domain.TicketPriorityMedium,
	})
	if _, err := svc.ChangeStatus(ctx, stale.ID, itStaff, domain.TicketStatusClosed); err != nil {
		t.Fatalf("close stale: %v", err)
	}

	// push the closed ticket past the retention window
	clock.Advance(8 * 24 * time.Hour)

	t.Run("employee sees only own live tickets", func(t *testing.T) {
		got, err := svc.ListTickets(ctx, employee, TicketListOptions{})
		if err != nil {
			t.Fatalf("ListTickets: %v", err)
		}
		if len(got) != 1 || got[0].ID != mine.ID {
			t.Fatalf("unexpected listing: %+v", got)
		}
	})

	t.Run("staff all tab keeps expired closed tickets", func(t *testing.T) {
		got, err := svc.ListTickets(ctx, itStaff, TicketListOptions{Tab: query.TabAll})
		if err != nil {
			t.Fatalf("ListTickets: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d tickets, want 3", len(got))
		}
		if got[0].ID != theirs.ID {
			t.Errorf("critical ticket should sort first, got %s", got[0].ID)
		}
	})

	t.Run("staff closed tab applies retention", func(t *testing.T) {
		got, err := svc.ListTickets(ctx, itStaff, TicketListOptions{Tab: query.TabClosed})
		if err != nil {
			t.Fatalf("ListTickets: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expired closed ticket leaked into closed tab: %+v", got)
		}
	})

	t.Run("search narrows by subject", func(t *testing.T) {
		got, err := svc.ListTickets(ctx, itStaff, TicketListOptions{Search: "monitor"})
		if err != nil {
			t.Fatalf("ListTickets: %v", err)
		}
		if len(got) != 1 || got[0].ID != theirs.ID {
			t.Fatalf("unexpected search result: %+v", got)
		}
	})
}

func TestStats(t *testing.T) {
	svc, clock := newTestTicketService()
	ctx := context.Background()

	mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "a", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityCritical,
	})
	resolved := mustCreateTicket(t, svc, employee, TicketCreateInput{
		Subject: "b", Description: "d",
		Category: domain.CategorySoftware, Priority: domain.TicketPriorityCritical,
	})
	if _, err := svc.ChangeStatus(ctx, resolved.ID, itStaff, domain.TicketStatusResolved); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// past the critical threshold, only the still-open ticket breaches
	clock.Advance(5 * time.Hour)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.Open != 1 || stats.Resolved != 1 {
		t.Errorf("counts wrong: %+v", stats)
	}
	if stats.Breached != 1 {
		t.Errorf("Breached = %d, want 1", stats.Breached)
	}
}
