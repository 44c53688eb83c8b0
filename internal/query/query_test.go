package query

import (
	"testing"
	"time"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func closedTicket(id string, closedAgo time.Duration) domain.Ticket {
	closedAt := baseTime.Add(-closedAgo)
	return domain.Ticket{
		ID:       id,
		Status:   domain.TicketStatusClosed,
		Priority: domain.TicketPriorityMedium,
		ClosedAt: &closedAt,
	}
}

func TestApplyRetention(t *testing.T) {
	tests := []struct {
		name    string
		ticket  domain.Ticket
		wantKep bool
	}{
		{
			name:    "open ticket always survives",
			ticket:  domain.Ticket{ID: "TKT-10001", Status: domain.TicketStatusOpen},
			wantKep: true,
		},
		{
			name:    "closed within window",
			ticket:  closedTicket("TKT-10002", 6*24*time.Hour),
			wantKep: true,
		},
		{
			name:    "closed exactly at window boundary",
			ticket:  closedTicket("TKT-10003", 7*24*time.Hour),
			wantKep: true,
		},
		{
			name:    "closed one second past window",
			ticket:  closedTicket("TKT-10004", 7*24*time.Hour+time.Second),
			wantKep: false,
		},
		{
			name:    "closed without close timestamp",
			ticket:  domain.Ticket{ID: "TKT-10005", Status: domain.TicketStatusClosed},
			wantKep: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyRetention([]domain.Ticket{tt.ticket}, baseTime)
			if kept := len(got) == 1; kept != tt.wantKep {
				t.Errorf("kept = %v, want %v", kept, tt.wantKep)
			}
		})
	}
}

func TestApplyRetentionIdempotent(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "TKT-10001", Status: domain.TicketStatusOpen},
		closedTicket("TKT-10002", 2*24*time.Hour),
		closedTicket("TKT-10003", 10*24*time.Hour),
	}

	once := ApplyRetention(tickets, baseTime)
	twice := ApplyRetention(once, baseTime)
	if len(once) != 2 || len(twice) != len(once) {
		t.Fatalf("retention not idempotent: first=%d second=%d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("order changed at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestFilterByTab(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "TKT-10001", Status: domain.TicketStatusOpen},
		{ID: "TKT-10002", Status: domain.TicketStatusInProgress},
		{ID: "TKT-10003", Status: domain.TicketStatusResolved},
		closedTicket("TKT-10004", 24*time.Hour),
		closedTicket("TKT-10005", 30*24*time.Hour),
	}

	tests := []struct {
		tab     StatusTab
		wantIDs []string
	}{
		{TabAll, []string{"TKT-10001", "TKT-10002", "TKT-10003", "TKT-10004", "TKT-10005"}},
		{TabOpen, []string{"TKT-10001"}},
		{TabInProgress, []string{"TKT-10002"}},
		{TabResolved, []string{"TKT-10003"}},
		// closed tab re-applies the retention window, hiding the stale close
		{TabClosed, []string{"TKT-10004"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			got := FilterByTab(tickets, tt.tab, baseTime)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d tickets, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("ticket[%d] = %s, want %s", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestSortByPriorityThenRecency(t *testing.T) {
	mk := func(id string, priority domain.TicketPriority, age time.Duration) domain.Ticket {
		return domain.Ticket{ID: id, Priority: priority, CreatedAt: baseTime.Add(-age)}
	}
	input := []domain.Ticket{
		mk("low", domain.TicketPriorityLow, time.Hour),
		mk("medium", domain.TicketPriorityMedium, time.Hour),
		mk("critical", domain.TicketPriorityCritical, time.Hour),
		mk("high-old", domain.TicketPriorityHigh, 48*time.Hour),
		mk("high-new", domain.TicketPriorityHigh, time.Hour),
	}

	got := SortByPriorityThenRecency(input)

	wantOrder := []string{"critical", "high-new", "high-old", "medium", "low"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}

	// input must be left untouched
	if input[0].ID != "low" {
		t.Errorf("input slice mutated: first = %s", input[0].ID)
	}
}

func TestSearch(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "TKT-10001", Subject: "Printer jam", Category: domain.CategoryHardware, Status: domain.TicketStatusOpen, CreatedByName: "Alice Jones"},
		{ID: "TKT-20002", Subject: "VPN drops", Category: domain.CategoryNetwork, Status: domain.TicketStatusResolved, CreatedByName: "Bob Smith"},
	}

	tests := []struct {
		name    string
		term    string
		wantIDs []string
	}{
		{"empty term matches all", "", []string{"TKT-10001", "TKT-20002"}},
		{"by id fragment", "20002", []string{"TKT-20002"}},
		{"by subject case-insensitive", "PRINTER", []string{"TKT-10001"}},
		{"by category", "network", []string{"TKT-20002"}},
		{"by status", "resolved", []string{"TKT-20002"}},
		{"by creator name", "alice", []string{"TKT-10001"}},
		{"no match", "zebra", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(tickets, tt.term)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d tickets, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("ticket[%d] = %s, want %s", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestOwnedBy(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "TKT-10001", CreatedBy: "alice@example.com"},
		{ID: "TKT-10002", CreatedBy: "bob@example.com"},
		{ID: "TKT-10003", CreatedBy: "alice@example.com"},
	}
	got := OwnedBy(tickets, "alice@example.com")
	if len(got) != 2 || got[0].ID != "TKT-10001" || got[1].ID != "TKT-10003" {
		t.Fatalf("unexpected ownership filter result: %+v", got)
	}
}

func TestCountProjects(t *testing.T) {
	today := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	projects := []domain.Project{
		{ID: "p1", Status: domain.ProjectStatusActive, Deadline: "2024-03-04"},
		{ID: "p2", Status: domain.ProjectStatusActive, Deadline: "2024-04-01"},
		{ID: "p3", Status: domain.ProjectStatusCompleted, Deadline: "2024-03-02"},
		{ID: "p4", Status: domain.ProjectStatusPlanning, Deadline: "2024-03-06"},
	}

	got := CountProjects(projects, today)
	if got.Total != 4 {
		t.Errorf("Total = %d, want 4", got.Total)
	}
	if got.Active != 2 {
		t.Errorf("Active = %d, want 2", got.Active)
	}
	if got.Completed != 1 {
		t.Errorf("Completed = %d, want 1", got.Completed)
	}
	// completed project deadline inside the window does not count
	if got.DeadlineThisWeek != 2 {
		t.Errorf("DeadlineThisWeek = %d, want 2", got.DeadlineThisWeek)
	}
}

func TestCountProjectsNonUTCClock(t *testing.T) {
	// the week window runs from the clock's calendar date, not the UTC one
	tokyo := time.FixedZone("UTC+9", 9*3600)
	today := time.Date(2024, 3, 1, 1, 0, 0, 0, tokyo)
	projects := []domain.Project{
		{ID: "p1", Status: domain.ProjectStatusActive, Deadline: "2024-03-08"},
	}

	got := CountProjects(projects, today)
	if got.DeadlineThisWeek != 1 {
		t.Errorf("DeadlineThisWeek = %d, want 1", got.DeadlineThisWeek)
	}
}
