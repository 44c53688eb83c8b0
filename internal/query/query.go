// Package query implements the stateless filtering, retention-window, and
// sorting rules shared by every ticket and project listing. Functions here
// never mutate their inputs and hold no state of their own.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
)

// RetentionWindow is how long a closed ticket stays visible in self-scoped
// views after its close timestamp.
const RetentionWindow = 7 * 24 * time.Hour

// StatusTab selects which lifecycle slice of a listing is shown.
type StatusTab string

const (
	TabAll        StatusTab = "all"
	TabOpen       StatusTab = "open"
	TabInProgress StatusTab = "inprogress"
	TabResolved   StatusTab = "resolved"
	TabClosed     StatusTab = "closed"
)

// withinRetention reports whether a ticket survives the retention window at
// the given instant. Closed tickets without a close timestamp are treated as
// not yet expired; non-closed tickets always survive.
func withinRetention(ticket *domain.Ticket, now time.Time) bool {
	if ticket.Status != domain.TicketStatusClosed {
		return true
	}
	if ticket.ClosedAt == nil {
		return true
	}
	return !ticket.ClosedAt.Before(now.Add(-RetentionWindow))
}

// ApplyRetention drops closed tickets older than the retention window. This
// is the self-scoped rule applied to non-privileged views; it is idempotent.
func ApplyRetention(tickets []domain.Ticket, now time.Time) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if withinRetention(&tickets[i], now) {
			out = append(out, tickets[i])
		}
	}
	return out
}

// FilterByTab narrows a listing to one status tab. The administrative "all"
// tab shows every ticket regardless of age; the closed tab re-applies the
// retention window.
func FilterByTab(tickets []domain.Ticket, tab StatusTab, now time.Time) []domain.Ticket {
	var want domain.TicketStatus
	switch tab {
	case TabOpen:
		want = domain.TicketStatusOpen
	case TabInProgress:
		want = domain.TicketStatusInProgress
	case TabResolved:
		want = domain.TicketStatusResolved
	case TabClosed:
		want = domain.TicketStatusClosed
	default:
		out := make([]domain.Ticket, len(tickets))
		copy(out, tickets)
		return out
	}

	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if tickets[i].Status != want {
			continue
		}
		if tab == TabClosed && !withinRetention(&tickets[i], now) {
			continue
		}
		out = append(out, tickets[i])
	}
	return out
}

var priorityRank = map[domain.TicketPriority]int{
	domain.TicketPriorityCritical: 4,
	domain.TicketPriorityHigh:     3,
	domain.TicketPriorityMedium:   2,
	domain.TicketPriorityLow:      1,
}

// SortByPriorityThenRecency orders tickets by priority rank descending, then
// by creation time newest-first. The input slice is left untouched.
func SortByPriorityThenRecency(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, len(tickets))
	copy(out, tickets)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := priorityRank[out[i].Priority], priorityRank[out[j].Priority]
		if ri != rj {
			return ri > rj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Search keeps tickets where any of id, subject, category, status, or
// creator display name contains the term, case-insensitively. An empty term
// matches everything.
func Search(tickets []domain.Ticket, term string) []domain.Ticket {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		out := make([]domain.Ticket, len(tickets))
		copy(out, tickets)
		return out
	}

	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		t := &tickets[i]
		if strings.Contains(strings.ToLower(t.ID), term) ||
			strings.Contains(strings.ToLower(t.Subject), term) ||
			strings.Contains(strings.ToLower(string(t.Category)), term) ||
			strings.Contains(strings.ToLower(string(t.Status)), term) ||
			strings.Contains(strings.ToLower(t.CreatedByName), term) {
			out = append(out, tickets[i])
		}
	}
	return out
}

// OwnedBy keeps tickets created by the given principal email.
func OwnedBy(tickets []domain.Ticket, email string) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if tickets[i].CreatedBy == email {
			out = append(out, tickets[i])
		}
	}
	return out
}

// ProjectStats summarizes the project portfolio.
type ProjectStats struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Completed        int `json:"completed"`
	DeadlineThisWeek int `json:"deadlineThisWeek"`
}

// CountProjects computes portfolio statistics. A project counts toward
// DeadlineThisWeek when not completed and its deadline falls within seven
// days of today's calendar date, taken in the clock's own location.
func CountProjects(projects []domain.Project, today time.Time) ProjectStats {
	stats := ProjectStats{Total: len(projects)}
	y, m, d := today.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	weekFromNow := dayStart.Add(7 * 24 * time.Hour)
	for i := range projects {
		p := &projects[i]
		switch p.Status {
		case domain.ProjectStatusActive:
			stats.Active++
		case domain.ProjectStatusCompleted:
			stats.Completed++
			continue
		}
		deadline, err := time.Parse("2006-01-02", p.Deadline)
		if err != nil {
			continue
		}
		if !deadline.Before(dayStart) && !deadline.After(weekFromNow) {
			stats.DeadlineThisWeek++
		}
	}
	return stats
}
