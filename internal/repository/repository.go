package repository

import (
	"context"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
)

// Each repository owns one named collection and exposes only whole-collection
// reads and replacements. Services load the collection, mutate an in-memory
// copy, and write it back; no partial updates exist at this layer.

// TicketRepository encapsulates the tickets collection.
type TicketRepository interface {
	LoadAll(ctx context.Context) ([]domain.Ticket, error)
	ReplaceAll(ctx context.Context, tickets []domain.Ticket) error
}

// ProjectRepository encapsulates the projects collection.
type ProjectRepository interface {
	LoadAll(ctx context.Context) ([]domain.Project, error)
	ReplaceAll(ctx context.Context, projects []domain.Project) error
}

// StaffRepository encapsulates the staff directory collection.
type StaffRepository interface {
	LoadAll(ctx context.Context) ([]domain.StaffMember, error)
	ReplaceAll(ctx context.Context, staff []domain.StaffMember) error
}

// SessionRepository holds the single current-principal document. Load
// returns nil when no session is stored.
type SessionRepository interface {
	Load(ctx context.Context) (*domain.Principal, error)
	Replace(ctx context.Context, principal *domain.Principal) error
	Clear(ctx context.Context) error
}

// SettingsRepository stores per-user preference records.
type SettingsRepository interface {
	LoadAll(ctx context.Context) ([]domain.UserSettings, error)
	ReplaceAll(ctx context.Context, settings []domain.UserSettings) error
}
