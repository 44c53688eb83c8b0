package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/store"
)

// loadCollection reads and decodes one collection document. A key that has
// never been written decodes as the empty collection.
func loadCollection(ctx context.Context, docs store.DocumentStore, key string, out any) error {
	payload, err := docs.Read(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func replaceCollection(ctx context.Context, docs store.DocumentStore, key string, in any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := docs.Write(ctx, key, payload); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

type ticketRepository struct {
	docs store.DocumentStore
}

// NewTicketRepository instantiates the tickets collection repository.
func NewTicketRepository(docs store.DocumentStore) TicketRepository {
	return &ticketRepository{docs: docs}
}

func (r *ticketRepository) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := loadCollection(ctx, r.docs, store.KeyTickets, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) ReplaceAll(ctx context.Context, tickets []domain.Ticket) error {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return replaceCollection(ctx, r.docs, store.KeyTickets, tickets)
}

type projectRepository struct {
	docs store.DocumentStore
}

// NewProjectRepository instantiates the projects collection repository.
func NewProjectRepository(docs store.DocumentStore) ProjectRepository {
	return &projectRepository{docs: docs}
}

func (r *projectRepository) LoadAll(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := loadCollection(ctx, r.docs, store.KeyProjects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) ReplaceAll(ctx context.Context, projects []domain.Project) error {
	if projects == nil {
		projects = []domain.Project{}
	}
	return replaceCollection(ctx, r.docs, store.KeyProjects, projects)
}

type staffRepository struct {
	docs store.DocumentStore
}

// NewStaffRepository instantiates the staff directory repository.
func NewStaffRepository(docs store.DocumentStore) StaffRepository {
	return &staffRepository{docs: docs}
}

func (r *staffRepository) LoadAll(ctx context.Context) ([]domain.StaffMember, error) {
	var staff []domain.StaffMember
	if err := loadCollection(ctx, r.docs, store.KeyStaff, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepository) ReplaceAll(ctx context.Context, staff []domain.StaffMember) error {
	if staff == nil {
		staff = []domain.StaffMember{}
	}
	return replaceCollection(ctx, r.docs, store.KeyStaff, staff)
}

type sessionRepository struct {
	docs store.DocumentStore
}

// NewSessionRepository instantiates the session document repository.
func NewSessionRepository(docs store.DocumentStore) SessionRepository {
	return &sessionRepository{docs: docs}
}

func (r *sessionRepository) Load(ctx context.Context) (*domain.Principal, error) {
	payload, err := r.docs.Read(ctx, store.KeySession)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var principal domain.Principal
	if err := json.Unmarshal(payload, &principal); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &principal, nil
}

func (r *sessionRepository) Replace(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return r.Clear(ctx)
	}
	return replaceCollection(ctx, r.docs, store.KeySession, principal)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.docs.Delete(ctx, store.KeySession)
}

type settingsRepository struct {
	docs store.DocumentStore
}

// NewSettingsRepository instantiates the per-user settings repository.
func NewSettingsRepository(docs store.DocumentStore) SettingsRepository {
	return &settingsRepository{docs: docs}
}

func (r *settingsRepository) LoadAll(ctx context.Context) ([]domain.UserSettings, error) {
	var settings []domain.UserSettings
	if err := loadCollection(ctx, r.docs, store.KeySettings, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingsRepository) ReplaceAll(ctx context.Context, settings []domain.UserSettings) error {
	if settings == nil {
		settings = []domain.UserSettings{}
	}
	return replaceCollection(ctx, r.docs, store.KeySettings, settings)
}
