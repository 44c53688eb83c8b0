package service

import (
	"context"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/repository"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

// SettingsService reads and writes per-user preference records (theme,
// notification and refresh flags).
type SettingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// SettingsPatch carries optional preference changes.
type SettingsPatch struct {
	Theme              *domain.Theme
	EmailNotifications *bool
	AutoRefresh        *bool
	ShowClosed         *bool
}

// Get returns the caller's preferences, falling back to defaults when the
// user has never saved any.
func (s *SettingsService) Get(ctx context.Context, principal *domain.Principal) (domain.UserSettings, error) {
	all, err := s.settings.LoadAll(ctx)
	if err != nil {
		return domain.UserSettings{}, apperrors.MapError(err)
	}
	for i := range all {
		if all[i].Email == principal.Email {
			return all[i], nil
		}
	}
	return domain.DefaultSettings(principal.Email), nil
}

// Update applies a patch to the caller's preferences.
func (s *SettingsService) Update(ctx context.Context, principal *domain.Principal, patch SettingsPatch) (domain.UserSettings, error) {
	if patch.Theme != nil && *patch.Theme != domain.ThemeLight && *patch.Theme != domain.ThemeDark {
		return domain.UserSettings{}, apperrors.NewValidationError("unknown theme", map[string]any{"theme": *patch.Theme})
	}

	all, err := s.settings.LoadAll(ctx)
	if err != nil {
		return domain.UserSettings{}, apperrors.MapError(err)
	}

	idx := -1
	for i := range all {
		if all[i].Email == principal.Email {
			idx = i
			break
		}
	}
	if idx < 0 {
		all = append(all, domain.DefaultSettings(principal.Email))
		idx = len(all) - 1
	}

	current := &all[idx]
	if patch.Theme != nil {
		current.Theme = *patch.Theme
	}
	if patch.EmailNotifications != nil {
		current.EmailNotifications = *patch.EmailNotifications
	}
	if patch.AutoRefresh != nil {
		current.AutoRefresh = *patch.AutoRefresh
	}
	if patch.ShowClosed != nil {
		current.ShowClosed = *patch.ShowClosed
	}

	if err := s.settings.ReplaceAll(ctx, all); err != nil {
		return domain.UserSettings{}, apperrors.MapError(err)
	}
	return all[idx], nil
}

// EmailNotificationsEnabled reports whether the given user opted into email
// notifications. Unknown users default to off.
func (s *SettingsService) EmailNotificationsEnabled(ctx context.Context, email string) bool {
	all, err := s.settings.LoadAll(ctx)
	if err != nil {
		return false
	}
	for i := range all {
		if all[i].Email == email {
			return all[i].EmailNotifications
		}
	}
	return false
}
