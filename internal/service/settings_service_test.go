package service

import (
	"context"
	"testing"

	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/repository"
	"github.com/ticket-tally/helpdesk-service/internal/store"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

func newTestSettingsService() *SettingsService {
	return NewSettingsService(repository.NewSettingsRepository(store.NewMemoryStore()))
}

func TestSettingsDefaults(t *testing.T) {
	svc := newTestSettingsService()

	settings, err := svc.Get(context.Background(), employee)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.Email != employee.Email {
		t.Errorf("email = %s", settings.Email)
	}
	if settings.Theme != domain.ThemeLight {
		t.Errorf("theme = %s, want light", settings.Theme)
	}
	if !settings.AutoRefresh {
		t.Error("autoRefresh should default on")
	}
	if settings.EmailNotifications {
		t.Error("emailNotifications should default off")
	}
}

func TestSettingsUpdate(t *testing.T) {
	svc := newTestSettingsService()
	ctx := context.Background()

	dark := domain.ThemeDark
	on := true
	updated, err := svc.Update(ctx, employee, SettingsPatch{Theme: &dark, EmailNotifications: &on})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Theme != domain.ThemeDark || !updated.EmailNotifications {
		t.Errorf("patch not applied: %+v", updated)
	}
	// unpatched field keeps its default
	if !updated.AutoRefresh {
		t.Error("autoRefresh changed without a patch")
	}

	got, err := svc.Get(ctx, employee)
	if err != nil {
		t.Fatalf("Get after update: %v", err)
	}
	if got.Theme != domain.ThemeDark {
		t.Errorf("update not persisted: theme = %s", got.Theme)
	}

	bad := domain.Theme("neon")
	if _, err := svc.Update(ctx, employee, SettingsPatch{Theme: &bad}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("unknown theme: error = %v, want VALIDATION_FAILED", err)
	}
}

func TestEmailNotificationsEnabled(t *testing.T) {
	svc := newTestSettingsService()
	ctx := context.Background()

	if svc.EmailNotificationsEnabled(ctx, "ghost@example.com") {
		t.Error("unknown user should default to off")
	}

	on := true
	if _, err := svc.Update(ctx, employee, SettingsPatch{EmailNotifications: &on}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !svc.EmailNotificationsEnabled(ctx, employee.Email) {
		t.Error("opted-in user should report enabled")
	}
}
