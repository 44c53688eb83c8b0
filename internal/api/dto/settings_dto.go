package dto

import "github.com/ticket-tally/helpdesk-service/internal/domain"

// UpdateSettingsRequest payload; nil fields are left unchanged.
type UpdateSettingsRequest struct {
	Theme              *domain.Theme `json:"theme"`
	EmailNotifications *bool         `json:"email_notifications"`
	AutoRefresh        *bool         `json:"auto_refresh"`
	ShowClosed         *bool         `json:"show_closed"`
}

// SettingsResponse is the caller's preference record.
type SettingsResponse struct {
	Theme              domain.Theme `json:"theme"`
	EmailNotifications bool         `json:"email_notifications"`
	AutoRefresh        bool         `json:"auto_refresh"`
	ShowClosed         bool         `json:"show_closed"`
}
