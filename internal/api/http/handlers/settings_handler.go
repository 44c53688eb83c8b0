package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticket-tally/helpdesk-service/internal/api/dto"
	"github.com/ticket-tally/helpdesk-service/internal/auth"
	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/service"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

// SettingsHandler manages per-user preference endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: settingsService}
}

// GetSettings GET /settings.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	settings, err := h.service.Get(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsResponse(settings)})
}

// UpdateSettings PUT /settings.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	settings, err := h.service.Update(c.UserContext(), principal, service.SettingsPatch{
		Theme:              req.Theme,
		EmailNotifications: req.EmailNotifications,
		AutoRefresh:        req.AutoRefresh,
		ShowClosed:         req.ShowClosed,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingsResponse(settings)})
}

func settingsResponse(settings domain.UserSettings) dto.SettingsResponse {
	return dto.SettingsResponse{
		Theme:              settings.Theme,
		EmailNotifications: settings.EmailNotifications,
		AutoRefresh:        settings.AutoRefresh,
		ShowClosed:         settings.ShowClosed,
	}
}
