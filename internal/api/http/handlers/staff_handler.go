package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/ticket-tally/helpdesk-service/internal/api/dto"
	"github.com/ticket-tally/helpdesk-service/internal/auth"
	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/service"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

// StaffHandler manages the IT staff directory endpoints.
type StaffHandler struct {
	service *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{service: staffService}
}

// AddStaff POST /staff.
func (h *StaffHandler) AddStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.AddStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.service.AddStaff(c.UserContext(), principal, req.Name, req.Email, req.Team)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": staffResponse(member)})
}

// ListStaff GET /staff.
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	staff, err := h.service.ListStaff(c.UserContext(), principal)
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		items = append(items, staffResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ToggleStatus POST /staff/:email/toggle.
func (h *StaffHandler) ToggleStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		email = c.Params("email")
	}
	member, err := h.service.ToggleStatus(c.UserContext(), principal, email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(member)})
}

func staffResponse(member *domain.StaffMember) dto.StaffResponse {
	return dto.StaffResponse{
		Name:     member.Name,
		Email:    member.Email,
		Team:     member.Team,
		Status:   member.Status,
		JoinedAt: member.JoinedAt,
	}
}
