package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ticket-tally/helpdesk-service/internal/api/dto"
	"github.com/ticket-tally/helpdesk-service/internal/auth"
	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/query"
	"github.com/ticket-tally/helpdesk-service/internal/service"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal, service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket, time.Now())})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}

	tickets, err := h.service.ListTickets(c.UserContext(), principal, service.TicketListOptions{
		Tab:    query.StatusTab(c.Query("tab", string(query.TabAll))),
		Search: c.Query("q"),
	})
	if err != nil {
		return err
	}

	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	ticket, err := h.service.GetTicket(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, time.Now())})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.AddComment(c.UserContext(), c.Params("id"), principal, req.Text)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket, time.Now())})
}

// ChangeStatus POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), c.Params("id"), principal, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, time.Now())})
}

// ChangePriority POST /tickets/:id/priority.
func (h *TicketsHandler) ChangePriority(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.ChangePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangePriority(c.UserContext(), c.Params("id"), principal, req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, time.Now())})
}

// Stats GET /stats/tickets.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:            ticket.ID,
		Subject:       ticket.Subject,
		Category:      ticket.Category,
		Priority:      ticket.Priority,
		Status:        ticket.Status,
		CreatedByName: ticket.CreatedByName,
		AssignedTo:    ticket.AssignedTo,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, now time.Time) dto.TicketDetailResponse {
	timeline := make([]dto.TimelineEventResponse, 0, len(ticket.Timeline))
	for _, event := range ticket.Timeline {
		timeline = append(timeline, dto.TimelineEventResponse{
			Action:    event.Action,
			User:      event.User,
			Timestamp: event.Timestamp,
			Note:      event.Note,
		})
	}
	comments := make([]dto.CommentResponse, 0, len(ticket.Comments))
	for _, comment := range ticket.Comments {
		comments = append(comments, dto.CommentResponse{
			ID:        comment.ID,
			Author:    comment.Author,
			UserName:  comment.UserName,
			Text:      comment.Text,
			Timestamp: comment.Timestamp,
		})
	}
	return dto.TicketDetailResponse{
		ID:            ticket.ID,
		Subject:       ticket.Subject,
		Description:   ticket.Description,
		Category:      ticket.Category,
		Priority:      ticket.Priority,
		Status:        ticket.Status,
		CreatedBy:     ticket.CreatedBy,
		CreatedByName: ticket.CreatedByName,
		AssignedTo:    ticket.AssignedTo,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
		ClosedAt:      ticket.ClosedAt,
		AgeHours:      service.ComputeAge(ticket, now).Hours(),
		SLAStatus:     service.ComputeSLAStatus(ticket, now),
		Timeline:      timeline,
		Comments:      comments,
	}
}
