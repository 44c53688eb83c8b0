package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ticket-tally/helpdesk-service/internal/api/dto"
	"github.com/ticket-tally/helpdesk-service/internal/auth"
	"github.com/ticket-tally/helpdesk-service/internal/domain"
	"github.com/ticket-tally/helpdesk-service/internal/service"
	apperrors "github.com/ticket-tally/helpdesk-service/pkg/util"
)

// ProjectsHandler manages project endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// CreateProject POST /projects.
func (h *ProjectsHandler) CreateProject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.CreateProject(c.UserContext(), principal, service.ProjectCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		TeamEmails:  req.TeamEmails,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": projectResponse(project, time.Now())})
}

// ListProjects GET /projects.
func (h *ProjectsHandler) ListProjects(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	projects, err := h.service.ListProjects(c.UserContext(), principal)
	if err != nil {
		return err
	}
	now := time.Now()
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, projectResponse(&projects[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetProject GET /projects/:id.
func (h *ProjectsHandler) GetProject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	project, err := h.service.GetProject(c.UserContext(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project, time.Now())})
}

// UpdateProject PUT /projects/:id.
func (h *ProjectsHandler) UpdateProject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.UpdateProject(c.UserContext(), principal, c.Params("id"), service.ProjectUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		Deadline:    req.Deadline,
		TeamEmails:  req.TeamEmails,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project, time.Now())})
}

// SetProgress POST /projects/:id/progress.
func (h *ProjectsHandler) SetProgress(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.SetProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	project, err := h.service.SetProgress(c.UserContext(), principal, c.Params("id"), req.Progress, req.ConfirmCompleted)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": projectResponse(project, time.Now())})
}

// DeleteProject DELETE /projects/:id.
func (h *ProjectsHandler) DeleteProject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	if err := h.service.DeleteProject(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats GET /stats/projects.
func (h *ProjectsHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("principal required")
	}
	stats, err := h.service.PortfolioStats(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

func projectResponse(project *domain.Project, now time.Time) dto.ProjectResponse {
	team := make([]dto.TeamMemberResponse, 0, len(project.Team))
	for _, member := range project.Team {
		team = append(team, dto.TeamMemberResponse{Email: member.Email, Name: member.Name})
	}
	deadline := service.ClassifyDeadline(project, now)
	return dto.ProjectResponse{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		Status:        project.Status,
		Priority:      project.Priority,
		StartDate:     project.StartDate,
		Deadline:      project.Deadline,
		Team:          team,
		Progress:      project.Progress,
		CreatedBy:     project.CreatedBy,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
		DeadlineClass: deadline.Class,
		DeadlineDays:  deadline.Days,
	}
}
