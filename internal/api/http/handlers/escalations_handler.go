package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scholarlift/escalation-service/internal/api/dto"
	"github.com/scholarlift/escalation-service/internal/auth"
	"github.com/scholarlift/escalation-service/internal/service"
	apperrors "github.com/scholarlift/escalation-service/pkg/util/errorutil"
)

// EscalationsHandler manages escalation lifecycle endpoints.
type EscalationsHandler struct {
	escalations *service.EscalationService
	queries     *service.QueryService
}

// NewEscalationsHandler constructs handler.
func NewEscalationsHandler(escalations *service.EscalationService, queries *service.QueryService) *EscalationsHandler {
	return &EscalationsHandler{escalations: escalations, queries: queries}
}

// Create POST /escalations.
func (h *EscalationsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateEscalationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.EscalationCreateInput{
		Category:    req.Category,
		Priority:    req.Priority,
		Urgency:     req.Urgency,
		Impact:      req.Impact,
		Title:       req.Title,
		Description: req.Description,
		SchoolID:    req.SchoolID,
		TeamID:      req.TeamID,
		MultiRegion: req.MultiRegion,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Watchers:    req.Watchers,
		Attachments: req.Attachments,
	}
	escalation, err := h.escalations.Create(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromEscalation(escalation, time.Now())})
}

// List GET /escalations.
func (h *EscalationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter := service.EscalationFilter{
		Region:   c.Query("region", principal.Region),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
		Tab:      c.Query("tab"),
		Search:   c.Query("search"),
	}
	escalations, err := h.queries.Query(c.Context(), filter)
	if err != nil {
		return err
	}

	now := time.Now()
	items := make([]dto.EscalationResponse, 0, len(escalations))
	for i := range escalations {
		items = append(items, dto.FromEscalation(&escalations[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /escalations/:id.
func (h *EscalationsHandler) Get(c *fiber.Ctx) error {
	escalation, err := h.escalations.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEscalation(escalation, time.Now())})
}

// Update PATCH /escalations/:id.
func (h *EscalationsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateEscalationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.EscalationUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Urgency:     req.Urgency,
		Impact:      req.Impact,
		Status:      req.Status,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		Watchers:    req.Watchers,
		Attachments: req.Attachments,
	}
	escalation, err := h.escalations.Update(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEscalation(escalation, time.Now())})
}

// Assign POST /escalations/:id/assign.
func (h *EscalationsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignEscalationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	escalation, err := h.escalations.Assign(c.Context(), principal.User.ID, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEscalation(escalation, time.Now())})
}

// Resolve POST /escalations/:id/resolve.
func (h *EscalationsHandler) Resolve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ResolveEscalationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	escalation, err := h.escalations.Resolve(c.Context(), principal.User.ID, c.Params("id"), req.ResolutionNotes, req.Satisfaction)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEscalation(escalation, time.Now())})
}
