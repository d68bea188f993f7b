package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/scholarlift/escalation-service/internal/api/dto"
	"github.com/scholarlift/escalation-service/internal/auth"
	"github.com/scholarlift/escalation-service/internal/config"
	"github.com/scholarlift/escalation-service/internal/service"
	apperrors "github.com/scholarlift/escalation-service/pkg/util/errorutil"
)

// DashboardHandler serves the region KPI and activity feed endpoints.
type DashboardHandler struct {
	metrics *service.MetricsService
	feed    *service.FeedService
	cfg     config.DashboardConfig
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(metrics *service.MetricsService, feed *service.FeedService, cfg config.DashboardConfig) *DashboardHandler {
	return &DashboardHandler{metrics: metrics, feed: feed, cfg: cfg}
}

// Metrics GET /dashboard/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	region := c.Query("region", principal.Region)

	metrics, err := h.metrics.Aggregate(c.Context(), region)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SLAMetricsResponse{
		Region:             region,
		Total:              metrics.Total,
		Open:               metrics.Open,
		ResolvedThisMonth:  metrics.ResolvedThisMonth,
		AvgResolutionHours: metrics.AvgResolutionHours,
	}})
}

// Feed GET /dashboard/feed.
func (h *DashboardHandler) Feed(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	region := c.Query("region", principal.Region)
	limit := parseLimit(c.Query("limit"), h.cfg.FeedDefaultLimit, h.cfg.FeedMaxLimit)

	feed, err := h.feed.Feed(c.Context(), region, limit)
	if err != nil {
		return err
	}
	items := make([]dto.ActivityEventResponse, 0, len(feed))
	for _, event := range feed {
		items = append(items, dto.FromActivityEvent(event))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseLimit(val string, def, max int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	if max > 0 && parsed > max {
		return max
	}
	return parsed
}
