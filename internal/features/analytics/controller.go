package analytics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	common_models "github.com/SketchClarkey/Chryso-form-v2-sub003/internal/common/models"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultRangeDays     = 30
	defaultSnapshotLimit = 20
	maxSnapshotLimit     = 100
	dateOnlyLayout       = "2006-01-02"
)

type AnalyticsController struct {
	Service   AnalyticsService
	Snapshots SnapshotRepository
	Hub       *Hub
	Logger    *zap.Logger
	now       func() time.Time
}

func NewAnalyticsController(service AnalyticsService, snapshots SnapshotRepository, hub *Hub, logger *zap.Logger) *AnalyticsController {
	return &AnalyticsController{
		Service:   service,
		Snapshots: snapshots,
		Hub:       hub,
		Logger:    logger.Named("analytics.http"),
		now:       time.Now,
	}
}

type ClassifyRequest struct {
	Points []TrendPoint `json:"points"`
}

// GetAnalytics computes aggregated form analytics
// @Summary Get form analytics
// @Tags analytics
// @Produce json
// @Param start query string false "Range start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Range end (RFC3339 or YYYY-MM-DD, date-only is inclusive)"
// @Param granularity query string false "day, week or month"
// @Param worksites query string false "Comma-separated worksite IDs"
// @Param technicians query string false "Comma-separated technician IDs"
// @Param status query string false "Comma-separated form statuses"
// @Success 200 {object} AnalyticsResult
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *fiber.Ctx) error {
	query, err := c.parseQuery(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := c.Service.GenerateAnalytics(ctx.UserContext(), query, RequesterFromClaims(claimsOf(ctx)))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(result)
}

// GetInsights classifies every trend series of the analytics result
// @Summary Get trend insights
// @Tags analytics
// @Produce json
// @Param start query string false "Range start"
// @Param end query string false "Range end"
// @Param granularity query string false "day, week or month"
// @Success 200 {object} InsightsResult
// @Router /api/analytics/insights [get]
func (c *AnalyticsController) GetInsights(ctx *fiber.Ctx) error {
	query, err := c.parseQuery(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	insights, err := c.Service.GenerateInsights(ctx.UserContext(), query, RequesterFromClaims(claimsOf(ctx)))
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(insights)
}

// ClassifyTrend classifies an arbitrary trend series
// @Summary Classify a trend series
// @Tags analytics
// @Accept json
// @Produce json
// @Param body body ClassifyRequest true "Trend points"
// @Success 200 {object} TrendClassification
// @Router /api/analytics/trends/classify [post]
func (c *AnalyticsController) ClassifyTrend(ctx *fiber.Ctx) error {
	var req ClassifyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return ctx.JSON(c.Service.ClassifyTrend(req.Points))
}

// Export downloads the analytics result as an Excel workbook
// @Summary Export analytics to Excel
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start query string false "Range start"
// @Param end query string false "Range end"
// @Param granularity query string false "day, week or month"
// @Success 200 {file} file
// @Router /api/analytics/export [get]
func (c *AnalyticsController) Export(ctx *fiber.Ctx) error {
	query, err := c.parseQuery(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := c.Service.GenerateAnalytics(ctx.UserContext(), query, RequesterFromClaims(claimsOf(ctx)))
	if err != nil {
		return errorResponse(ctx, err)
	}

	data, filename, err := ExportToExcel(result, query)
	if err != nil {
		c.Logger.Error("Failed to export analytics", requestID(ctx), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate export"})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(data)
}

// ListSnapshots returns the most recent stored snapshots. Admin only.
// @Summary List analytics snapshots
// @Tags analytics
// @Produce json
// @Param limit query int false "Maximum number of snapshots (default 20, max 100)"
// @Success 200 {array} Snapshot
// @Router /api/analytics/snapshots [get]
func (c *AnalyticsController) ListSnapshots(ctx *fiber.Ctx) error {
	limit := defaultSnapshotLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = min(n, maxSnapshotLimit)
	}

	snapshots, err := c.Snapshots.ListRecent(ctx.UserContext(), int64(limit))
	if err != nil {
		c.Logger.Error("Failed to list snapshots", requestID(ctx), zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list snapshots"})
	}
	return ctx.JSON(snapshots)
}

// HandleLiveFeed keeps an admin websocket client subscribed to new snapshots
// until the client goes away.
func (c *AnalyticsController) HandleLiveFeed(conn *websocket.Conn) {
	c.Hub.Register(conn)
	defer c.Hub.Unregister(conn)

	c.Logger.Debug("Live feed client connected", zap.Int("subscribers", c.Hub.Count()))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	c.Logger.Debug("Live feed client disconnected")
}

func (c *AnalyticsController) parseQuery(ctx *fiber.Ctx) (Query, error) {
	var q Query

	g, err := ParseGranularity(ctx.Query("granularity", string(GranularityDay)))
	if err != nil {
		return q, err
	}
	q.Granularity = g

	q.End = c.now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	if raw := ctx.Query("end"); raw != "" {
		end, dateOnly, err := parseDate(raw)
		if err != nil {
			return q, err
		}
		if dateOnly {
			end = end.AddDate(0, 0, 1)
		}
		q.End = end
	}

	q.Start = q.End.AddDate(0, 0, -defaultRangeDays)
	if raw := ctx.Query("start"); raw != "" {
		start, _, err := parseDate(raw)
		if err != nil {
			return q, err
		}
		q.Start = start
	}

	if !q.End.After(q.Start) {
		return q, ErrInvalidRange
	}
	if err := CheckRange(q.Start, q.End, q.Granularity); err != nil {
		return q, err
	}

	q.Filters.Worksites = splitList(ctx.Query("worksites"))
	q.Filters.Technicians = splitList(ctx.Query("technicians"))
	for _, s := range splitList(ctx.Query("status")) {
		status, err := ParseFormStatus(s)
		if err != nil {
			return q, err
		}
		q.Filters.Statuses = append(q.Filters.Statuses, status)
	}
	return q, nil
}

// parseDate accepts RFC3339 or a bare UTC date. The second return value
// reports the bare date form.
func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func claimsOf(ctx *fiber.Ctx) *utils.UserClaims {
	claims, _ := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return claims
}

// RequesterFromClaims picks the most privileged known role from the token.
// A token without a known role yields an empty role, which the service
// rejects.
func RequesterFromClaims(claims *utils.UserClaims) Requester {
	if claims == nil {
		return Requester{}
	}
	r := Requester{UserID: claims.UserID, Worksites: claims.Worksites}
	rank := map[Role]int{RoleTechnician: 1, RoleManager: 2, RoleAdmin: 3}
	for _, raw := range claims.Roles {
		role := Role(strings.ToLower(raw))
		if rank[role] > rank[r.Role] {
			r.Role = role
		}
	}
	return r
}

func requestID(ctx *fiber.Ctx) zap.Field {
	id, _ := ctx.Locals(common_models.RequestIDKey).(string)
	return zap.String("request_id", id)
}

func errorResponse(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidGranularity),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrRangeTooLarge):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrUnknownRole):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate analytics"})
	}
}
