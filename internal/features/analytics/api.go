package analytics

import (
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/common/api"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type AnalyticsApi struct {
	Controller *AnalyticsController
	config     *config.Config
}

func NewAnalyticsApi(controller *AnalyticsController, config *config.Config) api.Route {
	return &AnalyticsApi{Controller: controller, config: config}
}

// Setup registers analytics routes
func (a *AnalyticsApi) Setup(app *fiber.App) {
	analytics := app.Group("/api/analytics",
		middleware.AuthMiddleware(a.config.SkipAuth),
		middleware.RequireRole(string(RoleAdmin), string(RoleManager), string(RoleTechnician)),
	)

	analytics.Get("/", a.Controller.GetAnalytics)
	analytics.Get("/insights", a.Controller.GetInsights)
	analytics.Post("/trends/classify", a.Controller.ClassifyTrend)
	analytics.Get("/export", a.Controller.Export)
	analytics.Get("/snapshots",
		middleware.RequireRole(string(RoleAdmin)),
		a.Controller.ListSnapshots,
	)

	// Snapshots are computed over every worksite.
	analytics.Use("/ws", middleware.RequireRole(string(RoleAdmin)), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	analytics.Get("/ws", websocket.New(a.Controller.HandleLiveFeed))
}
