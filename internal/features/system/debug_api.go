package system

import (
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/common/api"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DebugApi struct {
	controller *DebugController
	config     *config.Config
}

func NewDebugApi(controller *DebugController, cfg *config.Config) api.Route {
	return &DebugApi{
		controller: controller,
		config:     cfg,
	}
}

// Setup registers debug routes. They are not mounted in production.
func (h *DebugApi) Setup(app *fiber.App) {
	if h.config.IsProduction() {
		return
	}
	debug := app.Group("/api/debug", middleware.AuthMiddleware(h.config.SkipAuth))
	debug.Get("/me", h.controller.GetCurrentUser)
}
