package system

import (
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsApi struct {
	gatherer prometheus.Gatherer
}

func NewMetricsApi() api.Route {
	return &MetricsApi{gatherer: prometheus.DefaultGatherer}
}

// Setup exposes Prometheus metrics
func (h *MetricsApi) Setup(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
}
