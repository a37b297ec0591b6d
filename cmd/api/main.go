package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/SketchClarkey/Chryso-form-v2-sub003/docs" // Import swagger docs
	common_api "github.com/SketchClarkey/Chryso-form-v2-sub003/internal/common/api"
	common_models "github.com/SketchClarkey/Chryso-form-v2-sub003/internal/common/models"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/database"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/analytics"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/form"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/system"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/logger"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/middleware"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{ContextKey: common_models.RequestIDKey}))
	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	logger.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("api", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("HTTP server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, formRepo form.FormRepository, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Use a background context with timeout for index creation
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := formRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("Failed to ensure form indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartSnapshots runs the analytics snapshot job for the life of the app.
func StartSnapshots(lc fx.Lifecycle, scheduler *analytics.SnapshotScheduler) {
	lc.Append(fx.Hook{
		OnStart: scheduler.Start,
		OnStop:  scheduler.Stop,
	})
}

// @title           Form Analytics API
// @version         1.0
// @description     Aggregated analytics over inspection form activity.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			form.NewFormStore,
			analytics.NewSnapshotRepository,

			// Analytics collaborators
			form.NewEventSource,
			analytics.NewResultCache,
			analytics.NewDefaultCollector,
			analytics.NewHub,

			analytics.NewAnalyticsService,
			analytics.NewSnapshotScheduler,

			// Initialize Controller
			analytics.NewAnalyticsController,
			system.NewDebugController,

			// Initialize API Routes
			AsRoute(analytics.NewAnalyticsApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewDebugApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartSnapshots,
			InitializeIndexes,
		),
	)

	app.Run()
}
