package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/appearly/facegate/internal/api/docs"
	"github.com/appearly/facegate/internal/api/handler"
	"github.com/appearly/facegate/internal/api/middleware"
	"github.com/appearly/facegate/internal/detector"
)

type Dependencies struct {
	Registration handler.RegistrationService
	Recognition  handler.RecognitionService
	Detection    handler.DetectService
	Database     handler.DatabaseService
	Pipeline     *detector.Pipeline
	APIKey       string
	DB           *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Facegate API",
		BodyLimit:    64 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	var dbPinger handler.DBPinger
	if r.deps != nil && r.deps.DB != nil {
		dbPinger = r.deps.DB
	}
	var detectorStatus handler.DetectorStatus
	if r.deps != nil && r.deps.Pipeline != nil {
		detectorStatus = pipelineStatus{r.deps.Pipeline}
	}
	healthHandler := handler.NewHealthHandler(dbPinger, detectorStatus)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group with authentication
	v1 := r.app.Group("/v1")

	// Only configure authenticated routes if dependencies were provided
	if r.deps != nil {
		v1.Use(middleware.Auth(r.deps.APIKey))

		faceHandler := handler.NewFaceHandler(r.deps.Registration, r.deps.Recognition, r.deps.Detection, r.logger)
		v1.Post("/faces/register", faceHandler.Register)
		v1.Post("/faces/recognize", faceHandler.Recognize)
		v1.Post("/faces/detect", faceHandler.Detect)

		databaseHandler := handler.NewDatabaseHandler(r.deps.Database, r.logger)
		v1.Get("/database/info", databaseHandler.Info)
		v1.Post("/database/save", databaseHandler.Save)
		v1.Delete("/database/:name", databaseHandler.Delete)
	}
}

// pipelineStatus adapts the detection pipeline to the readiness probe.
type pipelineStatus struct {
	pipeline *detector.Pipeline
}

func (s pipelineStatus) Ready() bool {
	return s.pipeline.State().Ready
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}

// App exposes the underlying Fiber app for testing
func (r *Router) App() *fiber.App {
	return r.app
}
