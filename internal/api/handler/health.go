package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DBPinger reports database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// DetectorStatus reports whether the local cascade stage is operational.
type DetectorStatus interface {
	Ready() bool
}

type HealthHandler struct {
	db       DBPinger
	detector DetectorStatus
}

func NewHealthHandler(db DBPinger, detector DetectorStatus) *HealthHandler {
	return &HealthHandler{db: db, detector: detector}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type ReadyResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	FaceDetection string `json:"face_detection"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
	})
}

// Ready reports degraded detection as "degraded" rather than failing the
// probe: the service still answers requests in that state.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	resp := ReadyResponse{Status: "ready", Database: "ok", FaceDetection: "ok"}
	status := fiber.StatusOK

	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "not ready"
			resp.Database = "unreachable"
			status = fiber.StatusServiceUnavailable
		}
	}

	if h.detector != nil && !h.detector.Ready() {
		resp.FaceDetection = "degraded"
	}

	return c.Status(status).JSON(resp)
}
