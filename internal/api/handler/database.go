package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/faceapi"
	"github.com/appearly/facegate/internal/service"
)

// DatabaseService interface for face database administration
type DatabaseService interface {
	Info(ctx context.Context, model string) (*service.DatabaseInfo, error)
	Save(ctx context.Context, path string) (*faceapi.SaveResponse, error)
	DeletePerson(ctx context.Context, name, model string) (*faceapi.DeleteResponse, error)
}

// DatabaseHandler handles face database administration requests
type DatabaseHandler struct {
	service DatabaseService
	logger  *slog.Logger
}

func NewDatabaseHandler(service DatabaseService, logger *slog.Logger) *DatabaseHandler {
	return &DatabaseHandler{service: service, logger: logger}
}

// InfoResponse response for database info endpoint
type InfoResponse struct {
	Model        string         `json:"model"`
	TotalPersons int            `json:"total_persons"`
	TotalFaces   int            `json:"total_faces"`
	Details      map[string]any `json:"details,omitempty"`
}

// SaveResponse response for database save endpoint
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DeleteResponse response for person delete endpoint
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Info GET /v1/database/info - backend database statistics
func (h *DatabaseHandler) Info(c *fiber.Ctx) error {
	info, err := h.service.Info(c.Context(), c.Query("model"))
	if err != nil {
		return err
	}

	return c.JSON(InfoResponse{
		Model:        info.Model,
		TotalPersons: info.TotalPersons,
		TotalFaces:   info.TotalFaces,
		Details:      info.Details,
	})
}

// Save POST /v1/database/save - persist the backend face database
func (h *DatabaseHandler) Save(c *fiber.Ctx) error {
	resp, err := h.service.Save(c.Context(), c.Query("path"))
	if err != nil {
		return err
	}

	return c.JSON(SaveResponse{
		Success: resp.Success,
		Message: resp.Message,
	})
}

// Delete DELETE /v1/database/:name - remove a person from the database.
// A name the backend does not know is reported with success=false, not an
// error status.
func (h *DatabaseHandler) Delete(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	resp, err := h.service.DeletePerson(c.Context(), name, c.Query("model"))
	if err != nil {
		return err
	}

	return c.JSON(DeleteResponse{
		Success: resp.Success,
		Message: resp.Message,
	})
}
