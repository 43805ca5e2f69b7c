package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/service"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// RegistrationService interface for the registration workflow
type RegistrationService interface {
	Register(ctx context.Context, req service.RegistrationRequest) (*service.RegistrationResult, error)
}

// RecognitionService interface for probe identification
type RecognitionService interface {
	Recognize(ctx context.Context, image []byte, model string, threshold *float64) (*service.RecognitionResult, error)
}

// DetectService interface for the diagnostic detection endpoint
type DetectService interface {
	Detect(image []byte, originalFilename string, includeCrop bool) (*service.DetectResult, error)
}

// FaceHandler handles face capture and recognition requests
type FaceHandler struct {
	registration RegistrationService
	recognition  RecognitionService
	detection    DetectService
	logger       *slog.Logger
}

func NewFaceHandler(registration RegistrationService, recognition RecognitionService, detection DetectService, logger *slog.Logger) *FaceHandler {
	return &FaceHandler{
		registration: registration,
		recognition:  recognition,
		detection:    detection,
		logger:       logger,
	}
}

// RegisterResponse response for register endpoint
type RegisterResponse struct {
	Success         bool      `json:"success"`
	Name            string    `json:"name"`
	Model           string    `json:"model_used"`
	Message         string    `json:"message,omitempty"`
	TotalRegistered int       `json:"total_registered"`
	FailedCount     int       `json:"failed_count"`
	Qualities       []float64 `json:"qualities,omitempty"`
}

// RecognizeResponse response for recognize endpoint
type RecognizeResponse struct {
	Name       string           `json:"name"`
	Confidence float64          `json:"confidence"`
	Matches    []map[string]any `json:"matches,omitempty"`
}

// BoxResponse is a detected bounding box in raster coordinates
type BoxResponse struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// DetectResponse response for the diagnostic detect endpoint
type DetectResponse struct {
	Box           BoxResponse `json:"box"`
	CroppedBase64 string      `json:"cropped_image,omitempty"`
	SavedPath     string      `json:"saved_path,omitempty"`
}

// Register POST /v1/faces/register - register a person from five angle shots
func (h *FaceHandler) Register(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return domain.ErrValidationFailed.WithError(errors.New("name is required"))
	}

	images := make(map[domain.Angle][]byte, len(domain.Angles()))
	for _, angle := range domain.Angles() {
		imageBytes, err := extractImage(c, string(angle))
		if err != nil {
			// Absent parts are reported collectively by the angle-set check.
			if errors.Is(err, errMissingFile) {
				continue
			}
			return fmt.Errorf("register %s angle: %w", angle, err)
		}
		images[angle] = imageBytes
	}

	req := service.RegistrationRequest{
		Name:   name,
		Model:  c.Query("model"),
		Images: images,
	}

	if raw := c.Query("min_quality"); raw != "" {
		minQuality, err := strconv.Atoi(raw)
		if err != nil {
			return domain.ErrValidationFailed.WithError(errors.New("min_quality must be an integer"))
		}
		req.MinQuality = &minQuality
	}

	result, err := h.registration.Register(c.Context(), req)
	if err != nil {
		return err
	}

	resp := RegisterResponse{
		Success: result.Phase == service.PhaseDone,
		Name:    name,
	}
	if result.Outcome != nil {
		resp.Model = result.Outcome.ModelUsed
		resp.Message = result.Outcome.Message
		resp.TotalRegistered = result.Outcome.TotalRegistered
		resp.FailedCount = result.Outcome.FailedCount
		resp.Qualities = result.Outcome.Qualities
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Recognize POST /v1/faces/recognize - identify a person from a single image
func (h *FaceHandler) Recognize(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c, "image")
	if err != nil {
		return fmt.Errorf("recognize face: %w", err)
	}

	var threshold *float64
	if raw := c.Query("threshold"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.ErrValidationFailed.WithError(errors.New("threshold must be a number"))
		}
		threshold = &value
	}

	result, err := h.recognition.Recognize(c.Context(), imageBytes, c.Query("model"), threshold)
	if err != nil {
		return err
	}

	return c.JSON(RecognizeResponse{
		Name:       result.Name,
		Confidence: result.Confidence,
		Matches:    result.Matches,
	})
}

// Detect POST /v1/faces/detect - report the best face box, optionally with crop
func (h *FaceHandler) Detect(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("image file is required"))
	}

	imageBytes, err := readImageFile(file)
	if err != nil {
		return fmt.Errorf("detect face: %w", err)
	}

	includeCrop := c.QueryBool("include_crop", false)

	result, err := h.detection.Detect(imageBytes, file.Filename, includeCrop)
	if err != nil {
		return err
	}

	return c.JSON(DetectResponse{
		Box: BoxResponse{
			X:          result.Box.X,
			Y:          result.Box.Y,
			Width:      result.Box.Width,
			Height:     result.Box.Height,
			Confidence: result.Box.Confidence,
		},
		CroppedBase64: result.CroppedBase64,
		SavedPath:     result.SavedPath,
	})
}

var errMissingFile = errors.New("file part missing")

// extractImage pulls one validated image part out of the multipart form.
func extractImage(c *fiber.Ctx, field string) ([]byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, errMissingFile
	}
	return readImageFile(file)
}

func readImageFile(file *multipart.FileHeader) ([]byte, error) {
	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	if contentType := file.Header.Get("Content-Type"); contentType != "" && !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage.WithError(nil)
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
