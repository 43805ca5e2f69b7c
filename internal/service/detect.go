package service

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/appearly/facegate/internal/domain"
)

// DetectResult is the diagnostic detection reply.
type DetectResult struct {
	Box           domain.BoundingBox
	CroppedBase64 string
	SavedPath     string
}

// DetectService backs the diagnostic detect endpoint: it reports the
// selected bounding box and can hand back / persist the crop for visual
// inspection.
type DetectService struct {
	pipeline FacePipeline
	dumpDir  string
	logger   *slog.Logger
}

func NewDetectService(pipeline FacePipeline, dumpDir string, logger *slog.Logger) *DetectService {
	return &DetectService{
		pipeline: pipeline,
		dumpDir:  dumpDir,
		logger:   logger,
	}
}

// Detect finds the best face. With includeCrop the crop is returned
// base64-encoded and written to the dump directory; a failed write is
// logged and leaves SavedPath empty rather than failing the request.
func (s *DetectService) Detect(image []byte, originalFilename string, includeCrop bool) (*DetectResult, error) {
	if !includeCrop {
		box, err := s.pipeline.Detect(image)
		if err != nil {
			return nil, err
		}
		return &DetectResult{Box: box}, nil
	}

	detection, err := s.pipeline.DetectCrop(image)
	if err != nil {
		return nil, err
	}

	result := &DetectResult{
		Box:           detection.Box,
		CroppedBase64: base64.StdEncoding.EncodeToString(detection.Cropped),
	}

	path, err := s.dumpCrop(detection.Cropped, originalFilename)
	if err != nil {
		s.logger.Warn("failed to save cropped image", slog.Any("error", err))
	} else {
		result.SavedPath = path
	}

	return result, nil
}

func (s *DetectService) dumpCrop(crop []byte, originalFilename string) (string, error) {
	if err := os.MkdirAll(s.dumpDir, 0o755); err != nil {
		return "", fmt.Errorf("create dump dir: %w", err)
	}

	filename := fmt.Sprintf("detect_crop_%s_%s_%s.jpg",
		sanitizeFilename(originalFilename),
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
	)

	path := filepath.Join(s.dumpDir, filename)
	if err := os.WriteFile(path, crop, 0o644); err != nil {
		return "", fmt.Errorf("write crop: %w", err)
	}

	s.logger.Info("cropped image saved", slog.String("path", path))
	return path, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// sanitizeFilename strips the extension and anything unsafe from an
// uploaded filename before it is used on disk.
func sanitizeFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		return "unknown"
	}
	return base
}
