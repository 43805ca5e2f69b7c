package service

import (
	"context"
	"log/slog"

	"github.com/appearly/facegate/internal/domain"
)

// RecognitionResult carries the minimal extracted fields on top of the raw
// backend payload. Identity decisions belong to the backend; nothing here
// reinterprets them.
type RecognitionResult struct {
	Name       string
	Confidence float64
	Matches    []map[string]any
	Details    map[string]any
}

// RecognitionService identifies a person from a single probe image.
type RecognitionService struct {
	pipeline FacePipeline
	client   RecognitionClient
	defaults Defaults
	logger   *slog.Logger
}

func NewRecognitionService(pipeline FacePipeline, client RecognitionClient, defaults Defaults, logger *slog.Logger) *RecognitionService {
	return &RecognitionService{
		pipeline: pipeline,
		client:   client,
		defaults: defaults,
		logger:   logger,
	}
}

// Recognize detects and crops the best face in the probe, then delegates
// identification to the backend. A probe without a detectable face fails;
// there is no whole-image fallback here, since an uncropped full-body shot
// would defeat the recognizer.
func (s *RecognitionService) Recognize(ctx context.Context, image []byte, model string, threshold *float64) (*RecognitionResult, error) {
	normalized, err := domain.NormalizeModel(model, s.defaults.Model)
	if err != nil {
		return nil, err
	}

	th := s.defaults.Threshold
	if threshold != nil {
		th = *threshold
	}

	detection, err := s.pipeline.DetectCrop(image)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recognizing person",
		slog.String("model", string(normalized)),
		slog.Float64("threshold", th),
	)

	raw, err := s.client.Recognize(ctx, detection.Cropped, normalized, th)
	if err != nil {
		return nil, domain.ErrUpstream.WithError(err)
	}

	result := &RecognitionResult{Details: raw}
	if name, ok := raw["name"].(string); ok {
		result.Name = name
	}
	if confidence, ok := raw["confidence"].(float64); ok {
		result.Confidence = confidence
	}
	if matches, ok := raw["matches"].([]any); ok {
		for _, m := range matches {
			if entry, ok := m.(map[string]any); ok {
				result.Matches = append(result.Matches, entry)
			}
		}
	}

	return result, nil
}
