// Package service holds the pipeline orchestrators. Processing is
// request-scoped and stateless: every call decodes its own raster and
// releases it before returning.
package service

import (
	"context"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/faceapi"
)

// FacePipeline is the local detection/cropping stage.
type FacePipeline interface {
	Detect(image []byte) (domain.BoundingBox, error)
	DetectCrop(image []byte) (domain.DetectionResult, error)
}

// RecognitionClient is the external recognition backend boundary.
type RecognitionClient interface {
	Register(ctx context.Context, name string, crops [][]byte, model domain.Model, minQuality *int) (*faceapi.RegisterResponse, error)
	Recognize(ctx context.Context, crop []byte, model domain.Model, threshold float64) (map[string]any, error)
	DatabaseInfo(ctx context.Context, model domain.Model) (map[string]any, error)
	SaveDatabase(ctx context.Context, path string) (*faceapi.SaveResponse, error)
	DeletePerson(ctx context.Context, name string, model domain.Model) (*faceapi.DeleteResponse, error)
}

// IdentityStore is the narrow contract to the employee directory. The
// orchestrator only ever commits an identity after the detectability gate
// passes, and removes one when the backend confirms a person is gone.
type IdentityStore interface {
	Create(ctx context.Context, employee *domain.Employee) error
	DeleteByName(ctx context.Context, name string) error
}

// Defaults carries the configured fallbacks applied when a caller omits an
// optional parameter.
type Defaults struct {
	Model      string
	Threshold  float64
	MinQuality int
}
