package detector

import (
	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/imaging"
)

// Pipeline composes decode, detection and cropping over raw upload bytes.
// Each call decodes its own raster and releases it before returning; the
// only shared state is the read-only cascade handles.
type Pipeline struct {
	det  *Detector
	crop Cropper
}

func NewPipeline(det *Detector, crop Cropper) *Pipeline {
	return &Pipeline{det: det, crop: crop}
}

// Detect decodes the bytes and returns the best face candidate.
func (p *Pipeline) Detect(data []byte) (domain.BoundingBox, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return domain.BoundingBox{}, err
	}
	defer img.Close()

	return p.det.DetectBestFace(img)
}

// DetectCrop decodes the bytes, detects the best face and returns it with
// the encoded crop.
func (p *Pipeline) DetectCrop(data []byte) (domain.DetectionResult, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return domain.DetectionResult{}, err
	}
	defer img.Close()

	box, err := p.det.DetectBestFace(img)
	if err != nil {
		return domain.DetectionResult{}, err
	}

	cropped, err := p.crop.Crop(img, box)
	if err != nil {
		return domain.DetectionResult{}, err
	}

	return domain.DetectionResult{Box: box, Cropped: cropped}, nil
}

// State reports the loaded-vs-degraded detector state.
func (p *Pipeline) State() State {
	return p.det.State()
}
