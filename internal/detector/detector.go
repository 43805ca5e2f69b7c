// Package detector runs classical Haar cascade face detection over decoded
// rasters. Cascade handles are loaded once at startup and are read-only
// afterwards.
package detector

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/imaging"
)

const (
	frontalCascadeFile = "haarcascade_frontalface_default.xml"
	profileCascadeFile = "haarcascade_profileface.xml"

	scaleFactor  = 1.1
	minNeighbors = 3
)

// Config holds detection tunables.
type Config struct {
	// CascadeDir contains the Haar cascade XML files.
	CascadeDir string
	// MinFaceSize is the detection floor in pixels; smaller candidates are
	// excluded by the cascade pass itself.
	MinFaceSize int
}

type pass struct {
	name       string
	classifier gocv.CascadeClassifier
}

// State reports whether local detection is operational. When Ready is false
// the detector is degraded: every call returns the whole raster as a
// zero-confidence fallback box instead of failing the request.
type State struct {
	Ready  bool
	Passes []string
}

// Detector runs every configured cascade pass and selects the single best
// candidate. Safe for concurrent use after construction.
type Detector struct {
	cfg    Config
	ready  bool
	passes []pass
}

// New loads the frontal and profile cascades. Missing or corrupt cascade
// files do not fail startup: the detector comes up degraded and the service
// keeps accepting uploads, forwarding whole images to the remote recognizer.
// The condition is logged once here, not per request.
func New(cfg Config, logger *slog.Logger) *Detector {
	d := &Detector{cfg: cfg}

	names := []string{frontalCascadeFile, profileCascadeFile}
	for _, name := range names {
		path := filepath.Join(cfg.CascadeDir, name)
		cls, err := loadCascade(path)
		if err != nil {
			logger.Error("face detection DISABLED, running degraded: every upload is forwarded uncropped",
				slog.String("cascade", name),
				slog.Any("error", err),
			)
			d.closePasses()
			d.passes = nil
			d.ready = false
			return d
		}
		d.passes = append(d.passes, pass{name: passName(name), classifier: cls})
	}

	d.ready = true
	logger.Info("face detector initialized",
		slog.Int("passes", len(d.passes)),
		slog.Int("min_face_size", cfg.MinFaceSize),
	)
	return d
}

func passName(file string) string {
	if file == profileCascadeFile {
		return "profile"
	}
	return "frontal"
}

func loadCascade(path string) (gocv.CascadeClassifier, error) {
	if _, err := os.Stat(path); err != nil {
		return gocv.CascadeClassifier{}, fmt.Errorf("cascade file not found: %w", err)
	}
	cls := gocv.NewCascadeClassifier()
	if !cls.Load(path) {
		cls.Close()
		return gocv.CascadeClassifier{}, fmt.Errorf("failed to load cascade %s", path)
	}
	return cls, nil
}

// State exposes the loaded-vs-degraded flag for operators.
func (d *Detector) State() State {
	s := State{Ready: d.ready}
	for _, p := range d.passes {
		s.Passes = append(s.Passes, p.name)
	}
	return s
}

// Close releases the cascade handles.
func (d *Detector) Close() {
	d.closePasses()
}

func (d *Detector) closePasses() {
	for _, p := range d.passes {
		p.classifier.Close()
	}
}

// DetectBestFace runs every cascade pass over the raster and returns the
// candidate maximizing (area, confidence). Cascade hits carry confidence 1;
// ties are broken purely by geometry. Fails with ErrNoFaceDetected when all
// passes come back empty.
func (d *Detector) DetectBestFace(img gocv.Mat) (domain.BoundingBox, error) {
	if !d.ready {
		return domain.BoundingBox{
			X:          0,
			Y:          0,
			Width:      img.Cols(),
			Height:     img.Rows(),
			Confidence: 0,
		}, nil
	}

	gray := imaging.Grayscale(img)
	defer gray.Close()

	var boxes []domain.BoundingBox
	minSize := image.Pt(d.cfg.MinFaceSize, d.cfg.MinFaceSize)
	for _, p := range d.passes {
		rects := p.classifier.DetectMultiScaleWithParams(
			gray,
			scaleFactor,
			minNeighbors,
			0,
			minSize,
			image.Point{}, // no upper bound
		)
		for _, r := range rects {
			boxes = append(boxes, domain.BoundingBox{
				X:          r.Min.X,
				Y:          r.Min.Y,
				Width:      r.Dx(),
				Height:     r.Dy(),
				Confidence: 1.0,
			})
		}
	}

	best, ok := domain.BestBox(boxes)
	if !ok {
		return domain.BoundingBox{}, domain.ErrNoFaceDetected
	}
	return best, nil
}
