package detector

import (
	"gocv.io/x/gocv"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/imaging"
)

// Cropper extracts a margin-expanded face region and re-encodes it as JPEG
// for transport to the recognition backend.
type Cropper struct {
	// MarginHorizontal and MarginVertical are fractions of the box width and
	// height respectively.
	MarginHorizontal float64
	MarginVertical   float64
}

// Crop cuts the clamped crop rectangle out of the raster and encodes it.
// The region view shares the parent stride, so it is cloned into a
// contiguous buffer first; encoding a non-contiguous view corrupts output.
func (c Cropper) Crop(img gocv.Mat, box domain.BoundingBox) ([]byte, error) {
	rect := CropRect(box, img.Cols(), img.Rows(), c.MarginHorizontal, c.MarginVertical)

	region := img.Region(rect)
	defer region.Close()

	contiguous := region.Clone()
	defer contiguous.Close()

	return imaging.EncodeJPEG(contiguous)
}
