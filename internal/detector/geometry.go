package detector

import (
	"image"
	"math"

	"github.com/appearly/facegate/internal/domain"
)

// CropRect expands a face box by independent horizontal and vertical margin
// fractions and clamps the result to the raster. Full-body photographs need
// more vertical headroom than horizontal, hence the asymmetric margins.
//
// The construction guarantees the rectangle never leaves the raster:
// x and y are floored at 0, width and height are capped by the remaining
// raster extent. No downstream bounds check is needed.
func CropRect(box domain.BoundingBox, rasterWidth, rasterHeight int, marginH, marginV float64) image.Rectangle {
	marginX := int(math.Round(float64(box.Width) * marginH))
	marginY := int(math.Round(float64(box.Height) * marginV))

	x := box.X - marginX
	if x < 0 {
		x = 0
	}
	y := box.Y - marginY
	if y < 0 {
		y = 0
	}

	width := box.Width + 2*marginX
	if width > rasterWidth-x {
		width = rasterWidth - x
	}
	height := box.Height + 2*marginY
	if height > rasterHeight-y {
		height = rasterHeight - y
	}

	return image.Rect(x, y, x+width, y+height)
}
