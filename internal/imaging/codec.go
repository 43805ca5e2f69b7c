// Package imaging wraps image decode/encode for the face pipeline. Rasters
// are gocv Mats: owned by the call that decoded them and released before the
// request returns.
package imaging

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/appearly/facegate/internal/domain"
)

// Decode turns uploaded bytes into a BGR raster. The caller owns the Mat and
// must Close it.
func Decode(data []byte) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.Mat{}, domain.ErrInvalidImage.WithError(errors.New("empty image payload"))
	}

	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, domain.ErrInvalidImage.WithError(err)
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, domain.ErrInvalidImage.WithError(errors.New("undecodable image bytes"))
	}

	return img, nil
}

// EncodeJPEG re-encodes a raster for transport to the recognition backend.
// The input must be memory-contiguous (Clone a Region before calling).
func EncodeJPEG(img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}
	defer buf.Close()

	// The native buffer is freed on Close, copy out.
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// Grayscale converts a BGR raster for cascade detection. Caller owns the
// returned Mat.
func Grayscale(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	return gray
}
