package domain

import (
	"fmt"
	"strings"
)

// Angle is one of the five photograph poses required to register a person.
type Angle string

const (
	AngleFront Angle = "front"
	AngleLeft  Angle = "left"
	AngleRight Angle = "right"
	AngleUp    Angle = "up"
	AngleDown  Angle = "down"
)

// Angles lists every required angle in canonical order.
func Angles() []Angle {
	return []Angle{AngleFront, AngleLeft, AngleRight, AngleUp, AngleDown}
}

// ParseAngle resolves a case-insensitive angle key. An unknown key is a
// caller error, never defaulted.
func ParseAngle(key string) (Angle, error) {
	switch Angle(strings.ToLower(strings.TrimSpace(key))) {
	case AngleFront:
		return AngleFront, nil
	case AngleLeft:
		return AngleLeft, nil
	case AngleRight:
		return AngleRight, nil
	case AngleUp:
		return AngleUp, nil
	case AngleDown:
		return AngleDown, nil
	}
	return "", ErrValidationFailed.WithMessage(fmt.Sprintf("invalid face angle %q", key))
}

// MissingAngles returns the angles absent or empty in the given image set,
// in canonical order. An empty result means the set is complete.
func MissingAngles(images map[Angle][]byte) []Angle {
	var missing []Angle
	for _, a := range Angles() {
		if len(images[a]) == 0 {
			missing = append(missing, a)
		}
	}
	return missing
}

// ValidateAngleSet requires exactly the five angles with non-empty payloads.
func ValidateAngleSet(images map[Angle][]byte) error {
	if missing := MissingAngles(images); len(missing) > 0 {
		keys := make([]string, len(missing))
		for i, a := range missing {
			keys[i] = string(a)
		}
		return ErrValidationFailed.WithMessage(
			fmt.Sprintf("missing required face angles: %s. All 5 angles must be provided", strings.Join(keys, ", ")))
	}
	return nil
}

// Model identifies one of the two supported remote recognition backends.
type Model string

const (
	ModelMagFace  Model = "magface"
	ModelQMagFace Model = "qmagface"
)

// NormalizeModel trims and lowercases the caller-supplied model identifier
// and validates it against the supported backends. A blank input is replaced
// by def before validation, so a misconfigured default fails loudly instead
// of being passed through. The function is idempotent.
func NormalizeModel(input, def string) (Model, error) {
	if strings.TrimSpace(input) == "" {
		input = def
	}

	normalized := Model(strings.ToLower(strings.TrimSpace(input)))
	switch normalized {
	case ModelMagFace, ModelQMagFace:
		return normalized, nil
	}

	return "", ErrInvalidModel.WithMessage(
		fmt.Sprintf("invalid model %q. Must be %q or %q", input, ModelMagFace, ModelQMagFace))
}

// BoundingBox is a face region in raster pixel coordinates. Confidence is 1
// for cascade hits and 0 for the degraded-mode whole-image fallback.
type BoundingBox struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// Area is the ranking key for candidate selection.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// BestBox picks the candidate with the largest area, breaking ties by
// confidence. Cascade detectors report no calibrated confidence, so geometry
// decides: in full-body shots spurious small hits vastly outnumber spurious
// large ones. Returns false when the list is empty.
func BestBox(boxes []BoundingBox) (BoundingBox, bool) {
	if len(boxes) == 0 {
		return BoundingBox{}, false
	}
	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Area() > best.Area() ||
			(b.Area() == best.Area() && b.Confidence > best.Confidence) {
			best = b
		}
	}
	return best, true
}

// DetectionResult pairs the selected box with the encoded crop. It is
// consumed immediately by an orchestrator and never persisted.
type DetectionResult struct {
	Box     BoundingBox
	Cropped []byte
}
