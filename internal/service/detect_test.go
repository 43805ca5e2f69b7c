package service

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appearly/facegate/internal/domain"
)

func TestDetectService_Detect_BoxOnly(t *testing.T) {
	pipeline := new(MockFacePipeline)
	pipeline.On("Detect", mock.Anything).Return(domain.BoundingBox{X: 10, Y: 20, Width: 100, Height: 120, Confidence: 1.0}, nil)

	svc := NewDetectService(pipeline, t.TempDir(), testLogger())
	result, err := svc.Detect([]byte("img"), "photo.jpg", false)

	require.NoError(t, err)
	assert.Equal(t, 10, result.Box.X)
	assert.Equal(t, 120, result.Box.Height)
	assert.Empty(t, result.CroppedBase64)
	assert.Empty(t, result.SavedPath)
	pipeline.AssertNotCalled(t, "DetectCrop", mock.Anything)
}

func TestDetectService_Detect_WithCrop(t *testing.T) {
	pipeline := new(MockFacePipeline)
	crop := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	pipeline.On("DetectCrop", mock.Anything).Return(domain.DetectionResult{
		Box:     domain.BoundingBox{X: 1, Y: 2, Width: 30, Height: 40, Confidence: 1.0},
		Cropped: crop,
	}, nil)

	dir := t.TempDir()
	svc := NewDetectService(pipeline, dir, testLogger())
	result, err := svc.Detect([]byte("img"), "team photo (1).jpg", true)

	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(crop), result.CroppedBase64)
	require.NotEmpty(t, result.SavedPath)

	name := filepath.Base(result.SavedPath)
	assert.True(t, strings.HasPrefix(name, "detect_crop_team_photo__1__"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	written, err := os.ReadFile(result.SavedPath)
	require.NoError(t, err)
	assert.Equal(t, crop, written)
}

func TestDetectService_Detect_NoFace(t *testing.T) {
	pipeline := new(MockFacePipeline)
	pipeline.On("Detect", mock.Anything).Return(domain.BoundingBox{}, domain.ErrNoFaceDetected)

	svc := NewDetectService(pipeline, t.TempDir(), testLogger())
	_, err := svc.Detect([]byte("img"), "photo.jpg", false)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoFaceDetected)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "selfie.jpg", expected: "selfie"},
		{name: "spaces and parens", input: "team photo (1).png", expected: "team_photo__1_"},
		{name: "path separators", input: "../../etc/passwd", expected: "______etc_passwd"},
		{name: "empty", input: "", expected: "unknown"},
		{name: "only extension", input: ".jpg", expected: "unknown"},
		{
			name:     "truncated to fifty",
			input:    strings.Repeat("a", 80) + ".jpg",
			expected: strings.Repeat("a", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeFilename(tt.input))
		})
	}
}
