package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/appearly/facegate/internal/api/middleware"
	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/faceapi"
	"github.com/appearly/facegate/internal/service"
)

// MockRegistrationService is a mock implementation of RegistrationService
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Register(ctx context.Context, req service.RegistrationRequest) (*service.RegistrationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegistrationResult), args.Error(1)
}

// MockRecognitionService is a mock implementation of RecognitionService
type MockRecognitionService struct {
	mock.Mock
}

func (m *MockRecognitionService) Recognize(ctx context.Context, image []byte, model string, threshold *float64) (*service.RecognitionResult, error) {
	args := m.Called(ctx, image, model, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecognitionResult), args.Error(1)
}

// MockDetectService is a mock implementation of DetectService
type MockDetectService struct {
	mock.Mock
}

func (m *MockDetectService) Detect(image []byte, originalFilename string, includeCrop bool) (*service.DetectResult, error) {
	args := m.Called(image, originalFilename, includeCrop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DetectResult), args.Error(1)
}

// MockDatabaseService is a mock implementation of DatabaseService
type MockDatabaseService struct {
	mock.Mock
}

func (m *MockDatabaseService) Info(ctx context.Context, model string) (*service.DatabaseInfo, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DatabaseInfo), args.Error(1)
}

func (m *MockDatabaseService) Save(ctx context.Context, path string) (*faceapi.SaveResponse, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceapi.SaveResponse), args.Error(1)
}

func (m *MockDatabaseService) DeletePerson(ctx context.Context, name, model string) (*faceapi.DeleteResponse, error) {
	args := m.Called(ctx, name, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceapi.DeleteResponse), args.Error(1)
}

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFaceApp(h *FaceHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
	app.Post("/v1/faces/register", h.Register)
	app.Post("/v1/faces/recognize", h.Recognize)
	app.Post("/v1/faces/detect", h.Detect)
	return app
}

func addImagePart(writer *multipart.Writer, field string, content []byte) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+field+`.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, _ := writer.CreatePart(h)
	_, _ = part.Write(content)
}

func buildRegisterBody(name string, angles []domain.Angle) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if name != "" {
		_ = writer.WriteField("name", name)
	}
	for _, a := range angles {
		addImagePart(writer, string(a), []byte("img-"+string(a)))
	}
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func buildImageBody(field string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	addImagePart(writer, field, content)
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func TestFaceHandler_Register_Success(t *testing.T) {
	registration := new(MockRegistrationService)
	handler := NewFaceHandler(registration, nil, nil, testLogger())

	registration.On("Register", mock.Anything, mock.MatchedBy(func(req service.RegistrationRequest) bool {
		return req.Name == "alice" && len(req.Images) == 5 && req.MinQuality == nil
	})).Return(&service.RegistrationResult{
		Phase: service.PhaseDone,
		Outcome: &faceapi.RegisterResponse{
			Success:         true,
			Name:            "alice",
			ModelUsed:       "magface",
			TotalRegistered: 5,
		},
	}, nil)

	body, contentType := buildRegisterBody("alice", domain.Angles())
	req := httptest.NewRequest("POST", "/v1/faces/register", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var got RegisterResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Success)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 5, got.TotalRegistered)
	registration.AssertExpectations(t)
}

func TestFaceHandler_Register_MissingName(t *testing.T) {
	registration := new(MockRegistrationService)
	handler := NewFaceHandler(registration, nil, nil, testLogger())

	body, contentType := buildRegisterBody("", domain.Angles())
	req := httptest.NewRequest("POST", "/v1/faces/register", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, 422, resp.StatusCode)
	registration.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestFaceHandler_Register_MissingAnglePassedThrough(t *testing.T) {
	registration := new(MockRegistrationService)
	handler := NewFaceHandler(registration, nil, nil, testLogger())

	// The handler forwards a partial set; the workflow reports what is
	// missing.
	registration.On("Register", mock.Anything, mock.MatchedBy(func(req service.RegistrationRequest) bool {
		_, hasDown := req.Images[domain.AngleDown]
		return len(req.Images) == 4 && !hasDown
	})).Return(&service.RegistrationResult{Phase: service.PhaseFailed},
		domain.ErrValidationFailed.WithMessage("missing required face angles: down. All 5 angles must be provided"))

	body, contentType := buildRegisterBody("alice", []domain.Angle{
		domain.AngleFront, domain.AngleLeft, domain.AngleRight, domain.AngleUp,
	})
	req := httptest.NewRequest("POST", "/v1/faces/register", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, 422, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "missing required face angles: down")
}

func TestFaceHandler_Register_QueryParams(t *testing.T) {
	registration := new(MockRegistrationService)
	handler := NewFaceHandler(registration, nil, nil, testLogger())

	registration.On("Register", mock.Anything, mock.MatchedBy(func(req service.RegistrationRequest) bool {
		return req.Model == "qmagface" && req.MinQuality != nil && *req.MinQuality == 2
	})).Return(&service.RegistrationResult{
		Phase:   service.PhaseDone,
		Outcome: &faceapi.RegisterResponse{Success: true, TotalRegistered: 5},
	}, nil)

	body, contentType := buildRegisterBody("alice", domain.Angles())
	req := httptest.NewRequest("POST", "/v1/faces/register?model=qmagface&min_quality=2", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	registration.AssertExpectations(t)
}

func TestFaceHandler_Register_BadMinQuality(t *testing.T) {
	registration := new(MockRegistrationService)
	handler := NewFaceHandler(registration, nil, nil, testLogger())

	body, contentType := buildRegisterBody("alice", domain.Angles())
	req := httptest.NewRequest("POST", "/v1/faces/register?min_quality=high", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, 422, resp.StatusCode)
	registration.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestFaceHandler_Recognize(t *testing.T) {
	recognition := new(MockRecognitionService)
	handler := NewFaceHandler(nil, recognition, nil, testLogger())

	recognition.On("Recognize", mock.Anything, []byte("probe-bytes"), "magface", mock.MatchedBy(func(th *float64) bool {
		return th != nil && *th == 0.7
	})).Return(&service.RecognitionResult{Name: "alice", Confidence: 0.93}, nil)

	body, contentType := buildImageBody("image", []byte("probe-bytes"))
	req := httptest.NewRequest("POST", "/v1/faces/recognize?model=magface&threshold=0.7", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got RecognizeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "alice", got.Name)
	assert.InDelta(t, 0.93, got.Confidence, 1e-9)
}

func TestFaceHandler_Recognize_NoFace(t *testing.T) {
	recognition := new(MockRecognitionService)
	handler := NewFaceHandler(nil, recognition, nil, testLogger())

	recognition.On("Recognize", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrNoFaceDetected)

	body, contentType := buildImageBody("image", []byte("probe"))
	req := httptest.NewRequest("POST", "/v1/faces/recognize", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, 422, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "NO_FACE_DETECTED")
}

func TestFaceHandler_Recognize_MissingImage(t *testing.T) {
	recognition := new(MockRecognitionService)
	handler := NewFaceHandler(nil, recognition, nil, testLogger())

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/v1/faces/recognize", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, 422, resp.StatusCode)
}

func TestFaceHandler_Detect(t *testing.T) {
	detection := new(MockDetectService)
	handler := NewFaceHandler(nil, nil, detection, testLogger())

	detection.On("Detect", []byte("probe"), "image.jpg", true).Return(&service.DetectResult{
		Box:           domain.BoundingBox{X: 10, Y: 20, Width: 100, Height: 110, Confidence: 1.0},
		CroppedBase64: "aGVsbG8=",
		SavedPath:     "data/crops/detect_crop_image_20250101_000000_abcd1234.jpg",
	}, nil)

	body, contentType := buildImageBody("image", []byte("probe"))
	req := httptest.NewRequest("POST", "/v1/faces/detect?include_crop=true", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got DetectResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 10, got.Box.X)
	assert.Equal(t, 110, got.Box.Height)
	assert.Equal(t, "aGVsbG8=", got.CroppedBase64)
	assert.NotEmpty(t, got.SavedPath)
	detection.AssertExpectations(t)
}

func TestFaceHandler_Detect_BoxOnlyByDefault(t *testing.T) {
	detection := new(MockDetectService)
	handler := NewFaceHandler(nil, nil, detection, testLogger())

	detection.On("Detect", mock.Anything, "image.jpg", false).
		Return(&service.DetectResult{Box: domain.BoundingBox{Width: 50, Height: 50, Confidence: 1.0}}, nil)

	body, contentType := buildImageBody("image", []byte("probe"))
	req := httptest.NewRequest("POST", "/v1/faces/detect", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := newFaceApp(handler).Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	detection.AssertExpectations(t)
}
