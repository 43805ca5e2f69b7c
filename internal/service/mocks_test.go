package service

import (
	"context"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/faceapi"
)

type MockFacePipeline struct {
	mock.Mock
}

func (m *MockFacePipeline) Detect(image []byte) (domain.BoundingBox, error) {
	args := m.Called(image)
	return args.Get(0).(domain.BoundingBox), args.Error(1)
}

func (m *MockFacePipeline) DetectCrop(image []byte) (domain.DetectionResult, error) {
	args := m.Called(image)
	return args.Get(0).(domain.DetectionResult), args.Error(1)
}

type MockRecognitionClient struct {
	mock.Mock
}

func (m *MockRecognitionClient) Register(ctx context.Context, name string, crops [][]byte, model domain.Model, minQuality *int) (*faceapi.RegisterResponse, error) {
	args := m.Called(ctx, name, crops, model, minQuality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceapi.RegisterResponse), args.Error(1)
}

func (m *MockRecognitionClient) Recognize(ctx context.Context, crop []byte, model domain.Model, threshold float64) (map[string]any, error) {
	args := m.Called(ctx, crop, model, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockRecognitionClient) DatabaseInfo(ctx context.Context, model domain.Model) (map[string]any, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *MockRecognitionClient) SaveDatabase(ctx context.Context, path string) (*faceapi.SaveResponse, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceapi.SaveResponse), args.Error(1)
}

func (m *MockRecognitionClient) DeletePerson(ctx context.Context, name string, model domain.Model) (*faceapi.DeleteResponse, error) {
	args := m.Called(ctx, name, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*faceapi.DeleteResponse), args.Error(1)
}

type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) Create(ctx context.Context, employee *domain.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockIdentityStore) DeleteByName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testDefaults() Defaults {
	return Defaults{Model: "magface", Threshold: 0.5, MinQuality: 1}
}

func fullAngleSet() map[domain.Angle][]byte {
	images := make(map[domain.Angle][]byte)
	for _, a := range domain.Angles() {
		images[a] = []byte("img-" + string(a))
	}
	return images
}
