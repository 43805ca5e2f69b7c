package service

import (
	"context"
	"log/slog"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/faceapi"
)

// DatabaseInfo summarizes the backend's stored state for one model.
type DatabaseInfo struct {
	Model        string
	TotalPersons int
	TotalFaces   int
	Details      map[string]any
}

// DatabaseService exposes administrative passthroughs to the recognition
// backend's face database.
type DatabaseService struct {
	client   RecognitionClient
	store    IdentityStore
	defaults Defaults
	logger   *slog.Logger
}

func NewDatabaseService(client RecognitionClient, store IdentityStore, defaults Defaults, logger *slog.Logger) *DatabaseService {
	return &DatabaseService{
		client:   client,
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

// Info fetches backend statistics for the normalized model.
func (s *DatabaseService) Info(ctx context.Context, model string) (*DatabaseInfo, error) {
	normalized, err := domain.NormalizeModel(model, s.defaults.Model)
	if err != nil {
		return nil, err
	}

	raw, err := s.client.DatabaseInfo(ctx, normalized)
	if err != nil {
		return nil, domain.ErrUpstream.WithError(err)
	}

	info := &DatabaseInfo{Model: string(normalized), Details: raw}
	if v, ok := raw["total_persons"].(float64); ok {
		info.TotalPersons = int(v)
	}
	if v, ok := raw["total_faces"].(float64); ok {
		info.TotalFaces = int(v)
	}

	return info, nil
}

// Save asks the backend to persist its face database, optionally to a
// custom path.
func (s *DatabaseService) Save(ctx context.Context, path string) (*faceapi.SaveResponse, error) {
	resp, err := s.client.SaveDatabase(ctx, path)
	if err != nil {
		return nil, domain.ErrUpstream.WithError(err)
	}
	return resp, nil
}

// DeletePerson removes a person from the backend database and, when the
// backend confirms the removal, drops the local identity row as well. The
// backend's reply is authoritative for the caller; local cleanup is best
// effort. Deleting a person unknown to the backend is not an error.
func (s *DatabaseService) DeletePerson(ctx context.Context, name, model string) (*faceapi.DeleteResponse, error) {
	normalized, err := domain.NormalizeModel(model, s.defaults.Model)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DeletePerson(ctx, name, normalized)
	if err != nil {
		return nil, domain.ErrUpstream.WithError(err)
	}

	if resp.Success {
		if err := s.store.DeleteByName(ctx, name); err != nil {
			s.logger.Warn("failed to remove local identity record",
				slog.String("name", name),
				slog.Any("error", err),
			)
		}
	}

	return resp, nil
}
