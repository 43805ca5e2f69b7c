package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/appearly/facegate/internal/domain"
	"github.com/appearly/facegate/internal/faceapi"
)

// Phase is the state of a registration run. The flow is strictly
// Validating → Committing → Submitting → Done, with Failed reachable from
// any phase. Making the phases explicit keeps the non-rollback behavior
// after Submitting a testable transition instead of a side effect of error
// propagation.
type Phase string

const (
	PhaseValidating Phase = "validating"
	PhaseCommitting Phase = "committing"
	PhaseSubmitting Phase = "submitting"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// RegistrationRequest is the transient input for one registration run.
type RegistrationRequest struct {
	Name       string
	Model      string
	MinQuality *int
	Images     map[domain.Angle][]byte
}

// RegistrationResult reports where the run ended and, on success, the
// backend's outcome verbatim.
type RegistrationResult struct {
	Phase    Phase
	Employee *domain.Employee
	Outcome  *faceapi.RegisterResponse
}

// RegistrationService orchestrates the five-angle capture-then-register
// workflow against the recognition backend.
type RegistrationService struct {
	pipeline FacePipeline
	client   RecognitionClient
	store    IdentityStore
	defaults Defaults
	logger   *slog.Logger
}

func NewRegistrationService(pipeline FacePipeline, client RecognitionClient, store IdentityStore, defaults Defaults, logger *slog.Logger) *RegistrationService {
	return &RegistrationService{
		pipeline: pipeline,
		client:   client,
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

// Register runs the registration state machine.
//
// No identity is durably created unless all five angle images independently
// contain a detectable face (the detectability gate). Creating a person and
// then discovering a faceless angle photo is recoverable locally; undoing a
// partial face set the remote recognizer already indexed is not, so
// validation happens strictly before the commit.
//
// A failure after Committing is NOT rolled back: the identity record
// persists with whatever partial registration the backend accepted. The
// result's Phase reports where the run stopped.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	result := &RegistrationResult{Phase: PhaseValidating}

	model, err := domain.NormalizeModel(req.Model, s.defaults.Model)
	if err != nil {
		result.Phase = PhaseFailed
		return result, err
	}

	if err := domain.ValidateAngleSet(req.Images); err != nil {
		result.Phase = PhaseFailed
		return result, err
	}

	// Detectability gate: every angle must yield a face before anything is
	// persisted or sent over the wire.
	for _, angle := range domain.Angles() {
		if _, err := s.pipeline.Detect(req.Images[angle]); err != nil {
			result.Phase = PhaseFailed
			if errors.Is(err, domain.ErrNoFaceDetected) {
				return result, domain.ErrNoFaceDetected.WithMessage(
					fmt.Sprintf("no face detected in %s angle image. All 5 images must contain clearly visible faces", angle))
			}
			return result, fmt.Errorf("validate %s angle image: %w", angle, err)
		}
	}

	result.Phase = PhaseCommitting
	employee := &domain.Employee{Name: req.Name, Model: string(model)}
	if err := s.store.Create(ctx, employee); err != nil {
		result.Phase = PhaseFailed
		return result, err
	}
	result.Employee = employee

	result.Phase = PhaseSubmitting
	crops := make([][]byte, 0, len(domain.Angles()))
	for _, angle := range domain.Angles() {
		detection, err := s.pipeline.DetectCrop(req.Images[angle])
		if err != nil {
			// Identity already committed; reported, not rolled back.
			result.Phase = PhaseFailed
			return result, fmt.Errorf("crop %s angle image: %w", angle, err)
		}
		crops = append(crops, detection.Cropped)
	}

	minQuality := req.MinQuality
	if minQuality == nil {
		q := s.defaults.MinQuality
		minQuality = &q
	}

	s.logger.Info("registering person",
		slog.String("name", req.Name),
		slog.String("model", string(model)),
		slog.Int("min_quality", *minQuality),
	)

	outcome, err := s.client.Register(ctx, req.Name, crops, model, minQuality)
	if err != nil {
		result.Phase = PhaseFailed
		return result, domain.ErrUpstream.WithError(err)
	}

	result.Phase = PhaseDone
	result.Outcome = outcome

	if outcome.FailedCount > 0 {
		// Accepted partial state: identity exists, some angles rejected
		// remotely. Surfaced in the outcome, never rolled back here.
		s.logger.Warn("backend rejected some angle images",
			slog.String("name", req.Name),
			slog.Int("registered", outcome.TotalRegistered),
			slog.Int("failed", outcome.FailedCount),
		)
	}

	return result, nil
}
