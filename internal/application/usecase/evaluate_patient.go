package usecase

import (
	"context"
	"fmt"

	"github.com/cfcare/prognosis/internal/application/dto"
	"github.com/cfcare/prognosis/internal/domain/model"
	"github.com/cfcare/prognosis/internal/domain/port"
	"github.com/cfcare/prognosis/internal/domain/service"
)

// EvaluatePatient is the use case for running the survival model against a
// patient's clinical record.
type EvaluatePatient struct {
	repo      port.EvaluationRepository
	publisher port.EventPublisher
	predictor service.Predictor
}

// NewEvaluatePatient creates a new EvaluatePatient use case.
func NewEvaluatePatient(
	repo port.EvaluationRepository,
	publisher port.EventPublisher,
	predictor service.Predictor,
) *EvaluatePatient {
	return &EvaluatePatient{
		repo:      repo,
		publisher: publisher,
		predictor: predictor,
	}
}

// Execute runs the model, persists the evaluation, and publishes events.
func (uc *EvaluatePatient) Execute(ctx context.Context, req dto.EvaluatePatientRequest) (dto.EvaluationResponse, error) {
	evaluation, err := model.NewPatientEvaluation(req.TenantID, req.PatientID, req.ClinicalRecord())
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to create evaluation: %w", err)
	}

	estimate, err := uc.predictor.Predict(evaluation.ClinicalRecord())
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to predict survival: %w", err)
	}

	if err := evaluation.ApplyEstimate(estimate); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to apply estimate: %w", err)
	}

	if err := uc.repo.Save(ctx, evaluation); err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to save evaluation: %w", err)
	}

	events := evaluation.DomainEvents()
	if len(events) > 0 {
		if err := uc.publisher.Publish(ctx, events...); err != nil {
			return dto.EvaluationResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	return dto.FromModel(evaluation), nil
}
