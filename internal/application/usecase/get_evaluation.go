package usecase

import (
	"context"
	"fmt"

	"github.com/cfcare/prognosis/internal/application/dto"
	"github.com/cfcare/prognosis/internal/domain/port"
)

// GetEvaluation is the use case for retrieving an existing evaluation.
type GetEvaluation struct {
	repo port.EvaluationRepository
}

// NewGetEvaluation creates a new GetEvaluation use case.
func NewGetEvaluation(repo port.EvaluationRepository) *GetEvaluation {
	return &GetEvaluation{repo: repo}
}

// Execute retrieves a patient evaluation by ID.
func (uc *GetEvaluation) Execute(ctx context.Context, req dto.GetEvaluationRequest) (dto.EvaluationResponse, error) {
	evaluation, err := uc.repo.FindByID(ctx, req.TenantID, req.EvaluationID)
	if err != nil {
		return dto.EvaluationResponse{}, fmt.Errorf("failed to find evaluation: %w", err)
	}
	if evaluation == nil {
		return dto.EvaluationResponse{}, fmt.Errorf("evaluation not found: %s", req.EvaluationID)
	}

	return dto.FromModel(evaluation), nil
}
