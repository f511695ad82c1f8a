package usecase

import (
	"context"
	"fmt"

	"github.com/cfcare/prognosis/internal/application/dto"
	"github.com/cfcare/prognosis/internal/domain/port"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListEvaluations is the use case for paging through a patient's evaluation
// history, newest first.
type ListEvaluations struct {
	repo port.EvaluationRepository
}

// NewListEvaluations creates a new ListEvaluations use case.
func NewListEvaluations(repo port.EvaluationRepository) *ListEvaluations {
	return &ListEvaluations{repo: repo}
}

// Execute retrieves a page of evaluations for a patient.
func (uc *ListEvaluations) Execute(ctx context.Context, req dto.ListEvaluationsRequest) ([]dto.EvaluationResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	evaluations, err := uc.repo.FindByPatientID(ctx, req.TenantID, req.PatientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	responses := make([]dto.EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, dto.FromModel(evaluation))
	}
	return responses, nil
}
