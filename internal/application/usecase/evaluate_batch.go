package usecase

import (
	"context"

	"github.com/cfcare/prognosis/internal/application/dto"
)

// EvaluateBatch runs the survival model over multiple patient records in one
// call. Items fail independently so one invalid record never aborts the batch.
type EvaluateBatch struct {
	evaluate *EvaluatePatient
}

// NewEvaluateBatch creates a new EvaluateBatch use case.
func NewEvaluateBatch(evaluate *EvaluatePatient) *EvaluateBatch {
	return &EvaluateBatch{evaluate: evaluate}
}

// Execute evaluates every item and collects per-item outcomes in order.
func (uc *EvaluateBatch) Execute(ctx context.Context, req dto.EvaluateBatchRequest) (dto.EvaluateBatchResponse, error) {
	results := make([]dto.EvaluateBatchResult, 0, len(req.Items))
	for _, item := range req.Items {
		result := dto.EvaluateBatchResult{PatientID: item.PatientID}

		resp, err := uc.evaluate.Execute(ctx, item.Request(req.TenantID))
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Evaluation = &resp
		}
		results = append(results, result)
	}
	return dto.EvaluateBatchResponse{Results: results}, nil
}
