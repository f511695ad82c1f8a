package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfcare/prognosis/internal/application/dto"
	"github.com/cfcare/prognosis/internal/application/usecase"
	"github.com/cfcare/prognosis/internal/domain/service"
)

func TestEvaluateBatch_Execute(t *testing.T) {
	repo := &mockRepository{}
	publisher := &mockPublisher{}
	evaluate := usecase.NewEvaluatePatient(repo, publisher, service.NewSurvivalModel())
	uc := usecase.NewEvaluateBatch(evaluate)

	goodPatient := uuid.New()
	badPatient := uuid.New()

	req := dto.EvaluateBatchRequest{
		TenantID: uuid.New(),
		Items: []dto.EvaluateBatchItem{
			{
				PatientID:                    goodPatient,
				Age:                          16,
				FVCPercentPredicted:          66.7,
				FEV1PercentPredicted:         47.4,
				FEV1PercentPredictedLastYear: 80.5,
				PancreaticInsufficient:       true,
				AgeAtDiagnosis:               0.9,
			},
			{
				PatientID:            badPatient,
				Age:                  20,
				FVCPercentPredicted:  80,
				FEV1PercentPredicted: 0, // invalid, must not abort the batch
				AgeAtDiagnosis:       1,
			},
			{
				PatientID:                    goodPatient,
				Age:                          44,
				Male:                         true,
				FVCPercentPredicted:          72.95,
				FEV1PercentPredicted:         55.5,
				FEV1PercentPredictedLastYear: 52.5,
				Underweight:                  true,
				AgeAtDiagnosis:               29,
			},
		},
	}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	first := resp.Results[0]
	assert.Equal(t, goodPatient, first.PatientID)
	require.NotNil(t, first.Evaluation)
	assert.Equal(t, "99.01", first.Evaluation.FirstYearSurvivalPercent)
	assert.Empty(t, first.Error)

	second := resp.Results[1]
	assert.Equal(t, badPatient, second.PatientID)
	assert.Nil(t, second.Evaluation)
	assert.NotEmpty(t, second.Error)

	third := resp.Results[2]
	require.NotNil(t, third.Evaluation)
	assert.Equal(t, "91.14", third.Evaluation.FirstYearSurvivalPercent)

	// only the two valid items reached persistence
	assert.Len(t, repo.saved, 2)
}

func TestEvaluateBatch_EmptyBatch(t *testing.T) {
	evaluate := usecase.NewEvaluatePatient(&mockRepository{}, &mockPublisher{}, service.NewSurvivalModel())
	uc := usecase.NewEvaluateBatch(evaluate)

	resp, err := uc.Execute(context.Background(), dto.EvaluateBatchRequest{TenantID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}
