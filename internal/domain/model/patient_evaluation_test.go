package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfcare/prognosis/internal/domain/event"
	"github.com/cfcare/prognosis/internal/domain/model"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
)

func testRecord() valueobject.ClinicalRecord {
	return valueobject.ClinicalRecord{
		Age:                          28,
		FVCPercentPredicted:          82.5,
		FEV1PercentPredicted:         64.1,
		FEV1PercentPredictedLastYear: 68.3,
		PancreaticInsufficient:       true,
		AgeAtDiagnosis:               3.5,
	}
}

func TestNewPatientEvaluation(t *testing.T) {
	tenantID := uuid.New()
	patientID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		evaluation, err := model.NewPatientEvaluation(tenantID, patientID, testRecord())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, evaluation.ID())
		assert.Equal(t, tenantID, evaluation.TenantID())
		assert.Equal(t, patientID, evaluation.PatientID())
		assert.Equal(t, 1, evaluation.Version())
		assert.True(t, evaluation.Estimate().IsZero())
		assert.Empty(t, evaluation.DomainEvents())
	})

	t.Run("nil tenant", func(t *testing.T) {
		_, err := model.NewPatientEvaluation(uuid.Nil, patientID, testRecord())
		assert.Error(t, err)
	})

	t.Run("nil patient", func(t *testing.T) {
		_, err := model.NewPatientEvaluation(tenantID, uuid.Nil, testRecord())
		assert.Error(t, err)
	})

	t.Run("invalid record", func(t *testing.T) {
		record := testRecord()
		record.FEV1PercentPredicted = 0
		_, err := model.NewPatientEvaluation(tenantID, patientID, record)
		assert.Error(t, err)
	})
}

func TestPatientEvaluation_ApplyEstimate(t *testing.T) {
	t.Run("extended estimate records completion event", func(t *testing.T) {
		evaluation, err := model.NewPatientEvaluation(uuid.New(), uuid.New(), testRecord())
		require.NoError(t, err)

		estimate, err := valueobject.NewTwoYearEstimate(
			decimal.NewFromFloat(99.01),
			decimal.NewFromFloat(97.49),
		)
		require.NoError(t, err)

		require.NoError(t, evaluation.ApplyEstimate(estimate))

		assert.Equal(t, 2, evaluation.Version())
		assert.True(t, evaluation.Scope().Equal(valueobject.ScopeTwoYear))
		assert.False(t, evaluation.EvaluatedAt().IsZero())

		evts := evaluation.DomainEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, event.EventTypeEvaluationCompleted, evts[0].EventType())
		assert.Equal(t, evaluation.ID(), evts[0].AggregateID())

		// events drain on read
		assert.Empty(t, evaluation.DomainEvents())
	})

	t.Run("one-year estimate also records low survival event", func(t *testing.T) {
		evaluation, err := model.NewPatientEvaluation(uuid.New(), uuid.New(), testRecord())
		require.NoError(t, err)

		estimate, err := valueobject.NewOneYearEstimate(decimal.NewFromFloat(53.92))
		require.NoError(t, err)

		require.NoError(t, evaluation.ApplyEstimate(estimate))

		assert.True(t, evaluation.Scope().Equal(valueobject.ScopeOneYear))

		evts := evaluation.DomainEvents()
		require.Len(t, evts, 2)

		types := []string{evts[0].EventType(), evts[1].EventType()}
		assert.Contains(t, types, event.EventTypeEvaluationCompleted)
		assert.Contains(t, types, event.EventTypeLowSurvivalDetected)
	})

	t.Run("rejects zero estimate", func(t *testing.T) {
		evaluation, err := model.NewPatientEvaluation(uuid.New(), uuid.New(), testRecord())
		require.NoError(t, err)

		var zero valueobject.SurvivalEstimate
		assert.Error(t, evaluation.ApplyEstimate(zero))
	})
}

func TestPatientEvaluation_Reconstruct(t *testing.T) {
	id := uuid.New()
	tenantID := uuid.New()
	patientID := uuid.New()
	estimate, err := valueobject.NewOneYearEstimate(decimal.NewFromFloat(42.17))
	require.NoError(t, err)
	evaluatedAt := time.Now().Add(-time.Hour)
	createdAt := time.Now().Add(-2 * time.Hour)
	updatedAt := time.Now().Add(-time.Hour)

	evaluation := model.Reconstruct(
		id, tenantID, patientID,
		testRecord(), estimate, valueobject.ScopeOneYear,
		evaluatedAt, 2, createdAt, updatedAt,
	)

	assert.Equal(t, id, evaluation.ID())
	assert.Equal(t, tenantID, evaluation.TenantID())
	assert.Equal(t, patientID, evaluation.PatientID())
	assert.True(t, evaluation.Estimate().Equal(estimate))
	assert.True(t, evaluation.Scope().Equal(valueobject.ScopeOneYear))
	assert.Equal(t, 2, evaluation.Version())
	assert.Empty(t, evaluation.DomainEvents())
}
