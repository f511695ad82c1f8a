package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfcare/prognosis/internal/domain/model"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
	"github.com/cfcare/prognosis/internal/infrastructure/postgres"
	"github.com/cfcare/prognosis/pkg/testutil"
)

func newEvaluation(t *testing.T, tenantID, patientID uuid.UUID, firstYear float64, secondYear *float64) *model.PatientEvaluation {
	t.Helper()

	evaluation, err := model.NewPatientEvaluation(tenantID, patientID, valueobject.ClinicalRecord{
		Age:                          28,
		FVCPercentPredicted:          82.5,
		FEV1PercentPredicted:         64.1,
		FEV1PercentPredictedLastYear: 68.3,
		PancreaticInsufficient:       true,
		AgeAtDiagnosis:               3.5,
	})
	require.NoError(t, err)

	var estimate valueobject.SurvivalEstimate
	if secondYear != nil {
		estimate, err = valueobject.NewTwoYearEstimate(
			decimal.NewFromFloat(firstYear), decimal.NewFromFloat(*secondYear))
	} else {
		estimate, err = valueobject.NewOneYearEstimate(decimal.NewFromFloat(firstYear))
	}
	require.NoError(t, err)
	require.NoError(t, evaluation.ApplyEstimate(estimate))
	evaluation.DomainEvents() // drain

	return evaluation
}

func TestEvaluationRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := testutil.NewPostgresContainer(ctx, t)
	defer container.Cleanup(t)
	container.RunMigrations(t, "../../../migrations")

	repo := postgres.NewEvaluationRepository(container.Pool)
	tenantID := uuid.New()
	patientID := uuid.New()

	t.Run("save and find two-year evaluation", func(t *testing.T) {
		second := 97.49
		saved := newEvaluation(t, tenantID, patientID, 99.01, &second)
		require.NoError(t, repo.Save(ctx, saved))

		found, err := repo.FindByID(ctx, tenantID, saved.ID())
		require.NoError(t, err)
		require.NotNil(t, found)

		assert.Equal(t, saved.ID(), found.ID())
		assert.Equal(t, "99.01", found.Estimate().FirstYearPercent().StringFixed(2))

		secondYear, ok := found.Estimate().SecondYearPercent()
		require.True(t, ok)
		assert.Equal(t, "97.49", secondYear.StringFixed(2))

		overall, ok := found.Estimate().OverallTwoYearPercent()
		require.True(t, ok)
		assert.Equal(t, "96.52", overall.StringFixed(2))

		assert.True(t, found.Scope().Equal(valueobject.ScopeTwoYear))
		assert.Equal(t, saved.ClinicalRecord(), found.ClinicalRecord())
	})

	t.Run("save and find one-year evaluation", func(t *testing.T) {
		saved := newEvaluation(t, tenantID, patientID, 53.92, nil)
		require.NoError(t, repo.Save(ctx, saved))

		found, err := repo.FindByID(ctx, tenantID, saved.ID())
		require.NoError(t, err)
		require.NotNil(t, found)

		_, ok := found.Estimate().SecondYearPercent()
		assert.False(t, ok)
		assert.True(t, found.Scope().Equal(valueobject.ScopeOneYear))
	})

	t.Run("find by id not found", func(t *testing.T) {
		found, err := repo.FindByID(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("tenant isolation", func(t *testing.T) {
		saved := newEvaluation(t, tenantID, patientID, 42.17, nil)
		require.NoError(t, repo.Save(ctx, saved))

		found, err := repo.FindByID(ctx, uuid.New(), saved.ID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("find by patient id with pagination", func(t *testing.T) {
		pagedPatient := uuid.New()
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Save(ctx, newEvaluation(t, tenantID, pagedPatient, 53.92, nil)))
		}

		page, err := repo.FindByPatientID(ctx, tenantID, pagedPatient, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := repo.FindByPatientID(ctx, tenantID, pagedPatient, 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("upsert keeps one row per id", func(t *testing.T) {
		saved := newEvaluation(t, tenantID, uuid.New(), 53.92, nil)
		require.NoError(t, repo.Save(ctx, saved))
		require.NoError(t, repo.Save(ctx, saved))

		results, err := repo.FindByPatientID(ctx, tenantID, saved.PatientID(), 10, 0)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}
