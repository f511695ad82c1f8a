package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfcare/prognosis/internal/domain/service"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
)

// Golden values computed once from the published model formulas and pinned.

func TestSurvivalModel_ExtendedHorizonReleased(t *testing.T) {
	model := service.NewSurvivalModel()

	estimate, err := model.Predict(valueobject.ClinicalRecord{
		Age:                          16,
		FVCPercentPredicted:          66.7,
		FEV1PercentPredicted:         47.4,
		FEV1PercentPredictedLastYear: 80.5,
		PancreaticInsufficient:       true,
		AgeAtDiagnosis:               0.9,
	})

	require.NoError(t, err)
	assert.True(t, estimate.Extended())
	assert.Equal(t, "99.01", estimate.FirstYearPercent().StringFixed(2))

	second, ok := estimate.SecondYearPercent()
	require.True(t, ok)
	assert.Equal(t, "97.49", second.StringFixed(2))

	overall, ok := estimate.OverallTwoYearPercent()
	require.True(t, ok)
	assert.Equal(t, "96.52", overall.StringFixed(2))
}

func TestSurvivalModel_SecondYearWithheldBelowThreshold(t *testing.T) {
	model := service.NewSurvivalModel()

	estimate, err := model.Predict(valueobject.ClinicalRecord{
		Age:                          40.4,
		Male:                         true,
		FVCPercentPredicted:          25.7,
		FEV1PercentPredicted:         19.2,
		FEV1PercentPredictedLastYear: 20,
		BCepacia:                     true,
		Underweight:                  true,
		HospitalizationsLastYear:     6,
		AgeAtDiagnosis:               27.2,
	})

	require.NoError(t, err)
	assert.False(t, estimate.Extended())
	assert.Equal(t, "8.45", estimate.FirstYearPercent().StringFixed(2))

	_, ok := estimate.SecondYearPercent()
	assert.False(t, ok)
	_, ok = estimate.OverallTwoYearPercent()
	assert.False(t, ok)
}

func TestSurvivalModel_OverallIsProductOfRoundedHorizons(t *testing.T) {
	model := service.NewSurvivalModel()

	estimate, err := model.Predict(valueobject.ClinicalRecord{
		Age:                          44,
		Male:                         true,
		FVCPercentPredicted:          72.95,
		FEV1PercentPredicted:         55.5,
		FEV1PercentPredictedLastYear: 52.5,
		Underweight:                  true,
		AgeAtDiagnosis:               29,
	})

	require.NoError(t, err)
	assert.Equal(t, "91.14", estimate.FirstYearPercent().StringFixed(2))

	second, ok := estimate.SecondYearPercent()
	require.True(t, ok)
	assert.Equal(t, "95.74", second.StringFixed(2))

	overall, ok := estimate.OverallTwoYearPercent()
	require.True(t, ok)
	assert.Equal(t, "87.26", overall.StringFixed(2))

	// overall = round(S1 * S2 / 100, 2) on the already-rounded percentages.
	want := estimate.FirstYearPercent().Mul(second).Div(decimal.NewFromInt(100)).Round(2)
	assert.True(t, overall.Equal(want))
}

func TestSurvivalModel_Deterministic(t *testing.T) {
	model := service.NewSurvivalModel()
	record := valueobject.ClinicalRecord{
		Age:                          33,
		FVCPercentPredicted:          80,
		FEV1PercentPredicted:         70,
		FEV1PercentPredictedLastYear: 75,
		HospitalizationsLastYear:     1,
		PancreaticInsufficient:       true,
		CFRelatedDiabetes:            true,
		AgeAtDiagnosis:               10,
	}

	first, err := model.Predict(record)
	require.NoError(t, err)
	assert.Equal(t, "99.91", first.FirstYearPercent().StringFixed(2))

	for i := 0; i < 10; i++ {
		again, err := model.Predict(record)
		require.NoError(t, err)
		assert.True(t, first.Equal(again), "repeated calls must return identical estimates")
	}
}

func TestSurvivalModel_GatingInvariant(t *testing.T) {
	model := service.NewSurvivalModel()

	records := []valueobject.ClinicalRecord{
		{Age: 25, Male: true, FVCPercentPredicted: 95, FEV1PercentPredicted: 90, FEV1PercentPredictedLastYear: 88, PancreaticInsufficient: true, AgeAtDiagnosis: 2},
		{Age: 30, FVCPercentPredicted: 45, FEV1PercentPredicted: 30, FEV1PercentPredictedLastYear: 42, BCepacia: true, Underweight: true, HospitalizationsLastYear: 3, PancreaticInsufficient: true, CFRelatedDiabetes: true, AgeAtDiagnosis: 1.5},
		{Age: 16, FVCPercentPredicted: 66.7, FEV1PercentPredicted: 47.4, FEV1PercentPredictedLastYear: 80.5, PancreaticInsufficient: true, AgeAtDiagnosis: 0.9},
		{Age: 40.4, Male: true, FVCPercentPredicted: 25.7, FEV1PercentPredicted: 19.2, FEV1PercentPredictedLastYear: 20, BCepacia: true, Underweight: true, HospitalizationsLastYear: 6, AgeAtDiagnosis: 27.2},
	}

	threshold := decimal.NewFromInt(80)
	for _, record := range records {
		estimate, err := model.Predict(record)
		require.NoError(t, err)

		qualifies := estimate.FirstYearPercent().GreaterThanOrEqual(threshold)
		assert.Equal(t, qualifies, estimate.Extended())

		_, secondPresent := estimate.SecondYearPercent()
		_, overallPresent := estimate.OverallTwoYearPercent()
		assert.Equal(t, qualifies, secondPresent)
		assert.Equal(t, qualifies, overallPresent)
	}
}

func TestSurvivalModel_RangeInvariant(t *testing.T) {
	model := service.NewSurvivalModel()

	estimate, err := model.Predict(valueobject.ClinicalRecord{
		Age:                          30,
		FVCPercentPredicted:          45,
		FEV1PercentPredicted:         30,
		FEV1PercentPredictedLastYear: 42,
		BCepacia:                     true,
		Underweight:                  true,
		HospitalizationsLastYear:     3,
		PancreaticInsufficient:       true,
		CFRelatedDiabetes:            true,
		AgeAtDiagnosis:               1.5,
	})
	require.NoError(t, err)

	assert.Equal(t, "53.92", estimate.FirstYearPercent().StringFixed(2))
	assert.True(t, estimate.FirstYearPercent().GreaterThan(decimal.Zero))
	assert.True(t, estimate.FirstYearPercent().LessThanOrEqual(decimal.NewFromInt(100)))
}

func TestSurvivalModel_InvalidInput(t *testing.T) {
	model := service.NewSurvivalModel()

	tests := []struct {
		name   string
		record valueobject.ClinicalRecord
		field  string
	}{
		{
			name: "zero fev1",
			record: valueobject.ClinicalRecord{
				Age: 20, FVCPercentPredicted: 80, FEV1PercentPredicted: 0,
				FEV1PercentPredictedLastYear: 70, AgeAtDiagnosis: 1,
			},
			field: "fev1_percent_predicted",
		},
		{
			name: "negative fvc",
			record: valueobject.ClinicalRecord{
				Age: 20, FVCPercentPredicted: -10, FEV1PercentPredicted: 70,
				FEV1PercentPredictedLastYear: 70, AgeAtDiagnosis: 1,
			},
			field: "fvc_percent_predicted",
		},
		{
			name: "zero last-year fev1",
			record: valueobject.ClinicalRecord{
				Age: 20, FVCPercentPredicted: 80, FEV1PercentPredicted: 70,
				FEV1PercentPredictedLastYear: 0, AgeAtDiagnosis: 1,
			},
			field: "fev1_percent_predicted_last_year",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.Predict(tt.record)
			require.Error(t, err)

			var invalid *valueobject.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestSurvivalModel_ImplementsPredictor(t *testing.T) {
	var _ service.Predictor = service.NewSurvivalModel()
}
