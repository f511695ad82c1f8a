package valueobject_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfcare/prognosis/internal/domain/valueobject"
)

func validRecord() valueobject.ClinicalRecord {
	return valueobject.ClinicalRecord{
		Age:                          28,
		Male:                         true,
		FVCPercentPredicted:          82.5,
		FEV1PercentPredicted:         64.1,
		FEV1PercentPredictedLastYear: 68.3,
		HospitalizationsLastYear:     1,
		PancreaticInsufficient:       true,
		AgeAtDiagnosis:               3.5,
	}
}

func TestClinicalRecord_Validate(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		assert.NoError(t, validRecord().Validate())
	})

	tests := []struct {
		name   string
		mutate func(*valueobject.ClinicalRecord)
		field  string
	}{
		{"zero age", func(r *valueobject.ClinicalRecord) { r.Age = 0 }, "age"},
		{"negative age", func(r *valueobject.ClinicalRecord) { r.Age = -5 }, "age"},
		{"zero fvc", func(r *valueobject.ClinicalRecord) { r.FVCPercentPredicted = 0 }, "fvc_percent_predicted"},
		{"negative fvc", func(r *valueobject.ClinicalRecord) { r.FVCPercentPredicted = -1 }, "fvc_percent_predicted"},
		{"fvc above range", func(r *valueobject.ClinicalRecord) { r.FVCPercentPredicted = 151 }, "fvc_percent_predicted"},
		{"zero fev1", func(r *valueobject.ClinicalRecord) { r.FEV1PercentPredicted = 0 }, "fev1_percent_predicted"},
		{"negative fev1", func(r *valueobject.ClinicalRecord) { r.FEV1PercentPredicted = -2 }, "fev1_percent_predicted"},
		{"zero last-year fev1", func(r *valueobject.ClinicalRecord) { r.FEV1PercentPredictedLastYear = 0 }, "fev1_percent_predicted_last_year"},
		{"negative hospitalizations", func(r *valueobject.ClinicalRecord) { r.HospitalizationsLastYear = -1 }, "hospitalizations_last_year"},
		{"negative diagnosis age", func(r *valueobject.ClinicalRecord) { r.AgeAtDiagnosis = -0.1 }, "age_at_diagnosis"},
		{"diagnosis after current age", func(r *valueobject.ClinicalRecord) { r.AgeAtDiagnosis = r.Age + 1 }, "age_at_diagnosis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validRecord()
			tt.mutate(&record)

			err := record.Validate()
			require.Error(t, err)

			var invalid *valueobject.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestClinicalRecord_BoundaryValues(t *testing.T) {
	record := validRecord()
	record.FVCPercentPredicted = valueobject.PercentPredictedMax
	record.FEV1PercentPredicted = valueobject.PercentPredictedMax
	record.FEV1PercentPredictedLastYear = valueobject.PercentPredictedMax
	assert.NoError(t, record.Validate())

	record = validRecord()
	record.HospitalizationsLastYear = 0
	record.AgeAtDiagnosis = 0
	assert.NoError(t, record.Validate())

	record = validRecord()
	record.AgeAtDiagnosis = record.Age
	assert.NoError(t, record.Validate())
}

func TestInvalidInputError_Message(t *testing.T) {
	err := &valueobject.InvalidInputError{Field: "fev1_percent_predicted", Reason: "must be greater than zero"}
	assert.Equal(t, "invalid clinical record: fev1_percent_predicted: must be greater than zero", err.Error())
}
