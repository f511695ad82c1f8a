package valueobject

import "fmt"

// Documented input domains for the percent-predicted spirometry covariates.
const (
	PercentPredictedMin = 0.0
	PercentPredictedMax = 150.0
)

// InvalidInputError reports a clinical record field whose value is outside the
// model's documented domain or would make the model arithmetic undefined
// (a logarithm of a non-positive spirometry value).
type InvalidInputError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid clinical record: %s: %s", e.Field, e.Reason)
}

// ClinicalRecord is the immutable set of covariates for one survival
// evaluation. It is consumed once per prediction and never mutated.
type ClinicalRecord struct {
	// Age is the patient age in years, > 0.
	Age float64

	// Male indicates biological sex as coded in the source model.
	Male bool

	// FVCPercentPredicted is forced vital capacity, percent predicted, (0, 150].
	FVCPercentPredicted float64

	// FEV1PercentPredicted is forced expiratory volume in 1s, percent predicted,
	// for the current year, (0, 150].
	FEV1PercentPredicted float64

	// FEV1PercentPredictedLastYear is FEV1 percent predicted for the preceding
	// year, (0, 150].
	FEV1PercentPredictedLastYear float64

	// BCepacia indicates B. cepacia complex infection status.
	BCepacia bool

	// Underweight indicates BMI < 18.5 (age >= 19) or BMI percentile <= 12%
	// (age < 19).
	Underweight bool

	// HospitalizationsLastYear is the count of hospitalizations in the
	// preceding year, >= 0.
	HospitalizationsLastYear int

	// PancreaticInsufficient indicates pancreatic insufficiency.
	PancreaticInsufficient bool

	// CFRelatedDiabetes indicates CF-related diabetes mellitus.
	CFRelatedDiabetes bool

	// AgeAtDiagnosis is the age at CF diagnosis in years, in [0, Age].
	AgeAtDiagnosis float64
}

// Validate checks every covariate against its documented domain. The spirometry
// checks are strict: a non-positive FVC or FEV1 would put a logarithm of a
// non-positive value into the linear predictors.
func (r ClinicalRecord) Validate() error {
	if r.Age <= 0 {
		return &InvalidInputError{Field: "age", Reason: "must be greater than zero"}
	}
	if err := validatePercentPredicted("fvc_percent_predicted", r.FVCPercentPredicted); err != nil {
		return err
	}
	if err := validatePercentPredicted("fev1_percent_predicted", r.FEV1PercentPredicted); err != nil {
		return err
	}
	if err := validatePercentPredicted("fev1_percent_predicted_last_year", r.FEV1PercentPredictedLastYear); err != nil {
		return err
	}
	if r.HospitalizationsLastYear < 0 {
		return &InvalidInputError{Field: "hospitalizations_last_year", Reason: "must not be negative"}
	}
	if r.AgeAtDiagnosis < 0 {
		return &InvalidInputError{Field: "age_at_diagnosis", Reason: "must not be negative"}
	}
	if r.AgeAtDiagnosis > r.Age {
		return &InvalidInputError{Field: "age_at_diagnosis", Reason: "must not exceed current age"}
	}
	return nil
}

func validatePercentPredicted(field string, value float64) error {
	if value <= PercentPredictedMin {
		return &InvalidInputError{Field: field, Reason: "must be greater than zero"}
	}
	if value > PercentPredictedMax {
		return &InvalidInputError{Field: field, Reason: fmt.Sprintf("must not exceed %.0f percent predicted", PercentPredictedMax)}
	}
	return nil
}
