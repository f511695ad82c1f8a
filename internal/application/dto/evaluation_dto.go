package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/cfcare/prognosis/internal/domain/model"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
)

// EvaluatePatientRequest is the input DTO for the EvaluatePatient use case.
type EvaluatePatientRequest struct {
	TenantID                     uuid.UUID `json:"tenant_id"`
	PatientID                    uuid.UUID `json:"patient_id"`
	Age                          float64   `json:"age"`
	Male                         bool      `json:"male"`
	FVCPercentPredicted          float64   `json:"fvc_percent_predicted"`
	FEV1PercentPredicted         float64   `json:"fev1_percent_predicted"`
	FEV1PercentPredictedLastYear float64   `json:"fev1_percent_predicted_last_year"`
	BCepacia                     bool      `json:"b_cepacia"`
	Underweight                  bool      `json:"underweight"`
	HospitalizationsLastYear     int       `json:"hospitalizations_last_year"`
	PancreaticInsufficient       bool      `json:"pancreatic_insufficient"`
	CFRelatedDiabetes            bool      `json:"cf_related_diabetes"`
	AgeAtDiagnosis               float64   `json:"age_at_diagnosis"`
}

// ClinicalRecord maps the request covariates to the domain value object.
func (r EvaluatePatientRequest) ClinicalRecord() valueobject.ClinicalRecord {
	return valueobject.ClinicalRecord{
		Age:                          r.Age,
		Male:                         r.Male,
		FVCPercentPredicted:          r.FVCPercentPredicted,
		FEV1PercentPredicted:         r.FEV1PercentPredicted,
		FEV1PercentPredictedLastYear: r.FEV1PercentPredictedLastYear,
		BCepacia:                     r.BCepacia,
		Underweight:                  r.Underweight,
		HospitalizationsLastYear:     r.HospitalizationsLastYear,
		PancreaticInsufficient:       r.PancreaticInsufficient,
		CFRelatedDiabetes:            r.CFRelatedDiabetes,
		AgeAtDiagnosis:               r.AgeAtDiagnosis,
	}
}

// EvaluationResponse is the output DTO returned after an evaluation.
// Second-year and overall percentages are present only when the first-year
// estimate qualified for the extended horizon.
type EvaluationResponse struct {
	EvaluatedAt               time.Time `json:"evaluated_at"`
	CreatedAt                 time.Time `json:"created_at"`
	ID                        uuid.UUID `json:"id"`
	TenantID                  uuid.UUID `json:"tenant_id"`
	PatientID                 uuid.UUID `json:"patient_id"`
	FirstYearSurvivalPercent  string    `json:"first_year_survival_percent"`
	SecondYearSurvivalPercent *string   `json:"second_year_survival_percent,omitempty"`
	OverallTwoYearPercent     *string   `json:"overall_two_year_percent,omitempty"`
	Scope                     string    `json:"scope"`
	Version                   int       `json:"version"`
}

// GetEvaluationRequest is the input DTO for retrieving an evaluation.
type GetEvaluationRequest struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	EvaluationID uuid.UUID `json:"evaluation_id"`
}

// ListEvaluationsRequest is the input DTO for listing a patient's evaluations.
type ListEvaluationsRequest struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Limit     int       `json:"limit"`
	Offset    int       `json:"offset"`
}

// EvaluateBatchRequest carries multiple evaluation requests for one tenant.
type EvaluateBatchRequest struct {
	TenantID uuid.UUID            `json:"tenant_id"`
	Items    []EvaluateBatchItem `json:"items"`
}

// EvaluateBatchItem is one patient record within a batch request.
type EvaluateBatchItem struct {
	PatientID                    uuid.UUID `json:"patient_id"`
	Age                          float64   `json:"age"`
	Male                         bool      `json:"male"`
	FVCPercentPredicted          float64   `json:"fvc_percent_predicted"`
	FEV1PercentPredicted         float64   `json:"fev1_percent_predicted"`
	FEV1PercentPredictedLastYear float64   `json:"fev1_percent_predicted_last_year"`
	BCepacia                     bool      `json:"b_cepacia"`
	Underweight                  bool      `json:"underweight"`
	HospitalizationsLastYear     int       `json:"hospitalizations_last_year"`
	PancreaticInsufficient       bool      `json:"pancreatic_insufficient"`
	CFRelatedDiabetes            bool      `json:"cf_related_diabetes"`
	AgeAtDiagnosis               float64   `json:"age_at_diagnosis"`
}

// Request expands a batch item into a standalone evaluation request.
func (i EvaluateBatchItem) Request(tenantID uuid.UUID) EvaluatePatientRequest {
	return EvaluatePatientRequest{
		TenantID:                     tenantID,
		PatientID:                    i.PatientID,
		Age:                          i.Age,
		Male:                         i.Male,
		FVCPercentPredicted:          i.FVCPercentPredicted,
		FEV1PercentPredicted:         i.FEV1PercentPredicted,
		FEV1PercentPredictedLastYear: i.FEV1PercentPredictedLastYear,
		BCepacia:                     i.BCepacia,
		Underweight:                  i.Underweight,
		HospitalizationsLastYear:     i.HospitalizationsLastYear,
		PancreaticInsufficient:       i.PancreaticInsufficient,
		CFRelatedDiabetes:            i.CFRelatedDiabetes,
		AgeAtDiagnosis:               i.AgeAtDiagnosis,
	}
}

// EvaluateBatchResponse reports per-item outcomes. A failed item carries an
// error message instead of a result and never fails the batch.
type EvaluateBatchResponse struct {
	Results []EvaluateBatchResult `json:"results"`
}

// EvaluateBatchResult is the outcome of one batch item.
type EvaluateBatchResult struct {
	PatientID  uuid.UUID           `json:"patient_id"`
	Evaluation *EvaluationResponse `json:"evaluation,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// FromModel maps a domain model to the response DTO.
func FromModel(e *model.PatientEvaluation) EvaluationResponse {
	resp := EvaluationResponse{
		ID:                       e.ID(),
		TenantID:                 e.TenantID(),
		PatientID:                e.PatientID(),
		FirstYearSurvivalPercent: e.Estimate().FirstYearPercent().StringFixed(2),
		Scope:                    e.Scope().String(),
		Version:                  e.Version(),
		EvaluatedAt:              e.EvaluatedAt(),
		CreatedAt:                e.CreatedAt(),
	}
	if second, ok := e.Estimate().SecondYearPercent(); ok {
		s := second.StringFixed(2)
		resp.SecondYearSurvivalPercent = &s
	}
	if overall, ok := e.Estimate().OverallTwoYearPercent(); ok {
		o := overall.StringFixed(2)
		resp.OverallTwoYearPercent = &o
	}
	return resp
}
