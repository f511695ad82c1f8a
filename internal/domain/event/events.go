package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cfcare/prognosis/pkg/events"
)

const (
	// EventTypeEvaluationCompleted is emitted when a survival evaluation finishes.
	EventTypeEvaluationCompleted = "prognosis.evaluation.completed"

	// EventTypeLowSurvivalDetected is emitted when the 1-year survival estimate
	// falls below the extended-horizon threshold.
	EventTypeLowSurvivalDetected = "prognosis.low_survival.detected"

	aggregateType = "PatientEvaluation"
)

// EvaluationCompleted is published after every successful survival evaluation.
type EvaluationCompleted struct {
	events.BaseEvent

	EvaluationID              uuid.UUID `json:"evaluation_id"`
	TenantID                  uuid.UUID `json:"tenant_id"`
	PatientID                 uuid.UUID `json:"patient_id"`
	FirstYearSurvivalPercent  string    `json:"first_year_survival_percent"`
	SecondYearSurvivalPercent string    `json:"second_year_survival_percent,omitempty"`
	OverallTwoYearPercent     string    `json:"overall_two_year_percent,omitempty"`
	Scope                     string    `json:"scope"`
	EvaluatedAt               time.Time `json:"evaluated_at"`
}

// NewEvaluationCompleted creates an EvaluationCompleted event. The second-year
// and overall fields are empty when the evaluation was gated to one year.
func NewEvaluationCompleted(
	evaluationID, tenantID, patientID uuid.UUID,
	firstYear, secondYear, overall string,
	scope string,
	evaluatedAt time.Time,
) EvaluationCompleted {
	e := EvaluationCompleted{
		EvaluationID:              evaluationID,
		TenantID:                  tenantID,
		PatientID:                 patientID,
		FirstYearSurvivalPercent:  firstYear,
		SecondYearSurvivalPercent: secondYear,
		OverallTwoYearPercent:     overall,
		Scope:                     scope,
		EvaluatedAt:               evaluatedAt,
	}
	payload, _ := json.Marshal(e)
	e.BaseEvent = events.NewBaseEvent(EventTypeEvaluationCompleted, evaluationID, aggregateType, payload)
	return e
}

// LowSurvivalDetected is published when an evaluation's 1-year survival
// estimate is below the extended-horizon threshold, so registries can route
// the patient for clinical review.
type LowSurvivalDetected struct {
	events.BaseEvent

	EvaluationID             uuid.UUID `json:"evaluation_id"`
	TenantID                 uuid.UUID `json:"tenant_id"`
	PatientID                uuid.UUID `json:"patient_id"`
	FirstYearSurvivalPercent string    `json:"first_year_survival_percent"`
	DetectedAt               time.Time `json:"detected_at"`
}

// NewLowSurvivalDetected creates a LowSurvivalDetected event.
func NewLowSurvivalDetected(
	evaluationID, tenantID, patientID uuid.UUID,
	firstYear string,
	detectedAt time.Time,
) LowSurvivalDetected {
	e := LowSurvivalDetected{
		EvaluationID:             evaluationID,
		TenantID:                 tenantID,
		PatientID:                patientID,
		FirstYearSurvivalPercent: firstYear,
		DetectedAt:               detectedAt,
	}
	payload, _ := json.Marshal(e)
	e.BaseEvent = events.NewBaseEvent(EventTypeLowSurvivalDetected, evaluationID, aggregateType, payload)
	return e
}
