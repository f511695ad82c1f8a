package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cfcare/prognosis/internal/domain/event"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
	"github.com/cfcare/prognosis/pkg/events"
)

// PatientEvaluation is the aggregate root for survival evaluations. It binds
// one immutable clinical record to the estimate the model produced for it,
// scoped to a registry (tenant) and patient.
type PatientEvaluation struct {
	events.Collector

	id        uuid.UUID
	tenantID  uuid.UUID
	patientID uuid.UUID

	record   valueobject.ClinicalRecord
	estimate valueobject.SurvivalEstimate
	scope    valueobject.PredictionScope

	evaluatedAt time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPatientEvaluation creates a new evaluation for an incoming clinical
// record. The evaluation starts without an estimate; call ApplyEstimate once
// the model has run.
func NewPatientEvaluation(
	tenantID uuid.UUID,
	patientID uuid.UUID,
	record valueobject.ClinicalRecord,
) (*PatientEvaluation, error) {
	if tenantID == uuid.Nil {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient ID is required")
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &PatientEvaluation{
		id:        uuid.New(),
		tenantID:  tenantID,
		patientID: patientID,
		record:    record,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ApplyEstimate records the model output on the evaluation and derives its
// prediction scope. This is the core domain operation.
func (p *PatientEvaluation) ApplyEstimate(estimate valueobject.SurvivalEstimate) error {
	if estimate.IsZero() {
		return fmt.Errorf("estimate is required")
	}

	p.estimate = estimate
	p.scope = valueobject.ScopeForEstimate(estimate)
	p.evaluatedAt = time.Now().UTC()
	p.updatedAt = p.evaluatedAt
	p.version++

	first := estimate.FirstYearPercent().StringFixed(2)
	var second, overall string
	if s, ok := estimate.SecondYearPercent(); ok {
		second = s.StringFixed(2)
	}
	if o, ok := estimate.OverallTwoYearPercent(); ok {
		overall = o.StringFixed(2)
	}

	p.Record(event.NewEvaluationCompleted(
		p.id, p.tenantID, p.patientID,
		first, second, overall,
		p.scope.String(), p.evaluatedAt,
	))

	// A gated-out 2-year horizon means 1-year mortality risk of 20% or more.
	if !estimate.Extended() {
		p.Record(event.NewLowSurvivalDetected(
			p.id, p.tenantID, p.patientID,
			first, p.evaluatedAt,
		))
	}

	return nil
}

// Reconstruct rebuilds a PatientEvaluation from persisted data (no validation,
// no events).
func Reconstruct(
	id, tenantID, patientID uuid.UUID,
	record valueobject.ClinicalRecord,
	estimate valueobject.SurvivalEstimate,
	scope valueobject.PredictionScope,
	evaluatedAt time.Time,
	version int,
	createdAt, updatedAt time.Time,
) *PatientEvaluation {
	return &PatientEvaluation{
		id:          id,
		tenantID:    tenantID,
		patientID:   patientID,
		record:      record,
		estimate:    estimate,
		scope:       scope,
		evaluatedAt: evaluatedAt,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Accessors ---

func (p *PatientEvaluation) ID() uuid.UUID                          { return p.id }
func (p *PatientEvaluation) TenantID() uuid.UUID                    { return p.tenantID }
func (p *PatientEvaluation) PatientID() uuid.UUID                   { return p.patientID }
func (p *PatientEvaluation) ClinicalRecord() valueobject.ClinicalRecord { return p.record }
func (p *PatientEvaluation) Estimate() valueobject.SurvivalEstimate { return p.estimate }
func (p *PatientEvaluation) Scope() valueobject.PredictionScope     { return p.scope }
func (p *PatientEvaluation) EvaluatedAt() time.Time                 { return p.evaluatedAt }
func (p *PatientEvaluation) Version() int                           { return p.version }
func (p *PatientEvaluation) CreatedAt() time.Time                   { return p.createdAt }
func (p *PatientEvaluation) UpdatedAt() time.Time                   { return p.updatedAt }

// DomainEvents returns all accumulated domain events and clears them.
func (p *PatientEvaluation) DomainEvents() []events.DomainEvent {
	return p.ClearEvents()
}
