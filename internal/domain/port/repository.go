package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/cfcare/prognosis/internal/domain/model"
	"github.com/cfcare/prognosis/pkg/events"
)

// EvaluationRepository defines the persistence port for patient evaluations.
type EvaluationRepository interface {
	// Save persists a new or updated patient evaluation.
	Save(ctx context.Context, evaluation *model.PatientEvaluation) error

	// FindByID retrieves an evaluation by its unique identifier.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PatientEvaluation, error)

	// FindByPatientID retrieves evaluations for a patient, newest first.
	FindByPatientID(ctx context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*model.PatientEvaluation, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
