package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cfcare/prognosis/internal/domain/model"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
	pgshared "github.com/cfcare/prognosis/pkg/postgres"
)

// EvaluationRepository implements port.EvaluationRepository using PostgreSQL.
type EvaluationRepository struct {
	pool *pgxpool.Pool
}

// NewEvaluationRepository creates a new PostgreSQL-backed evaluation repository.
func NewEvaluationRepository(pool *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

const evaluationColumns = `
	id, tenant_id, patient_id,
	age, male, fvc_percent_predicted, fev1_percent_predicted,
	fev1_percent_predicted_last_year, b_cepacia, underweight,
	hospitalizations_last_year, pancreatic_insufficient,
	cf_related_diabetes, age_at_diagnosis,
	first_year_survival_percent, second_year_survival_percent,
	overall_two_year_percent, scope,
	evaluated_at, version, created_at, updated_at`

// Save upserts a patient evaluation and its covariates.
func (r *EvaluationRepository) Save(ctx context.Context, evaluation *model.PatientEvaluation) error {
	query := `
		INSERT INTO patient_evaluations (` + evaluationColumns + `
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			first_year_survival_percent = EXCLUDED.first_year_survival_percent,
			second_year_survival_percent = EXCLUDED.second_year_survival_percent,
			overall_two_year_percent = EXCLUDED.overall_two_year_percent,
			scope = EXCLUDED.scope,
			evaluated_at = EXCLUDED.evaluated_at,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
	`

	record := evaluation.ClinicalRecord()
	estimate := evaluation.Estimate()

	var secondYear, overall *decimal.Decimal
	if second, ok := estimate.SecondYearPercent(); ok {
		secondYear = &second
	}
	if o, ok := estimate.OverallTwoYearPercent(); ok {
		overall = &o
	}

	err := pgshared.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			evaluation.ID(),
			evaluation.TenantID(),
			evaluation.PatientID(),
			record.Age,
			record.Male,
			record.FVCPercentPredicted,
			record.FEV1PercentPredicted,
			record.FEV1PercentPredictedLastYear,
			record.BCepacia,
			record.Underweight,
			record.HospitalizationsLastYear,
			record.PancreaticInsufficient,
			record.CFRelatedDiabetes,
			record.AgeAtDiagnosis,
			estimate.FirstYearPercent(),
			secondYear,
			overall,
			evaluation.Scope().String(),
			evaluation.EvaluatedAt(),
			evaluation.Version(),
			evaluation.CreatedAt(),
			evaluation.UpdatedAt(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", err)
	}

	return nil
}

// FindByID retrieves an evaluation by its unique identifier.
func (r *EvaluationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*model.PatientEvaluation, error) {
	query := `
		SELECT ` + evaluationColumns + `
		FROM patient_evaluations
		WHERE tenant_id = $1 AND id = $2
	`

	evaluation, err := scanEvaluation(r.pool.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		return nil, err
	}

	return evaluation, nil
}

// FindByPatientID retrieves a patient's evaluations newest first.
func (r *EvaluationRepository) FindByPatientID(ctx context.Context, tenantID, patientID uuid.UUID, limit, offset int) ([]*model.PatientEvaluation, error) {
	query := `
		SELECT ` + evaluationColumns + `
		FROM patient_evaluations
		WHERE tenant_id = $1 AND patient_id = $2
		ORDER BY evaluated_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, tenantID, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []*model.PatientEvaluation
	for rows.Next() {
		evaluation, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evaluations = append(evaluations, evaluation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read evaluation rows: %w", err)
	}

	return evaluations, nil
}

func scanEvaluation(row pgx.Row) (*model.PatientEvaluation, error) {
	var (
		id          uuid.UUID
		tenantID    uuid.UUID
		patientID   uuid.UUID
		record      valueobject.ClinicalRecord
		firstYear   decimal.Decimal
		secondYear  decimal.NullDecimal
		overall     decimal.NullDecimal
		scopeStr    string
		evaluatedAt time.Time
		version     int
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(
		&id, &tenantID, &patientID,
		&record.Age, &record.Male, &record.FVCPercentPredicted, &record.FEV1PercentPredicted,
		&record.FEV1PercentPredictedLastYear, &record.BCepacia, &record.Underweight,
		&record.HospitalizationsLastYear, &record.PancreaticInsufficient,
		&record.CFRelatedDiabetes, &record.AgeAtDiagnosis,
		&firstYear, &secondYear, &overall, &scopeStr,
		&evaluatedAt, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan evaluation: %w", err)
	}

	// The overall percentage is derived from the two horizons, so the stored
	// column is for SQL consumers only and the estimate is rebuilt from them.
	var estimate valueobject.SurvivalEstimate
	if secondYear.Valid {
		estimate, err = valueobject.NewTwoYearEstimate(firstYear, secondYear.Decimal)
	} else {
		estimate, err = valueobject.NewOneYearEstimate(firstYear)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild estimate: %w", err)
	}

	scope, err := valueobject.PredictionScopeFromString(scopeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scope: %w", err)
	}

	return model.Reconstruct(
		id, tenantID, patientID,
		record, estimate, scope,
		evaluatedAt, version, createdAt, updatedAt,
	), nil
}
