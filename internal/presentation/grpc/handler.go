package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cfcare/prognosis/internal/application/dto"
	"github.com/cfcare/prognosis/internal/application/usecase"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
	"github.com/cfcare/prognosis/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

// tenantIDFromContext extracts the tenant ID from JWT claims in the context.
func tenantIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.TenantID, nil
}

// Compile-time assertion that PrognosisServiceHandler implements PrognosisServiceServer.
var _ PrognosisServiceServer = (*PrognosisServiceHandler)(nil)

// PrognosisServiceHandler implements the gRPC PrognosisServiceServer interface.
type PrognosisServiceHandler struct {
	UnimplementedPrognosisServiceServer
	evaluatePatient *usecase.EvaluatePatient
	getEvaluation   *usecase.GetEvaluation
	logger          *slog.Logger
}

// NewPrognosisServiceHandler creates a new gRPC handler.
func NewPrognosisServiceHandler(
	evaluatePatient *usecase.EvaluatePatient,
	getEvaluation *usecase.GetEvaluation,
	logger *slog.Logger,
) *PrognosisServiceHandler {
	return &PrognosisServiceHandler{
		evaluatePatient: evaluatePatient,
		getEvaluation:   getEvaluation,
		logger:          logger,
	}
}

// Proto-aligned request/response message types.

// ClinicalRecordMsg represents the proto ClinicalRecord message.
type ClinicalRecordMsg struct {
	Age                          float64 `json:"age"`
	Male                         bool    `json:"male"`
	FVCPercentPredicted          float64 `json:"fvc_percent_predicted"`
	FEV1PercentPredicted         float64 `json:"fev1_percent_predicted"`
	FEV1PercentPredictedLastYear float64 `json:"fev1_percent_predicted_last_year"`
	BCepacia                     bool    `json:"b_cepacia"`
	Underweight                  bool    `json:"underweight"`
	HospitalizationsLastYear     int32   `json:"hospitalizations_last_year"`
	PancreaticInsufficient       bool    `json:"pancreatic_insufficient"`
	CFRelatedDiabetes            bool    `json:"cf_related_diabetes"`
	AgeAtDiagnosis               float64 `json:"age_at_diagnosis"`
}

// EvaluatePatientRequest represents the proto EvaluatePatientRequest message.
type EvaluatePatientRequest struct {
	PatientID string             `json:"patient_id"`
	Record    *ClinicalRecordMsg `json:"record"`
}

// PatientEvaluationMsg represents the proto PatientEvaluation message.
type PatientEvaluationMsg struct {
	ID                        string `json:"id"`
	TenantID                  string `json:"tenant_id"`
	PatientID                 string `json:"patient_id"`
	FirstYearSurvivalPercent  string `json:"first_year_survival_percent"`
	SecondYearSurvivalPercent string `json:"second_year_survival_percent"`
	OverallTwoYearPercent     string `json:"overall_two_year_percent"`
	Scope                     string `json:"scope"`
	EvaluatedAt               string `json:"evaluated_at"`
}

// EvaluatePatientResponse represents the proto EvaluatePatientResponse message.
type EvaluatePatientResponse struct {
	Evaluation *PatientEvaluationMsg `json:"evaluation"`
}

// GetEvaluationRequest represents the proto GetEvaluationRequest message.
type GetEvaluationRequest struct {
	ID string `json:"id"`
}

// GetEvaluationResponse represents the proto GetEvaluationResponse message.
type GetEvaluationResponse struct {
	Evaluation *PatientEvaluationMsg `json:"evaluation"`
}

// EvaluatePatient handles a patient evaluation request.
func (h *PrognosisServiceHandler) EvaluatePatient(ctx context.Context, req *EvaluatePatientRequest) (*EvaluatePatientResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleClinician, auth.RoleAPIClient); err != nil {
		return nil, err
	}

	if req == nil || req.Record == nil {
		return nil, status.Error(codes.InvalidArgument, "clinical record is required")
	}

	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid patient_id: %v", err)
	}

	h.logger.Info("evaluating patient",
		slog.String("tenant_id", tenantID.String()),
		slog.String("patient_id", patientID.String()),
	)

	result, err := h.evaluatePatient.Execute(ctx, dto.EvaluatePatientRequest{
		TenantID:                     tenantID,
		PatientID:                    patientID,
		Age:                          req.Record.Age,
		Male:                         req.Record.Male,
		FVCPercentPredicted:          req.Record.FVCPercentPredicted,
		FEV1PercentPredicted:         req.Record.FEV1PercentPredicted,
		FEV1PercentPredictedLastYear: req.Record.FEV1PercentPredictedLastYear,
		BCepacia:                     req.Record.BCepacia,
		Underweight:                  req.Record.Underweight,
		HospitalizationsLastYear:     int(req.Record.HospitalizationsLastYear),
		PancreaticInsufficient:       req.Record.PancreaticInsufficient,
		CFRelatedDiabetes:            req.Record.CFRelatedDiabetes,
		AgeAtDiagnosis:               req.Record.AgeAtDiagnosis,
	})
	if err != nil {
		var invalid *valueobject.InvalidInputError
		if errors.As(err, &invalid) {
			return nil, status.Error(codes.InvalidArgument, invalid.Error())
		}
		h.logger.Error("failed to evaluate patient",
			slog.String("patient_id", patientID.String()),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &EvaluatePatientResponse{Evaluation: evaluationToMsg(result)}, nil
}

// GetEvaluation handles a get evaluation request.
func (h *PrognosisServiceHandler) GetEvaluation(ctx context.Context, req *GetEvaluationRequest) (*GetEvaluationResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleClinician, auth.RoleAnalyst, auth.RoleAPIClient); err != nil {
		return nil, err
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	tenantID, err := tenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	evaluationID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getEvaluation.Execute(ctx, dto.GetEvaluationRequest{
		TenantID:     tenantID,
		EvaluationID: evaluationID,
	})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, status.Error(codes.NotFound, "evaluation not found")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &GetEvaluationResponse{Evaluation: evaluationToMsg(result)}, nil
}

func evaluationToMsg(result dto.EvaluationResponse) *PatientEvaluationMsg {
	msg := &PatientEvaluationMsg{
		ID:                       result.ID.String(),
		TenantID:                 result.TenantID.String(),
		PatientID:                result.PatientID.String(),
		FirstYearSurvivalPercent: result.FirstYearSurvivalPercent,
		Scope:                    result.Scope,
		EvaluatedAt:              result.EvaluatedAt.Format(time.RFC3339),
	}
	if result.SecondYearSurvivalPercent != nil {
		msg.SecondYearSurvivalPercent = *result.SecondYearSurvivalPercent
	}
	if result.OverallTwoYearPercent != nil {
		msg.OverallTwoYearPercent = *result.OverallTwoYearPercent
	}
	return msg
}
