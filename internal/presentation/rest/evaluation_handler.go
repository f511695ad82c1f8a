package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cfcare/prognosis/internal/application/dto"
	"github.com/cfcare/prognosis/internal/application/usecase"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
	"github.com/cfcare/prognosis/pkg/auth"
)

const maxBatchSize = 500

// EvaluationHandler exposes the evaluation use cases over HTTP.
type EvaluationHandler struct {
	evaluatePatient *usecase.EvaluatePatient
	evaluateBatch   *usecase.EvaluateBatch
	getEvaluation   *usecase.GetEvaluation
	listEvaluations *usecase.ListEvaluations
	logger          *slog.Logger
}

// NewEvaluationHandler creates a new REST evaluation handler.
func NewEvaluationHandler(
	evaluatePatient *usecase.EvaluatePatient,
	evaluateBatch *usecase.EvaluateBatch,
	getEvaluation *usecase.GetEvaluation,
	listEvaluations *usecase.ListEvaluations,
	logger *slog.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluatePatient: evaluatePatient,
		evaluateBatch:   evaluateBatch,
		getEvaluation:   getEvaluation,
		listEvaluations: listEvaluations,
		logger:          logger,
	}
}

// RegisterRoutes registers evaluation endpoints on the provided ServeMux.
func (h *EvaluationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/evaluations", h.Evaluate)
	mux.HandleFunc("POST /v1/evaluations/batch", h.EvaluateBatch)
	mux.HandleFunc("GET /v1/evaluations/{id}", h.Get)
	mux.HandleFunc("GET /v1/patients/{id}/evaluations", h.List)
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func tenantFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return claims.TenantID, true
}

// evaluateBody is the JSON request body for a single evaluation.
type evaluateBody struct {
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

// Evaluate handles POST /v1/evaluations.
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var body evaluateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.evaluatePatient.Execute(r.Context(), dto.EvaluatePatientRequest{
		TenantID:                     tenantID,
		PatientID:                    body.PatientID,
		Age:                          body.Age,
		Male:                         body.Male,
		FVCPercentPredicted:          body.FVCPercentPredicted,
		FEV1PercentPredicted:         body.FEV1PercentPredicted,
		FEV1PercentPredictedLastYear: body.FEV1PercentPredictedLastYear,
		BCepacia:                     body.BCepacia,
		Underweight:                  body.Underweight,
		HospitalizationsLastYear:     body.HospitalizationsLastYear,
		PancreaticInsufficient:       body.PancreaticInsufficient,
		CFRelatedDiabetes:            body.CFRelatedDiabetes,
		AgeAtDiagnosis:               body.AgeAtDiagnosis,
	})
	if err != nil {
		var invalid *valueobject.InvalidInputError
		switch {
		case errors.As(err, &invalid):
			writeError(w, http.StatusUnprocessableEntity, invalid.Error())
		case strings.Contains(err.Error(), "failed to create evaluation"):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("evaluation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// EvaluateBatch handles POST /v1/evaluations/batch.
func (h *EvaluationHandler) EvaluateBatch(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		Items []dto.EvaluateBatchItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	if len(body.Items) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch size exceeds limit")
		return
	}

	resp, err := h.evaluateBatch.Execute(r.Context(), dto.EvaluateBatchRequest{
		TenantID: tenantID,
		Items:    body.Items,
	})
	if err != nil {
		h.logger.Error("batch evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /v1/evaluations/{id}.
func (h *EvaluationHandler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	evaluationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid evaluation id")
		return
	}

	resp, err := h.getEvaluation.Execute(r.Context(), dto.GetEvaluationRequest{
		TenantID:     tenantID,
		EvaluationID: evaluationID,
	})
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "evaluation not found")
			return
		}
		h.logger.Error("get evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /v1/patients/{id}/evaluations.
func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFromRequest(w, r)
	if !ok {
		return
	}

	patientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid patient id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	resp, err := h.listEvaluations.Execute(r.Context(), dto.ListEvaluationsRequest{
		TenantID:  tenantID,
		PatientID: patientID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		h.logger.Error("list evaluations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
