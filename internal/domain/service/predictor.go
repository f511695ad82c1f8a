package service

import "github.com/cfcare/prognosis/internal/domain/valueobject"

// Predictor defines the interface for survival prediction strategies.
// SurvivalModel is the published two-horizon parametric implementation.
type Predictor interface {
	Predict(record valueobject.ClinicalRecord) (valueobject.SurvivalEstimate, error)
}
