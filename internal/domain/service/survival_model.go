package service

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/cfcare/prognosis/internal/domain/valueobject"
)

// SurvivalModel is a domain service that evaluates the published two-horizon
// log-logistic survival model for cystic fibrosis. It is pure and stateless:
// every call depends only on the clinical record it is given, so a single
// instance is safe for concurrent use.
type SurvivalModel struct{}

// NewSurvivalModel creates a new SurvivalModel instance.
func NewSurvivalModel() *SurvivalModel {
	return &SurvivalModel{}
}

// Predict validates the record and evaluates the 1-year sub-model. When the
// 1-year survival percentage meets the extended-horizon threshold it also
// evaluates the 2-year sub-model; otherwise the 2-year estimate is withheld
// per the clinical confidence rule.
func (m *SurvivalModel) Predict(record valueobject.ClinicalRecord) (valueobject.SurvivalEstimate, error) {
	if err := record.Validate(); err != nil {
		return valueobject.SurvivalEstimate{}, err
	}

	firstYear := survivalPercent(oneYearModel, record)
	if !valueobject.QualifiesForExtendedHorizon(firstYear) {
		return valueobject.NewOneYearEstimate(firstYear)
	}

	secondYear := survivalPercent(twoYearModel, record)
	return valueobject.NewTwoYearEstimate(firstYear, secondYear)
}

// survivalPercent evaluates one horizon's sub-model and returns the survival
// percentage rounded to two decimal places.
func survivalPercent(c horizonCoefficients, r valueobject.ClinicalRecord) decimal.Decimal {
	lnFVC := math.Log(r.FVCPercentPredicted / 100)
	lnFEV1 := math.Log(r.FEV1PercentPredicted / 100)

	// The decline term only contributes when last year's FEV1 was higher.
	decline := 0.0
	if r.FEV1PercentPredictedLastYear > r.FEV1PercentPredicted {
		decline = math.Log(r.FEV1PercentPredictedLastYear/100) - lnFEV1
	}

	male := indicator(r.Male)
	underweight := indicator(r.Underweight)
	bcepacia := indicator(r.BCepacia)
	pancreatic := indicator(r.PancreaticInsufficient)
	diabetes := indicator(r.CFRelatedDiabetes)
	hospitalizations := float64(r.HospitalizationsLastYear)

	lnY := c.interceptY +
		c.male*male +
		c.fvc*lnFVC +
		c.fev1*lnFEV1 +
		c.underweight*underweight +
		c.bcepacia*bcepacia +
		c.age*r.Age +
		c.hospY*hospitalizations

	lnB := c.interceptB +
		c.hospB*hospitalizations +
		c.decline*decline +
		c.fev1B*lnFEV1 +
		c.pancreatic*pancreatic +
		c.diabetes*diabetes +
		c.diagnosisAge*r.AgeAtDiagnosis

	y := math.Exp(lnY)
	b := math.Exp(lnB)

	lnS := (1 / -b) * math.Pow(1/y, b) * (math.Exp(b) - 1)

	return decimal.NewFromFloat(math.Exp(lnS) * 100).Round(2)
}

func indicator(flag bool) float64 {
	if flag {
		return 1
	}
	return 0
}
