package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// extendedHorizonThreshold is the 1-year survival percentage at or above
	// which the 2-year sub-model is considered clinically reliable.
	extendedHorizonThreshold = decimal.NewFromInt(80)

	hundred = decimal.NewFromInt(100)
)

// QualifiesForExtendedHorizon reports whether a 1-year survival percentage is
// high enough for the 2-year estimate to be released (equivalently, 1-year
// mortality risk below 20%).
func QualifiesForExtendedHorizon(firstYearPercent decimal.Decimal) bool {
	return firstYearPercent.GreaterThanOrEqual(extendedHorizonThreshold)
}

// SurvivalEstimate is an immutable value object holding the survival
// percentages produced by one model evaluation, rounded to two decimal places.
// The second-year and overall two-year percentages are present exactly when
// the first-year percentage meets the extended-horizon threshold; the two
// constructors make any other combination unrepresentable.
type SurvivalEstimate struct {
	firstYear  decimal.Decimal
	secondYear decimal.Decimal
	overall    decimal.Decimal
	extended   bool
}

// NewOneYearEstimate creates an estimate carrying only the 1-year survival
// percentage. It rejects percentages outside (0, 100] and percentages that
// qualify for the extended horizon, which must use NewTwoYearEstimate.
func NewOneYearEstimate(firstYearPercent decimal.Decimal) (SurvivalEstimate, error) {
	if err := validateSurvivalPercent("first year", firstYearPercent); err != nil {
		return SurvivalEstimate{}, err
	}
	if QualifiesForExtendedHorizon(firstYearPercent) {
		return SurvivalEstimate{}, fmt.Errorf(
			"first-year survival %s qualifies for the extended horizon", firstYearPercent)
	}
	return SurvivalEstimate{firstYear: firstYearPercent}, nil
}

// NewTwoYearEstimate creates an estimate carrying the 1-year, 2-year, and
// derived overall 2-year survival percentages. The overall percentage is
// S1 * S2 / 100 rounded to two decimal places in decimal arithmetic.
func NewTwoYearEstimate(firstYearPercent, secondYearPercent decimal.Decimal) (SurvivalEstimate, error) {
	if err := validateSurvivalPercent("first year", firstYearPercent); err != nil {
		return SurvivalEstimate{}, err
	}
	if err := validateSurvivalPercent("second year", secondYearPercent); err != nil {
		return SurvivalEstimate{}, err
	}
	if !QualifiesForExtendedHorizon(firstYearPercent) {
		return SurvivalEstimate{}, fmt.Errorf(
			"first-year survival %s is below the extended-horizon threshold", firstYearPercent)
	}

	overall := firstYearPercent.Mul(secondYearPercent).Div(hundred).Round(2)

	return SurvivalEstimate{
		firstYear:  firstYearPercent,
		secondYear: secondYearPercent,
		overall:    overall,
		extended:   true,
	}, nil
}

// FirstYearPercent returns the 1-year survival percentage.
func (e SurvivalEstimate) FirstYearPercent() decimal.Decimal {
	return e.firstYear
}

// SecondYearPercent returns the 2-year survival percentage and whether it is
// present.
func (e SurvivalEstimate) SecondYearPercent() (decimal.Decimal, bool) {
	return e.secondYear, e.extended
}

// OverallTwoYearPercent returns the overall 2-year survival percentage and
// whether it is present.
func (e SurvivalEstimate) OverallTwoYearPercent() (decimal.Decimal, bool) {
	return e.overall, e.extended
}

// Extended reports whether the estimate carries the 2-year horizon values.
func (e SurvivalEstimate) Extended() bool {
	return e.extended
}

// IsZero returns true if the estimate has not been set.
func (e SurvivalEstimate) IsZero() bool {
	return !e.extended && e.firstYear.IsZero()
}

// Equal checks equality with another SurvivalEstimate.
func (e SurvivalEstimate) Equal(other SurvivalEstimate) bool {
	if e.extended != other.extended {
		return false
	}
	if !e.firstYear.Equal(other.firstYear) {
		return false
	}
	if !e.extended {
		return true
	}
	return e.secondYear.Equal(other.secondYear) && e.overall.Equal(other.overall)
}

func validateSurvivalPercent(horizon string, percent decimal.Decimal) error {
	if percent.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%s survival percent must be greater than zero, got %s", horizon, percent)
	}
	if percent.GreaterThan(hundred) {
		return fmt.Errorf("%s survival percent must not exceed 100, got %s", horizon, percent)
	}
	return nil
}
