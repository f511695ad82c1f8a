package valueobject

import (
	"fmt"
	"strings"
)

// PredictionScope is an immutable value object recording which model horizons
// an evaluation released.
type PredictionScope struct {
	value string
}

var (
	ScopeOneYear = PredictionScope{value: "ONE_YEAR"}
	ScopeTwoYear = PredictionScope{value: "TWO_YEAR"}
)

// PredictionScopeFromString reconstructs a PredictionScope from its string
// representation.
func PredictionScopeFromString(s string) (PredictionScope, error) {
	switch strings.ToUpper(s) {
	case "ONE_YEAR":
		return ScopeOneYear, nil
	case "TWO_YEAR":
		return ScopeTwoYear, nil
	default:
		return PredictionScope{}, fmt.Errorf("invalid prediction scope: %s", s)
	}
}

// ScopeForEstimate derives the scope from a survival estimate.
func ScopeForEstimate(estimate SurvivalEstimate) PredictionScope {
	if estimate.Extended() {
		return ScopeTwoYear
	}
	return ScopeOneYear
}

// String returns the string representation.
func (s PredictionScope) String() string {
	return s.value
}

// HorizonYears returns the number of years the released estimate covers.
func (s PredictionScope) HorizonYears() int {
	if s.value == "TWO_YEAR" {
		return 2
	}
	return 1
}

// IsExtended reports whether the scope includes the 2-year horizon.
func (s PredictionScope) IsExtended() bool {
	return s.value == "TWO_YEAR"
}

// IsZero returns true if the PredictionScope has not been set.
func (s PredictionScope) IsZero() bool {
	return s.value == ""
}

// Equal checks equality with another PredictionScope.
func (s PredictionScope) Equal(other PredictionScope) bool {
	return s.value == other.value
}
