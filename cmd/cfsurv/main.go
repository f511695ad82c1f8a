package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/cfcare/prognosis/internal/domain/service"
	"github.com/cfcare/prognosis/internal/domain/valueobject"
)

// cfsurv evaluates a single clinical record on the command line without a
// running service. Useful for spot checks against published model values.
func main() {
	var (
		age         = flag.Float64("age", 0, "patient age in years")
		male        = flag.Bool("male", false, "patient is male")
		fvc         = flag.Float64("fvc", 0, "FVC percent predicted")
		fev1        = flag.Float64("fev1", 0, "FEV1 percent predicted")
		fev1Lag     = flag.Float64("fev1-last-year", 0, "FEV1 percent predicted one year ago")
		bcepacia    = flag.Bool("b-cepacia", false, "Burkholderia cepacia infection")
		underweight = flag.Bool("underweight", false, "weight-for-age below the 5th percentile")
		hosp        = flag.Int("hospitalizations", 0, "hospitalizations in the last year")
		pancreatic  = flag.Bool("pancreatic-insufficient", false, "pancreatic insufficiency")
		diabetes    = flag.Bool("diabetes", false, "CF-related diabetes")
		diagnosed   = flag.Float64("age-at-diagnosis", 0, "age at CF diagnosis in years")
		jsonOut     = flag.Bool("json", false, "emit JSON instead of text")
	)
	flag.Parse()

	record := valueobject.ClinicalRecord{
		Age:                          *age,
		Male:                         *male,
		FVCPercentPredicted:          *fvc,
		FEV1PercentPredicted:         *fev1,
		FEV1PercentPredictedLastYear: *fev1Lag,
		BCepacia:                     *bcepacia,
		Underweight:                  *underweight,
		HospitalizationsLastYear:     *hosp,
		PancreaticInsufficient:       *pancreatic,
		CFRelatedDiabetes:            *diabetes,
		AgeAtDiagnosis:               *diagnosed,
	}

	estimate, err := service.NewSurvivalModel().Predict(record)
	if err != nil {
		var invalid *valueobject.InvalidInputError
		if errors.As(err, &invalid) {
			fmt.Fprintln(os.Stderr, invalid.Error())
		} else {
			fmt.Fprintln(os.Stderr, "prediction failed:", err)
		}
		os.Exit(1)
	}

	if *jsonOut {
		printJSON(estimate)
		return
	}
	printText(estimate)
}

type output struct {
	FirstYearSurvivalPercent  string `json:"first_year_survival_percent"`
	SecondYearSurvivalPercent string `json:"second_year_survival_percent,omitempty"`
	OverallTwoYearPercent     string `json:"overall_two_year_percent,omitempty"`
	Scope                     string `json:"scope"`
}

func printJSON(estimate valueobject.SurvivalEstimate) {
	out := output{
		FirstYearSurvivalPercent: estimate.FirstYearPercent().StringFixed(2),
		Scope:                    valueobject.ScopeForEstimate(estimate).String(),
	}
	if second, ok := estimate.SecondYearPercent(); ok {
		out.SecondYearSurvivalPercent = second.StringFixed(2)
	}
	if overall, ok := estimate.OverallTwoYearPercent(); ok {
		out.OverallTwoYearPercent = overall.StringFixed(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func printText(estimate valueobject.SurvivalEstimate) {
	fmt.Printf("1-year survival: %s%%\n", estimate.FirstYearPercent().StringFixed(2))
	if second, ok := estimate.SecondYearPercent(); ok {
		fmt.Printf("2-year survival: %s%%\n", second.StringFixed(2))
	}
	if overall, ok := estimate.OverallTwoYearPercent(); ok {
		fmt.Printf("overall 2-year:  %s%%\n", overall.StringFixed(2))
	} else {
		fmt.Println("2-year estimate withheld: 1-year survival below 80.00%")
	}
}
