package service

// horizonCoefficients holds the fitted parameters of one log-logistic survival
// sub-model. The two sub-models share a structure and differ only in their
// published coefficient values; terms a horizon does not use carry a zero
// coefficient. These are fitted constants from the source publication, not
// tunable parameters, and must be reproduced exactly.
type horizonCoefficients struct {
	// lnY linear predictor.
	interceptY  float64
	male        float64
	fvc         float64
	fev1        float64
	underweight float64
	bcepacia    float64
	age         float64
	hospY       float64

	// lnB linear predictor.
	interceptB   float64
	hospB        float64
	decline      float64
	fev1B        float64
	pancreatic   float64
	diabetes     float64
	diagnosisAge float64
}

var oneYearModel = horizonCoefficients{
	interceptY:  5.702963,
	male:        -0.0162938,
	fvc:         0.7360137,
	fev1:        0.7899955,
	underweight: -0.7302478,
	bcepacia:    -0.4588687,
	age:         -0.0398486,
	hospY:       -0.2818584,

	interceptB:   0.1146547,
	hospB:        -0.0792965,
	decline:      -0.5616525,
	fev1B:        0.2554754,
	pancreatic:   0.6058589,
	diabetes:     0.2340407,
	diagnosisAge: 0.0079757,
}

var twoYearModel = horizonCoefficients{
	interceptY:  4.55962,
	male:        0.3189947,
	fvc:         0.5809873,
	fev1:        0.8404154,
	underweight: -0.4187824,
	bcepacia:    -0.9285728,

	interceptB:   0.1863934,
	hospB:        -0.1263516,
	decline:      0.1858131, // sign flips between horizons in the source model
	fev1B:        0.4353779,
	pancreatic:   0.1927758,
	diabetes:     -0.172767,
	diagnosisAge: 0.0012487,
}
