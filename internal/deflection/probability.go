package deflection

import "math"

// SafetyLevel classifies a success probability.
type SafetyLevel string

const (
	SafetySafe     SafetyLevel = "safe"
	SafetyMarginal SafetyLevel = "marginal"
	SafetyUnsafe   SafetyLevel = "unsafe"
	SafetyFailed   SafetyLevel = "failed"
)

const (
	// ProbabilityCurveVersion identifies the success-probability model.
	ProbabilityCurveVersion = "success-v1"

	missScaleEarthRadii = 1.0
	coastScaleYears     = 2.0
)

// SuccessProbability returns the chance, in percent, that a mission with the
// given reliability ceiling, miss distance and post-arrival coast succeeds.
func SuccessProbability(rMax, missEarthRadii, coastYears float64) float64 {
	if coastYears <= 0 || missEarthRadii <= 0 || rMax <= 0 {
		return 0
	}
	p := rMax *
		(1 - math.Exp(-missEarthRadii/missScaleEarthRadii)) *
		(1 - math.Exp(-coastYears/coastScaleYears))
	return math.Min(100, math.Max(0, 100*p))
}

// Safety maps a success probability in percent to a level.
func Safety(pct float64) SafetyLevel {
	switch {
	case pct >= 90:
		return SafetySafe
	case pct >= 60:
		return SafetyMarginal
	case pct >= 30:
		return SafetyUnsafe
	default:
		return SafetyFailed
	}
}
