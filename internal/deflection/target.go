package deflection

import (
	"math"

	"github.com/TEC-Andres/HackSAERO/internal/domain"
)

const (
	secondsPerDay  = 86_400.0
	secondsPerYear = 365.25 * secondsPerDay
	earthRadiusKm  = 6_371.0

	// MinLeadTimeYears and MaxLeadTimeYears bound the warning time.
	MinLeadTimeYears = 1.0
	MaxLeadTimeYears = 10.0
)

// target is the body a strategy acts on.
type target struct {
	massKg    float64
	radiusM   float64
	diameterM float64
}

func newTarget(p domain.MeteoroidParameters, state domain.EntryState) target {
	return target{massKg: state.MassKg, radiusM: p.RadiusM, diameterM: p.DiameterM()}
}

// shift is the change in the asteroid's trajectory at the predicted impact date.
type shift struct {
	deltaVMS      float64
	displacementM float64
}

// ValidateLeadTime rejects warning times outside [MinLeadTimeYears, MaxLeadTimeYears].
func ValidateLeadTime(years float64) error {
	if math.IsNaN(years) || years < MinLeadTimeYears || years > MaxLeadTimeYears {
		return &domain.InputError{Field: "lead_time_years", Value: years, Range: "in [1, 10]"}
	}
	return nil
}

// coastSeconds is the lead time remaining once the spacecraft arrives.
func coastSeconds(leadTimeYears, transitYears float64) float64 {
	return math.Max(0, leadTimeYears-transitYears) * secondsPerYear
}
