package deflection

import (
	"fmt"
	"math"

	"github.com/TEC-Andres/HackSAERO/internal/domain"
)

// Result is the outcome of applying one strategy.
type Result struct {
	Strategy               Strategy    `json:"strategy"`
	DeltaVCmS              float64     `json:"delta_v_cm_s"`
	MissDistanceKm         float64     `json:"miss_distance_km"`
	MissDistanceEarthRadii float64     `json:"miss_distance_earth_radii"`
	MissionCostUSDB        float64     `json:"mission_cost_usd_b"`
	SuccessProbabilityPct  float64     `json:"success_probability_pct"`
	SafetyLevel            SafetyLevel `json:"safety_level"`
}

// Evaluate applies strategy s to the meteoroid with leadTimeYears of warning.
// state must come from domain.ComputeEntryState(p).
func Evaluate(p domain.MeteoroidParameters, state domain.EntryState, s Strategy, leadTimeYears float64) (Result, error) {
	v, err := lookupVariant(s)
	if err != nil {
		return Result{}, err
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if err := ValidateLeadTime(leadTimeYears); err != nil {
		return Result{}, err
	}
	if !(state.MassKg > 0) || math.IsInf(state.MassKg, 0) {
		return Result{}, &domain.InputError{Field: "mass_kg", Value: state.MassKg, Range: "positive and finite"}
	}

	t := newTarget(p, state)
	sh := v.shift(t, leadTimeYears)
	if math.IsNaN(sh.displacementM) || math.IsInf(sh.displacementM, 0) {
		return Result{}, fmt.Errorf("%s displacement: %w", s, domain.ErrNumericDivergence)
	}

	missKm := math.Abs(sh.displacementM) / 1000
	missER := missKm / earthRadiusKm
	pct := SuccessProbability(v.reliability(), missER, leadTimeYears-v.transitYears())

	return Result{
		Strategy:               s,
		DeltaVCmS:              sh.deltaVMS * 100,
		MissDistanceKm:         missKm,
		MissDistanceEarthRadii: missER,
		MissionCostUSDB:        v.cost(t),
		SuccessProbabilityPct:  pct,
		SafetyLevel:            Safety(pct),
	}, nil
}

// EvaluateAll evaluates every strategy in priority order.
func EvaluateAll(p domain.MeteoroidParameters, state domain.EntryState, leadTimeYears float64) ([]Result, error) {
	results := make([]Result, 0, len(variants))
	for _, s := range Strategies() {
		r, err := Evaluate(p, state, s, leadTimeYears)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
