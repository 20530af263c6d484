package domain

import (
	"fmt"
	"math"
)

// AtmosphereModelVersion identifies the entry-model calibration constants.
const AtmosphereModelVersion = "entry-v1"

const (
	seaLevelAirDensity = 1.225  // kg/m³
	scaleHeightM       = 8000.0 // m
	entryAltitudeM     = 100_000.0

	dragCoefficient       = 1.0
	ablationCoefficient   = 1.4e-8 // s²/m², stony-meteor value
	dispersionCoefficient = 3.5

	// FragmentationDragMultiplier caps the debris-cloud radius as a multiple
	// of the intact radius after breakup (pancake factor).
	FragmentationDragMultiplier = 7.0

	minEntryAngleDeg       = 1.0
	dissipatedMassFraction = 1e-6

	// Below stallVelocityFraction of entry speed the body is spent: it
	// delivers no energy to the ground. Delivered energy fades linearly to
	// zero over stallFadeWidth above that speed.
	stallVelocityFraction = 0.05
	stallFadeWidth        = 0.05

	// DefaultAltitudeStepM and DefaultMaxSteps give 10 000 steps from entry
	// altitude to the ground with a 2x budget.
	DefaultAltitudeStepM = 10.0
	DefaultMaxSteps      = 20_000

	// MinMaxSteps is the smallest budget that reaches the ground from entry
	// altitude at DefaultAltitudeStepM.
	MinMaxSteps = int(entryAltitudeM / DefaultAltitudeStepM)
)

// AtmosphericImpactResult is the outcome of one entry simulation.
type AtmosphericImpactResult struct {
	FAtm              float64
	FFrag             float64
	FTotal            float64
	Broke             bool
	BreakupAltitudeM  *float64 // nil when the body never fragments
	FinalVelocityMS   float64
	EnergyLostPercent float64
	EAfterJ           float64

	// Dissipated reports that the mass was fully ablated before ground.
	Dissipated bool
	// Stalled reports that the body slowed below the stall speed before
	// ground; it keeps its mass but delivers no energy.
	Stalled bool
	// Steps is the number of integration steps taken.
	Steps int
}

// Integrator runs the fixed-step entry model. The zero value is not usable;
// start from DefaultIntegrator.
type Integrator struct {
	AltitudeStepM float64
	MaxSteps      int
}

// DefaultIntegrator returns the calibrated step policy.
func DefaultIntegrator() Integrator {
	return Integrator{AltitudeStepM: DefaultAltitudeStepM, MaxSteps: DefaultMaxSteps}
}

// AirDensity returns the exponential-model air density at altitude h metres.
func AirDensity(h float64) float64 {
	return seaLevelAirDensity * math.Exp(-h/scaleHeightM)
}

// Simulate runs the entry model with the default integrator.
func Simulate(state EntryState, p MeteoroidParameters, props MaterialProperties) (AtmosphericImpactResult, error) {
	return DefaultIntegrator().Simulate(state, p, props)
}

// Simulate integrates the body from entry altitude to the ground.
// EAfterJ is non-decreasing in radius for fixed material, speed and angle.
// Identical inputs always take the same steps and yield identical output.
func (in Integrator) Simulate(state EntryState, p MeteoroidParameters, props MaterialProperties) (AtmosphericImpactResult, error) {
	if !(in.AltitudeStepM > 0) || in.MaxSteps <= 0 {
		return AtmosphericImpactResult{}, fmt.Errorf("%w: invalid step policy (step %v m, max %d)",
			ErrNumericDivergence, in.AltitudeStepM, in.MaxSteps)
	}
	if !(state.MassKg > 0) {
		return AtmosphericImpactResult{}, &InputError{Field: "mass_kg", Value: state.MassKg, Range: "> 0"}
	}

	angle := math.Max(p.EntryAngleDeg, minEntryAngleDeg)
	pathFactor := 1 / math.Sin(angle*math.Pi/180)

	v0 := p.VelocityMS
	m0 := state.MassKg
	v, m := v0, m0
	h := entryAltitudeM
	spread := 1.0

	// Ram pressure is taken at entry speed, so the breakup altitude depends
	// on speed and strength only. A larger body never fragments lower than a
	// smaller one, which keeps ground energy non-decreasing in radius.
	ramPressure := v0 * v0

	var (
		breakup    *float64
		dissipated bool
		stalled    bool
		steps      int
	)

	for h > 0 {
		if steps >= in.MaxSteps {
			return AtmosphericImpactResult{}, fmt.Errorf("%w: %d steps exhausted at altitude %.0f m",
				ErrNumericDivergence, in.MaxSteps, h)
		}
		steps++

		dh := math.Min(in.AltitudeStepM, h)
		rho := AirDensity(h - dh/2)
		ds := dh * pathFactor
		bodyRadius := sphereRadius(m, props.DensityKgM3)

		if breakup == nil && rho*ramPressure > props.StrengthPa {
			alt := h
			breakup = &alt
		}
		if breakup != nil && spread < FragmentationDragMultiplier {
			spread += math.Sqrt(dispersionCoefficient*rho/props.DensityKgM3) * ds / bodyRadius
			spread = math.Min(spread, FragmentationDragMultiplier)
		}

		r := bodyRadius * spread
		area := math.Pi * r * r
		v *= math.Exp(-0.5 * dragCoefficient * rho * area * ds / m)
		m *= math.Exp(-0.5 * ablationCoefficient * rho * area * v * v * ds / m)
		h -= dh

		if !isFinite(v) || !isFinite(m) {
			return AtmosphericImpactResult{}, fmt.Errorf("%w: non-finite state at altitude %.0f m", ErrNumericDivergence, h)
		}
		if m < dissipatedMassFraction*m0 {
			dissipated = true
			break
		}
		if v < stallVelocityFraction*v0 {
			stalled = true
			break
		}
	}

	fFrag := clamp01(m / m0)
	if dissipated {
		fFrag = 0
	}
	speedRatio := clamp01(v / v0)
	fAtm := speedRatio * speedRatio * clamp01((speedRatio-stallVelocityFraction)/stallFadeWidth)
	fTotal := fAtm * fFrag

	return AtmosphericImpactResult{
		FAtm:              fAtm,
		FFrag:             fFrag,
		FTotal:            fTotal,
		Broke:             breakup != nil,
		BreakupAltitudeM:  breakup,
		FinalVelocityMS:   v,
		EnergyLostPercent: 100 * (1 - fTotal),
		EAfterJ:           fTotal * state.KineticEnergyInitialJ,
		Dissipated:        dissipated,
		Stalled:           stalled,
		Steps:             steps,
	}, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
