package deflection

import "math"

const gravitationalConstant = 6.674e-11

// continuous is a strategy that applies a constant acceleration from arrival
// until the predicted impact date.
type continuous struct {
	// accel returns the acceleration imparted to the target in m/s².
	accel         func(t target) float64
	transit       float64
	rMax          float64
	costBase      float64
	costPerDecade float64
}

const (
	tractorMassKg     = 20_000.0
	tractorHoverRadii = 2.0
	tractorMinGapM    = 100.0

	laserPowerW        = 100_000.0
	laserCouplingNPerW = 5e-5
)

var gravityTractor = continuous{
	accel:         tractorAccel,
	transit:       1.0,
	rMax:          0.90,
	costBase:      0.8,
	costPerDecade: 0.4,
}

var laserAblation = continuous{
	accel:         laserAccel,
	transit:       0.75,
	rMax:          0.75,
	costBase:      3.0,
	costPerDecade: 1.0,
}

// tractorAccel is the spacecraft's pull on the asteroid while hovering at
// twice the body radius, never closer than 100 m above the surface.
func tractorAccel(t target) float64 {
	d := math.Max(tractorHoverRadii*t.radiusM, t.radiusM+tractorMinGapM)
	return gravitationalConstant * tractorMassKg / (d * d)
}

func laserAccel(t target) float64 {
	return laserPowerW * laserCouplingNPerW / t.massKg
}

func (s continuous) shift(t target, leadTimeYears float64) shift {
	return integrateThrust(s.accel(t), s.transit*secondsPerYear, leadTimeYears*secondsPerYear)
}

// integrateThrust steps velocity then position once per day over the lead
// time; thrust acts only once the cruise phase has elapsed.
func integrateThrust(accel, startS, endS float64) shift {
	var v, x float64
	for t := 0.0; t < endS; t += secondsPerDay {
		dt := math.Min(secondsPerDay, endS-t)
		burn := math.Min(t+dt, endS) - math.Max(t, startS)
		if burn > 0 {
			v += accel * burn
		}
		x += v * dt
	}
	return shift{deltaVMS: v, displacementM: x}
}

func (s continuous) cost(t target) float64 {
	return missionCost(s.costBase, s.costPerDecade, t.diameterM)
}

func (s continuous) reliability() float64  { return s.rMax }
func (s continuous) transitYears() float64 { return s.transit }
