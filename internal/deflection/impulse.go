package deflection

import "math"

// impulse is a strategy that delivers its momentum in a single event on arrival.
type impulse struct {
	// momentum returns the momentum delivered to the target in kg·m/s.
	momentum      func() float64
	beta          float64
	transit       float64
	rMax          float64
	costBase      float64
	costPerDecade float64
}

var kineticImpactor = impulse{
	momentum:      func() float64 { return kineticMassKg * kineticSpeedMS },
	beta:          3.6,
	transit:       0.5,
	rMax:          0.95,
	costBase:      0.35,
	costPerDecade: 0.25,
}

var nuclearStandoff = impulse{
	momentum:      nuclearEjectaMomentum,
	beta:          1,
	transit:       0.5,
	rMax:          0.85,
	costBase:      1.5,
	costPerDecade: 0.5,
}

const (
	kineticMassKg  = 600.0
	kineticSpeedMS = 6_000.0

	nuclearYieldJ   = 4.184e15 // 1 Mt
	nuclearCoupling = 0.01
	nuclearEjectaMS = 1_000.0
)

// nuclearEjectaMomentum treats the coupled energy as ejecta kinetic energy at
// a fixed ejection speed: p = m_ej·v = 2E/v.
func nuclearEjectaMomentum() float64 {
	return 2 * nuclearCoupling * nuclearYieldJ / nuclearEjectaMS
}

func (s impulse) shift(t target, leadTimeYears float64) shift {
	dv := s.beta * s.momentum() / t.massKg
	return shift{
		deltaVMS:      dv,
		displacementM: dv * coastSeconds(leadTimeYears, s.transit),
	}
}

func (s impulse) cost(t target) float64 {
	return missionCost(s.costBase, s.costPerDecade, t.diameterM)
}

func (s impulse) reliability() float64  { return s.rMax }
func (s impulse) transitYears() float64 { return s.transit }

// missionCost scales a base cost by the decades of size above 100 m.
func missionCost(base, perDecade, diameterM float64) float64 {
	return base + perDecade*math.Log10(1+diameterM/100)
}
