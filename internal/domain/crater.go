package domain

import "math"

// CraterScalingVersion identifies the crater-scaling constants.
const CraterScalingVersion = "crater-v1"

const (
	craterScalingExponent = 1 / 3.4
	// craterScalingK reproduces Meteor Crater: 10 Mt at the ground -> ~1.19 km.
	craterScalingK = 0.01532
)

// CraterResult describes the final crater.
type CraterResult struct {
	CraterDiameterM float64
	CraterRadiusM   float64
}

// ComputeCrater returns the crater for the ground energy in atm, or nil when
// nothing reaches the ground.
func ComputeCrater(atm AtmosphericImpactResult) *CraterResult {
	d, ok := CraterDiameter(atm.EAfterJ)
	if !ok {
		return nil
	}
	return &CraterResult{CraterDiameterM: d, CraterRadiusM: d / 2}
}

// CraterDiameter applies the energy scaling law. ok is false when energyJ
// is not positive.
func CraterDiameter(energyJ float64) (diameterM float64, ok bool) {
	if !(energyJ > 0) {
		return 0, false
	}
	return craterScalingK * math.Pow(energyJ, craterScalingExponent), true
}
