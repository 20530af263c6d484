package domain

import "math"

// EntryState holds the quantities derived once from the request at the top
// of the atmosphere.
type EntryState struct {
	MassKg                float64
	KineticEnergyInitialJ float64
}

// ComputeEntryState validates p and derives mass and initial kinetic energy.
func ComputeEntryState(p MeteoroidParameters) (EntryState, error) {
	if err := p.Validate(); err != nil {
		return EntryState{}, err
	}
	props, err := LookupMaterial(p.Material)
	if err != nil {
		return EntryState{}, err
	}

	mass := sphereMass(p.RadiusM, props.DensityKgM3)
	return EntryState{
		MassKg:                mass,
		KineticEnergyInitialJ: 0.5 * mass * p.VelocityMS * p.VelocityMS,
	}, nil
}

func sphereMass(radius, density float64) float64 {
	return 4.0 / 3.0 * math.Pi * radius * radius * radius * density
}

// sphereRadius inverts sphereMass.
func sphereRadius(mass, density float64) float64 {
	return math.Cbrt(3 * mass / (4 * math.Pi * density))
}
