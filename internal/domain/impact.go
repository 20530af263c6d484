package domain

import "fmt"

// ImpactReport is the full chain output for one meteoroid.
type ImpactReport struct {
	Parameters MeteoroidParameters
	Entry      EntryState
	Atmosphere AtmosphericImpactResult
	Crater     *CraterResult // nil when no crater forms
}

// InitialMegatons is the entry kinetic energy in megatons of TNT.
func (r ImpactReport) InitialMegatons() float64 {
	return ToTNTEquivalent(r.Entry.KineticEnergyInitialJ)
}

// ImpactMegatons is the energy delivered to the ground in megatons of TNT.
func (r ImpactReport) ImpactMegatons() float64 {
	return ToTNTEquivalent(r.Atmosphere.EAfterJ)
}

// CalculateImpact runs the impact chain with the default integrator.
func CalculateImpact(p MeteoroidParameters) (ImpactReport, error) {
	return DefaultIntegrator().CalculateImpact(p)
}

// CalculateImpact runs kinematics, entry, and crater scaling for p.
func (in Integrator) CalculateImpact(p MeteoroidParameters) (ImpactReport, error) {
	state, err := ComputeEntryState(p)
	if err != nil {
		return ImpactReport{}, err
	}
	props, err := LookupMaterial(p.Material)
	if err != nil {
		return ImpactReport{}, err
	}

	atm, err := in.Simulate(state, p, props)
	if err != nil {
		return ImpactReport{}, fmt.Errorf("simulate entry: %w", err)
	}

	return ImpactReport{
		Parameters: p,
		Entry:      state,
		Atmosphere: atm,
		Crater:     ComputeCrater(atm),
	}, nil
}
