package domain

import "fmt"

// HistoricalEvent is a named calibration fixture: approximate entry
// parameters of a real event and the outcome band the model must reproduce.
type HistoricalEvent struct {
	Name       string
	Parameters MeteoroidParameters
	Expect     Expectation
}

// Expectation bounds an ImpactReport. Zero-valued bounds are unconstrained.
type Expectation struct {
	Fragments           bool
	MinBreakupAltitudeM float64
	MaxBreakupAltitudeM float64
	NoCrater            bool
	MinCraterDiameterM  float64
	MaxCraterDiameterM  float64
	MinFTotal           float64
}

// HistoricalEvents returns the fixtures the entry and crater constants are
// validated against.
func HistoricalEvents() []HistoricalEvent {
	return []HistoricalEvent{
		{
			// 2013 airburst over the southern Urals; no crater.
			Name:       "chelyabinsk",
			Parameters: MeteoroidParameters{RadiusM: 10, VelocityMS: 19_000, EntryAngleDeg: 20, Material: MaterialRock},
			Expect: Expectation{
				Fragments:           true,
				MinBreakupAltitudeM: 20_000,
				MaxBreakupAltitudeM: 30_000,
				NoCrater:            true,
			},
		},
		{
			// 1908 Siberian airburst; forest flattened, no crater.
			Name:       "tunguska",
			Parameters: MeteoroidParameters{RadiusM: 30, VelocityMS: 15_000, EntryAngleDeg: 45, Material: MaterialRock},
			Expect:     Expectation{Fragments: true, NoCrater: true},
		},
		{
			// Meteor Crater, Arizona: ~1.2 km simple crater from an iron body.
			Name:       "barringer",
			Parameters: MeteoroidParameters{RadiusM: 25, VelocityMS: 12_800, EntryAngleDeg: 90, Material: MaterialIron},
			Expect:     Expectation{MinCraterDiameterM: 400, MaxCraterDiameterM: 2_000},
		},
		{
			// K-Pg impactor; ~150-180 km complex crater.
			Name:       "chicxulub",
			Parameters: MeteoroidParameters{RadiusM: 5_000, VelocityMS: 20_000, EntryAngleDeg: 60, Material: MaterialRock},
			Expect:     Expectation{MinFTotal: 0.9, MinCraterDiameterM: 80_000, MaxCraterDiameterM: 250_000},
		},
		{
			// Nearly all energy reaches the ground; the single-law scaling
			// puts the crater near 40 km.
			Name:       "iron-1km-vertical",
			Parameters: MeteoroidParameters{RadiusM: 1_000, VelocityMS: 20_000, EntryAngleDeg: 90, Material: MaterialIron},
			Expect:     Expectation{MinFTotal: 0.95, MinCraterDiameterM: 35_000, MaxCraterDiameterM: 45_000},
		},
	}
}

// Check returns one message per expectation r violates; nil means r is
// within the fixture's band.
func (e HistoricalEvent) Check(r ImpactReport) []string {
	var problems []string
	x := e.Expect
	atm := r.Atmosphere

	if x.Fragments && !atm.Broke {
		problems = append(problems, "expected fragmentation")
	}
	if x.MinBreakupAltitudeM > 0 || x.MaxBreakupAltitudeM > 0 {
		switch {
		case atm.BreakupAltitudeM == nil:
			problems = append(problems, "breakup altitude absent")
		case *atm.BreakupAltitudeM < x.MinBreakupAltitudeM || *atm.BreakupAltitudeM > x.MaxBreakupAltitudeM:
			problems = append(problems, fmt.Sprintf("breakup altitude %.0f m outside [%.0f, %.0f]",
				*atm.BreakupAltitudeM, x.MinBreakupAltitudeM, x.MaxBreakupAltitudeM))
		}
	}
	if x.NoCrater && r.Crater != nil {
		problems = append(problems, fmt.Sprintf("expected no crater, got %.1f m", r.Crater.CraterDiameterM))
	}
	if x.MinCraterDiameterM > 0 || x.MaxCraterDiameterM > 0 {
		switch {
		case r.Crater == nil:
			problems = append(problems, "crater absent")
		case r.Crater.CraterDiameterM < x.MinCraterDiameterM || r.Crater.CraterDiameterM > x.MaxCraterDiameterM:
			problems = append(problems, fmt.Sprintf("crater diameter %.0f m outside [%.0f, %.0f]",
				r.Crater.CraterDiameterM, x.MinCraterDiameterM, x.MaxCraterDiameterM))
		}
	}
	if atm.FTotal < x.MinFTotal {
		problems = append(problems, fmt.Sprintf("f_total %.4f below %.2f", atm.FTotal, x.MinFTotal))
	}
	return problems
}
