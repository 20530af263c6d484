package engine

import (
	"github.com/TEC-Andres/HackSAERO/internal/deflection"
	"github.com/TEC-Andres/HackSAERO/internal/domain"
)

// ImpactRequest is the calculateImpact input: meteoroid fields at the top
// level plus an optional impact site.
type ImpactRequest struct {
	domain.MeteoroidParameters
	Site *domain.ImpactSite `json:"site,omitempty"`
}

// ImpactResponse is the calculateImpact output.
type ImpactResponse struct {
	Calculations      Calculations       `json:"calculations"`
	AtmosphericImpact AtmosphericImpact  `json:"atmospheric_impact"`
	Site              *domain.ImpactSite `json:"site,omitempty"`
}

// Calculations reports the pre-entry state of the body.
type Calculations struct {
	DiameterM                       float64 `json:"diameter_m"`
	MassKg                          float64 `json:"mass_kg"`
	VelocityMS                      float64 `json:"velocity_ms"`
	KineticEnergyInitialMegatonsTNT float64 `json:"kinetic_energy_initial_megatons_tnt"`
}

// AtmosphericImpact reports the entry outcome. Breakup altitude and crater
// diameter are omitted when physically undefined.
type AtmosphericImpact struct {
	FAtm              float64  `json:"f_atm"`
	FFrag             float64  `json:"f_frag"`
	FTotal            float64  `json:"f_total"`
	Broke             bool     `json:"broke"`
	BreakupAltitudeM  *float64 `json:"breakup_altitude_m,omitempty"`
	FinalVelocityMS   float64  `json:"final_velocity_ms"`
	EnergyLostPercent float64  `json:"energy_lost_percent"`
	CraterDiameterM   *float64 `json:"crater_diameter_m,omitempty"`
	EAfterJ           float64  `json:"E_after_J"`
}

func newImpactResponse(r domain.ImpactReport) ImpactResponse {
	atm := r.Atmosphere
	resp := ImpactResponse{
		Calculations: Calculations{
			DiameterM:                       r.Parameters.DiameterM(),
			MassKg:                          r.Entry.MassKg,
			VelocityMS:                      r.Parameters.VelocityMS,
			KineticEnergyInitialMegatonsTNT: r.InitialMegatons(),
		},
		AtmosphericImpact: AtmosphericImpact{
			FAtm:              atm.FAtm,
			FFrag:             atm.FFrag,
			FTotal:            atm.FTotal,
			Broke:             atm.Broke,
			FinalVelocityMS:   atm.FinalVelocityMS,
			EnergyLostPercent: atm.EnergyLostPercent,
			EAfterJ:           atm.EAfterJ,
		},
	}
	if atm.BreakupAltitudeM != nil {
		h := *atm.BreakupAltitudeM
		resp.AtmosphericImpact.BreakupAltitudeM = &h
	}
	if r.Crater != nil {
		d := r.Crater.CraterDiameterM
		resp.AtmosphericImpact.CraterDiameterM = &d
	}
	return resp
}

// DeflectionRequest is the evaluateDeflection input.
type DeflectionRequest struct {
	Meteoroid     domain.MeteoroidParameters `json:"meteoroid"`
	Strategy      deflection.Strategy        `json:"strategy"`
	LeadTimeYears float64                    `json:"lead_time_years"`
}

// DeflectionResponse holds one result per evaluated strategy and, for "all"
// requests, the ranked comparison.
type DeflectionResponse struct {
	Results    []deflection.Result    `json:"results"`
	Comparison *deflection.Comparison `json:"comparison,omitempty"`
}
