// Command calibrate checks the physics constants against historical impact
// events and sanity-checks every deflection strategy over the supported
// lead-time range.
//
// Usage:
//
//	go run ./cmd/calibrate [-max-steps 20000] [-v]
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/TEC-Andres/HackSAERO/internal/deflection"
	"github.com/TEC-Andres/HackSAERO/internal/domain"
)

// phase tracks pass/fail for a calibration phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	maxSteps := flag.Int("max-steps", domain.DefaultMaxSteps, "entry integrator step budget")
	verbose := flag.Bool("v", false, "print each fixture's outcome")
	flag.Parse()

	if *maxSteps <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(domain.Integrator{AltitudeStepM: domain.DefaultAltitudeStepM, MaxSteps: *maxSteps}, *verbose); code != 0 {
		os.Exit(code)
	}
}

func run(in domain.Integrator, verbose bool) int {
	fmt.Println("=== Impact Engine Calibration ===")
	fmt.Printf("atmosphere %s, crater %s, materials %s, success curve %s\n\n",
		domain.AtmosphereModelVersion, domain.CraterScalingVersion,
		domain.MaterialTableVersion, deflection.ProbabilityCurveVersion)

	phases := []*phase{
		checkHistoricalEvents(in, verbose),
		checkDeflectionBounds(),
		checkMomentumScaling(),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll calibration checks passed.")
		return 0
	}
	fmt.Println("\nCalibration FAILED.")
	return 1
}

// checkHistoricalEvents runs every fixture through the entry model and
// compares the outcome with its expected band.
func checkHistoricalEvents(in domain.Integrator, verbose bool) *phase {
	p := &phase{name: "Historical events"}
	for _, ev := range domain.HistoricalEvents() {
		report, err := in.CalculateImpact(ev.Parameters)
		if err != nil {
			p.errorf("%s: %v", ev.Name, err)
			continue
		}
		for _, problem := range ev.Check(report) {
			p.errorf("%s: %s", ev.Name, problem)
		}
		if verbose {
			printReport(ev.Name, report)
		}
	}
	return p
}

func printReport(name string, r domain.ImpactReport) {
	fmt.Println(formatReport(name, r))
}

// formatReport renders one fixture outcome; ground energy is in kilotons
// since most fixtures deliver far less than a megaton.
func formatReport(name string, r domain.ImpactReport) string {
	atm := r.Atmosphere
	crater := "none"
	if r.Crater != nil {
		crater = fmt.Sprintf("%.0f m", r.Crater.CraterDiameterM)
	}
	breakup := "-"
	if atm.BreakupAltitudeM != nil {
		breakup = fmt.Sprintf("%.1f km", *atm.BreakupAltitudeM/1000)
	}
	return fmt.Sprintf("  %-18s E0 %10.3g Mt  breakup %-9s ground %10.3g kt  f_total %.4f  crater %s",
		name, r.InitialMegatons(), breakup, domain.ToKilotons(atm.EAfterJ), atm.FTotal, crater)
}

// checkDeflectionBounds evaluates every strategy against every fixture at the
// edges and middle of the lead-time range.
func checkDeflectionBounds() *phase {
	p := &phase{name: "Deflection bounds"}
	leads := []float64{deflection.MinLeadTimeYears, 5, deflection.MaxLeadTimeYears}

	for _, ev := range domain.HistoricalEvents() {
		state, err := domain.ComputeEntryState(ev.Parameters)
		if err != nil {
			p.errorf("%s: %v", ev.Name, err)
			continue
		}
		for _, lead := range leads {
			results, err := deflection.EvaluateAll(ev.Parameters, state, lead)
			if err != nil {
				p.errorf("%s lead %.0f y: %v", ev.Name, lead, err)
				continue
			}
			for _, r := range results {
				tag := fmt.Sprintf("%s/%s lead %.0f y", ev.Name, r.Strategy, lead)
				if r.SuccessProbabilityPct < 0 || r.SuccessProbabilityPct > 100 {
					p.errorf("%s: success probability %.2f outside [0, 100]", tag, r.SuccessProbabilityPct)
				}
				if got := deflection.Safety(r.SuccessProbabilityPct); got != r.SafetyLevel {
					p.errorf("%s: safety %s does not match %.2f%% (want %s)", tag, r.SafetyLevel, r.SuccessProbabilityPct, got)
				}
				if !(r.MissionCostUSDB > 0) || math.IsInf(r.MissionCostUSDB, 0) {
					p.errorf("%s: mission cost %v not positive and finite", tag, r.MissionCostUSDB)
				}
				if r.DeltaVCmS < 0 || r.MissDistanceKm < 0 {
					p.errorf("%s: negative shift (dv %.4g cm/s, miss %.4g km)", tag, r.DeltaVCmS, r.MissDistanceKm)
				}
			}
		}
	}
	return p
}

// checkMomentumScaling verifies that an impulse delivers eight times less
// velocity change to a body twice the radius.
func checkMomentumScaling() *phase {
	p := &phase{name: "Kinetic impactor momentum scaling"}
	small := domain.MeteoroidParameters{RadiusM: 100, VelocityMS: 17_000, EntryAngleDeg: 45, Material: domain.MaterialRock}
	large := small
	large.RadiusM = 200

	dv := func(m domain.MeteoroidParameters) float64 {
		state, err := domain.ComputeEntryState(m)
		if err != nil {
			p.errorf("radius %.0f m: %v", m.RadiusM, err)
			return math.NaN()
		}
		r, err := deflection.Evaluate(m, state, deflection.KineticImpactor, 5)
		if err != nil {
			p.errorf("radius %.0f m: %v", m.RadiusM, err)
			return math.NaN()
		}
		return r.DeltaVCmS
	}

	ratio := dv(small) / dv(large)
	if math.IsNaN(ratio) || math.Abs(ratio-8) > 1e-6 {
		p.errorf("delta-v ratio %.6f, want 8", ratio)
	}
	return p
}
