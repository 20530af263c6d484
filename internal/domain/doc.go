// Package domain models a meteoroid's atmospheric entry and ground impact.
//
// # Inputs
//
// A request is a [MeteoroidParameters] value: radius (m), entry velocity
// (m/s), entry angle (degrees from horizontal, 90 = vertical) and a material
// class. Material classes map to a fixed density/strength table:
//
//	rock:   3000 kg/m³, 1.5e7 Pa
//	iron:   7800 kg/m³, 5.0e7 Pa
//	nickel: 8900 kg/m³, 1.0e8 Pa
//
// Strength is the ram-pressure threshold at which the body fragments.
//
// # Entry model
//
// The body is integrated from 100 km to the ground in fixed 10 m altitude
// steps through an exponential atmosphere (ρ₀ = 1.225 kg/m³, H = 8 km). Each
// step covers Δh/sin θ of path, so shallow entries see a longer column. The
// angle is clamped to at least 1° so that a grazing entry still reaches the
// ground within the step budget.
//
// Per step, with ρ the midpoint air density and A the effective cross-section:
//
//	v ← v·exp(−½·C_D·ρ·A·ds / m)       drag
//	m ← m·exp(−½·σ·ρ·A·v²·ds / m)      ablation
//
// The exponential form keeps both quantities positive for any step size.
// When the ram pressure ρ·v_entry² first exceeds strength the body fragments.
// Using entry speed makes the breakup altitude independent of size. From then
// on the debris
// cloud spreads laterally at √(C_disp·ρ/ρ_m) metres per metre of path until
// its radius reaches [FragmentationDragMultiplier] times the intact radius.
//
// A body whose mass falls below 1e-6 of its entry mass is fully dissipated
// and retains nothing. A body whose speed falls below 5 % of entry speed has
// stalled: it keeps its remaining mass but delivers no energy, so no crater
// forms (airburst). Between 10 % and 5 % of entry speed the delivered energy
// fades linearly to zero, so ground energy never decreases with size.
//
// # Retention fractions
//
//	f_frag  = m_final / m_entry, or 0 when dissipated
//	f_atm   = (v_final / v_entry)² · clamp((v_final/v_entry − 0.05) / 0.05, 0, 1)
//	f_total = f_atm · f_frag
//
// # Crater scaling
//
// Final crater diameter follows D = k·E^(1/3.4) with E the energy delivered
// to the ground in joules. k is calibrated on Meteor Crater (≈1.19 km from
// ≈10 Mt); see [HistoricalEvents] for the events the constants are checked
// against.
//
// Functions in this package are pure: no I/O, no shared mutable state.
// The one exception is [EnrichSite], which delegates to a caller-supplied
// [Geocoder] for optional impact-site context.
package domain
