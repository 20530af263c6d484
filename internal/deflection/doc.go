// Package deflection evaluates planetary-defense strategies against a
// meteoroid on a collision course.
//
// Four strategies form a closed set. Kinetic impactor and nuclear standoff
// deliver a single impulse after a cruise phase; the asteroid then drifts
// off its original track at the imparted Δv for the remaining lead time.
// Gravity tractor and laser ablation apply a small continuous acceleration
// from arrival until the predicted impact date; their displacement is
// integrated in one-day steps.
//
// Success probability (curve v1) is
//
//	P = R_max · (1 − exp(−miss/1 R⊕)) · (1 − exp(−coast/2 yr))
//
// where R_max is the strategy's best achievable reliability, miss is the
// miss distance in Earth radii and coast is the lead time left after the
// cruise phase. P is zero when the cruise phase consumes the lead time.
//
// Safety levels are fixed thresholds on P: ≥90 % safe, ≥60 % marginal,
// ≥30 % unsafe, otherwise failed.
//
// The ranking used by [Compare] is lexicographic: higher success
// probability first, then lower mission cost, then the fixed order
// kinetic impactor, gravity tractor, nuclear standoff, laser ablation.
package deflection
