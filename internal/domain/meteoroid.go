package domain

import (
	"math"
	"strings"
)

// MaxEntryVelocityMS is the upper physical bound accepted for entry velocity.
const MaxEntryVelocityMS = 100_000.0

// Material is the composition class of a meteoroid.
type Material string

const (
	MaterialRock   Material = "rock"
	MaterialIron   Material = "iron"
	MaterialNickel Material = "nickel"
)

// UnmarshalText accepts material tags case-insensitively ("Rock", "IRON").
func (m *Material) UnmarshalText(b []byte) error {
	*m = Material(strings.ToLower(strings.TrimSpace(string(b))))
	return nil
}

// MeteoroidParameters is the immutable input to every engine operation.
type MeteoroidParameters struct {
	RadiusM       float64  `json:"radius_m"`
	VelocityMS    float64  `json:"velocity_ms"`
	EntryAngleDeg float64  `json:"entry_angle_deg"`
	Material      Material `json:"material"`
}

// Validate rejects out-of-domain values before any computation runs.
// The returned error is an *InputError naming the first offending field.
func (p MeteoroidParameters) Validate() error {
	if !(p.RadiusM > 0) || math.IsInf(p.RadiusM, 0) {
		return &InputError{Field: "radius_m", Value: p.RadiusM, Range: "a finite value > 0"}
	}
	if !(p.VelocityMS > 0) || p.VelocityMS > MaxEntryVelocityMS {
		return &InputError{Field: "velocity_ms", Value: p.VelocityMS, Range: "in (0, 100000]"}
	}
	if !(p.EntryAngleDeg >= 0 && p.EntryAngleDeg <= 90) {
		return &InputError{Field: "entry_angle_deg", Value: p.EntryAngleDeg, Range: "in [0, 90]"}
	}
	if _, err := LookupMaterial(p.Material); err != nil {
		return err
	}
	return nil
}

// DiameterM returns the meteoroid diameter.
func (p MeteoroidParameters) DiameterM() float64 {
	return 2 * p.RadiusM
}
