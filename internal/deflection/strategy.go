package deflection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedStrategy is returned for an unknown strategy tag.
var ErrUnsupportedStrategy = errors.New("unsupported strategy")

// Strategy identifies a deflection technique.
type Strategy string

const (
	KineticImpactor Strategy = "kinetic_impactor"
	GravityTractor  Strategy = "gravity_tractor"
	NuclearStandoff Strategy = "nuclear_standoff"
	LaserAblation   Strategy = "laser_ablation"

	// All requests every strategy plus a comparison.
	All Strategy = "all"
)

// Strategies returns the concrete strategies in tie-break priority order.
func Strategies() []Strategy {
	return []Strategy{KineticImpactor, GravityTractor, NuclearStandoff, LaserAblation}
}

// ParseStrategy accepts the canonical tags and common spellings such as
// "KineticImpactor" or "kinetic-impactor".
func ParseStrategy(s string) (Strategy, error) {
	key := normalizeTag(s)
	if key == normalizeTag(string(All)) {
		return All, nil
	}
	for _, st := range Strategies() {
		if key == normalizeTag(string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedStrategy, s)
}

// UnmarshalText normalizes a strategy tag; unknown tags are kept verbatim so
// they can be rejected with ErrUnsupportedStrategy at evaluation time.
func (s *Strategy) UnmarshalText(b []byte) error {
	parsed, err := ParseStrategy(string(b))
	if err != nil {
		*s = Strategy(b)
		return nil
	}
	*s = parsed
	return nil
}

func normalizeTag(s string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

// variant is the capability set every strategy provides.
type variant interface {
	shift(t target, leadTimeYears float64) shift
	cost(t target) float64
	reliability() float64
	transitYears() float64
}

var variants = map[Strategy]variant{
	KineticImpactor: kineticImpactor,
	GravityTractor:  gravityTractor,
	NuclearStandoff: nuclearStandoff,
	LaserAblation:   laserAblation,
}

func lookupVariant(s Strategy) (variant, error) {
	v, ok := variants[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, s)
	}
	return v, nil
}
