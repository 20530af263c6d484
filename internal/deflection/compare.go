package deflection

import (
	"errors"
	"slices"
)

// ErrNoResults is returned when Compare is given nothing to rank.
var ErrNoResults = errors.New("no deflection results to compare")

// Ranked is a Result with its 1-based position.
type Ranked struct {
	Rank int `json:"rank"`
	Result
}

// Comparison orders results from best to worst.
type Comparison struct {
	Ranking []Ranked `json:"ranking"`
	Best    Strategy `json:"best"`
}

// Compare ranks results by success probability, then cost, then strategy
// priority. The input slice is not modified.
func Compare(results []Result) (Comparison, error) {
	if len(results) == 0 {
		return Comparison{}, ErrNoResults
	}

	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b Result) int {
		switch {
		case a.SuccessProbabilityPct > b.SuccessProbabilityPct:
			return -1
		case a.SuccessProbabilityPct < b.SuccessProbabilityPct:
			return 1
		case a.MissionCostUSDB < b.MissionCostUSDB:
			return -1
		case a.MissionCostUSDB > b.MissionCostUSDB:
			return 1
		}
		return priority(a.Strategy) - priority(b.Strategy)
	})

	ranking := make([]Ranked, len(sorted))
	for i, r := range sorted {
		ranking[i] = Ranked{Rank: i + 1, Result: r}
	}
	return Comparison{Ranking: ranking, Best: ranking[0].Strategy}, nil
}

func priority(s Strategy) int {
	if i := slices.Index(Strategies(), s); i >= 0 {
		return i
	}
	return len(Strategies())
}
