package scoring

import (
	"fmt"
	"math"

	"careerfit/internal/types"
)

const (
	// TotalWeight is the number of points spread across a role's skills.
	TotalWeight = 100.0
	// WeightTolerance is the allowed deviation of a weight sum from TotalWeight.
	WeightTolerance = 0.01
)

// EqualWeights splits TotalWeight evenly across skills in hundredths. The
// last skill absorbs the remainder, so three skills get 33.33, 33.33, 33.34.
func EqualWeights(skills []string) []types.WeightedSkill {
	if len(skills) == 0 {
		return nil
	}

	const hundredths = int(TotalWeight * 100)
	n := len(skills)
	base := hundredths / n
	last := hundredths - base*(n-1)

	out := make([]types.WeightedSkill, n)
	for i, s := range skills {
		w := base
		if i == n-1 {
			w = last
		}
		out[i] = types.WeightedSkill{Skill: s, Weight: float64(w) / 100}
	}
	return out
}

// SumWeights adds the weights of ws.
func SumWeights(ws []types.WeightedSkill) float64 {
	var sum float64
	for _, w := range ws {
		sum += w.Weight
	}
	return sum
}

// WeightSumValid reports whether ws sums to TotalWeight within tolerance.
func WeightSumValid(ws []types.WeightedSkill) bool {
	return math.Abs(SumWeights(ws)-TotalWeight) <= WeightTolerance+1e-9
}

// ReconcileWeights checks a proposed weighting against the requested skills.
// Every requested skill must appear exactly once and nothing else may appear.
// Exact names win; otherwise names are matched case-insensitively and
// rewritten to the requested spelling, unless the folded name is shared by
// several requested skills. The result follows the requested order. Weights must be finite,
// non-negative and sum to TotalWeight within tolerance.
func ReconcileWeights(skills []string, proposed []types.WeightedSkill) ([]types.WeightedSkill, error) {
	if len(proposed) != len(skills) {
		return nil, fmt.Errorf("expected %d weighted skills, got %d", len(skills), len(proposed))
	}

	exact := make(map[string]int, len(skills))
	folded := make(map[string]int, len(skills))
	for i, s := range skills {
		exact[s] = i
		n := NormalizeSkill(s)
		if _, clash := folded[n]; clash {
			folded[n] = -1
		} else {
			folded[n] = i
		}
	}

	out := make([]types.WeightedSkill, len(skills))
	filled := make([]bool, len(skills))
	for _, p := range proposed {
		i, ok := exact[p.Skill]
		if !ok {
			i, ok = folded[NormalizeSkill(p.Skill)]
		}
		if !ok {
			return nil, fmt.Errorf("unexpected skill %q", p.Skill)
		}
		if i < 0 {
			return nil, fmt.Errorf("skill %q matches more than one requested skill", p.Skill)
		}
		if filled[i] {
			return nil, fmt.Errorf("skill %q listed more than once", p.Skill)
		}
		if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight < 0 {
			return nil, fmt.Errorf("invalid weight %v for skill %q", p.Weight, p.Skill)
		}
		filled[i] = true
		out[i] = types.WeightedSkill{Skill: skills[i], Weight: p.Weight}
	}

	if !WeightSumValid(out) {
		return nil, fmt.Errorf("weights sum to %.4f, want %.0f", SumWeights(out), TotalWeight)
	}
	return out, nil
}
