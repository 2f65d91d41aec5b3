package scoring

import (
	"math"
	"slices"

	"careerfit/internal/types"
)

// RoundHalfUp rounds x to the nearest integer with halves going up. The
// small epsilon absorbs float error from summing weights in hundredths, so
// 66.67 - 1e-14 still rounds to 67 and 12.5 rounds to 13.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5 + 1e-9))
}

// MatchRole scores userSkills against one role's weighted skills. Skill
// membership is exact; callers fold case beforehand if they want it folded.
func MatchRole(userSkills SkillSet, role types.RoleWeights) types.CareerPathResult {
	result := types.CareerPathResult{
		Role:          role.Role,
		MatchedSkills: []string{},
		MissingSkills: []string{},
	}

	var total, matched float64
	for _, ws := range role.Skills {
		total += ws.Weight
		if userSkills.Contains(ws.Skill) {
			matched += ws.Weight
			result.MatchedSkills = append(result.MatchedSkills, ws.Skill)
		} else {
			result.MissingSkills = append(result.MissingSkills, ws.Skill)
		}
	}

	if total > 0 {
		result.MatchPercentage = RoundHalfUp(matched / total * 100)
	}
	result.SkillGap = len(result.MissingSkills)
	return result
}

// ComputeCareerPaths scores every role and ranks them by match percentage,
// highest first. Ties keep the order roles were given in. TopMatch is nil
// when roles is empty.
func ComputeCareerPaths(userSkills SkillSet, roles []types.RoleWeights) types.CareerPathReport {
	paths := make([]types.CareerPathResult, 0, len(roles))
	for _, role := range roles {
		paths = append(paths, MatchRole(userSkills, role))
	}

	slices.SortStableFunc(paths, func(a, b types.CareerPathResult) int {
		return b.MatchPercentage - a.MatchPercentage
	})

	report := types.CareerPathReport{CareerPaths: paths}
	if len(paths) > 0 {
		top := paths[0]
		report.TopMatch = &top
	}
	return report
}
