package career

import (
	"context"
	"fmt"
	"time"

	"careerfit/internal/config"
	"careerfit/internal/errors"
	"careerfit/internal/observability"
	"careerfit/internal/scoring"
	"careerfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Oracle is the oracle-backed part of the scorer, implemented by ai.Service
type Oracle interface {
	AssignWeights(ctx context.Context, role string, skills []string) (types.RoleWeights, error)
	RecommendCourses(ctx context.Context, input types.CourseInput) (types.CourseRecommendationSet, error)
	GenerateLearningPath(ctx context.Context, input types.LearningPathInput) (types.LearningPath, error)
}

// Options tunes a Scorer
type Options struct {
	// Concurrency bounds the weight assignments in flight.
	Concurrency int
	// NormalizeCase matches skills case-insensitively.
	NormalizeCase bool
	// CacheEnabled memoizes oracle weights per role and skill list.
	CacheEnabled bool
}

// OptionsFromConfig maps the matching section to Options
func OptionsFromConfig(cfg config.MatchingConfig) Options {
	return Options{
		Concurrency:   cfg.Concurrency,
		NormalizeCase: cfg.NormalizeCase,
		CacheEnabled:  cfg.CacheEnabled,
	}
}

// Scorer runs the full career-fit flow: weights for every role, matching,
// and remediation for a chosen role.
type Scorer struct {
	oracle  Oracle
	opts    Options
	weights *Memo[types.RoleWeights]
	logger  *errors.Logger
	om      *observability.ObservabilityManager
}

// NewScorer creates a scorer over oracle
func NewScorer(oracle Oracle, opts Options, logger *errors.Logger, om *observability.ObservabilityManager) *Scorer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	s := &Scorer{oracle: oracle, opts: opts, logger: logger, om: om}
	if opts.CacheEnabled {
		s.weights = NewMemo[types.RoleWeights]()
	}
	return s
}

// Bust drops memoized weights so the next run asks the oracle again
func (s *Scorer) Bust() {
	if s.weights != nil {
		s.weights.Bust()
		s.logger.Info("Weight cache busted", "generation", s.weights.Generation())
	}
}

// CacheStats describes the weight memo for /stats
func (s *Scorer) CacheStats() map[string]any {
	if s.weights == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":    true,
		"entries":    s.weights.Len(),
		"generation": s.weights.Generation(),
	}
}

// AssignWeights returns the weights of one role, memoized when enabled.
// Fallback weights are not memoized.
func (s *Scorer) AssignWeights(ctx context.Context, role string, skills []string) (types.RoleWeights, error) {
	if s.weights == nil {
		return s.oracle.AssignWeights(ctx, role, skills)
	}

	key := Key{Operation: string(config.OperationWeights), Role: role, Signature: Signature(skills)}
	return s.weights.Do(key, func() (types.RoleWeights, bool, error) {
		rw, err := s.oracle.AssignWeights(ctx, role, skills)
		return rw, err == nil && !rw.Fallback, err
	})
}

// Weights assigns weights to every role of idx concurrently. The result
// follows the index's role order.
func (s *Scorer) Weights(ctx context.Context, idx *scoring.SkillIndex) ([]types.RoleWeights, error) {
	roles := idx.Roles()
	out := make([]types.RoleWeights, len(roles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, role := range roles {
		skills, _ := idx.Skills(role)
		g.Go(func() error {
			rw, err := s.AssignWeights(gctx, role, skills)
			if err != nil {
				return fmt.Errorf("assign weights for %q: %w", role, err)
			}
			out[i] = rw
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Analyze weights every role of idx and ranks them against userSkills
func (s *Scorer) Analyze(ctx context.Context, userSkills []string, idx *scoring.SkillIndex) (types.CareerPathReport, error) {
	start := time.Now()

	weights, err := s.Weights(ctx, idx)
	if err != nil {
		return types.CareerPathReport{}, err
	}

	report := s.Match(userSkills, weights)

	fallbacks := 0
	for _, rw := range weights {
		if rw.Fallback {
			fallbacks++
		}
	}
	s.logger.Info("Career paths computed",
		"roles", len(weights),
		"fallback_roles", fallbacks,
		"duration_ms", time.Since(start).Milliseconds())
	s.om.GetMetrics().RecordBusinessMetric(ctx, observability.MetricCareerPathsComputed, true, s.om,
		attribute.Int("roles", len(weights)))

	return report, nil
}

// AnalyzeRequirements indexes reqs and runs Analyze over them
func (s *Scorer) AnalyzeRequirements(ctx context.Context, userSkills []string, reqs []types.RoleSkillRequirement) (types.CareerPathReport, error) {
	idx, err := scoring.NewSkillIndex(reqs)
	if err != nil {
		return types.CareerPathReport{}, err
	}
	return s.Analyze(ctx, userSkills, idx)
}

// Match ranks weighted roles against userSkills. With NormalizeCase both
// sides are folded before matching and results keep the role's spelling.
func (s *Scorer) Match(userSkills []string, roles []types.RoleWeights) types.CareerPathReport {
	if !s.opts.NormalizeCase {
		return scoring.ComputeCareerPaths(scoring.NewSkillSet(userSkills...), roles)
	}

	user := scoring.NewSkillSet(userSkills...).Normalized()
	folded := make([]types.RoleWeights, len(roles))
	original := make(map[string][]types.WeightedSkill, len(roles))
	for i, rw := range roles {
		skills := make([]types.WeightedSkill, len(rw.Skills))
		for j, ws := range rw.Skills {
			skills[j] = types.WeightedSkill{Skill: scoring.NormalizeSkill(ws.Skill), Weight: ws.Weight}
		}
		original[rw.Role] = rw.Skills
		folded[i] = types.RoleWeights{Role: rw.Role, Skills: skills, Fallback: rw.Fallback}
	}

	report := scoring.ComputeCareerPaths(user, folded)
	for i := range report.CareerPaths {
		restoreSpelling(&report.CareerPaths[i], user, original[report.CareerPaths[i].Role])
	}
	if len(report.CareerPaths) > 0 {
		top := report.CareerPaths[0]
		report.TopMatch = &top
	}
	return report
}

// restoreSpelling rebuilds the matched and missing lists from the role's own
// skills by position, so names that fold together keep their spellings.
func restoreSpelling(r *types.CareerPathResult, user scoring.SkillSet, skills []types.WeightedSkill) {
	matched := make([]string, 0, len(r.MatchedSkills))
	missing := make([]string, 0, len(r.MissingSkills))
	for _, ws := range skills {
		if user.Contains(scoring.NormalizeSkill(ws.Skill)) {
			matched = append(matched, ws.Skill)
		} else {
			missing = append(missing, ws.Skill)
		}
	}
	r.MatchedSkills = matched
	r.MissingSkills = missing
}

// Plan requests courses and a learning path for role concurrently. Courses
// degrade to an empty set; a learning path failure fails the plan.
func (s *Scorer) Plan(ctx context.Context, role string, userSkills, missingSkills []string) (types.RemediationPlan, error) {
	plan := types.RemediationPlan{Role: role}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, err := s.oracle.RecommendCourses(gctx, types.CourseInput{Role: role, MissingSkills: missingSkills})
		if err != nil {
			return err
		}
		plan.Courses = courses
		return nil
	})
	g.Go(func() error {
		path, err := s.oracle.GenerateLearningPath(gctx, types.LearningPathInput{
			Role:          role,
			UserSkills:    userSkills,
			MissingSkills: missingSkills,
		})
		if err != nil {
			return err
		}
		plan.LearningPath = path
		return nil
	})

	if err := g.Wait(); err != nil {
		return types.RemediationPlan{}, err
	}
	return plan, nil
}
