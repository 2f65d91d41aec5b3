package career

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"careerfit/internal/errors"
	"careerfit/internal/scoring"
	"careerfit/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = errors.NewLogger(slog.LevelDebug)

// fakeOracle returns preset weights per role and counts calls
type fakeOracle struct {
	weights  map[string][]types.WeightedSkill
	fallback map[string]bool
	delay    time.Duration

	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32

	pathErr error
	courses types.CourseRecommendationSet
}

func (f *fakeOracle) AssignWeights(ctx context.Context, role string, skills []string) (types.RoleWeights, error) {
	if err := scoring.ValidateRequirement(role, skills); err != nil {
		return types.RoleWeights{}, err
	}
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	if ws, ok := f.weights[role]; ok {
		return types.RoleWeights{Role: role, Skills: ws}, nil
	}
	return types.RoleWeights{Role: role, Skills: scoring.EqualWeights(skills), Fallback: f.fallback[role]}, nil
}

func (f *fakeOracle) RecommendCourses(ctx context.Context, input types.CourseInput) (types.CourseRecommendationSet, error) {
	if f.courses.Beginner == nil {
		return types.EmptyCourseRecommendations(), nil
	}
	return f.courses, nil
}

func (f *fakeOracle) GenerateLearningPath(ctx context.Context, input types.LearningPathInput) (types.LearningPath, error) {
	if f.pathErr != nil {
		return types.LearningPath{}, f.pathErr
	}
	return types.LearningPath{Timeline: []types.Phase{{Phase: "Start", Skills: input.MissingSkills}}}, nil
}

func mustIndex(t *testing.T, reqs ...types.RoleSkillRequirement) *scoring.SkillIndex {
	t.Helper()
	idx, err := scoring.NewSkillIndex(reqs)
	require.NoError(t, err)
	return idx
}

func TestAnalyze(t *testing.T) {
	oracle := &fakeOracle{weights: map[string][]types.WeightedSkill{
		"Backend": {{Skill: "Go", Weight: 50}, {Skill: "SQL", Weight: 30}, {Skill: "Docker", Weight: 20}},
		"Data":    {{Skill: "Python", Weight: 60}, {Skill: "SQL", Weight: 40}},
	}}
	idx := mustIndex(t,
		types.RoleSkillRequirement{Role: "Data", Skills: []string{"Python", "SQL"}},
		types.RoleSkillRequirement{Role: "Backend", Skills: []string{"Go", "SQL", "Docker"}},
	)
	s := NewScorer(oracle, Options{Concurrency: 2}, testLogger, nil)

	report, err := s.Analyze(context.Background(), []string{"Go", "SQL"}, idx)
	require.NoError(t, err)

	require.Len(t, report.CareerPaths, 2)
	assert.Equal(t, "Backend", report.CareerPaths[0].Role)
	assert.Equal(t, 80, report.CareerPaths[0].MatchPercentage)
	assert.Equal(t, []string{"Docker"}, report.CareerPaths[0].MissingSkills)
	assert.Equal(t, "Data", report.CareerPaths[1].Role)
	assert.Equal(t, 40, report.CareerPaths[1].MatchPercentage)
	require.NotNil(t, report.TopMatch)
	assert.Equal(t, "Backend", report.TopMatch.Role)
}

func TestWeightsKeepsRoleOrderAndBoundsConcurrency(t *testing.T) {
	oracle := &fakeOracle{delay: 20 * time.Millisecond}
	reqs := []types.RoleSkillRequirement{
		{Role: "A", Skills: []string{"x"}},
		{Role: "B", Skills: []string{"y"}},
		{Role: "C", Skills: []string{"z"}},
		{Role: "D", Skills: []string{"w"}},
		{Role: "E", Skills: []string{"v"}},
	}
	s := NewScorer(oracle, Options{Concurrency: 2}, testLogger, nil)

	weights, err := s.Weights(context.Background(), mustIndex(t, reqs...))
	require.NoError(t, err)

	require.Len(t, weights, 5)
	for i, rw := range weights {
		assert.Equal(t, reqs[i].Role, rw.Role)
	}
	assert.LessOrEqual(t, oracle.peak.Load(), int32(2))
	assert.Equal(t, int32(5), oracle.calls.Load())
}

func TestAnalyzeTiesKeepInputOrder(t *testing.T) {
	oracle := &fakeOracle{}
	idx := mustIndex(t,
		types.RoleSkillRequirement{Role: "First", Skills: []string{"Go", "Rust"}},
		types.RoleSkillRequirement{Role: "Second", Skills: []string{"Go", "Java"}},
	)
	s := NewScorer(oracle, Options{Concurrency: 4}, testLogger, nil)

	report, err := s.Analyze(context.Background(), []string{"Go"}, idx)
	require.NoError(t, err)
	assert.Equal(t, "First", report.CareerPaths[0].Role)
	assert.Equal(t, "Second", report.CareerPaths[1].Role)
	assert.Equal(t, 50, report.CareerPaths[0].MatchPercentage)
}

func TestMatchNormalizeCase(t *testing.T) {
	roles := []types.RoleWeights{{
		Role:   "Frontend",
		Skills: []types.WeightedSkill{{Skill: "React", Weight: 60}, {Skill: "TypeScript", Weight: 40}},
	}}

	exact := NewScorer(&fakeOracle{}, Options{}, testLogger, nil).Match([]string{"react", " typescript "}, roles)
	assert.Equal(t, 0, exact.CareerPaths[0].MatchPercentage)

	folded := NewScorer(&fakeOracle{}, Options{NormalizeCase: true}, testLogger, nil).Match([]string{"react", " typescript "}, roles)
	path := folded.CareerPaths[0]
	assert.Equal(t, 100, path.MatchPercentage)
	assert.Equal(t, []string{"React", "TypeScript"}, path.MatchedSkills)
	assert.Equal(t, []string{"React", "TypeScript"}, folded.TopMatch.MatchedSkills)
}

func TestMatchNormalizeCaseKeepsEverySpelling(t *testing.T) {
	roles := []types.RoleWeights{{Role: "A", Skills: scoring.EqualWeights([]string{"Go", "go", "SQL"})}}

	report := NewScorer(&fakeOracle{}, Options{NormalizeCase: true}, testLogger, nil).Match([]string{"go"}, roles)
	path := report.CareerPaths[0]
	assert.Equal(t, []string{"Go", "go"}, path.MatchedSkills)
	assert.Equal(t, []string{"SQL"}, path.MissingSkills)
	assert.Equal(t, 1, path.SkillGap)
	assert.Equal(t, 67, path.MatchPercentage)
	assert.ElementsMatch(t, []string{"Go", "go", "SQL"}, append(path.MatchedSkills, path.MissingSkills...))
}

func TestAssignWeightsMemo(t *testing.T) {
	oracle := &fakeOracle{weights: map[string][]types.WeightedSkill{
		"Backend": {{Skill: "Go", Weight: 100}},
	}}
	s := NewScorer(oracle, Options{CacheEnabled: true}, testLogger, nil)
	ctx := context.Background()

	for range 3 {
		_, err := s.AssignWeights(ctx, "Backend", []string{"Go"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), oracle.calls.Load())

	_, err := s.AssignWeights(ctx, "Backend", []string{"Go", "SQL"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), oracle.calls.Load(), "different skills are a different key")

	s.Bust()
	_, err = s.AssignWeights(ctx, "Backend", []string{"Go"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), oracle.calls.Load())
	assert.Equal(t, uint64(1), s.CacheStats()["generation"])
}

func TestFallbackWeightsAreNotMemoized(t *testing.T) {
	oracle := &fakeOracle{fallback: map[string]bool{"Ops": true}}
	s := NewScorer(oracle, Options{CacheEnabled: true}, testLogger, nil)

	for range 2 {
		rw, err := s.AssignWeights(context.Background(), "Ops", []string{"Linux"})
		require.NoError(t, err)
		assert.True(t, rw.Fallback)
	}
	assert.Equal(t, int32(2), oracle.calls.Load())
}

func TestConcurrentIdenticalCallsShareOneRequest(t *testing.T) {
	oracle := &fakeOracle{
		delay:   50 * time.Millisecond,
		weights: map[string][]types.WeightedSkill{"Backend": {{Skill: "Go", Weight: 100}}},
	}
	s := NewScorer(oracle, Options{CacheEnabled: true}, testLogger, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AssignWeights(context.Background(), "Backend", []string{"Go"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), oracle.calls.Load())
}

func TestPlan(t *testing.T) {
	t.Run("courses and path", func(t *testing.T) {
		oracle := &fakeOracle{courses: types.CourseRecommendationSet{
			Beginner:     []types.Course{{Title: "Intro"}},
			Intermediate: []types.Course{},
			Advanced:     []types.Course{},
		}}
		s := NewScorer(oracle, Options{}, testLogger, nil)

		plan, err := s.Plan(context.Background(), "SRE", []string{"Linux"}, []string{"Kubernetes"})
		require.NoError(t, err)
		assert.Equal(t, "SRE", plan.Role)
		assert.Len(t, plan.Courses.Beginner, 1)
		assert.Equal(t, []string{"Kubernetes"}, plan.LearningPath.Timeline[0].Skills)
	})

	t.Run("path failure fails the plan", func(t *testing.T) {
		oracle := &fakeOracle{pathErr: errors.NewUnparsableResponseError("no object", nil)}
		s := NewScorer(oracle, Options{}, testLogger, nil)

		_, err := s.Plan(context.Background(), "SRE", nil, []string{"Kubernetes"})
		require.Error(t, err)
		assert.True(t, errors.IsUnparsable(err))
	})
}

func TestOptionsDefaults(t *testing.T) {
	s := NewScorer(&fakeOracle{}, Options{Concurrency: 0}, testLogger, nil)
	assert.Equal(t, 1, s.opts.Concurrency)
	assert.Equal(t, false, s.CacheStats()["enabled"])
	s.Bust()
}
