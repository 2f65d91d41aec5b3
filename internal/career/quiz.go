package career

import (
	"context"

	"careerfit/internal/config"
	"careerfit/internal/errors"
	"careerfit/internal/observability"
	"careerfit/internal/scoring"
	"careerfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// Quiz kinds select the pass threshold
const (
	QuizKindCourse      = "course"
	QuizKindApplication = "application"
)

// Grader grades quizzes against the configured thresholds
type Grader struct {
	cfg config.QuizConfig
	om  *observability.ObservabilityManager
}

// NewGrader creates a grader. om may be nil.
func NewGrader(cfg config.QuizConfig, om *observability.ObservabilityManager) *Grader {
	return &Grader{cfg: cfg, om: om}
}

// Threshold returns the pass threshold of kind. An empty kind is a course quiz.
func (g *Grader) Threshold(kind string) (int, error) {
	switch kind {
	case "", QuizKindCourse:
		return g.cfg.CourseThreshold, nil
	case QuizKindApplication:
		return g.cfg.ApplicationThreshold, nil
	default:
		return 0, errors.NewInvalidInputError("unknown quiz kind "+kind, nil).WithContext("kind", kind)
	}
}

// Grade scores in with the threshold of its kind
func (g *Grader) Grade(ctx context.Context, in types.QuizInput) (types.QuizResult, error) {
	threshold, err := g.Threshold(in.Kind)
	if err != nil {
		return types.QuizResult{}, err
	}

	result, err := scoring.GradeQuiz(in.Questions, in.Answers, threshold)
	if err != nil {
		return types.QuizResult{}, err
	}

	kind := in.Kind
	if kind == "" {
		kind = QuizKindCourse
	}
	g.om.GetMetrics().RecordBusinessMetric(ctx, observability.MetricQuizGraded, true, g.om,
		attribute.String("kind", kind),
		attribute.Bool("passed", result.Passed))
	return result, nil
}
