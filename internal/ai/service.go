package ai

import (
	"context"
	"fmt"
	"strings"

	"careerfit/internal/config"
	"careerfit/internal/errors"
	"careerfit/internal/observability"
	"careerfit/internal/scoring"
	"careerfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// Service runs the oracle-backed operations and applies their failure
// policies: weights fall back to an equal split, courses degrade to an empty
// set, learning paths propagate the error.
type Service struct {
	generators map[config.Operation]TextGenerator
	config     *config.Config
	logger     *errors.Logger
	om         *observability.ObservabilityManager
}

// NewService creates one provider per operation. An operation whose provider
// cannot be built (for example without an API key) is served by a generator
// that always reports the oracle as unavailable.
func NewService(cfg *config.Config, logger *errors.Logger, om *observability.ObservabilityManager) (*Service, error) {
	generators := make(map[config.Operation]TextGenerator, len(config.Operations))

	for _, op := range config.Operations {
		opCfg, err := cfg.GetOperationConfig(op)
		if err != nil {
			return nil, err
		}

		logger.Debug("Initializing oracle provider",
			"operation", string(op),
			"provider", opCfg.Provider,
			"model", opCfg.Model,
			"temperature", *opCfg.Temperature,
			"timeout", *opCfg.Timeout,
			"max_retries", *opCfg.MaxRetries)

		var gen TextGenerator
		switch opCfg.Provider {
		case "gemini":
			gen, err = NewGeminiProvider(&opCfg, op, logger)
		default:
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("Unsupported AI provider: %s", opCfg.Provider), nil)
		}
		if err != nil {
			logger.Warn("Oracle provider unavailable", "operation", string(op), "error", err.Error())
			gen = unavailableGenerator{reason: err}
		}
		generators[op] = gen
	}

	return NewServiceWithGenerators(cfg, logger, om, generators), nil
}

// NewServiceWithGenerators builds a Service over existing generators. A
// missing operation is treated as unavailable.
func NewServiceWithGenerators(cfg *config.Config, logger *errors.Logger, om *observability.ObservabilityManager, generators map[config.Operation]TextGenerator) *Service {
	gens := make(map[config.Operation]TextGenerator, len(config.Operations))
	for _, op := range config.Operations {
		if g, ok := generators[op]; ok && g != nil {
			gens[op] = g
		} else {
			gens[op] = unavailableGenerator{reason: fmt.Errorf("no generator for %s", op)}
		}
	}
	return &Service{generators: gens, config: cfg, logger: logger, om: om}
}

// AssignWeights asks the oracle to spread 100 points across skills. Any
// oracle or parse failure yields equal weights; only invalid input is an
// error. The oracle is asked once.
func (s *Service) AssignWeights(ctx context.Context, role string, skills []string) (types.RoleWeights, error) {
	if err := scoring.ValidateRequirement(role, skills); err != nil {
		return types.RoleWeights{}, err
	}

	req := buildRequest(s.config, config.OperationWeights, role, skills)
	req.Schema = weightsResponseSchema()

	text, err := s.call(ctx, req)
	var weights []types.WeightedSkill
	if err == nil {
		weights, err = parseWeights(text, skills)
		if err != nil {
			err = errors.NewUnparsableResponseError("unusable weights reply", err)
		}
	}

	metrics := s.om.GetMetrics()
	if err != nil {
		s.logger.Warn("Falling back to equal weights",
			"role", role,
			"skills", len(skills),
			"reason", err.Error())
		metrics.RecordBusinessMetric(ctx, observability.MetricWeightsAssigned, true, s.om,
			attribute.Bool("fallback", true))
		return types.RoleWeights{Role: role, Skills: scoring.EqualWeights(skills), Fallback: true}, nil
	}

	metrics.RecordBusinessMetric(ctx, observability.MetricWeightsAssigned, true, s.om,
		attribute.Bool("fallback", false))
	return types.RoleWeights{Role: role, Skills: weights}, nil
}

// RecommendCourses asks the oracle for courses covering the missing skills.
// Any oracle or parse failure yields an empty set; only invalid input is an
// error.
func (s *Service) RecommendCourses(ctx context.Context, input types.CourseInput) (types.CourseRecommendationSet, error) {
	if err := validateRoleAndSkills(input.Role, input.MissingSkills, "missing skills"); err != nil {
		return types.CourseRecommendationSet{}, err
	}

	req := buildRequest(s.config, config.OperationCourses, input.Role, input.MissingSkills)
	req.Schema = coursesResponseSchema()

	text, err := s.call(ctx, req)
	var set types.CourseRecommendationSet
	if err == nil {
		set, err = parseCourses(text)
		if err != nil {
			err = errors.NewUnparsableResponseError("unusable courses reply", err)
		}
	}

	metrics := s.om.GetMetrics()
	if err != nil {
		s.logger.Warn("Course recommendations unavailable",
			"role", input.Role,
			"reason", err.Error())
		metrics.RecordBusinessMetric(ctx, observability.MetricCoursesRecommended, true, s.om,
			attribute.Bool("degraded", true))
		return types.EmptyCourseRecommendations(), nil
	}

	metrics.RecordBusinessMetric(ctx, observability.MetricCoursesRecommended, true, s.om,
		attribute.Bool("degraded", false))
	return set, nil
}

// GenerateLearningPath asks the oracle for a staged learning path. Failures
// are returned as OracleUnavailable or UnparsableOracleResponse errors.
func (s *Service) GenerateLearningPath(ctx context.Context, input types.LearningPathInput) (types.LearningPath, error) {
	if err := validateRoleAndSkills(input.Role, input.MissingSkills, "missing skills"); err != nil {
		return types.LearningPath{}, err
	}

	req := buildRequest(s.config, config.OperationPath, input.Role, input.UserSkills, input.MissingSkills)
	req.Schema = learningPathResponseSchema()

	metrics := s.om.GetMetrics()
	text, err := s.call(ctx, req)
	if err != nil {
		metrics.RecordBusinessMetric(ctx, observability.MetricLearningPathGenerated, false, s.om)
		return types.LearningPath{}, err
	}

	path, err := parseLearningPath(text)
	if err != nil {
		metrics.RecordBusinessMetric(ctx, observability.MetricLearningPathGenerated, false, s.om)
		return types.LearningPath{}, errors.NewUnparsableResponseError("unusable learning path reply", err).
			WithContext("role", input.Role)
	}

	metrics.RecordBusinessMetric(ctx, observability.MetricLearningPathGenerated, true, s.om,
		attribute.Int("phases", len(path.Timeline)))
	return path, nil
}

// call sends req to the operation's generator under AI operation metrics
func (s *Service) call(ctx context.Context, req Request) (string, error) {
	gen := s.generators[req.Operation]

	var text string
	err := s.om.GetMetrics().TrackAIOperationWithTokens(ctx, string(req.Operation),
		func(ctx context.Context) *observability.AIOperationResult {
			var usage *TokenUsage
			var err error
			text, usage, err = gen.Generate(ctx, req)
			return &observability.AIOperationResult{Error: err, TokenUsage: usage}
		}, s.om)
	if err != nil && !errors.IsOracleUnavailable(err) {
		err = errors.NewOracleUnavailableError("oracle request failed for "+string(req.Operation), err)
	}
	return text, err
}

// GetModelInfo reports model availability for health checks
func (s *Service) GetModelInfo(ctx context.Context) map[string]*ModelInfo {
	out := make(map[string]*ModelInfo, len(s.generators))
	for op, gen := range s.generators {
		out[string(op)] = gen.GetModelInfo(ctx)
	}
	return out
}

// Stats returns circuit breaker statistics per operation
func (s *Service) Stats() map[string]any {
	out := make(map[string]any, len(s.generators))
	for op, gen := range s.generators {
		if bs, ok := gen.(breakerStats); ok {
			out[string(op)] = bs.GetCircuitBreakerStats()
		} else {
			out[string(op)] = map[string]any{"enabled": false}
		}
	}
	return out
}

// Close releases every generator
func (s *Service) Close() error {
	var errs []string
	for op, gen := range s.generators {
		if err := gen.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", op, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close generators: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRoleAndSkills(role string, skills []string, what string) error {
	if strings.TrimSpace(role) == "" {
		return errors.NewInvalidInputError("role must not be empty", nil)
	}
	if len(skills) == 0 {
		return errors.NewInvalidInputError(what+" must not be empty", nil)
	}
	for _, s := range skills {
		if strings.TrimSpace(s) == "" {
			return errors.NewInvalidInputError(what+" must not contain blank entries", nil)
		}
	}
	return nil
}
