package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Business metric types accepted by RecordBusinessMetric
const (
	MetricWeightsAssigned       = "weights_assigned"
	MetricCareerPathsComputed   = "career_paths_computed"
	MetricCoursesRecommended    = "courses_recommended"
	MetricLearningPathGenerated = "learning_path_generated"
	MetricQuizGraded            = "quiz_graded"
	MetricRateLimitHit          = "rate_limit_hit"
)

// Metrics holds all custom metrics for careerfit. Every method is safe on a
// zero Metrics and records nothing in that case.
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	WeightsAssigned        metric.Int64Counter
	CareerPathsComputed    metric.Int64Counter
	CoursesRecommended     metric.Int64Counter
	LearningPathsGenerated metric.Int64Counter
	QuizzesGraded          metric.Int64Counter

	RateLimitHits metric.Int64Counter
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"careerfit_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing oracle requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	if m.AIRequestCount, err = meter.Int64Counter(
		"careerfit_ai_requests_total",
		metric.WithDescription("Total number of oracle requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	if m.AIErrorCount, err = meter.Int64Counter(
		"careerfit_ai_errors_total",
		metric.WithDescription("Total number of oracle request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	if m.AITokenUsage, err = meter.Int64Histogram(
		"careerfit_ai_token_usage_total",
		metric.WithDescription("Token usage for oracle requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	counters := []struct {
		target *metric.Int64Counter
		name   string
		desc   string
	}{
		{&m.WeightsAssigned, "careerfit_weights_assigned_total", "Total number of role weightings produced"},
		{&m.CareerPathsComputed, "careerfit_career_paths_computed_total", "Total number of career path reports computed"},
		{&m.CoursesRecommended, "careerfit_courses_recommended_total", "Total number of course recommendation sets returned"},
		{&m.LearningPathsGenerated, "careerfit_learning_paths_generated_total", "Total number of learning paths generated"},
		{&m.QuizzesGraded, "careerfit_quizzes_graded_total", "Total number of quizzes graded"},
		{&m.RateLimitHits, "careerfit_rate_limit_hits_total", "Total number of rate limit hits"},
	}
	for _, c := range counters {
		if *c.target, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", c.name, err)
		}
	}

	return m, nil
}

// TrackAIOperationWithTokens instruments an oracle call with tracing, metrics
// and token usage
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m == nil || m.AIProcessingTime == nil {
		if result := fn(ctx); result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := otel.Tracer("careerfit.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if om.aiMetricsEnabled() {
		m.recordAIMetrics(ctx, operation, err, duration, result, om, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	return err
}

func (om *ObservabilityManager) aiMetricsEnabled() bool {
	if om == nil || om.fullConfig == nil {
		return true
	}
	return om.fullConfig.Observability.CustomMetrics.AIOperations.Enabled
}

func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, result *AIOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if result != nil && result.TokenUsage != nil {
		if om == nil || om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackTokenUsage {
			m.recordTokenMetrics(ctx, result.TokenUsage, attrs)
		}
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", result.TokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", result.TokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", result.TokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attrs...)
}

func (m *Metrics) recordTokenMetrics(ctx context.Context, usage *TokenUsage, attrs []attribute.KeyValue) {
	for _, tt := range []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		tokenAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
		tokenAttrs = append(tokenAttrs, attrs...)
		tokenAttrs = append(tokenAttrs, attribute.String("token_type", tt.tokenType))
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
	}
}

// RecordBusinessMetric increments the counter for metricType
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if m == nil {
		return
	}

	attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)

	if metricType == MetricRateLimitHit {
		if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.TrackRateLimits {
			return
		}
		add(ctx, m.RateLimitHits, attrs)
		return
	}

	if om != nil && om.fullConfig != nil && !om.fullConfig.Observability.CustomMetrics.BusinessMetrics.Enabled {
		return
	}

	switch metricType {
	case MetricWeightsAssigned:
		add(ctx, m.WeightsAssigned, attrs)
	case MetricCareerPathsComputed:
		add(ctx, m.CareerPathsComputed, attrs)
	case MetricCoursesRecommended:
		add(ctx, m.CoursesRecommended, attrs)
	case MetricLearningPathGenerated:
		add(ctx, m.LearningPathsGenerated, attrs)
	case MetricQuizGraded:
		add(ctx, m.QuizzesGraded, attrs)
	}
}

func add(ctx context.Context, counter metric.Int64Counter, attrs []attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
