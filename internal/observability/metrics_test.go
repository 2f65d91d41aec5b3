package observability

import (
	"context"
	"errors"
	"testing"

	"careerfit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := newMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestRecordBusinessMetric(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordBusinessMetric(ctx, MetricWeightsAssigned, true, nil)
	m.RecordBusinessMetric(ctx, MetricWeightsAssigned, true, nil)
	m.RecordBusinessMetric(ctx, MetricQuizGraded, true, nil)
	m.RecordBusinessMetric(ctx, "unknown", true, nil)

	assert.Equal(t, int64(2), counterTotal(t, reader, "careerfit_weights_assigned_total"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "careerfit_quizzes_graded_total"))
}

func TestRecordBusinessMetricDisabled(t *testing.T) {
	m, reader := newTestMetrics(t)
	cfg := &config.Config{}
	om := &ObservabilityManager{fullConfig: cfg}

	m.RecordBusinessMetric(context.Background(), MetricCoursesRecommended, true, om)
	m.RecordBusinessMetric(context.Background(), MetricRateLimitHit, true, om)

	assert.Zero(t, counterTotal(t, reader, "careerfit_courses_recommended_total"))
	assert.Zero(t, counterTotal(t, reader, "careerfit_rate_limit_hits_total"))
}

func TestTrackAIOperationWithTokens(t *testing.T) {
	m, reader := newTestMetrics(t)
	boom := errors.New("boom")

	err := m.TrackAIOperationWithTokens(context.Background(), "weights", func(context.Context) *AIOperationResult {
		return &AIOperationResult{TokenUsage: &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}
	}, nil)
	require.NoError(t, err)

	err = m.TrackAIOperationWithTokens(context.Background(), "path", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: boom}
	}, nil)
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, int64(2), counterTotal(t, reader, "careerfit_ai_requests_total"))
	assert.Equal(t, int64(1), counterTotal(t, reader, "careerfit_ai_errors_total"))
}

func TestNilSafety(t *testing.T) {
	var om *ObservabilityManager
	m := om.GetMetrics()
	require.NotNil(t, m)

	called := false
	err := m.TrackAIOperationWithTokens(context.Background(), "courses", func(context.Context) *AIOperationResult {
		called = true
		return nil
	}, om)
	assert.NoError(t, err)
	assert.True(t, called)

	m.RecordBusinessMetric(context.Background(), MetricQuizGraded, true, om)
	assert.NoError(t, om.Shutdown(context.Background()))
	assert.NotNil(t, om.Tracer("x"))
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{ServiceName: "careerfit"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, om.HTTPMiddleware())
	assert.NoError(t, om.Shutdown(context.Background()))
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.ServiceName = "careerfit"
	cfg.Observability.Enabled = true
	cfg.Observability.Prometheus.Enabled = true
	cfg.Observability.Prometheus.Port = "9191"

	got := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "1.2.3", got.ServiceVersion)
	assert.True(t, got.Prometheus.Enabled)
	assert.Equal(t, "9191", got.Prometheus.Port)

	fallback := GetObservabilityConfig(nil, "dev")
	assert.Equal(t, "careerfit", fallback.ServiceName)
	assert.Equal(t, "/metrics", fallback.Prometheus.Endpoint)
}
