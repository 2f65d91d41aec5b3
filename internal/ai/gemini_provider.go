package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	"careerfit/internal/config"
	cferrors "careerfit/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const modelCheckTimeout = 10 * time.Second

// GeminiProvider implements TextGenerator for Google Gemini. One provider
// serves one operation so that each operation has its own breaker.
type GeminiProvider struct {
	client         *genai.Client
	operation      config.Operation
	config         *config.OperationAIConfig
	circuitBreaker *Breaker[*genai.GenerateContentResponse]
	modelBreaker   *Breaker[*genai.Model]
	logger         *cferrors.Logger
}

var _ TextGenerator = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for op
func NewGeminiProvider(cfg *config.OperationAIConfig, op config.Operation, logger *cferrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, cferrors.NewConfigError(cferrors.ErrCodeMissingAPIKey,
			fmt.Sprintf("no API key configured for %s", op), nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, cferrors.NewAIError(cferrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	cb := cfg.CircuitBreaker
	return &GeminiProvider{
		client:    client,
		operation: op,
		config:    cfg,
		circuitBreaker: NewBreaker[*genai.GenerateContentResponse](
			"AI-"+string(op), cb, failureRatioTrip(cb.MinRequests, cb.FailureThreshold), logger),
		// Model lookups only feed health checks, so they trip later.
		modelBreaker: NewBreaker[*genai.Model](
			"AI-Model-"+string(op), cb, failureRatioTrip(5, 0.8), logger),
		logger: logger,
	}, nil
}

// Generate sends req to Gemini and returns the reply text. Transport
// failures, non-success statuses, timeouts and breaker rejections are
// reported as OracleUnavailable.
func (g *GeminiProvider) Generate(ctx context.Context, req Request) (string, *TokenUsage, error) {
	ctx, span := otel.Tracer("careerfit.ai.gemini").Start(ctx, "gemini."+string(req.Operation))
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.Int("input.prompt_length", len(req.User)),
	)

	if g.config.Timeout != nil && *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	genaiConfig := g.buildConfig(req)
	user := req.User
	if !*g.config.UseSystemPrompts && req.System != "" {
		user = req.System + "\n\n" + req.User
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, string(req.Operation), func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(user), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		if isBreakerRejection(err) {
			span.SetAttributes(attribute.Bool("ai.breaker_open", true))
		}
		return "", nil, cferrors.NewOracleUnavailableError(
			"oracle request failed for "+string(req.Operation), err).
			WithContext("operation", string(req.Operation))
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	text := result.Text()
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.reply_length", len(text)),
	)
	return text, tokenUsage, nil
}

func (g *GeminiProvider) buildConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	if *g.config.UseSystemPrompts && req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}
	return cfg
}

// executeWithRetry retries fn with exponential backoff and jitter.
// MaxRetries of zero makes a single attempt.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := 0
	if g.config.MaxRetries != nil {
		maxRetries = *g.config.MaxRetries
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying oracle request",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("Oracle request succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	g.logger.LogError(lastErr, "Oracle request failed",
		"operation", operation,
		"max_retries", maxRetries)
	return nil, fmt.Errorf("operation '%s' failed: %w", operation, lastErr)
}

// backoff is 2^(attempt-1) seconds plus up to 10% jitter, capped at 30s
func backoff(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	var jitter time.Duration
	if jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1)); jitterMax.Sign() > 0 {
		if n, err := rand.Int(rand.Reader, jitterMax); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, 30*time.Second)
}

// isRetryableError reports whether err is worth another attempt
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code == http.StatusTooManyRequests || genaiErr.Code >= http.StatusInternalServerError
	}

	return false
}

// GetModelInfo checks that the configured model is reachable
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	info := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		info.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"operation", string(g.operation),
			"error", err.Error())
		return info
	}

	info.Available = true
	info.DisplayName = model.DisplayName
	info.Version = model.Version
	return info
}

// GetCircuitBreakerStats returns breaker statistics for /stats
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close releases provider resources
func (g *GeminiProvider) Close() error {
	return nil
}

func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}
	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// unavailableGenerator stands in when no provider could be built, so that
// every call takes the operation's failure path.
type unavailableGenerator struct {
	reason error
}

func (u unavailableGenerator) Generate(_ context.Context, req Request) (string, *TokenUsage, error) {
	return "", nil, cferrors.NewOracleUnavailableError(
		"oracle not configured for "+string(req.Operation), u.reason)
}

func (u unavailableGenerator) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Error: u.reason.Error()}
}

func (u unavailableGenerator) Close() error { return nil }

