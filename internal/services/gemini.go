package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("no text content in response")

type GeminiService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	GenerateTextWithRetry(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// GenerateOptions tunes a single generation call.
type GenerateOptions struct {
	Temperature float32
	// JSON asks the model for an application/json response.
	JSON bool
}

// RetryPolicy is an exponential backoff: Attempts calls, waiting
// InitialDelay after the first failure and doubling after each one.
type RetryPolicy struct {
	Attempts     int
	InitialDelay time.Duration
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	retry      RetryPolicy
	logger     *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey string, retry RetryPolicy, logger *zap.Logger) (GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if retry.Attempts < 1 {
		retry.Attempts = 1
	}

	return &geminiService{
		client:     client,
		modelName:  "gemini-2.5-flash",
		embedModel: "text-embedding-004",
		retry:      retry,
		logger:     logger,
	}, nil
}

func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// roughly the embedding model's token limit
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func (g *geminiService) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	temperature := opts.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if opts.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", ErrEmptyResponse
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	g.logger.Debug("📊 Gemini response received", zap.Int("chars", len(text)))
	return text, nil
}

func (g *geminiService) GenerateTextWithRetry(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	return withRetry(ctx, g.retry, g.logger, func() (string, error) {
		return g.GenerateText(ctx, prompt, opts)
	})
}

// withRetry calls fn until it succeeds, the policy is exhausted or ctx ends.
func withRetry(ctx context.Context, policy RetryPolicy, logger *zap.Logger, fn func() (string, error)) (string, error) {
	attempts := max(policy.Attempts, 1)
	delay := policy.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		logger.Warn("⚠️ Generation attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
