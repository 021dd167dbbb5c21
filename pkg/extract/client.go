// Package extract calls an OpenAI-compatible chat API to turn raw
// market notes into structured snapshots.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/internal/metrics"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/config"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

// Client is the LLM-backed extractor. Any OpenAI-compatible endpoint
// works; the base URL and model come from config.
type Client struct {
	api    openai.Client
	model  string
	retry  *RetryHandler
	logger *zap.Logger
}

// ClientOption configures optional client behaviour.
type ClientOption func(*clientOptions)

type clientOptions struct {
	retry      *RetryHandler
	apiOptions []option.RequestOption
}

// WithRetryHandler injects a custom retry handler.
func WithRetryHandler(handler *RetryHandler) ClientOption {
	return func(opts *clientOptions) {
		opts.retry = handler
	}
}

// WithRequestOptions appends extra OpenAI SDK request options,
// primarily for tests pointing at a stub server.
func WithRequestOptions(requestOpts ...option.RequestOption) ClientOption {
	return func(opts *clientOptions) {
		opts.apiOptions = append(opts.apiOptions, requestOpts...)
	}
}

// NewClient constructs an extractor from configuration. The API key is
// read from the environment variable named in the config.
func NewClient(cfg *config.ExtractorConfig, logger *zap.Logger, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("extractor config is nil")
	}

	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("extractor API key not set: env=%s", cfg.APIKeyEnv)
	}

	optState := clientOptions{}
	for _, opt := range opts {
		opt(&optState)
	}

	apiOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.BaseURL),
	}
	if cfg.RequestTimeout > 0 {
		apiOpts = append(apiOpts, option.WithRequestTimeout(cfg.RequestTimeout))
	}
	apiOpts = append(apiOpts, optState.apiOptions...)

	retry := optState.retry
	if retry == nil {
		retry = NewRetryHandler(RetryConfig{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxBackoff:     cfg.MaxBackoff,
			Multiplier:     cfg.Multiplier,
		})
	}

	return &Client{
		api:    openai.NewClient(apiOpts...),
		model:  cfg.Model,
		retry:  retry,
		logger: logger,
	}, nil
}

// Extract sends the raw notes to the model and decodes the snapshot.
// The network call retries with backoff on transient failures; decode
// failures are terminal for the batch.
func (c *Client) Extract(ctx context.Context, rawText string) (*market.Snapshot, error) {
	start := time.Now()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(rawText)),
		},
		Temperature: openai.Float(0),
	}

	var completion *openai.ChatCompletion
	err := c.retry.Do(ctx, func() error {
		resp, callErr := c.api.Chat.Completions.New(ctx, params)
		if callErr != nil {
			return callErr
		}
		completion = resp
		return nil
	})
	if err != nil {
		metrics.ExtractorCalls.WithLabelValues("error").Inc()
		c.logger.Error("extraction call failed",
			zap.String("model", c.model),
			zap.Error(err),
		)
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	if len(completion.Choices) == 0 {
		metrics.ExtractorCalls.WithLabelValues("empty").Inc()
		return nil, errors.New("extraction returned no choices")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	snapshot, err := DecodeSnapshot(content)
	if err != nil {
		metrics.ExtractorCalls.WithLabelValues("unparsable").Inc()
		c.logger.Error("extraction response not parsable",
			zap.String("model", c.model),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.ExtractorCalls.WithLabelValues("ok").Inc()
	c.logger.Info("extraction completed",
		zap.String("model", c.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("coins", len(snapshot.Coins)),
		zap.Int64("prompt_tokens", completion.Usage.PromptTokens),
		zap.Int64("completion_tokens", completion.Usage.CompletionTokens),
	)

	return snapshot, nil
}
