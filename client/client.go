package client

import (
	"context"
	"fmt"
	"time"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/internal/provider/anthropic"
	"github.com/spetersoncode/learnpath/internal/provider/google"
	"github.com/spetersoncode/learnpath/internal/provider/openai"
	"github.com/spetersoncode/learnpath/internal/retry"
	"github.com/spetersoncode/learnpath/model"
)

// RetryConfig holds retry configuration parameters.
type RetryConfig = retry.Config

// DefaultRetryConfig returns the default retry configuration.
//   - 5 max attempts
//   - 1 second initial delay
//   - 30 second max delay
//   - 2x exponential multiplier
//   - 10% jitter
func DefaultRetryConfig() RetryConfig {
	return retry.DefaultConfig()
}

// DisabledRetryConfig returns a configuration that disables retries (single attempt).
func DisabledRetryConfig() RetryConfig {
	return retry.Disabled()
}

// Config holds configuration for creating a client.
type Config struct {
	// Provider selects the model backend. Defaults to Google.
	Provider ai.Provider

	// APIKey authenticates against the selected provider. Required.
	APIKey string

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the API endpoint (OpenAI and Anthropic only).
	BaseURL string

	// Retry configures retry behavior for transient errors.
	// If nil, uses DefaultRetryConfig.
	Retry *RetryConfig

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// Client wraps a single provider with transient-error retries and events.
type Client struct {
	provider    ai.ChatProvider
	name        ai.Provider
	model       string
	retryConfig retry.Config
	events      chan<- Event
}

// New creates a client for the configured provider.
// A missing API key or unknown provider is reported as a config error.
func New(ctx context.Context, cfg Config) (*Client, error) {
	name := cfg.Provider
	if name == "" {
		name = ai.ProviderGoogle
	}
	if cfg.APIKey == "" {
		return nil, ai.NewConfigError(fmt.Sprintf("no API key configured for %s", name), nil)
	}
	if cfg.Model == "" {
		cfg.Model = model.Default(name).String()
	}

	var p ai.ChatProvider
	switch name {
	case ai.ProviderGoogle:
		gc, err := google.New(ctx, cfg.APIKey, google.WithModel(cfg.Model))
		if err != nil {
			return nil, err
		}
		p = gc
	case ai.ProviderOpenAI:
		opts := []openai.ClientOption{openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		p = openai.New(cfg.APIKey, opts...)
	case ai.ProviderAnthropic:
		opts := []anthropic.ClientOption{anthropic.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		p = anthropic.New(cfg.APIKey, opts...)
	default:
		return nil, ai.NewConfigError(fmt.Sprintf("unsupported provider: %s", name), nil)
	}

	return wrap(p, name, cfg), nil
}

func wrap(p ai.ChatProvider, name ai.Provider, cfg Config) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}
	return &Client{
		provider:    p,
		name:        name,
		model:       cfg.Model,
		retryConfig: retryConfig,
		events:      cfg.Events,
	}
}

// Provider returns the backend this client talks to.
func (c *Client) Provider() ai.Provider {
	return c.name
}

// Chat sends a conversation and returns a complete response.
// Automatically retries on transient errors according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	modelID := ai.ApplyOptions(opts...).Model
	if modelID == "" {
		modelID = c.model
	}

	start := time.Now()
	emit(c.events, Event{
		Type:      EventRequestStart,
		Operation: "chat",
		Provider:  c.name,
		Model:     modelID,
	})

	cfg := c.retryConfig
	userOnRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		emit(c.events, Event{
			Type:      EventRetry,
			Operation: "chat",
			Provider:  c.name,
			Model:     modelID,
			Attempt:   attempt,
			Delay:     delay,
			Error:     err,
		})
		if userOnRetry != nil {
			userOnRetry(attempt, delay, err)
		}
	}

	resp, err := retry.Do(ctx, cfg, func() (*ai.Response, error) {
		return c.provider.Chat(ctx, messages, opts...)
	})
	if err != nil {
		emit(c.events, Event{
			Type:      EventRequestError,
			Operation: "chat",
			Provider:  c.name,
			Model:     modelID,
			Duration:  time.Since(start),
			Error:     err,
		})
		return nil, err
	}

	emit(c.events, Event{
		Type:      EventRequestComplete,
		Operation: "chat",
		Provider:  c.name,
		Model:     modelID,
		Duration:  time.Since(start),
		Usage:     &resp.Usage,
	})
	return resp, nil
}

var _ ai.ChatProvider = (*Client)(nil)
