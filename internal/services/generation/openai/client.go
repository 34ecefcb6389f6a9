// Package openai provides text and image generation backed by the OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
)

// Defaults for the OpenAI generation clients.
const (
	DefaultChatModel   = "gpt-4o-mini"
	DefaultImageModel  = openai.CreateImageModelDallE3
	DefaultImageSize   = openai.CreateImageSize1024x1024
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = time.Second
	DefaultRetryAfter  = 20 * time.Second
	DefaultTimeout     = 60 * time.Second
	DefaultTemperature = 0.9
)

// Config holds the OpenAI client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	ChatModel  string
	ImageModel string
	ImageSize  string
	MaxRetries int
	// RetryDelay is the first backoff step; it doubles on every attempt.
	RetryDelay time.Duration
	// RetryAfter is reported to callers when the API rate limits us.
	RetryAfter  time.Duration
	Timeout     time.Duration
	Temperature float32
}

// client holds the shared API client and retry policy.
type client struct {
	api    *openai.Client
	config Config
}

func newClient(cfg *Config) (*client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	c := *cfg
	if c.ChatModel == "" {
		c.ChatModel = DefaultChatModel
	}
	if c.ImageModel == "" {
		c.ImageModel = DefaultImageModel
	}
	if c.ImageSize == "" {
		c.ImageSize = DefaultImageSize
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.RetryAfter <= 0 {
		c.RetryAfter = DefaultRetryAfter
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}

	clientConfig := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		clientConfig.BaseURL = c.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: c.Timeout}

	return &client{
		api:    openai.NewClientWithConfig(clientConfig),
		config: c,
	}, nil
}

// doWithRetry runs fn with exponential backoff, retrying transient failures only.
func (c *client) doWithRetry(ctx context.Context, elementType string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if isRateLimited(err) {
			return domainerrors.NewGenerationRateLimitedError(elementType, c.config.RetryAfter, err)
		}
		if !isTransient(err) || attempt == c.config.MaxRetries-1 {
			break
		}

		wait := c.config.RetryDelay << attempt
		log.Debug().
			Str("element", elementType).
			Int("attempt", attempt+1).
			Dur("wait", wait).
			Err(err).
			Msg("generation request failed, retrying")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return domainerrors.NewGenerationError(elementType, ctx.Err())
		}
	}
	return domainerrors.NewGenerationError(elementType, lastErr)
}

func statusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

func isRateLimited(err error) bool {
	code, ok := statusCode(err)
	return ok && code == http.StatusTooManyRequests
}

// isTransient reports whether a retry could succeed: server errors and
// network failures, but not client errors or cancellation.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code, ok := statusCode(err); ok && code != 0 {
		return code >= http.StatusInternalServerError
	}
	return true
}
