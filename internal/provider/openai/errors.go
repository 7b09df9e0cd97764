package openai

import (
	"errors"

	"github.com/openai/openai-go"
	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/internal/retry"
)

// wrapError wraps an OpenAI SDK error with error categorization.
// It extracts status codes and Retry-After headers for proper retry handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely network error, handled by heuristics)
		return err
	}

	code := apiErr.StatusCode
	if retryAfter := retry.ParseRetryAfter(apiErr.Response); retryAfter > 0 {
		return ai.NewTransientErrorWithRetry("openai: rate limited", code, retryAfter, err)
	}
	return ai.NewUpstreamError("openai: request failed", code, err)
}
