package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/internal/retry"
)

// wrapError wraps an Anthropic SDK error with error categorization.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.StatusCode
	if retryAfter := retry.ParseRetryAfter(apiErr.Response); retryAfter > 0 {
		return ai.NewTransientErrorWithRetry("anthropic: rate limited", code, retryAfter, err)
	}
	return ai.NewUpstreamError("anthropic: request failed", code, err)
}
