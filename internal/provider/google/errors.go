package google

import (
	"errors"
	"fmt"

	ai "github.com/spetersoncode/learnpath"
	"google.golang.org/genai"
)

// wrapError wraps a Google GenAI error with error categorization.
// It extracts status codes for proper retry handling.
// Note: Google's genai.APIError doesn't expose headers, so Retry-After is not available.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		// Not an API error, return as-is (likely network error, handled by heuristics)
		return err
	}
	return ai.NewUpstreamError("google: "+apiErr.Message, apiErr.Code, err)
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("google: request blocked: %s", e.Reason)
}
