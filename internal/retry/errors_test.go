package retry

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	ai "github.com/spetersoncode/learnpath"
	"github.com/stretchr/testify/assert"
)

// mockAPIError simulates an SDK error with a status code.
type mockAPIError struct {
	code int
}

func (e *mockAPIError) Error() string   { return fmt.Sprintf("api error %d", e.code) }
func (e *mockAPIError) StatusCode() int { return e.code }

func TestIsTransientStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, isTransientStatusCode(tt.code))
			assert.Equal(t, tt.expected, IsTransient(&mockAPIError{code: tt.code}))
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("invalid argument"), false},
		{"categorized transient", ai.NewTransientError("x", 503, nil), true},
		{"categorized permanent wins over message", ai.NewAuthError("timeout while refreshing", nil), false},
		{"wrapped categorized", fmt.Errorf("chat: %w", ai.NewUpstreamError("x", 429, nil)), true},
		{"net timeout", &mockTransientError{msg: "i/o"}, true},
		{"url timeout", &url.Error{Op: "Get", URL: "https://x", Err: &mockTransientError{msg: "i/o"}}, true},
		{"temporary dns", &net.DNSError{Err: "try again", IsTemporary: true}, true},
		{"dns not found", &net.DNSError{Err: "no such host", IsNotFound: true}, false},
		{"connection reset", fmt.Errorf("read: %w", syscall.ECONNRESET), true},
		{"message pattern", errors.New("503 Service Unavailable"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	resp := func(v string) *http.Response {
		h := http.Header{}
		if v != "" {
			h.Set("Retry-After", v)
		}
		return &http.Response{Header: h}
	}

	assert.Equal(t, time.Duration(0), ParseRetryAfter(nil))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(resp("")))
	assert.Equal(t, 7*time.Second, ParseRetryAfter(resp("7")))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(resp("soon")))

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	assert.Greater(t, ParseRetryAfter(resp(future)), 50*time.Minute)
}
