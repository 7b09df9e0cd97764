package tool

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of a tool invocation: either a success payload or a
// failure reason. It serializes to the payload itself, or to
// {"error": reason} on failure.
type Result struct {
	payload any
	reason  string
	failed  bool
}

// Ok returns a successful result carrying payload.
func Ok(payload any) Result {
	return Result{payload: payload}
}

// Fail returns a failed result with a human-readable reason.
func Fail(reason string) Result {
	return Result{reason: reason, failed: true}
}

// Failf is like Fail but formats the reason.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Sprintf(format, args...))
}

// Failed reports whether the result is a failure.
func (r Result) Failed() bool { return r.failed }

// Reason returns the failure reason, or "" for a success.
func (r Result) Reason() string { return r.reason }

// Payload returns the success payload, or nil for a failure.
func (r Result) Payload() any { return r.payload }

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.failed {
		return json.Marshal(map[string]string{"error": r.reason})
	}
	return json.Marshal(r.payload)
}

// String returns the JSON encoding sent back to the model. A payload that
// cannot be encoded becomes an error payload.
func (r Result) String() string {
	data, err := json.Marshal(r)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": "encode result: " + err.Error()})
	}
	return string(data)
}
