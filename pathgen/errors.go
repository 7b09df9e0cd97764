package pathgen

import (
	"fmt"

	"github.com/spetersoncode/learnpath/agent"
)

// RemediationHint accompanies every run-level failure shown to the user.
const RemediationHint = "Please check your backend configuration and try again."

// AgentError reports a run that could not finish: the model was unavailable,
// the step ceiling was exceeded or the run timed out.
type AgentError struct {
	Termination agent.TerminationReason
	Steps       int
	Err         error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("learning path generation failed (%s after %d steps): %v", e.Termination, e.Steps, e.Err)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// Hint returns the user-facing remediation hint.
func (e *AgentError) Hint() string {
	return RemediationHint
}
