// Package progress derives a coarse phase and a completion fraction from the
// free-text status messages emitted while a learning path is generated.
package progress

import (
	"strings"
	"sync"
)

// Phase is a UI-visible stage of a run.
type Phase string

const (
	PhaseInitial     Phase = "Progress"
	PhaseSetup       Phase = "Setup"
	PhaseIntegration Phase = "Integration"
	PhaseGeneration  Phase = "Generation"
	PhaseComplete    Phase = "Complete"
)

// Update is the derived state after one status message.
type Update struct {
	Message  string  `json:"message"`
	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"`
	// PhaseChanged is true when Phase differs from the previous update's phase.
	PhaseChanged bool `json:"phaseChanged"`
}

// Prefix returns the bullet shown before the message: an arrow while the
// run is still setting up, a check mark from generation onwards.
func (u Update) Prefix() string {
	if u.Progress >= 0.5 {
		return "✓"
	}
	return "→"
}

type rule struct {
	keywords []string
	phase    Phase
	progress float64
}

// rules are checked in order; the first match wins.
var rules = []rule{
	{[]string{"Setting up agent with tools"}, PhaseSetup, 0.1},
	{[]string{"Added Google Drive integration", "Added Notion integration"}, PhaseIntegration, 0.2},
	{[]string{"Creating AI agent"}, PhaseSetup, 0.3},
	{[]string{"Generating your learning path"}, PhaseGeneration, 0.5},
	{[]string{"Learning path generation complete"}, PhaseComplete, 1.0},
}

// Classify returns the phase and progress for msg, and whether any rule matched.
func Classify(msg string) (Phase, float64, bool) {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.phase, r.progress, true
			}
		}
	}
	return "", 0, false
}

// Tracker folds a sequence of status messages into updates.
// It is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	phase    Phase
	progress float64
}

// NewTracker returns a tracker in the initial phase at zero progress.
func NewTracker() *Tracker {
	return &Tracker{phase: PhaseInitial}
}

// Observe records msg and returns the resulting update.
// Unmatched messages keep the previous phase and progress. Once the run is
// complete, later messages cannot move it out of Complete or lower progress.
func (t *Tracker) Observe(msg string) Update {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.phase
	if phase, progress, ok := Classify(msg); ok && t.phase != PhaseComplete {
		t.phase = phase
		t.progress = progress
	}
	return Update{
		Message:      msg,
		Phase:        t.phase,
		Progress:     t.progress,
		PhaseChanged: t.phase != prev,
	}
}

// Snapshot returns the current phase and progress without recording a message.
func (t *Tracker) Snapshot() (Phase, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase, t.progress
}
