// Package session tracks per-browser-session state for the web UI: a guard
// that admits one in-flight generation per session, and the last progress
// state so a reloaded page can show where the run got to.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/spetersoncode/learnpath/progress"
)

// ErrBusy is returned by Acquire when the session already has a run in flight.
var ErrBusy = errors.New("a learning path is already being generated for this session")

// DefaultLockTTL bounds how long a guard survives a crashed worker.
const DefaultLockTTL = 15 * time.Minute

// lockMargin covers the streaming that follows a run's own deadline.
const lockMargin = 5 * time.Minute

// LockTTL returns a guard TTL that outlives a run bounded by runTimeout.
func LockTTL(runTimeout time.Duration) time.Duration {
	if runTimeout <= 0 {
		return DefaultLockTTL
	}
	return runTimeout + lockMargin
}

// Status is the lifecycle of the most recent run in a session.
type Status string

const (
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// State is the persisted progress of a session's most recent run.
type State struct {
	Status    Status         `json:"status"`
	Goal      string         `json:"goal,omitempty"`
	Phase     progress.Phase `json:"phase"`
	Progress  float64        `json:"progress"`
	Message   string         `json:"message,omitempty"`
	Output    []string       `json:"output,omitempty"`
	Error     string         `json:"error,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Apply folds a progress update into the state.
func (s *State) Apply(u progress.Update) {
	s.Phase = u.Phase
	s.Progress = u.Progress
	s.Message = u.Message
}

// Store persists session guards and state. Implementations must be safe
// for concurrent use.
type Store interface {
	// Acquire claims the session's run guard and returns the token that
	// owns it. Returns ErrBusy if it is held.
	Acquire(ctx context.Context, id string) (token string, err error)
	// Release frees the guard if token still owns it. Releasing a free or
	// reclaimed guard is not an error.
	Release(ctx context.Context, id, token string) error
	// Save replaces the session's state.
	Save(ctx context.Context, id string, state State) error
	// Load returns the session's state; ok is false when none was saved.
	Load(ctx context.Context, id string) (state State, ok bool, err error)
}
