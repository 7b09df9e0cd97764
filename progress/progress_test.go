package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerKnownSequence(t *testing.T) {
	messages := []string{
		"Setting up agent with tools... ✅",
		"Added Google Drive integration... ✅",
		"Creating AI agent... ✅",
		"Generating your learning path...",
		"Learning path generation complete!",
	}

	tr := NewTracker()
	var progress []float64
	var phases []Phase
	for _, m := range messages {
		u := tr.Observe(m)
		progress = append(progress, u.Progress)
		phases = append(phases, u.Phase)
	}

	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.5, 1.0}, progress)
	assert.Equal(t, []Phase{PhaseSetup, PhaseIntegration, PhaseSetup, PhaseGeneration, PhaseComplete}, phases)
}

func TestTrackerFullRun(t *testing.T) {
	tests := []struct {
		msg      string
		phase    Phase
		progress float64
		changed  bool
	}{
		{"Setting up agent with tools... ✅", PhaseSetup, 0.1, true},
		{"Initialized YouTube integration... ✅", PhaseSetup, 0.1, false},
		{"Added Google Drive integration... ✅", PhaseIntegration, 0.2, true},
		{"Added Notion integration... ✅", PhaseIntegration, 0.2, false},
		{"Initializing MCP client for Drive/Notion... ✅", PhaseIntegration, 0.2, false},
		{"Creating AI agent... ✅", PhaseSetup, 0.3, true},
		{"Setup complete! Starting to generate learning path... ✅", PhaseSetup, 0.3, false},
		{"Generating your learning path...", PhaseGeneration, 0.5, true},
		{"Learning path generation complete!", PhaseComplete, 1.0, true},
	}

	tr := NewTracker()
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			u := tr.Observe(tt.msg)
			assert.Equal(t, tt.msg, u.Message)
			assert.Equal(t, tt.phase, u.Phase)
			assert.Equal(t, tt.progress, u.Progress)
			assert.Equal(t, tt.changed, u.PhaseChanged)
		})
	}
}

func TestTrackerUnmatchedKeepsInitialPhase(t *testing.T) {
	tr := NewTracker()
	u := tr.Observe("something unrelated")
	assert.Equal(t, PhaseInitial, u.Phase)
	assert.Equal(t, 0.0, u.Progress)
	assert.False(t, u.PhaseChanged)
}

func TestTrackerCompleteIsTerminal(t *testing.T) {
	tr := NewTracker()
	tr.Observe("Generating your learning path...")
	first := tr.Observe("Learning path generation complete!")
	assert.True(t, first.PhaseChanged)

	again := tr.Observe("Learning path generation complete!")
	assert.False(t, again.PhaseChanged)

	late := tr.Observe("Setting up agent with tools...")
	assert.Equal(t, PhaseComplete, late.Phase)
	assert.Equal(t, 1.0, late.Progress)
	assert.False(t, late.PhaseChanged)

	phase, progress := tr.Snapshot()
	assert.Equal(t, PhaseComplete, phase)
	assert.Equal(t, 1.0, progress)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	phase, progress, ok := Classify("Setting up agent with tools while Creating AI agent")
	assert.True(t, ok)
	assert.Equal(t, PhaseSetup, phase)
	assert.Equal(t, 0.1, progress)

	_, _, ok = Classify("nothing here")
	assert.False(t, ok)
}

func TestUpdatePrefix(t *testing.T) {
	assert.Equal(t, "→", Update{Progress: 0.3}.Prefix())
	assert.Equal(t, "✓", Update{Progress: 0.5}.Prefix())
}
