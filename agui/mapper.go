package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/event"
	"github.com/spetersoncode/learnpath/progress"
)

// State is the STATE_SNAPSHOT payload sent after every progress update.
type State struct {
	Phase    progress.Phase `json:"phase"`
	Progress float64        `json:"progress"`
	Message  string         `json:"message"`
	Prefix   string         `json:"prefix"`
}

// Mapper converts one run's progress, agent events and output to AG-UI events.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use.
type Mapper struct {
	threadID string
	runID    string
	step     string
}

// NewMapper creates a new Mapper for a single run. Empty IDs are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event whose message ends with hint, if any.
func (m *Mapper) RunError(err error, hint string) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if hint != "" {
		msg += ". " + hint
	}
	return events.NewRunErrorEvent(msg)
}

// Progress maps a progress update. A phase transition closes the previous
// step and opens a new one; every update ends with a STATE_SNAPSHOT.
func (m *Mapper) Progress(u progress.Update) []events.Event {
	var out []events.Event
	if u.PhaseChanged {
		if m.step != "" {
			out = append(out, events.NewStepFinishedEvent(m.step))
		}
		m.step = string(u.Phase)
		out = append(out, events.NewStepStartedEvent(m.step))
	}
	out = append(out, events.NewStateSnapshotEvent(State{
		Phase:    u.Phase,
		Progress: u.Progress,
		Message:  u.Message,
		Prefix:   u.Prefix(),
	}))
	return out
}

// Finish closes the open step, if any.
func (m *Mapper) Finish() []events.Event {
	if m.step == "" {
		return nil
	}
	ev := events.NewStepFinishedEvent(m.step)
	m.step = ""
	return []events.Event{ev}
}

// MapEvent converts an agent event. Only tool call events have an AG-UI
// rendering here; run and step lifecycles are driven by progress instead.
func (m *Mapper) MapEvent(e event.Event) []events.Event {
	switch e.Type {
	case event.ToolCallStart:
		if e.ToolCall == nil {
			return nil
		}
		return []events.Event{
			events.NewToolCallStartEvent(e.ToolCall.ID, e.ToolCall.Name),
			events.NewToolCallArgsEvent(e.ToolCall.ID, e.ToolCall.Arguments),
			events.NewToolCallEndEvent(e.ToolCall.ID),
		}
	case event.ToolCallResult:
		if e.ToolCall == nil || e.ToolResult == nil {
			return nil
		}
		return []events.Event{
			events.NewToolCallResultEvent(events.GenerateMessageID(), e.ToolCall.ID, e.ToolResult.Content),
		}
	default:
		return nil
	}
}

// Output emits each text as a complete assistant message.
func (m *Mapper) Output(texts []string) []events.Event {
	out := make([]events.Event, 0, 3*len(texts))
	for _, text := range texts {
		id := ai.GenerateMessageID()
		out = append(out,
			events.NewTextMessageStartEvent(id, events.WithRole(RoleAssistant)),
			events.NewTextMessageContentEvent(id, text),
			events.NewTextMessageEndEvent(id),
		)
	}
	return out
}

// Messages returns a MESSAGES_SNAPSHOT of the conversation.
func (m *Mapper) Messages(msgs []ai.Message) events.Event {
	return events.NewMessagesSnapshotEvent(FromMessages(msgs))
}
