// Package agui streams learning path runs to the browser as AG-UI protocol
// events over Server-Sent Events.
//
// A [Mapper] turns the three things a run produces into AG-UI events:
//
//   - progress updates become STEP_STARTED / STEP_FINISHED on each phase
//     transition and a STATE_SNAPSHOT carrying {phase, progress, message};
//   - agent tool calls become TOOL_CALL_START, TOOL_CALL_ARGS, TOOL_CALL_END
//     and TOOL_CALL_RESULT;
//   - the final assistant messages become TEXT_MESSAGE_START / CONTENT / END,
//     followed by a MESSAGES_SNAPSHOT of the whole conversation.
//
// A [Writer] serializes events in SSE framing and flushes after each one.
//
//	w, err := agui.NewWriter(rw)
//	mapper := agui.NewMapper(sessionID, "")
//	w.Write(mapper.RunStarted())
//	for _, ev := range mapper.Progress(update) {
//	    w.Write(ev)
//	}
//	w.Write(mapper.RunFinished())
//
// The Mapper is NOT safe for concurrent use; the Writer is.
package agui
