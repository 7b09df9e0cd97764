package agui

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("streaming not supported")

// Writer writes AG-UI events as Server-Sent Events.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	count   int
}

// NewWriter sets the SSE headers on w. It fails if w cannot flush.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &Writer{w: w, flusher: flusher}, nil
}

// Write sends one event and flushes.
func (sw *Writer) Write(ev events.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()
	// event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(sw.w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	sw.flusher.Flush()
	sw.count++
	return nil
}

// WriteAll sends events in order, stopping at the first failure.
func (sw *Writer) WriteAll(evs []events.Event) error {
	for _, ev := range evs {
		if err := sw.Write(ev); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of events written.
func (sw *Writer) Count() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.count
}
