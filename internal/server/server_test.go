package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/agent"
	"github.com/spetersoncode/learnpath/event"
	"github.com/spetersoncode/learnpath/metrics"
	"github.com/spetersoncode/learnpath/pathgen"
	"github.com/spetersoncode/learnpath/progress"
	"github.com/spetersoncode/learnpath/session"
)

// fakeGenerator replays the runner's progress messages.
type fakeGenerator struct {
	calls   atomic.Int32
	err     error
	started chan struct{}
	release chan struct{}
}

func (g *fakeGenerator) Run(ctx context.Context, req pathgen.Request, onProgress func(string)) (*pathgen.Result, error) {
	g.calls.Add(1)
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	onProgress(pathgen.MsgSetup)
	onProgress(pathgen.MsgYouTube)
	onProgress(pathgen.MsgCreatingAgent)
	onProgress(pathgen.MsgSetupComplete)
	onProgress(pathgen.MsgGenerating)

	call := &ai.ToolCall{ID: "c1", Name: "search", Arguments: `{"query":"go"}`}
	if req.OnEvent != nil {
		req.OnEvent(event.Event{Type: event.ToolCallStart, ToolCall: call})
		req.OnEvent(event.Event{Type: event.ToolCallResult, ToolCall: call, ToolResult: &ai.ToolResult{ToolCallID: "c1", Content: "{}"}})
	}

	msgs := []ai.Message{ai.NewUserMessage("User Goal: " + req.Goal)}
	if g.err != nil {
		return &pathgen.Result{Messages: msgs, Termination: agent.TerminationError},
			&pathgen.AgentError{Termination: agent.TerminationError, Err: g.err}
	}
	onProgress(pathgen.MsgGenerationFinish)
	msgs = append(msgs, ai.Message{Role: ai.RoleAssistant, Content: "Day 1: basics"})
	return &pathgen.Result{Messages: msgs, Steps: 2, ToolCalls: 1, Termination: agent.TerminationComplete}, nil
}

func newTestServer(t *testing.T, g Generator) (*httptest.Server, session.Store, *metrics.Metrics) {
	store := session.NewMemoryStore(0)
	m := metrics.New()
	srv := httptest.NewServer(New(g, store, WithMetrics(m)))
	t.Cleanup(srv.Close)
	return srv, store, m
}

func post(t *testing.T, srv *httptest.Server, sid, body string) *http.Response {
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/generate", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

// sseFrame is one decoded event from the stream.
type sseFrame struct {
	Type string
	Data map[string]any
}

func readSSE(t *testing.T, r io.Reader) []sseFrame {
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	var frames []sseFrame
	for _, raw := range strings.Split(strings.TrimSpace(string(body)), "\n\n") {
		var f sseFrame
		for _, line := range strings.Split(raw, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				f.Type = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &f.Data))
			}
		}
		frames = append(frames, f)
	}
	return frames
}

func frameTypes(frames []sseFrame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Type
	}
	return out
}

func TestIndex(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeGenerator{})

	resp, err := srv.Client().Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Generate Learning Path")
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			found = true
			assert.NotEmpty(t, c.Value)
		}
	}
	assert.True(t, found)
}

func TestGenerateRejectsEmptyGoal(t *testing.T) {
	g := &fakeGenerator{}
	srv, _, _ := newTestServer(t, g)

	for _, body := range []string{`{"goal":""}`, `{"goal":"   "}`, `{}`} {
		resp := post(t, srv, "", body)
		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "please enter your learning goal", out["error"])
	}
	assert.Equal(t, int32(0), g.calls.Load())

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `learnpath_runs_total{status="rejected"} 3`)
}

func TestGenerateMalformedBody(t *testing.T) {
	g := &fakeGenerator{}
	srv, _, _ := newTestServer(t, g)

	resp := post(t, srv, "", `{"goal":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(0), g.calls.Load())
}

func TestGenerateStreamsRun(t *testing.T) {
	srv, store, _ := newTestServer(t, &fakeGenerator{})
	sid := "5f0c3a52-8f5e-4b7e-9d1a-3c2b1a0f9e8d"

	resp := post(t, srv, sid, `{"goal":"learn go in 3 days"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	frames := readSSE(t, resp.Body)
	types := frameTypes(frames)
	require.NotEmpty(t, types)
	assert.Equal(t, "RUN_STARTED", types[0])
	assert.Equal(t, "RUN_FINISHED", types[len(types)-1])
	assert.Contains(t, types, "TOOL_CALL_START")
	assert.Contains(t, types, "TOOL_CALL_RESULT")
	assert.Contains(t, types, "TEXT_MESSAGE_CONTENT")
	assert.Contains(t, types, "MESSAGES_SNAPSHOT")

	var steps []string
	var progressValues []float64
	for _, f := range frames {
		switch f.Type {
		case "STEP_STARTED":
			steps = append(steps, f.Data["stepName"].(string))
		case "STATE_SNAPSHOT":
			snap := f.Data["snapshot"].(map[string]any)
			progressValues = append(progressValues, snap["progress"].(float64))
		}
	}
	assert.Equal(t, []string{"Setup", "Generation", "Complete"}, steps)
	assert.Equal(t, []float64{0.1, 0.1, 0.3, 0.3, 0.5, 1.0}, progressValues)

	state, ok, err := store.Load(context.Background(), sid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.StatusFinished, state.Status)
	assert.Equal(t, progress.PhaseComplete, state.Phase)
	assert.Equal(t, 1.0, state.Progress)
	assert.Equal(t, []string{"Day 1: basics"}, state.Output)
}

func TestGenerateFormBody(t *testing.T) {
	g := &fakeGenerator{}
	srv, _, _ := newTestServer(t, g)

	resp, err := srv.Client().PostForm(srv.URL+"/api/generate", url.Values{"goal": {"learn rust"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	frames := readSSE(t, resp.Body)
	assert.Equal(t, "RUN_FINISHED", frames[len(frames)-1].Type)
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestGenerateRunError(t *testing.T) {
	srv, store, _ := newTestServer(t, &fakeGenerator{err: errors.New("model unavailable")})
	sid := "0b9c2f5e-7a4d-4c3b-8e2f-1a9d8c7b6e5f"

	resp := post(t, srv, sid, `{"goal":"learn go"}`)
	defer resp.Body.Close()
	frames := readSSE(t, resp.Body)

	last := frames[len(frames)-1]
	assert.Equal(t, "RUN_ERROR", last.Type)
	assert.Contains(t, last.Data["message"], "model unavailable")
	assert.Contains(t, last.Data["message"], pathgen.RemediationHint)
	assert.NotContains(t, frameTypes(frames), "RUN_FINISHED")

	state, ok, err := store.Load(context.Background(), sid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, session.StatusFailed, state.Status)
	assert.Contains(t, state.Error, "model unavailable")
}

func TestGenerateReentrancy(t *testing.T) {
	g := &fakeGenerator{started: make(chan struct{}, 2), release: make(chan struct{})}
	srv, _, _ := newTestServer(t, g)
	sid := "d3b07384-d9a0-4c9b-8f3e-2a1b0c9d8e7f"

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		resp := post(t, srv, sid, `{"goal":"learn go"}`)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	select {
	case <-g.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never started")
	}

	t.Run("same session is refused", func(t *testing.T) {
		resp := post(t, srv, sid, `{"goal":"learn rust"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("other session proceeds", func(t *testing.T) {
		done := make(chan int, 1)
		go func() {
			resp := post(t, srv, "7c9e6679-7425-40de-944b-e07fc1f90ae7", `{"goal":"learn rust"}`)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			done <- resp.StatusCode
		}()
		select {
		case <-g.started:
		case <-time.After(5 * time.Second):
			t.Fatal("second session was blocked")
		}
		// release both runs
		g.release <- struct{}{}
		g.release <- struct{}{}
		assert.Equal(t, http.StatusOK, <-done)
	})

	wg.Wait()
	assert.Equal(t, int32(2), g.calls.Load())

	g.started, g.release = nil, nil
	resp := post(t, srv, sid, `{"goal":"learn go again"}`)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t, &fakeGenerator{})

	resp, err := srv.Client().Get(srv.URL + "/api/session")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	sid := "9b2d6c1e-3f4a-4b5c-8d7e-6f5a4b3c2d1e"
	require.NoError(t, store.Save(context.Background(), sid, session.State{
		Status: session.StatusRunning, Phase: progress.PhaseGeneration, Progress: 0.5,
	}))
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var state session.State
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, session.StatusRunning, state.Status)
	assert.Equal(t, 0.5, state.Progress)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeGenerator{})
	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}
