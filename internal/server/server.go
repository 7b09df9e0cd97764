// Package server is the learnpath web UI: a single page that submits a goal
// and renders the run's progress from an AG-UI event stream.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/google/uuid"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/agui"
	"github.com/spetersoncode/learnpath/event"
	"github.com/spetersoncode/learnpath/metrics"
	"github.com/spetersoncode/learnpath/pathgen"
	"github.com/spetersoncode/learnpath/progress"
	"github.com/spetersoncode/learnpath/session"
)

// SessionCookie names the cookie carrying the browser session ID.
const SessionCookie = "learnpath_session"

//go:embed index.html
var indexHTML []byte

// Generator runs one learning path request.
type Generator interface {
	Run(ctx context.Context, req pathgen.Request, onProgress func(string)) (*pathgen.Result, error)
}

// Server serves the UI and the generation API.
type Server struct {
	gen      Generator
	sessions session.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics enables the /metrics endpoint and run instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New creates a Server. sessions defaults to an in-memory store.
func New(gen Generator, sessions session.Store, opts ...Option) *Server {
	s := &Server{
		gen:      gen,
		sessions: sessions,
		logger:   slog.Default(),
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore(0)
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /api/generate", s.handleGenerate)
	s.mux.HandleFunc("GET /api/session", s.handleSession)
	s.mux.HandleFunc("GET /health", handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
		return
	}
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// generateRequest is the body of POST /api/generate.
type generateRequest struct {
	Goal      string `json:"goal"`
	NotionURL string `json:"notionUrl"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.sessionID(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sid := s.sessionID(w, r)
	log := s.logger.With("session_id", sid)

	req, err := decodeGenerate(r)
	if err != nil {
		log.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	preq := pathgen.Request{Goal: strings.TrimSpace(req.Goal), NotionURL: strings.TrimSpace(req.NotionURL)}
	if err := pathgen.ValidateRequest(preq); err != nil {
		log.Warn("request rejected", "error", err)
		s.rejected()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	token, err := s.sessions.Acquire(ctx, sid)
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			log.Warn("run already in progress")
			s.rejected()
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		log.Error("session guard unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	defer func() {
		if err := s.sessions.Release(context.WithoutCancel(ctx), sid, token); err != nil {
			log.Error("failed to release session", "error", err)
		}
	}()

	sw, err := agui.NewWriter(w)
	if err != nil {
		log.Error("streaming not supported")
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	var done func(error)
	if s.metrics != nil {
		done = s.metrics.RunStarted()
	}

	log.Info("generation started", "goal", preq.Goal, "notion", preq.NotionURL != "")
	mapper := agui.NewMapper(sid, "")
	tracker := progress.NewTracker()
	state := session.State{Status: session.StatusRunning, Goal: preq.Goal, Phase: progress.PhaseInitial}
	save := func() {
		state.UpdatedAt = time.Now()
		if err := s.sessions.Save(context.WithoutCancel(ctx), sid, state); err != nil {
			log.Warn("failed to save session state", "error", err)
		}
	}
	send := func(evs ...events.Event) {
		if err := sw.WriteAll(evs); err != nil {
			log.Debug("failed to write SSE event", "error", err)
		}
	}
	save()
	send(mapper.RunStarted())

	preq.OnEvent = func(e event.Event) {
		if s.metrics != nil {
			s.metrics.ObserveAgent(e)
		}
		send(mapper.MapEvent(e)...)
	}
	onProgress := func(msg string) {
		u := tracker.Observe(msg)
		state.Apply(u)
		save()
		send(mapper.Progress(u)...)
	}

	res, runErr := s.gen.Run(ctx, preq, onProgress)
	if done != nil {
		done(runErr)
	}
	if res != nil && len(res.Messages) > 0 {
		state.Output = res.Output()
		send(mapper.Output(state.Output)...)
		send(mapper.Messages(res.Messages))
	}
	send(mapper.Finish()...)

	if runErr != nil {
		hint := ""
		var agentErr *pathgen.AgentError
		if errors.As(runErr, &agentErr) {
			hint = agentErr.Hint()
		}
		state.Status = session.StatusFailed
		state.Error = runErr.Error()
		save()
		send(mapper.RunError(runErr, hint))
		log.Error("generation failed",
			"kind", ai.KindOf(runErr),
			"duration_ms", time.Since(start).Milliseconds(),
			"events_sent", sw.Count(),
			"error", runErr,
		)
		return
	}

	state.Status = session.StatusFinished
	save()
	send(mapper.RunFinished())
	log.Info("generation completed",
		"steps", res.Steps,
		"tool_calls", res.ToolCalls,
		"failed_tool_calls", res.FailedToolCalls,
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", sw.Count(),
	)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	state, ok, err := s.sessions.Load(r.Context(), c.Value)
	if err != nil {
		s.logger.Error("failed to load session", "session_id", c.Value, "error", err)
		writeError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleHealth returns a simple health check response.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionID returns the caller's session ID, issuing a new cookie if needed.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) rejected() {
	if s.metrics != nil {
		s.metrics.RunRejected()
	}
}

func decodeGenerate(r *http.Request) (generateRequest, error) {
	var req generateRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Goal = r.PostForm.Get("goal")
	req.NotionURL = r.PostForm.Get("notionUrl")
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
