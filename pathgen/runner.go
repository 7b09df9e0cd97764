// Package pathgen turns a learning goal into a learning path by running the
// tool-calling agent over the YouTube tools and any configured document
// integrations, reporting human-readable progress along the way.
package pathgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/agent"
	"github.com/spetersoncode/learnpath/event"
	"github.com/spetersoncode/learnpath/mcp"
	"github.com/spetersoncode/learnpath/tool"
)

// Defaults applied when Config leaves a field zero.
const (
	DefaultMaxSteps = 100
	DefaultTimeout  = 10 * time.Minute
)

// Progress messages, in emission order.
const (
	MsgSetup            = "Setting up agent with tools... ✅"
	MsgYouTube          = "Initialized YouTube integration... ✅"
	MsgDrive            = "Added Google Drive integration... ✅"
	MsgNotion           = "Added Notion integration... ✅"
	MsgMCPClient        = "Initializing MCP client for Drive/Notion... ✅"
	MsgCreatingAgent    = "Creating AI agent... ✅"
	MsgSetupComplete    = "Setup complete! Starting to generate learning path... ✅"
	MsgGenerating       = "Generating your learning path..."
	MsgGenerationFinish = "Learning path generation complete!"
)

// Integration is a connected remote tool source.
type Integration interface {
	Registrations() []tool.Registration
	Close() error
}

// Connector dials the named integration at url.
type Connector func(ctx context.Context, name, url string) (Integration, error)

// MCPConnector dials integrations as MCP servers over streamable HTTP.
func MCPConnector(logger *slog.Logger) Connector {
	return func(ctx context.Context, name, url string) (Integration, error) {
		r, err := mcp.Connect(ctx, name, url, mcp.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// Config controls a Runner.
type Config struct {
	// MaxSteps bounds the agent loop. Defaults to DefaultMaxSteps.
	MaxSteps int
	// Timeout bounds the whole run. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Model overrides the provider's default model.
	Model string
	// DriveURL is the Google Drive MCP endpoint; empty disables Drive.
	DriveURL string
	// OnEvent observes agent events (steps, tool calls).
	OnEvent event.Handler
	// Connect dials remote integrations. Defaults to MCP over streamable HTTP.
	Connect Connector
	Logger  *slog.Logger
}

// Request is one user submission.
type Request struct {
	Goal      string
	NotionURL string
	// OnEvent observes this run's agent events, after Config.OnEvent.
	OnEvent event.Handler
}

// Result is the outcome of a completed run.
type Result struct {
	// Messages is the full conversation, starting with the goal prompt.
	Messages        []ai.Message
	Steps           int
	ToolCalls       int
	FailedToolCalls int
	Termination     agent.TerminationReason
	Usage           ai.Usage
	// Summary is the model's final answer.
	Summary string
	// SkippedIntegrations lists integrations that could not be connected.
	SkippedIntegrations []string
}

// Output returns the non-empty assistant messages, in order.
func (r *Result) Output() []string {
	var out []string
	for _, m := range r.Messages {
		if m.Role == ai.RoleAssistant && strings.TrimSpace(m.Content) != "" {
			out = append(out, m.Content)
		}
	}
	return out
}

// Runner builds the tool set for each request and drives the agent.
type Runner struct {
	provider ai.ChatProvider
	cfg      Config
	base     []tool.Registration
}

// NewRunner creates a runner. base are the tools available on every run
// (the YouTube tools); remote integrations are added per request.
func NewRunner(p ai.ChatProvider, cfg Config, base ...tool.Registration) *Runner {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Connect == nil {
		cfg.Connect = MCPConnector(cfg.Logger)
	}
	return &Runner{provider: p, cfg: cfg, base: base}
}

// ValidateRequest rejects a blank goal or a malformed Notion URL.
func ValidateRequest(req Request) error {
	if strings.TrimSpace(req.Goal) == "" {
		return ai.NewUserInputError("please enter your learning goal", nil)
	}
	if req.NotionURL != "" {
		u, err := url.Parse(req.NotionURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ai.NewUserInputError(fmt.Sprintf("invalid Notion URL %q", req.NotionURL), err)
		}
	}
	return nil
}

// Run generates a learning path for req, calling onProgress (if non-nil)
// with each status message. Invalid requests fail with a user input error
// before any work starts; run-level failures are returned as *AgentError.
func (r *Runner) Run(ctx context.Context, req Request, onProgress func(string)) (*Result, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	report := func(msg string) {
		if onProgress != nil {
			onProgress(msg)
		}
	}
	logger := r.cfg.Logger

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	report(MsgSetup)
	registry := tool.NewRegistry()
	if err := registry.RegisterAll(r.base...); err != nil {
		return nil, ai.NewConfigError("register tools", err)
	}
	report(MsgYouTube)

	type endpoint struct{ name, url string }
	var endpoints []endpoint
	if r.cfg.DriveURL != "" {
		endpoints = append(endpoints, endpoint{mcp.Drive, r.cfg.DriveURL})
		report(MsgDrive)
	}
	if req.NotionURL != "" {
		endpoints = append(endpoints, endpoint{mcp.Notion, req.NotionURL})
		report(MsgNotion)
	}

	var skipped []string
	if len(endpoints) > 0 {
		report(MsgMCPClient)
		for _, ep := range endpoints {
			integration, err := r.cfg.Connect(ctx, ep.name, ep.url)
			if err != nil {
				logger.Warn("integration unavailable, continuing without it", "integration", ep.name, "error", err)
				skipped = append(skipped, ep.name)
				continue
			}
			defer integration.Close()
			if err := registry.RegisterAll(integration.Registrations()...); err != nil {
				return nil, ai.NewConfigError(fmt.Sprintf("register %s tools", ep.name), err)
			}
		}
	}

	if err := registry.Validate(); err != nil {
		return nil, ai.NewConfigError("invalid tool set", err)
	}

	report(MsgCreatingAgent)
	a := agent.New(r.provider, registry)
	logger.Info("agent ready", "tool_count", registry.Len(), "tools", registry.Names(), "max_steps", r.cfg.MaxSteps)
	report(MsgSetupComplete)

	report(MsgGenerating)
	opts := []agent.Option{agent.WithMaxSteps(r.cfg.MaxSteps)}
	if r.cfg.Model != "" {
		opts = append(opts, agent.WithModel(r.cfg.Model))
	}
	if h := chain(r.cfg.OnEvent, req.OnEvent); h != nil {
		opts = append(opts, agent.WithEventHandler(h))
	}

	start := time.Now()
	res, err := a.Run(ctx, []ai.Message{ai.NewUserMessage(buildPrompt(req.Goal))}, opts...)
	result := &Result{
		Messages:            res.Messages,
		Steps:               res.Steps,
		ToolCalls:           res.ToolCalls,
		FailedToolCalls:     res.FailedToolCalls,
		Termination:         res.Termination,
		Usage:               res.TotalUsage,
		Summary:             res.FinalContent(),
		SkippedIntegrations: skipped,
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.Termination = agent.TerminationTimeout
		}
		logger.Error("learning path generation failed",
			"termination", result.Termination, "steps", result.Steps, "error", err)
		return result, &AgentError{Termination: result.Termination, Steps: result.Steps, Err: err}
	}

	logger.Info("learning path generated",
		"steps", result.Steps,
		"tool_calls", result.ToolCalls,
		"failed_tool_calls", result.FailedToolCalls,
		"duration", time.Since(start))
	report(MsgGenerationFinish)
	return result, nil
}

func chain(hs ...event.Handler) event.Handler {
	var set []event.Handler
	for _, h := range hs {
		if h != nil {
			set = append(set, h)
		}
	}
	switch len(set) {
	case 0:
		return nil
	case 1:
		return set[0]
	}
	return func(e event.Event) {
		for _, h := range set {
			h(e)
		}
	}
}
