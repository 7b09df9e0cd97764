package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/tool"
)

// Integration names, used as tool name prefixes.
const (
	Drive  = "drive"
	Notion = "notion"
)

// clientVersion is reported to MCP servers during initialization.
const clientVersion = "1.0.0"

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// RemoteRegistry provides access to tools from an MCP server.
// Tool names are prefixed with the integration name.
//
// RemoteRegistry is safe for concurrent use. The tool list is cached
// locally and can be refreshed with [RemoteRegistry.Refresh].
type RemoteRegistry struct {
	name   string
	client *client.Client
	logger *slog.Logger

	mu     sync.RWMutex
	tools  map[string]ai.Tool // keyed by prefixed name
	remote map[string]string  // prefixed name -> remote name
	order  []string
}

// Option configures a RemoteRegistry.
type Option func(*options)

type options struct {
	headers map[string]string
	logger  *slog.Logger
}

// WithHeaders adds HTTP headers to every request sent to the server.
func WithHeaders(h map[string]string) Option {
	return func(o *options) {
		o.headers = h
	}
}

// WithLogger sets the logger used for remote call failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Connect creates a RemoteRegistry for the integration name connected to an
// MCP server via streamable HTTP.
func Connect(ctx context.Context, name, url string, opts ...Option) (*RemoteRegistry, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var topts []transport.StreamableHTTPCOption
	if len(o.headers) > 0 {
		topts = append(topts, transport.WithHTTPHeaders(o.headers))
	}
	c, err := client.NewStreamableHttpClient(url, topts...)
	if err != nil {
		return nil, ai.NewConfigError(fmt.Sprintf("mcp %s: create client", name), err)
	}
	r, err := newRemoteRegistry(ctx, name, c, o.logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewRemoteRegistryFromClient creates a RemoteRegistry from an existing MCP client.
// This function starts and initializes the client and fetches its tools.
func NewRemoteRegistryFromClient(ctx context.Context, name string, c *client.Client) (*RemoteRegistry, error) {
	return newRemoteRegistry(ctx, name, c, slog.Default())
}

func newRemoteRegistry(ctx context.Context, name string, c *client.Client, logger *slog.Logger) (*RemoteRegistry, error) {
	if err := c.Start(ctx); err != nil {
		return nil, ai.NewUpstreamError(fmt.Sprintf("mcp %s: start client", name), 0, err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "learnpath",
				Version: clientVersion,
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, ai.NewUpstreamError(fmt.Sprintf("mcp %s: initialize session", name), 0, err)
	}

	r := &RemoteRegistry{
		name:   name,
		client: c,
		logger: logger.With("integration", name),
	}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, ai.NewUpstreamError(fmt.Sprintf("mcp %s: list tools", name), 0, err)
	}
	r.logger.Info("mcp integration connected", "tools", r.Len())
	return r, nil
}

// Name returns the integration name.
func (r *RemoteRegistry) Name() string {
	return r.name
}

// Close closes the connection to the MCP server.
func (r *RemoteRegistry) Close() error {
	return r.client.Close()
}

// Refresh fetches the current list of tools from the MCP server.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	tools := make(map[string]ai.Tool, len(result.Tools))
	remote := make(map[string]string, len(result.Tools))
	order := make([]string, 0, len(result.Tools))
	for _, t := range result.Tools {
		converted := FromMCPTool(t)
		converted.Name = r.prefixed(t.Name)
		if _, dup := tools[converted.Name]; dup {
			r.logger.Warn("skipping remote tool with colliding name", "tool", t.Name)
			continue
		}
		tools[converted.Name] = converted
		remote[converted.Name] = t.Name
		order = append(order, converted.Name)
	}

	r.mu.Lock()
	r.tools, r.remote, r.order = tools, remote, order
	r.mu.Unlock()
	return nil
}

// prefixed maps a remote tool name to a valid, integration-scoped name.
func (r *RemoteRegistry) prefixed(name string) string {
	s := r.name + "_" + invalidNameChars.ReplaceAllString(name, "_")
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}

// Tools returns all tools available from the MCP server, in server order.
func (r *RemoteRegistry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Len returns the number of available tools.
func (r *RemoteRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Execute calls a tool on the remote MCP server. call.Name is the prefixed name.
// Remote failures are reported as error results, never as Go errors.
func (r *RemoteRegistry) Execute(ctx context.Context, call ai.ToolCall) tool.Result {
	r.mu.RLock()
	remoteName, ok := r.remote[call.Name]
	r.mu.RUnlock()
	if !ok {
		return tool.Fail((&tool.ErrToolNotFound{Name: call.Name}).Error())
	}

	req := ToMCPCallToolRequest(ai.ToolCall{ID: call.ID, Name: remoteName, Arguments: call.Arguments})
	result, err := r.client.CallTool(ctx, req)
	if err != nil {
		r.logger.Warn("remote tool call failed", "tool", remoteName, "error", err)
		return tool.Failf("%s: %v", remoteName, err)
	}
	return FromMCPCallToolResult(result)
}

// Registrations returns the remote tools bound to this registry, ready to be
// added to a tool.Registry.
func (r *RemoteRegistry) Registrations() []tool.Registration {
	tools := r.Tools()
	regs := make([]tool.Registration, len(tools))
	for i, t := range tools {
		regs[i] = tool.Registration{Tool: t, Handler: r.Execute}
	}
	return regs
}
