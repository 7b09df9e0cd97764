package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	ai "github.com/spetersoncode/learnpath"
)

// validName matches tool names every supported provider accepts.
var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// registeredTool combines a tool definition with its handler.
type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages registered tools and their handlers.
// It is safe for concurrent use. Tools are reported in registration order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a tool with its handler to the registry.
// Returns an error if a tool with the same name is already registered.
func (r *Registry) Register(tool ai.Tool, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{
		tool:    tool,
		handler: handler,
	}
	r.order = append(r.order, tool.Name)
	return nil
}

// RegisterAll registers each Registration, stopping at the first error.
func (r *Registry) RegisterAll(regs ...Registration) error {
	for _, reg := range regs {
		if err := r.Register(reg.Tool, reg.Handler); err != nil {
			return err
		}
	}
	return nil
}

// Tools returns all registered tool definitions.
// This is used to pass the tools to the ChatProvider.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Names returns the names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Validate checks every registration: the name must be non-empty and
// provider-safe, the parameters must be a JSON object schema, and a handler
// must be present. All problems are reported together.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for _, name := range r.order {
		rt := r.tools[name]
		if !validName.MatchString(name) {
			errs = append(errs, &ErrInvalidTool{Name: name, Reason: "name must match " + validName.String()})
		}
		if rt.handler == nil {
			errs = append(errs, &ErrInvalidTool{Name: name, Reason: "missing handler"})
		}
		if reason := checkParameters(rt.tool.Parameters); reason != "" {
			errs = append(errs, &ErrInvalidTool{Name: name, Reason: reason})
		}
	}
	return errors.Join(errs...)
}

func checkParameters(params json.RawMessage) string {
	if len(params) == 0 {
		return "missing parameters schema"
	}
	var schema struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(params, &schema); err != nil {
		return fmt.Sprintf("parameters schema is not valid JSON: %v", err)
	}
	if schema.Type != "object" {
		return fmt.Sprintf("parameters schema type must be \"object\", got %q", schema.Type)
	}
	return ""
}

// Execute runs the handler for a tool call and returns a ToolResult.
// If the tool is not found, returns ErrToolNotFound.
// A failed Result is marked IsError with the {"error": reason} payload as
// content, allowing the model to recover. A panicking handler is reported
// the same way.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	res := invoke(ctx, rt.handler, call)
	return ai.ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
		Content:    res.String(),
		IsError:    res.Failed(),
	}, nil
}

func invoke(ctx context.Context, h Handler, call ai.ToolCall) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Failf("tool %s panicked: %v", call.Name, p)
		}
	}()
	return h(ctx, call)
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// WithHandler creates a Registration from a Handler and schema.
// Use this when you have a pre-built Handler implementation.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: h,
	}
}
