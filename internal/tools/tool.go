// Package tools defines the common interface for the lookup tools the
// agent can call, and a registry the ReAct loop dispatches through.
package tools

import (
	"context"
	"encoding/json"

	"github.com/echoesai/echoes/internal/llm"
)

// Tool is a single capability the agent can invoke. Run takes the
// natural-language sub-query the model chose and returns a formatted
// observation string.
type Tool interface {
	// Name returns the tool's function-calling name (e.g. "pink_floyd_database")
	Name() string

	// Description is the usage text advertised to the model.
	Description() string

	// Run executes the tool with a natural language query.
	Run(ctx context.Context, query string) (string, error)
}

// queryParams is the single-argument schema shared by every tool.
var queryParams = json.RawMessage(`{
	"type": "object",
	"properties": {
		"query": {"type": "string", "description": "Natural language query for the tool"}
	},
	"required": ["query"]
}`)

// Registry manages the available tools.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// List returns registered tool names in registration order.
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}

// Definitions renders the registry as function-calling tool definitions,
// in registration order so prompts are stable across runs.
func (r *Registry) Definitions() []llm.Tool {
	defs := make([]llm.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, llm.Tool{
			Type: "function",
			Function: llm.ToolSpec{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  queryParams,
			},
		})
	}
	return defs
}
