// Package agent implements a ReAct loop over the OpenAI function
// calling API: the model reasons about a query, optionally invokes
// registered tools, and produces a final answer with a step-by-step
// reasoning trace.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/echoesai/echoes/internal/llm"
	"github.com/echoesai/echoes/internal/tools"
)

const systemPrompt = `You are a helpful AI assistant with access to tools.
Follow the ReAct framework:

1. Think about what you need to do
2. Use tools if needed to gather information
3. Provide a clear, helpful answer

Available tools:
- pink_floyd_database: Query Pink Floyd songs by mood, album, lyrics, or year
- currency_price_checker: Get real-time currency exchange rates

Be concise and explain your reasoning.`

// ChatClient is the slice of the LLM client the agent needs. Tests
// substitute a stub; production passes *llm.Client.
type ChatClient interface {
	ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
}

// TraceStep is one entry in the reasoning trace. Type is one of
// "query", "action", "observation" or "thought".
type TraceStep struct {
	Step    int    `json:"step"`
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Tool    string `json:"tool,omitempty"`
	Input   string `json:"input,omitempty"`
}

// RunResult is the raw outcome of one agent loop.
type RunResult struct {
	Answer    string
	Trace     []TraceStep
	Usage     llm.Usage
	ToolsUsed []string
}

// Agent runs the ReAct loop for a single model configuration.
type Agent struct {
	client        ChatClient
	registry      *tools.Registry
	model         string
	temperature   float64
	maxTokens     int
	maxIterations int
	log           zerolog.Logger
}

type Option func(*Agent)

func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

func WithMaxIterations(n int) Option {
	return func(a *Agent) { a.maxIterations = n }
}

func WithLogger(log zerolog.Logger) Option {
	return func(a *Agent) { a.log = log }
}

// New creates an agent for the given model. The model must be one of
// the supported catalog entries.
func New(client ChatClient, registry *tools.Registry, model string, opts ...Option) (*Agent, error) {
	if !SupportedModel(model) {
		return nil, fmt.Errorf("model %q not supported, available: %v", model, SupportedModels())
	}
	a := &Agent{
		client:        client,
		registry:      registry,
		model:         model,
		temperature:   0.1,
		maxTokens:     1000,
		maxIterations: 5,
		log:           zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Model returns the model name this agent runs on.
func (a *Agent) Model() string { return a.model }

// Run executes the ReAct loop: call the model, dispatch any tool calls
// it makes, feed observations back, and stop when the model answers
// without calling a tool or the iteration cap is hit.
func (a *Agent) Run(ctx context.Context, query string) (*RunResult, error) {
	trace := []TraceStep{{Step: 1, Type: "query", Content: query}}
	step := 2

	messages := []llm.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: query},
	}

	var usage llm.Usage
	var toolsUsed []string

	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.client.ChatCompletion(ctx, llm.ChatCompletionRequest{
			Model:       a.model,
			Messages:    messages,
			Tools:       a.registry.Definitions(),
			Temperature: &a.temperature,
			MaxTokens:   &a.maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("agent completion: %w", err)
		}

		usage.PromptTokens += resp.Usage.PromptTokens
		usage.CompletionTokens += resp.Usage.CompletionTokens
		usage.TotalTokens += resp.Usage.TotalTokens

		msg := resp.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			trace = append(trace, TraceStep{Step: step, Type: "thought", Content: msg.Content})
			return &RunResult{
				Answer:    msg.Content,
				Trace:     trace,
				Usage:     usage,
				ToolsUsed: toolsUsed,
			}, nil
		}

		messages = append(messages, msg)

		for _, tc := range msg.ToolCalls {
			input := toolInput(tc.Function.Arguments)
			trace = append(trace, TraceStep{
				Step:  step,
				Type:  "action",
				Tool:  tc.Function.Name,
				Input: input,
			})
			step++

			observation := a.executeTool(ctx, tc.Function.Name, input)
			toolsUsed = appendUnique(toolsUsed, tc.Function.Name)

			trace = append(trace, TraceStep{Step: step, Type: "observation", Content: observation})
			step++

			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				ToolCallID: tc.ID,
				Name:       tc.Function.Name,
				Content:    observation,
			})
		}
	}

	return &RunResult{
		Answer:    "Max iterations reached without final answer",
		Trace:     trace,
		Usage:     usage,
		ToolsUsed: toolsUsed,
	}, nil
}

// executeTool dispatches one tool call. Tool failures become
// observations so the model can recover rather than aborting the run.
func (a *Agent) executeTool(ctx context.Context, name, input string) string {
	tool, ok := a.registry.Get(name)
	if !ok {
		return fmt.Sprintf("Tool %s not found", name)
	}

	out, err := tool.Run(ctx, input)
	if err != nil {
		a.log.Warn().Err(err).Str("tool", name).Msg("tool execution failed")
		return fmt.Sprintf("Error executing tool: %v", err)
	}
	return out
}

// toolInput pulls the "query" argument out of the function-call
// arguments JSON, falling back to the raw string when it doesn't parse.
func toolInput(arguments string) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err == nil && args.Query != "" {
		return args.Query
	}
	return arguments
}

func appendUnique(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}
