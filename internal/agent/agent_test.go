package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/echoesai/echoes/internal/llm"
	"github.com/echoesai/echoes/internal/tools"
)

type scriptedClient struct {
	responses []llm.ChatCompletionResponse
	calls     int
	requests  []llm.ChatCompletionRequest
}

func (c *scriptedClient) ChatCompletion(_ context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	c.requests = append(c.requests, req)
	if c.calls >= len(c.responses) {
		resp := c.responses[len(c.responses)-1]
		return &resp, nil
	}
	resp := c.responses[c.calls]
	c.calls++
	return &resp, nil
}

type echoTool struct {
	name  string
	calls []string
}

func (e *echoTool) Name() string        { return e.name }
func (e *echoTool) Description() string { return e.name }
func (e *echoTool) Run(_ context.Context, query string) (string, error) {
	e.calls = append(e.calls, query)
	return "observed: " + query, nil
}

func assistantText(content string, usage llm.Usage) llm.ChatCompletionResponse {
	return llm.ChatCompletionResponse{
		Choices: []llm.Choice{{
			Message:      llm.ChatMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
		Usage: usage,
	}
}

func assistantToolCall(tool, args string) llm.ChatCompletionResponse {
	return llm.ChatCompletionResponse{
		Choices: []llm.Choice{{
			Message: llm.ChatMessage{
				Role: "assistant",
				ToolCalls: []llm.ToolCall{{
					ID:   "call_1",
					Type: "function",
					Function: llm.FunctionCall{
						Name:      tool,
						Arguments: args,
					},
				}},
			},
			FinishReason: "tool_calls",
		}},
		Usage: llm.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
	}
}

func newTestAgent(t *testing.T, client ChatClient, tool tools.Tool, opts ...Option) *Agent {
	t.Helper()
	reg := tools.NewRegistry()
	if tool != nil {
		reg.Register(tool)
	}
	a, err := New(client, reg, "gpt-4o-mini", opts...)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestNewRejectsUnknownModel(t *testing.T) {
	_, err := New(&scriptedClient{}, tools.NewRegistry(), "gpt-9000")
	if err == nil {
		t.Fatal("expected error for unsupported model")
	}
}

func TestRunDirectAnswer(t *testing.T) {
	client := &scriptedClient{responses: []llm.ChatCompletionResponse{
		assistantText("The answer is 42.", llm.Usage{PromptTokens: 50, CompletionTokens: 10, TotalTokens: 60}),
	}}
	a := newTestAgent(t, client, nil)

	res, err := a.Run(context.Background(), "what is the answer")
	if err != nil {
		t.Fatal(err)
	}
	if res.Answer != "The answer is 42." {
		t.Errorf("answer = %q", res.Answer)
	}
	if len(res.Trace) != 2 || res.Trace[0].Type != "query" || res.Trace[1].Type != "thought" {
		t.Errorf("trace = %+v, want query then thought", res.Trace)
	}
	if len(res.ToolsUsed) != 0 {
		t.Errorf("no tools should be recorded, got %v", res.ToolsUsed)
	}
}

func TestRunToolCallLoop(t *testing.T) {
	tool := &echoTool{name: "pink_floyd_database"}
	client := &scriptedClient{responses: []llm.ChatCompletionResponse{
		assistantToolCall("pink_floyd_database", `{"query":"melancholic songs"}`),
		assistantText("Here are some melancholic songs.", llm.Usage{PromptTokens: 200, CompletionTokens: 30, TotalTokens: 230}),
	}}
	a := newTestAgent(t, client, tool)

	res, err := a.Run(context.Background(), "find sad songs")
	if err != nil {
		t.Fatal(err)
	}

	if len(tool.calls) != 1 || tool.calls[0] != "melancholic songs" {
		t.Errorf("tool calls = %v", tool.calls)
	}

	types := make([]string, len(res.Trace))
	for i, s := range res.Trace {
		types[i] = s.Type
	}
	want := []string{"query", "action", "observation", "thought"}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Errorf("trace types = %v, want %v", types, want)
	}
	if res.Trace[1].Tool != "pink_floyd_database" || res.Trace[1].Input != "melancholic songs" {
		t.Errorf("action step = %+v", res.Trace[1])
	}
	if res.Trace[2].Content != "observed: melancholic songs" {
		t.Errorf("observation = %q", res.Trace[2].Content)
	}

	// Usage accumulates across both completions.
	if res.Usage.TotalTokens != 350 {
		t.Errorf("total tokens = %d, want 350", res.Usage.TotalTokens)
	}
	if len(res.ToolsUsed) != 1 || res.ToolsUsed[0] != "pink_floyd_database" {
		t.Errorf("tools used = %v", res.ToolsUsed)
	}

	// The second request must carry the tool observation back.
	second := client.requests[1]
	last := second.Messages[len(second.Messages)-1]
	if last.Role != "tool" || last.ToolCallID != "call_1" {
		t.Errorf("last message = %+v, want tool result for call_1", last)
	}
}

func TestRunUnknownToolBecomesObservation(t *testing.T) {
	client := &scriptedClient{responses: []llm.ChatCompletionResponse{
		assistantToolCall("nonexistent_tool", `{"query":"x"}`),
		assistantText("done", llm.Usage{}),
	}}
	a := newTestAgent(t, client, nil)

	res, err := a.Run(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Trace[2].Content, "not found") {
		t.Errorf("observation = %q, want tool-not-found message", res.Trace[2].Content)
	}
	if res.Answer != "done" {
		t.Errorf("answer = %q", res.Answer)
	}
}

func TestRunToleratesOmittedUsage(t *testing.T) {
	// Providers may leave usage out of the response entirely; the
	// loop must carry on and leave the totals at zero so the
	// executor's heuristic takes over.
	tool := &echoTool{name: "pink_floyd_database"}
	noUsage := llm.ChatCompletionResponse{
		Choices: []llm.Choice{{
			Message: llm.ChatMessage{
				Role: "assistant",
				ToolCalls: []llm.ToolCall{{
					ID:   "call_1",
					Type: "function",
					Function: llm.FunctionCall{
						Name:      "pink_floyd_database",
						Arguments: `{"query":"sad songs"}`,
					},
				}},
			},
			FinishReason: "tool_calls",
		}},
	}
	client := &scriptedClient{responses: []llm.ChatCompletionResponse{
		noUsage,
		{Choices: []llm.Choice{{
			Message:      llm.ChatMessage{Role: "assistant", Content: "hello"},
			FinishReason: "stop",
		}}},
	}}
	a := newTestAgent(t, client, tool)

	res, err := a.Run(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.Answer != "hello" {
		t.Errorf("answer = %q", res.Answer)
	}
	if res.Usage != (llm.Usage{}) {
		t.Errorf("usage = %+v, want zero totals when the provider omits usage", res.Usage)
	}
}

func TestRunMaxIterations(t *testing.T) {
	tool := &echoTool{name: "pink_floyd_database"}
	client := &scriptedClient{responses: []llm.ChatCompletionResponse{
		assistantToolCall("pink_floyd_database", `{"query":"again"}`),
	}}
	a := newTestAgent(t, client, tool, WithMaxIterations(2))

	res, err := a.Run(context.Background(), "loop forever")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Answer, "Max iterations") {
		t.Errorf("answer = %q, want max-iterations notice", res.Answer)
	}
	if len(tool.calls) != 2 {
		t.Errorf("tool ran %d times, want 2", len(tool.calls))
	}
}

func TestToolInputFallsBackToRawArguments(t *testing.T) {
	if got := toolInput(`{"query":"hello"}`); got != "hello" {
		t.Errorf("toolInput = %q", got)
	}
	if got := toolInput(`not json`); got != "not json" {
		t.Errorf("toolInput = %q", got)
	}
	if got := toolInput(`{"other":"field"}`); got != `{"other":"field"}` {
		t.Errorf("toolInput = %q", got)
	}
}
