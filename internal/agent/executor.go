package agent

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/echoesai/echoes/internal/llm"
)

// TokenEstimate breaks estimated token usage down by direction.
type TokenEstimate struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// Metrics describes one execution's performance.
type Metrics struct {
	Model                string        `json:"model"`
	ExecutionTimeSeconds float64       `json:"execution_time_seconds"`
	EstimatedTokens      TokenEstimate `json:"estimated_tokens"`
	EstimatedCostUSD     float64       `json:"estimated_cost_usd"`
	NumSteps             int           `json:"num_steps"`
	ToolsUsed            []string      `json:"tools_used"`
}

// Result is a complete, identified execution: what was asked, what was
// answered, how the agent got there and what it cost.
type Result struct {
	ExecutionID string      `json:"execution_id"`
	Query       string      `json:"query"`
	Answer      string      `json:"answer"`
	Trace       []TraceStep `json:"reasoning_trace"`
	Metrics     Metrics     `json:"metrics"`
	FromCache   bool        `json:"from_cache"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Executor runs an agent and wraps each run with timing, token and
// cost accounting.
type Executor struct {
	agent *Agent
	now   func() time.Time
}

// NewExecutor wraps an agent with metrics tracking.
func NewExecutor(a *Agent) *Executor {
	return &Executor{agent: a, now: time.Now}
}

// Execute runs the query through the agent and returns the result with
// metrics attached.
func (e *Executor) Execute(ctx context.Context, query string) (*Result, error) {
	start := e.now()

	run, err := e.agent.Run(ctx, query)
	if err != nil {
		return nil, err
	}

	elapsed := e.now().Sub(start)
	tokens := estimateTokens(query, run)
	cost := estimateCost(e.agent.model, tokens)

	return &Result{
		ExecutionID: uuid.NewString(),
		Query:       query,
		Answer:      run.Answer,
		Trace:       run.Trace,
		Metrics: Metrics{
			Model:                e.agent.model,
			ExecutionTimeSeconds: math.Round(elapsed.Seconds()*100) / 100,
			EstimatedTokens:      tokens,
			EstimatedCostUSD:     cost,
			NumSteps:             len(run.Trace),
			ToolsUsed:            run.ToolsUsed,
		},
		FromCache: false,
		Timestamp: start.UTC(),
	}, nil
}

// estimateTokens prefers the usage the API reported. When the provider
// omits usage, fall back to the rough 4-characters-per-token heuristic
// over the trace.
func estimateTokens(query string, run *RunResult) TokenEstimate {
	if run.Usage.TotalTokens > 0 {
		return TokenEstimate{
			Input:  run.Usage.PromptTokens,
			Output: run.Usage.CompletionTokens,
			Total:  run.Usage.TotalTokens,
		}
	}

	inputChars := len(query)
	for _, step := range run.Trace {
		switch step.Type {
		case "query", "action", "observation":
			inputChars += len(step.Content) + len(step.Input)
		}
	}
	outputChars := len(run.Answer)

	in := inputChars / 4
	out := outputChars / 4
	return TokenEstimate{Input: in, Output: out, Total: in + out}
}

// estimateCost converts a token estimate into USD using per-1M-token
// pricing. Unknown models cost zero.
func estimateCost(model string, tokens TokenEstimate) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	cost := float64(tokens.Input)/1_000_000*pricing.InputUSD +
		float64(tokens.Output)/1_000_000*pricing.OutputUSD
	return math.Round(cost*1e6) / 1e6
}

var _ ChatClient = (*llm.Client)(nil)
