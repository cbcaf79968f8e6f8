package comparison

import (
	"testing"

	"github.com/echoesai/echoes/internal/agent"
)

func result(model string, seconds float64, tokens int, cost float64, steps int, answer string) agent.Result {
	return agent.Result{
		Answer: answer,
		Metrics: agent.Metrics{
			Model:                model,
			ExecutionTimeSeconds: seconds,
			EstimatedTokens:      agent.TokenEstimate{Total: tokens},
			EstimatedCostUSD:     cost,
			NumSteps:             steps,
		},
	}
}

func TestCalculateMetrics(t *testing.T) {
	results := []agent.Result{
		result("m", 1.0, 100, 0.001, 2, "a"),
		result("m", 3.0, 300, 0.003, 4, "b"),
		result("m", 2.0, 200, 0.002, 3, "c"),
	}

	m := CalculateMetrics(results)

	if m.NumQueries != 3 {
		t.Errorf("num queries = %d", m.NumQueries)
	}
	if m.ExecutionTime.Total != 6.0 || m.ExecutionTime.Mean != 2.0 || m.ExecutionTime.Median != 2.0 {
		t.Errorf("time stats = %+v", m.ExecutionTime)
	}
	if m.ExecutionTime.Min != 1.0 || m.ExecutionTime.Max != 3.0 {
		t.Errorf("time min/max = %+v", m.ExecutionTime)
	}
	if m.ExecutionTime.Stdev != 1.0 {
		t.Errorf("stdev = %v, want 1.0", m.ExecutionTime.Stdev)
	}
	if m.Tokens.Total != 600 || m.Tokens.Median != 200 {
		t.Errorf("token stats = %+v", m.Tokens)
	}
	if m.Cost.Total != 0.006 {
		t.Errorf("cost total = %v", m.Cost.Total)
	}
	if m.Steps.Mean != 3.0 || m.Steps.Min != 2 || m.Steps.Max != 4 {
		t.Errorf("step stats = %+v", m.Steps)
	}
}

func TestCalculateMetricsEvenMedianAndSingle(t *testing.T) {
	even := CalculateMetrics([]agent.Result{
		result("m", 1.0, 100, 0, 1, "a"),
		result("m", 2.0, 200, 0, 1, "b"),
	})
	if even.ExecutionTime.Median != 1.5 {
		t.Errorf("even median = %v, want 1.5", even.ExecutionTime.Median)
	}

	single := CalculateMetrics([]agent.Result{result("m", 1.0, 100, 0, 1, "a")})
	if single.ExecutionTime.Stdev != 0 {
		t.Errorf("single-sample stdev = %v, want 0", single.ExecutionTime.Stdev)
	}

	empty := CalculateMetrics(nil)
	if empty.NumQueries != 0 {
		t.Errorf("empty metrics = %+v", empty)
	}
}

func TestSuccessRate(t *testing.T) {
	results := []agent.Result{
		result("m", 1, 0, 0, 1, "fine answer"),
		result("m", 1, 0, 0, 1, "Error: boom"),
		result("m", 1, 0, 0, 1, ""),
		result("m", 1, 0, 0, 1, "another fine answer"),
	}
	if got := SuccessRate(results); got != 50.0 {
		t.Errorf("success rate = %v, want 50.0", got)
	}
	if got := SuccessRate(nil); got != 0 {
		t.Errorf("empty success rate = %v", got)
	}
}

func TestCompareWinners(t *testing.T) {
	modelResults := map[string][]agent.Result{
		"fast-cheap": {
			result("fast-cheap", 1.0, 100, 0.001, 2, "ok"),
			result("fast-cheap", 1.0, 100, 0.001, 2, "Error: oops"),
		},
		"slow-good": {
			result("slow-good", 5.0, 500, 0.010, 4, "ok"),
			result("slow-good", 5.0, 500, 0.010, 4, "ok"),
		},
	}

	cmp := Compare(modelResults)

	if cmp.Best.Fastest != "fast-cheap" {
		t.Errorf("fastest = %s", cmp.Best.Fastest)
	}
	if cmp.Best.Cheapest != "fast-cheap" {
		t.Errorf("cheapest = %s", cmp.Best.Cheapest)
	}
	if cmp.Best.MostSuccessful != "slow-good" {
		t.Errorf("most successful = %s", cmp.Best.MostSuccessful)
	}
	if cmp.Models["fast-cheap"].SuccessRate != 50.0 {
		t.Errorf("success rate = %v", cmp.Models["fast-cheap"].SuccessRate)
	}
}

func TestCompareTieBreaksByName(t *testing.T) {
	same := []agent.Result{result("x", 1.0, 100, 0.001, 2, "ok")}
	cmp := Compare(map[string][]agent.Result{"beta": same, "alpha": same})

	if cmp.Best.Fastest != "alpha" || cmp.Best.Cheapest != "alpha" || cmp.Best.MostSuccessful != "alpha" {
		t.Errorf("tie should go to first name alphabetically: %+v", cmp.Best)
	}
}
