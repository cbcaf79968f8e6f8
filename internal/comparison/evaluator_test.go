package comparison

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/echoesai/echoes/internal/agent"
)

type stubRunner struct {
	model string
	fail  bool
}

func (s *stubRunner) Execute(_ context.Context, query string) (*agent.Result, error) {
	if s.fail {
		return nil, errors.New("model overloaded")
	}
	return &agent.Result{
		Query:  query,
		Answer: "answer from " + s.model,
		Metrics: agent.Metrics{
			Model:                s.model,
			ExecutionTimeSeconds: 1.0,
			EstimatedTokens:      agent.TokenEstimate{Total: 100},
			EstimatedCostUSD:     0.001,
			NumSteps:             2,
		},
	}, nil
}

func TestEvaluatorRunsAllModels(t *testing.T) {
	cases := []TestCase{
		{ID: 1, Query: "q1", Category: "simple"},
		{ID: 2, Query: "q2", Category: "simple"},
	}
	factory := func(model string) (Runner, error) {
		return &stubRunner{model: model}, nil
	}

	e, err := NewEvaluator([]string{"a", "b"}, factory, WithTestCases(cases))
	if err != nil {
		t.Fatal(err)
	}

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got results for %d models, want 2", len(results))
	}
	for _, model := range []string{"a", "b"} {
		if len(results[model]) != 2 {
			t.Errorf("model %s has %d results, want 2", model, len(results[model]))
		}
	}
	if results["a"][0].Answer != "answer from a" {
		t.Errorf("answer = %q", results["a"][0].Answer)
	}
}

func TestEvaluatorQueryFailureBecomesErrorResult(t *testing.T) {
	factory := func(model string) (Runner, error) {
		return &stubRunner{model: model, fail: true}, nil
	}
	e, err := NewEvaluator([]string{"a"}, factory,
		WithTestCases([]TestCase{{ID: 1, Query: "q"}}))
	if err != nil {
		t.Fatal(err)
	}

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := results["a"]
	if len(got) != 1 {
		t.Fatalf("results = %v", got)
	}
	if !strings.HasPrefix(got[0].Answer, "Error:") {
		t.Errorf("answer = %q, want error marker", got[0].Answer)
	}
	if SuccessRate(got) != 0 {
		t.Errorf("error results must not count as successes")
	}
}

func TestEvaluatorFactoryFailureSkipsModel(t *testing.T) {
	factory := func(model string) (Runner, error) {
		if model == "broken" {
			return nil, errors.New("no such model")
		}
		return &stubRunner{model: model}, nil
	}
	e, err := NewEvaluator([]string{"ok", "broken"}, factory,
		WithTestCases([]TestCase{{ID: 1, Query: "q"}}))
	if err != nil {
		t.Fatal(err)
	}

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results["broken"]) != 0 {
		t.Errorf("broken model should yield no results, got %v", results["broken"])
	}
	if len(results["ok"]) != 1 {
		t.Errorf("healthy model should still run, got %v", results["ok"])
	}
}

func TestEvaluatorHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := NewEvaluator([]string{"a"}, func(model string) (Runner, error) {
		return &stubRunner{model: model}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewEvaluatorRejectsEmptyModels(t *testing.T) {
	if _, err := NewEvaluator(nil, nil); err == nil {
		t.Fatal("expected error for empty model list")
	}
}

func TestEvaluateProducesComparison(t *testing.T) {
	e, err := NewEvaluator([]string{"a"}, func(model string) (Runner, error) {
		return &stubRunner{model: model}, nil
	}, WithTestCases([]TestCase{{ID: 1, Query: "q"}}))
	if err != nil {
		t.Fatal(err)
	}

	cmp, err := e.Evaluate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Best.Fastest != "a" {
		t.Errorf("best = %+v", cmp.Best)
	}
	if cmp.Models["a"].Metrics.NumQueries != 1 {
		t.Errorf("metrics = %+v", cmp.Models["a"].Metrics)
	}
}
