package comparison

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/echoesai/echoes/internal/agent"
)

// Runner executes a single query with metrics. *agent.Executor
// satisfies it; tests use stubs.
type Runner interface {
	Execute(ctx context.Context, query string) (*agent.Result, error)
}

// RunnerFactory builds an executor for the named model.
type RunnerFactory func(model string) (Runner, error)

// Evaluator runs a test-case set against several models.
type Evaluator struct {
	models  []string
	factory RunnerFactory
	cases   []TestCase
	log     zerolog.Logger
}

type EvaluatorOption func(*Evaluator)

// WithTestCases overrides the built-in query set.
func WithTestCases(cases []TestCase) EvaluatorOption {
	return func(e *Evaluator) { e.cases = cases }
}

func WithEvaluatorLogger(log zerolog.Logger) EvaluatorOption {
	return func(e *Evaluator) { e.log = log }
}

// NewEvaluator creates an evaluator over the given models.
func NewEvaluator(models []string, factory RunnerFactory, opts ...EvaluatorOption) (*Evaluator, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("no models to evaluate")
	}
	e := &Evaluator{
		models:  models,
		factory: factory,
		cases:   DefaultTestCases(),
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Run evaluates every model against every test case. A failing query
// becomes an error-marked result so the model is penalized rather than
// the whole run aborting; a model whose executor cannot be built gets
// an empty result list.
func (e *Evaluator) Run(ctx context.Context) (map[string][]agent.Result, error) {
	results := make(map[string][]agent.Result, len(e.models))

	for _, model := range e.models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		runner, err := e.factory(model)
		if err != nil {
			e.log.Warn().Err(err).Str("model", model).Msg("skipping model, executor creation failed")
			results[model] = nil
			continue
		}

		e.log.Info().Str("model", model).Int("cases", len(e.cases)).Msg("evaluating model")

		modelResults := make([]agent.Result, 0, len(e.cases))
		for i, tc := range e.cases {
			res, err := runner.Execute(ctx, tc.Query)
			if err != nil {
				e.log.Warn().Err(err).Str("model", model).Int("case", tc.ID).Msg("query failed")
				modelResults = append(modelResults, agent.Result{
					Query:   tc.Query,
					Answer:  fmt.Sprintf("Error: %v", err),
					Metrics: agent.Metrics{Model: model},
				})
				continue
			}

			e.log.Debug().
				Str("model", model).
				Int("case", i+1).
				Float64("seconds", res.Metrics.ExecutionTimeSeconds).
				Msg("case complete")
			modelResults = append(modelResults, *res)
		}
		results[model] = modelResults
	}

	return results, nil
}

// Evaluate runs the models and returns the ranked comparison.
func (e *Evaluator) Evaluate(ctx context.Context) (Comparison, error) {
	results, err := e.Run(ctx)
	if err != nil {
		return Comparison{}, err
	}
	return Compare(results), nil
}
