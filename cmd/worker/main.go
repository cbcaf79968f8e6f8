// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/echoesai/echoes/internal/agent"
	"github.com/echoesai/echoes/internal/comparison"
	"github.com/echoesai/echoes/internal/config"
	"github.com/echoesai/echoes/internal/jobs"
	"github.com/echoesai/echoes/internal/llm"
	"github.com/echoesai/echoes/internal/store"
	"github.com/echoesai/echoes/internal/tools"
)

const executionRetention = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("component", "worker").Logger()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("close store")
		}
	}()

	// Cleanup tasks run fine without an OpenAI key; comparison runs
	// fail individually when the factory cannot produce a runner.
	var llmClient *llm.Client
	if cfg.HasOpenAI() {
		llmClient, err = llm.New(cfg.OpenAI.APIKey, llm.WithBaseURL(cfg.OpenAI.BaseURL))
		if err != nil {
			logger.Fatal().Err(err).Msg("create llm client")
		}
	} else {
		logger.Warn().Msg("OPENAI_API_KEY is not configured, comparison runs will fail")
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewSongsTool(st))
	registry.Register(tools.NewCurrencyTool())

	w := &worker{
		store: st,
		log:   logger,
		factory: func(model string) (comparison.Runner, error) {
			if llmClient == nil {
				return nil, errors.New("OPENAI_API_KEY is not configured")
			}
			a, err := agent.New(llmClient, registry, model,
				agent.WithTemperature(cfg.Agent.Temperature),
				agent.WithMaxTokens(cfg.Agent.MaxTokens),
				agent.WithMaxIterations(cfg.Agent.MaxIterations),
				agent.WithLogger(logger),
			)
			if err != nil {
				return nil, err
			}
			return agent.NewExecutor(a), nil
		},
	}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			"comparisons": 10,
			"maintenance": 3,
			"default":     5,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TaskComparisonRun, w.handleComparisonRun)
	mux.HandleFunc(jobs.TaskCleanupExecutions, w.handleCleanup)

	logger.Info().Str("redis", cfg.RedisAddr).Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}

type worker struct {
	store   *store.Store
	log     zerolog.Logger
	factory comparison.RunnerFactory
}

func (w *worker) handleComparisonRun(ctx context.Context, t *asynq.Task) error {
	var p jobs.ComparisonRunPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("bad comparison payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log := w.log.With().Str("comparison_id", p.ComparisonID).Logger()
	log.Info().Strs("models", p.Models).Msg("comparison started")

	if err := w.store.MarkComparisonRunning(ctx, p.ComparisonID); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	opts := []comparison.EvaluatorOption{comparison.WithEvaluatorLogger(log)}
	if p.TestCaseFile != "" {
		cases, err := comparison.LoadTestCases(p.TestCaseFile)
		if err != nil {
			return w.fail(ctx, p.ComparisonID, err)
		}
		opts = append(opts, comparison.WithTestCases(cases))
	}

	evaluator, err := comparison.NewEvaluator(p.Models, w.factory, opts...)
	if err != nil {
		return w.fail(ctx, p.ComparisonID, err)
	}

	start := time.Now()
	result, err := evaluator.Evaluate(ctx)
	if err != nil {
		return w.fail(ctx, p.ComparisonID, err)
	}

	report, err := json.Marshal(result)
	if err != nil {
		return w.fail(ctx, p.ComparisonID, err)
	}
	if err := w.store.CompleteComparison(ctx, p.ComparisonID, report); err != nil {
		return fmt.Errorf("complete comparison: %w", err)
	}

	log.Info().Dur("duration", time.Since(start)).Msg("comparison finished")
	return nil
}

// fail records the failure on the comparison and drops the task; a
// retry would rerun every model from scratch.
func (w *worker) fail(ctx context.Context, id string, cause error) error {
	w.log.Error().Err(cause).Str("comparison_id", id).Msg("comparison failed")
	if err := w.store.FailComparison(ctx, id, cause.Error()); err != nil {
		w.log.Error().Err(err).Str("comparison_id", id).Msg("mark failed")
	}
	return nil
}

func (w *worker) handleCleanup(ctx context.Context, t *asynq.Task) error {
	var p jobs.CleanupExecutionsPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	retention := executionRetention
	if p.RetentionDays > 0 {
		retention = time.Duration(p.RetentionDays) * 24 * time.Hour
	}

	removed, err := w.store.CleanupExecutions(ctx, retention)
	if err != nil {
		return fmt.Errorf("cleanup executions: %w", err)
	}
	w.log.Info().Int64("removed", removed).Msg("execution history cleaned")
	return nil
}
