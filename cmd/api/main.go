// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/echoesai/echoes/internal/agent"
	"github.com/echoesai/echoes/internal/cache"
	"github.com/echoesai/echoes/internal/config"
	"github.com/echoesai/echoes/internal/http/routes"
	"github.com/echoesai/echoes/internal/llm"
	"github.com/echoesai/echoes/internal/store"
	"github.com/echoesai/echoes/internal/tools"
)

const version = "1.0.0"

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
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("close store")
		}
	}()

	seeded, err := st.Seed(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("seed song catalog")
	}
	if seeded > 0 {
		logger.Info().Int("songs", seeded).Msg("seeded song catalog")
	}

	queryCache, err := cache.New[agent.Result](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("create query cache")
	}

	// The API stays up without an OpenAI key so /api/v1/health/ready
	// can report the degraded state; queries fail per-request instead.
	var llmClient *llm.Client
	if cfg.HasOpenAI() {
		llmClient, err = llm.New(cfg.OpenAI.APIKey, llm.WithBaseURL(cfg.OpenAI.BaseURL))
		if err != nil {
			logger.Fatal().Err(err).Msg("create llm client")
		}
	} else {
		logger.Warn().Msg("OPENAI_API_KEY is not configured, agent queries will fail")
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewSongsTool(st))
	registry.Register(tools.NewCurrencyTool())

	jobClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close job client")
		}
	}()

	runner := func(model string, temperature float64) (routes.Runner, error) {
		if llmClient == nil {
			return nil, errors.New("OPENAI_API_KEY is not configured")
		}
		a, err := agent.New(llmClient, registry, model,
			agent.WithTemperature(temperature),
			agent.WithMaxTokens(cfg.Agent.MaxTokens),
			agent.WithMaxIterations(cfg.Agent.MaxIterations),
			agent.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return agent.NewExecutor(a), nil
	}

	s := routes.New(routes.ServerOptions{
		Cache:   queryCache,
		Store:   st,
		Runner:  runner,
		Jobs:    jobClient,
		Cfg:     *cfg,
		Log:     logger,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("serve")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
