// Package routes wires the REST API: agent queries, the song catalog,
// model comparisons and operational metrics.
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/echoesai/echoes/internal/agent"
	"github.com/echoesai/echoes/internal/cache"
	"github.com/echoesai/echoes/internal/config"
	appmw "github.com/echoesai/echoes/internal/http/middleware"
	"github.com/echoesai/echoes/internal/store"
)

// Runner executes one agent query. *agent.Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, query string) (*agent.Result, error)
}

// RunnerFactory builds a runner for a model/temperature pair. It is a
// field rather than a concrete dependency so handler tests can stub
// the LLM side entirely.
type RunnerFactory func(model string, temperature float64) (Runner, error)

// Enqueuer is the slice of asynq.Client the routes need.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Server struct {
	Router  *chi.Mux
	Cache   *cache.Cache[agent.Result]
	Store   *store.Store
	Runner  RunnerFactory
	Jobs    Enqueuer
	Cfg     config.Config
	Log     zerolog.Logger
	Version string

	now func() time.Time
}

type ServerOptions struct {
	Cache   *cache.Cache[agent.Result]
	Store   *store.Store
	Runner  RunnerFactory
	Jobs    Enqueuer
	Cfg     config.Config
	Log     zerolog.Logger
	Version string
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(hlog.NewHandler(opts.Log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(appmw.SecurityHeaders)
	r.Use(appmw.NewRateLimiter(opts.Cfg.Limit.PerMinute, opts.Cfg.Limit.Burst).Handler)

	s := &Server{
		Router:  r,
		Cache:   opts.Cache,
		Store:   opts.Store,
		Runner:  opts.Runner,
		Jobs:    opts.Jobs,
		Cfg:     opts.Cfg,
		Log:     opts.Log,
		Version: opts.Version,
		now:     time.Now,
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/health/ready", s.handleReady)

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/agent/query", s.handleAgentQuery)
		api.Get("/agent/models", s.handleModels)
		api.Get("/agent/history", s.handleHistory)
		api.Get("/agent/history/{executionID}", s.handleHistoryDetail)

		api.Get("/database/songs", s.handleSongs)
		api.Get("/database/songs/search", s.handleSongSearch)
		api.Get("/database/moods", s.handleMoods)

		api.Post("/comparison/run", s.handleComparisonRun)
		api.Get("/comparison", s.handleComparisonList)
		api.Get("/comparison/{comparisonID}", s.handleComparisonDetail)

		api.Get("/metrics/cache", s.handleCacheMetrics)
		api.Get("/metrics/storage", s.handleStorageMetrics)
	})

	return s
}
