package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"civreg/internal/audit"
	"civreg/internal/dashboard"
	"civreg/internal/login"
	"civreg/internal/platform/config"
	"civreg/internal/platform/httpserver"
	"civreg/internal/platform/logger"
	"civreg/internal/platform/metrics"
	"civreg/internal/platform/middleware"
	"civreg/internal/platform/redis"
	"civreg/internal/registration"
	"civreg/internal/secrets"
	"civreg/internal/session"
	"civreg/internal/simulator"
	httptransport "civreg/internal/transport/http"
)

const (
	notificationQueueSize = 256
	sessionReportInterval = 30 * time.Second
	shutdownGrace         = 10 * time.Second
)

// app holds the wired dependencies and the background loops that share the
// server's lifetime.
type app struct {
	cfg      config.Server
	log      *slog.Logger
	router   http.Handler
	redis    *redis.Client
	sessions *session.Service
	limiter  *middleware.RateLimiter
	worker   *audit.Worker
}

func newApp(ctx context.Context, cfg config.Server) (*app, error) {
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if cfg.UsesDevSessionKey() {
		log.Warn("using the development session key; set CIVREG_SESSION_KEY outside local runs")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	seed, err := dashboard.LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}

	backend := simulator.New(simulator.Config{
		SubmitDelay: cfg.Simulator.SubmitDelay,
		ActionDelay: cfg.Simulator.ActionDelay,
		FailureRate: cfg.Simulator.FailureRate,
	}, log, simulator.WithMetrics(m))

	queue := make(chan audit.Event, notificationQueueSize)
	events := audit.NewInMemoryStore()
	publisher := audit.NewQueuedPublisher(queue, m)

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	var (
		store  session.Store = session.NewInMemoryStore()
		health func(context.Context) error
	)
	if rdb != nil {
		store = session.NewRedis(rdb.Client)
		health = rdb.Health
		log.Info("sessions stored in redis")
	}

	reviews := dashboard.NewService(seed, backend, m, log)
	sessions := session.NewService(store, session.NewTokenService(cfg.SessionKey), reviews, cfg.SessionTTL, log,
		session.WithMetrics(m))
	accounts := registration.NewService(registration.NewInMemoryAccountStore(), secrets.NewHasher(0), log)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.MaxIPs, log)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		Metrics:       m,
		Gatherer:      reg,
		Sessions:      sessions,
		Limiter:       limiter,
		SecureCookies: cfg.SecureCookies,
		Health:        health,
		Handlers: []httptransport.Registrar{
			httptransport.NewAuthHandler(login.NewService(backend, log), sessions, log),
			httptransport.NewDashboardHandler(reviews, publisher, log),
			httptransport.NewNotificationHandler(events, log),
			httptransport.NewWizardHandler(backend, publisher, m, log,
				httptransport.DeclarationFlow(time.Now),
				httptransport.RegistrationFlow(accounts, backend, publisher),
			),
		},
	})

	return &app{
		cfg:      cfg,
		log:      log,
		router:   router,
		redis:    rdb,
		sessions: sessions,
		limiter:  limiter,
		worker:   audit.NewWorker(events, queue, log),
	}, nil
}

// run serves until ctx is cancelled, then drains every background loop.
func run(ctx context.Context, cfg config.Server) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := httpserver.New(a.cfg.Addr, a.router)
	a.log.Info("starting civreg", "addr", a.cfg.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpserver.Run(gctx, srv, shutdownGrace) })
	g.Go(func() error { return a.worker.Run(gctx) })
	g.Go(func() error { return a.limiter.Run(gctx) })
	g.Go(func() error { return a.sessions.Run(gctx, sessionReportInterval) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	a.log.Info("civreg stopped")
	return nil
}
