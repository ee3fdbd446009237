package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinLens/internal/domain/repository"
	icache "FinLens/internal/service/cache"
	"FinLens/internal/service/ratelimit"
	"FinLens/pkg/config"
	xhttp "FinLens/pkg/http"
	applogger "FinLens/pkg/logger"
)

// idleClientTTL is how long an idle rate limit bucket is kept.
const idleClientTTL = 10 * time.Minute

// sweeper is implemented by caches that need expired entries dropped.
type sweeper interface {
	Sweep() int
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	src        repository.MarketSource
	cache      icache.BytesCache
	limiter    *ratelimit.Limiter
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	srv *xhttp.Server,
	src repository.MarketSource,
	cache icache.BytesCache,
	l *applogger.Logger,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, httpServer: srv, src: src, cache: cache, l: l}
}

// SetLimiter registers the rate limiter whose idle buckets get pruned.
func (a *App) SetLimiter(rl *ratelimit.Limiter) { a.limiter = rl }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := a.src.Health(pingCtx); err != nil {
		a.l.Warn("market source not healthy at startup", applogger.Error(err))
	}
	pingCancel()

	go a.janitor(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("finlens started",
		applogger.String("source", a.cfg.Source.Type),
		applogger.String("cache", a.cfg.Cache.Type),
		applogger.Strings("assets", a.cfg.Charts.Assets),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// janitor periodically drops expired cache entries and idle limiter
// buckets until ctx is done.
func (a *App) janitor(ctx context.Context) {
	interval := a.cfg.Cache.TTL
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if s, ok := a.cache.(sweeper); ok {
				if n := s.Sweep(); n > 0 {
					a.l.Debug("cache swept", applogger.Int("expired", n))
				}
			}
			if a.limiter != nil {
				a.limiter.Forget(idleClientTTL)
			}
		}
	}
}

// shutdown gracefully stops the server and closes its clients.
func (a *App) shutdown(ctx context.Context) error {
	a.l.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.src.Close(); err != nil {
		a.l.Warn("market source close error", applogger.Error(err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
