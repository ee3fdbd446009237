package di

import (
	"context"
	"fmt"
	"time"

	"FinLens/internal/domain/repository"
	"FinLens/internal/handler/api"
	internalrepo "FinLens/internal/repository"
	icache "FinLens/internal/service/cache"
	"FinLens/internal/service/ratelimit"
	"FinLens/internal/services/backend"
	"FinLens/internal/usecase"
	pkgch "FinLens/pkg/clickhouse"
	"FinLens/pkg/config"
	xhttp "FinLens/pkg/http"
	"FinLens/pkg/http/middleware"
	applogger "FinLens/pkg/logger"
	"FinLens/pkg/metrics"
	"FinLens/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient opens a read-only ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		pkgch.WithReadOnly(),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideMarketSource selects the research backend API or the ClickHouse
// mirror according to source.type.
func ProvideMarketSource(cfg *config.Config, l *applogger.Logger) (repository.MarketSource, error) {
	switch repository.NormalizeSource(cfg.Source.Type) {
	case repository.SourceClickHouse:
		ch, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, err
		}
		store := internalrepo.NewCHMarketStore(ch)
		store.SetLogger(l.With(applogger.String("source", "clickhouse")))
		return store, nil
	default:
		base := backend.NewHTTPServiceBase(cfg, l.With(applogger.String("source", "http")))
		return backend.NewHTTPSource(base), nil
	}
}

// ProvideCache creates the response cache. With redis an in-memory layer
// sits in front of it; redis is pinged on startup.
func ProvideCache(cfg *config.Config) (icache.BytesCache, error) {
	if cfg.Cache.Type != "redis" {
		return icache.NewTTLCache(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rc, err := icache.NewRedisCache(ctx, icache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return icache.NewLayeredCache(rc, cfg.Cache.TTL/4), nil
}

func ProvideSettings(cfg *config.Config) usecase.Settings {
	return usecase.SettingsFromConfig(cfg)
}

// ProvideChartsHandler creates the chart HTTP handler with its cache.
func ProvideChartsHandler(charts *usecase.Charts, cache icache.BytesCache, cfg *config.Config, l *applogger.Logger) *api.ChartsHandler {
	h := api.NewChartsHandler(charts)
	h.SetCache(cache, cfg.Cache.TTL)
	h.SetLogger(l)
	return h
}

// ProvideLimiter creates the per-client token bucket limiter, nil when
// rate limiting is disabled.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideHTTPServer creates the Echo server serving the chart routes.
func ProvideHTTPServer(cfg *config.Config, h *api.ChartsHandler, rl *ratelimit.Limiter, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path))
	}
	if rl != nil {
		opts = append(opts, xhttp.WithMiddleware(middleware.RateLimit(rl, "/healthz", cfg.Metrics.Path)))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp assembles the application lifecycle.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	src repository.MarketSource,
	cache icache.BytesCache,
	rl *ratelimit.Limiter,
	l *applogger.Logger,
) *server.App {
	app := server.New(cfg, srv, src, cache, l)
	app.SetLimiter(rl)
	return app
}
