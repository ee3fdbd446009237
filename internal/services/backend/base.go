package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"FinLens/internal/domain/models"
	"FinLens/pkg/config"
	xhttp "FinLens/pkg/http"
	applogger "FinLens/pkg/logger"
)

// HTTPServiceBase centralizes client construction and JSON GET handling for
// the research backend.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	log     *applogger.Logger
}

// NewHTTPServiceBase builds an HTTP client with timeout, retries and base URL
// from config.
func NewHTTPServiceBase(cfg *config.Config, l *applogger.Logger) *HTTPServiceBase {
	if l == nil {
		l = applogger.Nop()
	}
	return &HTTPServiceBase{
		baseURL: strings.TrimRight(cfg.Source.BaseURL, "/"),
		client: xhttp.NewClient(
			xhttp.WithTimeout(cfg.Source.Timeout),
			xhttp.WithRetries(cfg.Source.Retries, 200*time.Millisecond),
		),
		log: l,
	}
}

// GetJSON fetches path under baseURL with query and decodes JSON into dest.
func (b *HTTPServiceBase) GetJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("backend http client not initialized")
	}
	start := time.Now()
	err := b.client.SendAndParseWithRetry(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         b.baseURL + path,
		QueryParams: query,
	}, dest)
	if err != nil {
		b.log.Warn("backend request failed",
			applogger.String("path", path),
			applogger.Duration("took", time.Since(start)),
			applogger.Error(err),
		)
		return fmt.Errorf("get %s: %w", path, err)
	}
	b.log.Debug("backend request",
		applogger.String("path", path),
		applogger.Duration("took", time.Since(start)),
	)
	return nil
}

// params builds query parameters, skipping empty values.
type params url.Values

func (p params) str(k, v string) params {
	if v != "" {
		url.Values(p).Set(k, v)
	}
	return p
}

func (p params) date(k string, d models.CalendarDate) params { return p.str(k, string(d)) }

func (p params) num(k string, v int) params {
	if v > 0 {
		url.Values(p).Set(k, strconv.Itoa(v))
	}
	return p
}
