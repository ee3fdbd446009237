package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	"FinLens/internal/services/timeseries"
	"FinLens/pkg/config"
	applogger "FinLens/pkg/logger"
	"FinLens/pkg/util"
)

// ErrInvalidRange is returned when a resolved start date is after its end.
var ErrInvalidRange = errors.New("start date is after end date")

// fetchLimit is the largest page the research backend serves.
const fetchLimit = 5000

// Settings carries the chart options shared by every use case.
type Settings struct {
	DefaultWindowDays  int
	MaxParallelFetches int
	MACDSignalFactor   string
	CorrelationWindow  int
	Assets             []string
	Strategies         []string
	TableFactors       []string
	Timeout            time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	s := Settings{
		DefaultWindowDays:  cfg.Charts.DefaultWindowDays,
		MaxParallelFetches: cfg.Charts.MaxParallelFetches,
		MACDSignalFactor:   cfg.Charts.MACDSignalFactor,
		CorrelationWindow:  cfg.Charts.CorrelationWindow,
		Assets:             cfg.Charts.Assets,
		Strategies:         cfg.Charts.Strategies,
		TableFactors:       cfg.Charts.TableFactors,
		Timeout:            cfg.Server.WriteTimeout,
	}
	return s.withDefaults()
}

func (s Settings) withDefaults() Settings {
	if s.DefaultWindowDays <= 0 {
		s.DefaultWindowDays = 180
	}
	if s.MaxParallelFetches <= 0 {
		s.MaxParallelFetches = 8
	}
	if s.MACDSignalFactor == "" {
		s.MACDSignalFactor = "ema_12"
	}
	if s.CorrelationWindow <= 0 {
		s.CorrelationWindow = 60
	}
	if s.Timeout <= 0 {
		s.Timeout = 15 * time.Second
	}
	return s
}

// chartBase holds the dependencies shared by the chart use cases.
type chartBase struct {
	src     domrepo.MarketSource
	metrics domrepo.Metrics
	l       *applogger.Logger
	set     Settings
	now     func() time.Time
}

func newChartBase(src domrepo.MarketSource, m domrepo.Metrics, l *applogger.Logger, s Settings) chartBase {
	if l == nil {
		l = applogger.Nop()
	}
	if m == nil {
		m = nopMetrics{}
	}
	return chartBase{src: src, metrics: m, l: l, set: s.withDefaults(), now: time.Now}
}

// resolveRange fills in missing bounds: end defaults to today and start to
// end minus the configured window.
func (b *chartBase) resolveRange(start, end string) (models.DateRange, error) {
	var r models.DateRange
	endT := util.Today(b.now())
	if end != "" {
		d, err := timeseries.ParseDate(end)
		if err != nil {
			return r, err
		}
		r.End = d
		endT, _ = util.ParseDay(end)
	} else {
		r.End = timeseries.DateOf(endT)
	}
	if start != "" {
		d, err := timeseries.ParseDate(start)
		if err != nil {
			return r, err
		}
		r.Start = d
	} else {
		r.Start = timeseries.DateOf(endT.AddDate(0, 0, -b.set.DefaultWindowDays))
	}
	if r.End.Before(r.Start) {
		return r, fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.Start, r.End)
	}
	return r, nil
}

// fanout runs fetch branches in parallel. A failing branch never cancels
// the others; its error is kept under the branch name.
type fanout struct {
	b    *chartBase
	g    errgroup.Group
	mu   sync.Mutex
	errs map[string]string
}

func (b *chartBase) fanout() *fanout {
	f := &fanout{b: b, errs: map[string]string{}}
	f.g.SetLimit(b.set.MaxParallelFetches)
	return f
}

// Go schedules fn as branch name; kind labels the fetch metrics.
func (f *fanout) Go(ctx context.Context, name, kind string, fn func(ctx context.Context) error) {
	f.g.Go(func() error {
		start := time.Now()
		err := fn(ctx)
		f.b.metrics.RecordFetch(kind, time.Since(start).Seconds())
		if err != nil {
			f.b.metrics.RecordError(kind)
			f.b.l.Warn("fetch branch failed",
				applogger.String("branch", name),
				applogger.String("kind", kind),
				applogger.Error(err),
			)
			f.mu.Lock()
			f.errs[name] = err.Error()
			f.mu.Unlock()
		}
		return nil
	})
}

// Wait blocks until every branch is done and returns the failures, nil
// when there were none.
func (f *fanout) Wait() map[string]string {
	_ = f.g.Wait()
	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}

func (b *chartBase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.set.Timeout)
}

func (b *chartBase) observe(op string, start time.Time) {
	b.metrics.RecordLatency(op, time.Since(start).Seconds())
}

func (b *chartBase) logSkipped(kind string, rep timeseries.Report) {
	if rep.Skipped > 0 {
		b.l.Debug("records skipped",
			applogger.String("kind", kind),
			applogger.Int("accepted", rep.Accepted),
			applogger.Int("skipped", rep.Skipped),
		)
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, float64)   {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordRows(string, int)        {}
func (nopMetrics) RecordExcluded(string, int)    {}
func (nopMetrics) RecordLatency(string, float64) {}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}

// complete reorders set by keys, adding an empty series for every key
// without data. Keys in set but not in keys are appended after them.
func complete(set models.SeriesSet, keys []string) models.SeriesSet {
	byKey := make(map[string]models.Series, len(set))
	for _, s := range set {
		byKey[s.Key] = s
	}
	out := make(models.SeriesSet, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		s, ok := byKey[k]
		if !ok {
			s = models.Series{Key: k}
		}
		out = append(out, s)
	}
	for _, s := range set {
		if !seen[s.Key] {
			out = append(out, s)
		}
	}
	return out
}
