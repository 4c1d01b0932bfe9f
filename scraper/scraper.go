// Package scraper orchestrates one link-preview extraction: validate the URL,
// fetch the page, parse it and run the metadata rules.
package scraper

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/preview/document"
	"github.com/use-agent/preview/engine"
	"github.com/use-agent/preview/metadata"
	"github.com/use-agent/preview/metrics"
	"github.com/use-agent/preview/models"
	"github.com/use-agent/preview/resolver"
)

// DefaultTimeout bounds a single fetch when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Scraper is safe for concurrent use; it holds no per-request state.
type Scraper struct {
	fetcher engine.Engine
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithTimeout sets the per-request fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scraper) {
		s.metrics = m
	}
}

// New creates a Scraper that retrieves pages with fetcher.
func New(fetcher engine.Engine, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher: fetcher,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape extracts the preview metadata of the page at rawURL.
//
// The returned error is always a *models.ScrapeError: ErrCodeInvalidURL when
// rawURL is not an absolute URL (nothing is fetched), ErrCodeFetchFailed when
// the page could not be retrieved. No partial result accompanies an error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*metadata.Result, error) {
	base, err := resolver.NewBaseURL(rawURL)
	if err != nil {
		s.metrics.ObserveScrape(metrics.OutcomeInvalidURL)
		return nil, models.NewScrapeError(models.ErrCodeInvalidURL, err.Error(), err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	page, err := s.fetcher.Fetch(fetchCtx, &engine.FetchRequest{URL: base.String()})
	if err != nil {
		s.metrics.ObserveScrape(metrics.OutcomeFetchFailed)
		s.logger.Info("fetch failed", "url", base.String(), "error", err)
		return nil, models.NewScrapeError(models.ErrCodeFetchFailed, "HTML could not be retrieved", err)
	}
	s.metrics.ObserveFetch(page.EngineName, time.Since(start))

	doc := document.Parse(page.HTML)
	result := metadata.Extract(doc, base)

	for _, k := range metadata.Kinds {
		if result.Get(k) != nil {
			s.metrics.ObserveField(k.String())
		}
	}
	s.metrics.ObserveScrape(metrics.OutcomeOK)
	s.logger.Debug("scrape complete",
		"url", base.String(),
		"engine", page.EngineName,
		"fetch_ms", time.Since(start).Milliseconds(),
		"title", result.Title != nil,
		"image", result.Image != nil,
		"icon", result.Icon != nil,
	)

	return &result, nil
}
