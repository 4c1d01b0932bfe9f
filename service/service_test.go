package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/preview/engine"
	"github.com/use-agent/preview/metadata"
	"github.com/use-agent/preview/models"
	"github.com/use-agent/preview/scraper"
	"github.com/use-agent/preview/service"
)

type scrapeFunc func(ctx context.Context, rawURL string) (*metadata.Result, error)

func (f scrapeFunc) Scrape(ctx context.Context, rawURL string) (*metadata.Result, error) {
	return f(ctx, rawURL)
}

type failingEngine struct{ err error }

func (failingEngine) Name() string { return "failing" }

func (f failingEngine) Fetch(context.Context, *engine.FetchRequest) (*engine.FetchResult, error) {
	return nil, f.err
}

func ptr(s string) *string { return &s }

func TestService_GetContent(t *testing.T) {
	t.Parallel()

	t.Run("maps result to content", func(t *testing.T) {
		t.Parallel()

		svc := service.New(scrapeFunc(func(_ context.Context, rawURL string) (*metadata.Result, error) {
			assert.Equal(t, "https://example.com", rawURL)
			return &metadata.Result{Title: ptr("Hello"), Icon: ptr("https://example.com/favicon.ico")}, nil
		}))

		content, err := svc.GetContent(context.Background(), &models.ContentRequest{URL: "https://example.com"})
		require.NoError(t, err)
		assert.Equal(t, &models.Content{Title: ptr("Hello"), Icon: ptr("https://example.com/favicon.ico")}, content)
	})

	t.Run("fetch failure maps to not found", func(t *testing.T) {
		t.Parallel()

		cause := &engine.FetchError{URL: "https://unreachable.example", Engine: "http", Err: errors.New("connection refused")}
		svc := service.New(scraper.New(failingEngine{err: cause}))

		_, err := svc.GetContent(context.Background(), &models.ContentRequest{URL: "https://unreachable.example"})

		var status *service.StatusError
		require.ErrorAs(t, err, &status)
		assert.Equal(t, service.CodeNotFound, status.Code)
		assert.Equal(t, "HTML could not be retrieved from provided url. http: connection refused", status.Message)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("invalid url maps to invalid argument", func(t *testing.T) {
		t.Parallel()

		svc := service.New(scraper.New(failingEngine{err: errors.New("unused")}))

		_, err := svc.GetContent(context.Background(), &models.ContentRequest{URL: "example.com"})

		var status *service.StatusError
		require.ErrorAs(t, err, &status)
		assert.Equal(t, service.CodeInvalidArgument, status.Code)
		assert.Equal(t, `invalid url "example.com": missing scheme`, status.Message)
	})

	t.Run("unclassified errors map to invalid argument", func(t *testing.T) {
		t.Parallel()

		svc := service.New(scrapeFunc(func(context.Context, string) (*metadata.Result, error) {
			return nil, errors.New("boom")
		}))

		_, err := svc.GetContent(context.Background(), &models.ContentRequest{URL: "https://example.com"})

		var status *service.StatusError
		require.ErrorAs(t, err, &status)
		assert.Equal(t, service.CodeInvalidArgument, status.Code)
		assert.Equal(t, "boom", status.Message)
		assert.Equal(t, &models.ErrorDetail{Code: "INVALID_ARGUMENT", Message: "boom"}, status.ToDetail())
	})
}
