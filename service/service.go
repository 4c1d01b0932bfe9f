// Package service exposes GetContent independently of any transport and maps
// scrape failures to caller-facing status classes.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/use-agent/preview/metadata"
	"github.com/use-agent/preview/models"
)

// Status codes returned to callers.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeInvalidArgument = "INVALID_ARGUMENT"
)

// StatusError is a failure translated for the caller.
type StatusError struct {
	Code    string
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// ToDetail converts the error to its wire form.
func (e *StatusError) ToDetail() *models.ErrorDetail {
	return &models.ErrorDetail{Code: e.Code, Message: e.Message}
}

// Scraper is the orchestrator consumed by Service.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (*metadata.Result, error)
}

// Service holds no mutable state and may be shared by concurrent requests.
type Service struct {
	scraper Scraper
}

// New creates a Service backed by sc.
func New(sc Scraper) *Service {
	return &Service{scraper: sc}
}

// GetContent scrapes req.URL. Errors are always *StatusError.
func (s *Service) GetContent(ctx context.Context, req *models.ContentRequest) (*models.Content, error) {
	result, err := s.scraper.Scrape(ctx, req.URL)
	if err != nil {
		return nil, toStatus(err)
	}
	return &models.Content{
		Title: result.Title,
		Image: result.Image,
		Icon:  result.Icon,
	}, nil
}

func toStatus(err error) *StatusError {
	var se *models.ScrapeError
	if errors.As(err, &se) && se.Code == models.ErrCodeFetchFailed {
		return &StatusError{
			Code:    CodeNotFound,
			Message: fmt.Sprintf("HTML could not be retrieved from provided url. %s", se.Cause()),
			Err:     err,
		}
	}
	msg := err.Error()
	if se != nil {
		msg = se.Cause()
	}
	return &StatusError{Code: CodeInvalidArgument, Message: msg, Err: err}
}
