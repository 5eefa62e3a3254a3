package models

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var ErrEmptyLocation = errors.New("location cannot be empty")

// TransportError reports a failed exchange with the provider: network, timeout or non-2xx status.
type TransportError struct {
	Endpoint   string
	Location   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request for %q failed with status %d: %v", e.Endpoint, e.Location, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request for %q failed: %v", e.Endpoint, e.Location, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt could succeed.
func (e *TransportError) Retryable() bool {
	switch {
	case errors.Is(e.Err, context.Canceled):
		return false
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= http.StatusInternalServerError
	}
}

// Timeout reports whether the exchange ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(e.Err, &te) && te.Timeout()
}

// LocationNotFoundError means the current-conditions body did not carry the success marker.
type LocationNotFoundError struct {
	Location string
	Message  string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("city %q not found: %s", e.Location, e.Message)
}

// ForecastUnavailableError means the forecast body did not carry the success marker.
type ForecastUnavailableError struct {
	Location string
	Message  string
}

func (e *ForecastUnavailableError) Error() string {
	return fmt.Sprintf("forecast data error for %q: %s", e.Location, e.Message)
}
