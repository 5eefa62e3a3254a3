package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"weather-dashboard/config"
	"weather-dashboard/internal/models"
)

// providerResponse is a completed exchange whose status the caller still has to interpret.
type providerResponse struct {
	status int
	body   []byte
}

type attemptFunc func(ctx context.Context) (*providerResponse, error)

// errRateLimited marks attempts that never left the client because the limiter could not grant a slot in time.
var errRateLimited = errors.New("rate limit wait")

// resilience guards provider exchanges with a rate limiter, a circuit breaker and bounded retries.
// Only transport failures are retried or counted by the breaker; body validation happens later.
type resilience struct {
	timeout time.Duration
	retry   config.RetryConfig
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func newResilience(name string, cfg config.WeatherConfig) *resilience {
	r := &resilience{timeout: cfg.RequestTimeout, retry: cfg.Retry}

	if cfg.Breaker.Enabled {
		threshold := cfg.Breaker.ConsecutiveFailures
		r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    cfg.Breaker.Interval,
			Timeout:     cfg.Breaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		})
	}

	if cfg.RateLimit.RPS > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst)
	}

	return r
}

func (r *resilience) do(ctx context.Context, endpoint, location string, attempt attemptFunc) (*providerResponse, error) {
	for n := 0; ; n++ {
		resp, err := r.once(ctx, endpoint, location, attempt)
		if err == nil {
			return resp, nil
		}

		var te *models.TransportError
		if !errors.As(err, &te) || !te.Retryable() || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, errRateLimited) {
			return nil, err
		}
		if n >= r.retry.MaxRetries || ctx.Err() != nil {
			return nil, err
		}

		timer := time.NewTimer(r.backoff(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &models.TransportError{Endpoint: endpoint, Location: location, Err: ctx.Err()}
		case <-timer.C:
		}
	}
}

// once runs a single attempt. The request timeout covers the limiter wait as well as the exchange.
func (r *resilience) once(ctx context.Context, endpoint, location string, attempt attemptFunc) (*providerResponse, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			// Wait refuses early when the slot lies past the deadline, before ctx is done.
			cause := ctx.Err()
			if cause == nil {
				cause = context.DeadlineExceeded
			}
			return nil, &models.TransportError{
				Endpoint: endpoint,
				Location: location,
				Err:      fmt.Errorf("%w: %v: %w", errRateLimited, err, cause),
			}
		}
	}

	if r.breaker == nil {
		return attempt(ctx)
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return attempt(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &models.TransportError{
				Endpoint: endpoint,
				Location: location,
				Err:      fmt.Errorf("circuit breaker %s open: %w", r.breaker.Name(), err),
			}
		}
		return nil, err
	}

	resp, ok := result.(*providerResponse)
	if !ok {
		return nil, &models.TransportError{
			Endpoint: endpoint,
			Location: location,
			Err:      fmt.Errorf("unexpected result type %T from circuit breaker", result),
		}
	}

	return resp, nil
}

func (r *resilience) backoff(attempt int) time.Duration {
	delay := r.retry.InitialInterval << attempt
	if r.retry.MaxInterval > 0 && (delay > r.retry.MaxInterval || delay <= 0) {
		delay = r.retry.MaxInterval
	}
	return delay
}
