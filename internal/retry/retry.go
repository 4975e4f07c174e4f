// Package retry wraps the external AI call plus its parse step in a
// bounded retry loop. Parse failures are deliberately retriable: a
// stochastic model may well produce valid JSON on a repeated call for
// the same input.
package retry

import (
	"context"
	"errors"
	"time"

	"akazakov/snapstat/internal/logging"
	"akazakov/snapstat/internal/parsererror"
)

// MaxAttempts is the fixed ceiling on invoke attempts.
const MaxAttempts = 3

// Controller runs invoke+parse with exponential backoff between
// attempts: base, 2×base, 4×base.
type Controller struct {
	baseDelay time.Duration
	logger    logging.Logger
}

// New creates a Controller with the given backoff base delay.
func New(baseDelay time.Duration, logger logging.Logger) *Controller {
	return &Controller{baseDelay: baseDelay, logger: logger}
}

// Do calls invoke and feeds its raw text through parse, retrying on
// retriable invoke failures and on any parse failure. A non-retriable
// invoke failure (HTTP 4xx other than 429) fails immediately. On
// exhaustion the last error is returned unchanged so callers see the
// true root cause.
func Do[T any](ctx context.Context, c *Controller, invoke func(context.Context) (string, error), parse func(string) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := c.baseDelay << (attempt - 2)
			c.logger.WithFields(
				logging.Field{Key: "attempt", Value: attempt},
				logging.Field{Key: "delay", Value: delay.String()},
			).Info("Retrying AI call")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		raw, err := invoke(ctx)
		if err != nil {
			lastErr = err
			if !invokeRetriable(err) {
				return zero, err
			}
			c.logger.WithError(err).WithField("attempt", attempt).Warn("AI call failed")
			continue
		}

		result, err := parse(raw)
		if err != nil {
			lastErr = err
			c.logger.WithError(err).WithField("attempt", attempt).Warn("Failed to parse AI response")
			continue
		}
		return result, nil
	}
	return zero, lastErr
}

// invokeRetriable classifies an invoke failure. Known API errors carry
// their own verdict; anything else is assumed to be a transport-level
// failure and retried.
func invokeRetriable(err error) bool {
	var apiErr *parsererror.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retriable()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
