package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/transcribed/internal/common"
	"github.com/sethvargo/go-retry"
)

const maxAttempts = 3

// StatusError is a non-2xx answer from an upstream API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return common.ErrorUpstream }

// Retryable reports whether the request may succeed when repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func defaultBackoff() retry.Backoff {
	return retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(500*time.Millisecond))
}

// doWithRetry runs fn, repeating it while it fails with a retryable
// StatusError and the backoff allows.
func doWithRetry(ctx context.Context, b retry.Backoff, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		var se *StatusError
		if errors.As(err, &se) && se.Retryable() {
			return retry.RetryableError(err)
		}
		return err
	})
}
