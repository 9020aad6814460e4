package errs

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxRetries bounds internal retries before a conflict or outage surfaces
// to the caller.
const maxRetries = 3

// Retry runs op, retrying ErrConflict and ErrUnavailable with fibonacci
// backoff a bounded number of times. Only idempotent operations may go
// through here. Validation and not-found errors pass straight through.
func Retry(ctx context.Context, op func(context.Context) error) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewFibonacci(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}
