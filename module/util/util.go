package util

import (
	"context"
)

// WaitClosed blocks until ch is closed or ctx is done. A channel that is
// already closed wins over a cancelled context, so nil is returned whenever
// ch is closed on return.
func WaitClosed(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		select {
		case <-ch:
			return nil
		default:
			return ctx.Err()
		}
	}
}

// WaitError blocks until an error arrives on errChan or done is closed. When
// both are ready the error is returned, so that an irrecoverable error that
// caused done to close is never lost.
func WaitError(errChan <-chan error, done <-chan struct{}) error {
	select {
	case err := <-errChan:
		return err
	case <-done:
		select {
		case err := <-errChan:
			return err
		default:
			return nil
		}
	}
}
