package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/ApolloMedTech/shdms/internal/domain"
)

const (
	componentStore  = "store"
	componentLedger = "ledger"
)

// retry runs op until it succeeds, fails permanently or the backoff gives
// up. Only transient kinds are retried.
func (c *Controller) retry(ctx context.Context, op func() error) error {
	if c.retryMaxElapsed <= 0 {
		return op()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxElapsedTime = c.retryMaxElapsed

	var last error
	err := backoff.Retry(func() error {
		last = op()
		if last != nil && !domain.IsTransient(last) {
			return backoff.Permanent(last)
		}
		return last
	}, backoff.WithContext(b, ctx))
	if err != nil && last != nil {
		return last
	}
	return err
}

// call runs one remote operation under a bounded wait. Expiry of the wait
// is reported as onExpiry.
func (c *Controller) call(ctx context.Context, component, operation string, timeout time.Duration, onExpiry error, fn func(ctx context.Context) error) error {
	ctx, span := c.tracer.Start(ctx, component+"."+operation)
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(callCtx)
	c.metrics.ObserveRemoteCall(component, operation, time.Since(start))
	if err == nil {
		return nil
	}

	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, onExpiry) {
		err = fmt.Errorf("%s %s: no answer within %s: %v: %w", component, operation, timeout, err, onExpiry)
	}
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, string(domain.KindOf(err)))
	c.log.Warn().
		Err(err).
		Str("remote", component).
		Str("operation", operation).
		Str("kind", string(domain.KindOf(err))).
		Msg("remote call failed")
	return err
}

func (c *Controller) storeCall(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return c.call(ctx, componentStore, operation, c.storeTimeout, domain.ErrStoreUnavailable, fn)
}

func (c *Controller) ledgerRead(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return c.retry(ctx, func() error {
		return c.call(ctx, componentLedger, operation, c.ledgerTimeout, domain.ErrLedgerUnavailable, fn)
	})
}

// ledgerWrite is never retried: an unconfirmed write has an unknown outcome.
func (c *Controller) ledgerWrite(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return c.call(ctx, componentLedger, operation, c.ledgerTimeout, domain.ErrTransactionUnconfirmed, fn)
}
