// =============================================
// File: internal/retry/retry.go
// =============================================
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/bundle"
	"github.com/timurkhasanov/solana-bundler/internal/ratelimit"
)

// Submitter posts one bundle to a relay. Implementations never retry
// internally; all retry policy lives here and in the orchestrators.
type Submitter interface {
	SubmitBundle(ctx context.Context, b bundle.Bundle) (*bundle.Result, error)
}

const (
	DefaultMaxAttempts          = 50
	DefaultMaxConsecutiveErrors = 3
	DefaultBaseDelay            = 200 * time.Millisecond
)

// Controller drives submission of the critical first bundle of an
// operation. That bundle typically holds the one transaction with no
// substitute (mint or pool creation); if it never lands, the operation is
// void, so it alone gets an aggressive retry budget. Two ceilings apply:
// a total attempt cap, and a smaller cap on consecutive transport
// failures so a dead relay doesn't burn the whole budget. A relay that
// answers and rejects only consumes attempts: persistent rejection runs
// the full attempt budget.
type Controller struct {
	maxAttempts    int
	maxConsecutive int
	baseDelay      time.Duration
	limiter        *ratelimit.Limiter
	logger         *zap.Logger
	sleep          func(context.Context, time.Duration) error
}

func NewController(limiter *ratelimit.Limiter, logger *zap.Logger) *Controller {
	return &Controller{
		maxAttempts:    DefaultMaxAttempts,
		maxConsecutive: DefaultMaxConsecutiveErrors,
		baseDelay:      DefaultBaseDelay,
		limiter:        limiter,
		logger:         logger.Named("retry"),
		sleep:          sleepCtx,
	}
}

// WithLimits overrides the attempt ceilings and base delay.
func (c *Controller) WithLimits(maxAttempts, maxConsecutive int, baseDelay time.Duration) *Controller {
	if maxAttempts > 0 {
		c.maxAttempts = maxAttempts
	}
	if maxConsecutive > 0 {
		c.maxConsecutive = maxConsecutive
	}
	if baseDelay > 0 {
		c.baseDelay = baseDelay
	}
	return c
}

// SendCritical submits the bundle until it lands or a ceiling is hit.
// Each attempt takes a rate-limit slot first. Delay between attempts is
// baseDelay x 1.5^attempt with +/-15% jitter.
func (c *Controller) SendCritical(ctx context.Context, sub Submitter, b bundle.Bundle) (*bundle.Result, error) {
	bo := c.newBackOff()

	consecutive := 0
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, err
		}

		res, err := sub.SubmitBundle(ctx, b)
		if err == nil {
			c.logger.Info("critical bundle landed",
				zap.Int("attempt", attempt),
				zap.String("bundle_id", res.BundleID))
			return res, nil
		}
		lastErr = err

		if isRejection(err) {
			// The relay answered and said no: the link works, reset the
			// transport failure streak.
			consecutive = 0
		} else {
			consecutive++
		}

		if consecutive >= c.maxConsecutive {
			return nil, fmt.Errorf("critical bundle aborted after %d attempts (%d consecutive errors): %w",
				attempt, consecutive, lastErr)
		}
		if attempt == c.maxAttempts {
			break
		}

		delay := bo.NextBackOff()
		c.logger.Warn("critical bundle submission failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("consecutive_errors", consecutive),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("critical bundle failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Controller) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseDelay
	bo.Multiplier = 1.5
	bo.RandomizationFactor = 0.15
	bo.MaxInterval = 30 * time.Second
	bo.Reset()
	return bo
}

// isRejection reports whether the relay itself rejected the bundle, as
// opposed to the request failing in transit.
func isRejection(err error) bool {
	var rej interface{ Rejected() bool }
	return errors.As(err, &rej) && rej.Rejected()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
