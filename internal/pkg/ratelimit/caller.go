// Package ratelimit wraps outbound network operations with a fixed minimum
// inter-call spacing, a per-attempt timeout and exponential-backoff retry.
// Failures are classified as retryable or terminal; terminal failures
// propagate immediately without consuming retry budget.
package ratelimit

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Oskar181/ethereum-wallet-analyzer/pkg/metrics"
)

// Class discriminates failure handling for a wrapped call.
type Class int

const (
	// ClassRetryable covers timeouts, transport errors and provider
	// rate-limit responses. Subject to backoff retry.
	ClassRetryable Class = iota
	// ClassTerminal covers invalid credentials and malformed requests.
	// Never retried.
	ClassTerminal
)

// Error is a classified call failure.
type Error struct {
	Class Class
	Err   error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Retryable marks err as transient.
func Retryable(err error) error { return &Error{Class: ClassRetryable, Err: err} }

// Terminal marks err as non-retryable.
func Terminal(err error) error { return &Error{Class: ClassTerminal, Err: err} }

// IsTerminal reports whether err was classified terminal. Unclassified
// errors default to retryable: transport and timeout failures arrive
// unwrapped from the HTTP layer.
func IsTerminal(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Class == ClassTerminal
}

// Config controls the retry/backoff behavior of a Caller.
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	CallTimeout     time.Duration
	MinCallInterval time.Duration
}

// Caller executes operations one at a time, pacing them through a shared
// limiter so that sequential pipeline stages never burst against a
// provider's per-key rate limit.
type Caller struct {
	cfg     Config
	limiter *rate.Limiter
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// New builds a Caller. MinCallInterval of zero disables pacing.
func New(cfg Config, logger *zap.Logger) *Caller {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinCallInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinCallInterval), 1)
	}
	return &Caller{
		cfg:     cfg,
		limiter: limiter,
		logger:  logger.Named("RateLimitedCaller"),
		sleep:   sleepCtx,
	}
}

// Do runs op, retrying retryable failures up to MaxRetries times with a
// delay of BaseDelay*2^(k-1) before the k-th retry. Each attempt runs under
// its own timeout and waits for the pacing limiter first. The last error is
// returned once the budget is exhausted.
func (c *Caller) Do(ctx context.Context, provider string, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.BaseDelay << (attempt - 1)
			c.logger.Debug("retrying call",
				zap.String("provider", provider),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			metrics.RetriesTotal.WithLabelValues(provider).Inc()
			if err := c.sleep(ctx, backoff); err != nil {
				return err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if c.cfg.CallTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.CallTimeout)
		}
		err := op(attemptCtx)
		cancel()

		if err == nil {
			metrics.ExternalCallsTotal.WithLabelValues(provider, "ok").Inc()
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if IsTerminal(err) {
			metrics.ExternalCallsTotal.WithLabelValues(provider, "terminal").Inc()
			c.logger.Warn("terminal call failure",
				zap.String("provider", provider), zap.Error(err))
			return err
		}
		metrics.ExternalCallsTotal.WithLabelValues(provider, "retryable").Inc()
		lastErr = err
	}
	c.logger.Warn("retry budget exhausted",
		zap.String("provider", provider),
		zap.Int("maxRetries", c.cfg.MaxRetries),
		zap.Error(lastErr))
	return lastErr
}

// Do runs a value-returning operation through the caller.
func Do[T any](ctx context.Context, c *Caller, provider string, op func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := c.Do(ctx, provider, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
