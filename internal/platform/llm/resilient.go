package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker"

	"github.com/zaryah/zaryah-backend/internal/platform/httpx"
	"github.com/zaryah/zaryah-backend/internal/platform/logger"
)

// ErrCircuitOpen is returned while the breaker rejects calls to a failing provider.
var ErrCircuitOpen = gobreaker.ErrOpenState

type ResilienceConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxFailures    int
	ResetInterval  time.Duration
	HalfOpenLimit  int
	CallTimeout    time.Duration
}

func (c ResilienceConfig) withDefaults() ResilienceConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxFailures <= 0 {
		c.MaxFailures = 5
	}
	if c.ResetInterval <= 0 {
		c.ResetInterval = 60 * time.Second
	}
	if c.HalfOpenLimit <= 0 {
		c.HalfOpenLimit = 1
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 60 * time.Second
	}
	return c
}

type resilientProvider struct {
	inner Provider
	cfg   ResilienceConfig
	cb    *gobreaker.CircuitBreaker
	log   *logger.Logger
}

// NewResilient wraps p with retries on transient failures and a circuit breaker that trips after
// MaxFailures consecutive failed calls (each call counting once, after its retries).
func NewResilient(p Provider, cfg ResilienceConfig, log *logger.Logger) Provider {
	cfg = cfg.withDefaults()
	rlog := log.With("service", "ResilientProvider", "provider", p.Name())
	settings := gobreaker.Settings{
		Name:        "llm:" + p.Name(),
		MaxRequests: uint32(cfg.HalfOpenLimit),
		Interval:    cfg.ResetInterval,
		Timeout:     cfg.ResetInterval,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.MaxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			rlog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// Caller cancellation says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &resilientProvider{
		inner: p,
		cfg:   cfg,
		cb:    gobreaker.NewCircuitBreaker(settings),
		log:   rlog,
	}
}

func (r *resilientProvider) Name() string { return r.inner.Name() }

func (r *resilientProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	out, err := r.cb.Execute(func() (interface{}, error) {
		var resp *Response
		attempt := 0
		rerr := retry.Do(
			func() error {
				attempt++
				callCtx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
				defer cancel()
				res, err := r.inner.Complete(callCtx, req)
				if err != nil {
					r.log.Debug("completion attempt failed", "attempt", attempt, "error", err)
					return err
				}
				resp = res
				return nil
			},
			retry.Context(ctx),
			retry.Attempts(uint(r.cfg.MaxRetries+1)),
			retry.Delay(r.cfg.InitialBackoff),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(httpx.IsRetryableError),
			retry.OnRetry(func(n uint, err error) {
				r.log.Debug("retrying completion", "attempt", n+1, "max_attempts", r.cfg.MaxRetries+1, "error", err)
			}),
		)
		if rerr != nil {
			return nil, rerr
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", r.inner.Name(), ErrCircuitOpen)
		}
		return nil, fmt.Errorf("%s completion: %w", r.inner.Name(), err)
	}
	return out.(*Response), nil
}
