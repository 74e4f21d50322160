package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates outbound mapping-API calls. All batch workers share one
// limiter so the aggregate request rate stays below the endpoint's quota.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerSecond with the given burst.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a request may proceed or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed right now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// WaitWithDelay waits for rate limit clearance and then an additional delay.
func (l *Limiter) WaitWithDelay(ctx context.Context, additionalDelay time.Duration) error {
	if err := l.Wait(ctx); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}
	return nil
}
