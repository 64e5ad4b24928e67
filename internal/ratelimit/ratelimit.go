// =============================================
// File: internal/ratelimit/ratelimit.go
// =============================================
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxPerSecond matches the relay's tolerated submission rate.
const DefaultMaxPerSecond = 2

// Limiter bounds bundle submissions to a fixed number per rolling
// one-second window. Unlike a token bucket, the counter resets at window
// boundaries and a blocked caller sleeps out the window remainder, which
// is the behavior the relay's own accounting uses.
//
// One Limiter is shared by every orchestrator in the process; construct it
// once at startup and pass it down.
type Limiter struct {
	mu          sync.Mutex
	max         int
	window      time.Duration
	windowStart time.Time
	count       int
	now         func() time.Time
	sleep       func(context.Context, time.Duration) error
}

func New(maxPerSecond int) *Limiter {
	if maxPerSecond <= 0 {
		maxPerSecond = DefaultMaxPerSecond
	}
	return &Limiter{
		max:    maxPerSecond,
		window: time.Second,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Acquire blocks until a submission slot is available, then consumes it.
// It must be called immediately before every bundle submission.
//
// Window state is re-checked after every sleep: another waker may have
// already opened the next window and taken slots in it.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	for {
		now := l.now()
		if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
			l.windowStart = now
			l.count = 0
		}

		if l.count < l.max {
			l.count++
			l.mu.Unlock()
			return nil
		}

		wait := l.window - now.Sub(l.windowStart)
		l.mu.Unlock()
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
		l.mu.Lock()
	}
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
