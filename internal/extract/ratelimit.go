package extract

import (
	"context"
	"sync"
	"time"
)

// HostLimiter paces page fetches per target host so concurrent workers do
// not trip site-side rate limiting.
type HostLimiter struct {
	perMinute int
	limiters  map[string]*hostBucket
	mu        sync.Mutex
}

type hostBucket struct {
	tokens chan struct{}
	refill *time.Ticker
}

func NewHostLimiter(perMinute int) *HostLimiter {
	return &HostLimiter{
		perMinute: perMinute,
		limiters:  make(map[string]*hostBucket),
	}
}

// Wait blocks until a request slot is available for the host or the
// context is cancelled.
func (hl *HostLimiter) Wait(ctx context.Context, host string) error {
	bucket := hl.getBucket(host)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-bucket.tokens:
		return nil
	}
}

func (hl *HostLimiter) getBucket(host string) *hostBucket {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if bucket, exists := hl.limiters[host]; exists {
		return bucket
	}

	tokens := make(chan struct{}, hl.perMinute)
	for i := 0; i < hl.perMinute; i++ {
		tokens <- struct{}{}
	}

	bucket := &hostBucket{
		tokens: tokens,
		refill: time.NewTicker(time.Minute / time.Duration(hl.perMinute)),
	}
	go bucket.startRefill()

	hl.limiters[host] = bucket
	return bucket
}

func (b *hostBucket) startRefill() {
	for range b.refill.C {
		select {
		case b.tokens <- struct{}{}:
		default:
			// Bucket full, skip this refill.
		}
	}
}

// Stop stops all refill tickers.
func (hl *HostLimiter) Stop() {
	hl.mu.Lock()
	defer hl.mu.Unlock()
	for _, bucket := range hl.limiters {
		bucket.refill.Stop()
	}
}
