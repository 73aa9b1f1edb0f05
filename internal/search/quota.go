package search

import "sync/atomic"

// QuotaCounter enforces the daily search API request cap across concurrent
// workers. Acquire reserves one request atomically, so the number of
// dispatched requests can never overshoot the limit.
type QuotaCounter struct {
	limit int64
	used  atomic.Int64
}

func NewQuotaCounter(limit int) *QuotaCounter {
	return &QuotaCounter{limit: int64(limit)}
}

// Acquire reserves one request. It returns false once the cap is reached;
// the reservation is not made in that case.
func (q *QuotaCounter) Acquire() bool {
	for {
		used := q.used.Load()
		if used >= q.limit {
			return false
		}
		if q.used.CompareAndSwap(used, used+1) {
			return true
		}
	}
}

// Used returns the number of requests reserved so far.
func (q *QuotaCounter) Used() int {
	return int(q.used.Load())
}

// Remaining returns how many requests are still available.
func (q *QuotaCounter) Remaining() int {
	r := q.limit - q.used.Load()
	if r < 0 {
		return 0
	}
	return int(r)
}

// Exhausted reports whether the cap has been reached.
func (q *QuotaCounter) Exhausted() bool {
	return q.used.Load() >= q.limit
}
