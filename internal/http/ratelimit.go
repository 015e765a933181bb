package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	rateWindow     = time.Minute
	staleClientAge = 10 * time.Minute
	sweepInterval  = 5 * time.Minute
)

// rateLimiter counts requests per client IP in fixed one-minute windows.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	now     func() time.Time
	windows map[string]*window

	done     chan struct{}
	stopOnce sync.Once
}

type window struct {
	start time.Time
	seen  int
}

// newRateLimiter allows limit requests per client per minute and sweeps idle
// clients in the background until stop is called.
func newRateLimiter(limit int) *rateLimiter {
	rl := &rateLimiter{
		limit:   limit,
		now:     time.Now,
		windows: make(map[string]*window),
		done:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep forgets clients whose window started more than staleClientAge ago.
func (rl *rateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-staleClientAge)
	removed := 0
	for ip, w := range rl.windows {
		if w.start.Before(cutoff) {
			delete(rl.windows, ip)
			removed++
		}
	}
	return removed
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// allow records a request from clientIP and reports whether it fits in the
// client's current window. Rejections are counted in metrics.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[clientIP]
	if !ok || now.Sub(w.start) >= rateWindow {
		rl.windows[clientIP] = &window{start: now, seen: 1}
		return true
	}

	w.seen++
	if w.seen <= rl.limit {
		return true
	}
	if metrics != nil {
		atomic.AddInt64(&metrics.rateLimitHits, 1)
	}
	return false
}
