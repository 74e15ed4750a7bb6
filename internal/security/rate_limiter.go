package security

import (
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter keyed by client
type RateLimiter struct {
	buckets map[string]*bucket
	mutex   sync.RWMutex

	maxRequests int           // tokens per window
	burst       int           // extra headroom on a fresh bucket
	window      time.Duration // refill window
	cleanup     time.Duration // cleanup interval
	stopCh      chan struct{}
}

// bucket holds the remaining tokens for one client
type bucket struct {
	tokens     int
	lastRefill time.Time
	mutex      sync.Mutex
}

// NewRateLimiter creates a rate limiter allowing maxRequests per window,
// plus a burst allowance on newly seen clients.
func NewRateLimiter(maxRequests, burst int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 300
	}
	if window <= 0 {
		window = time.Minute
	}
	rl := &RateLimiter{
		buckets:     make(map[string]*bucket),
		maxRequests: maxRequests,
		burst:       burst,
		window:      window,
		cleanup:     5 * time.Minute,
		stopCh:      make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow checks if a request from the given client should be allowed
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mutex.RLock()
	b, exists := rl.buckets[clientID]
	rl.mutex.RUnlock()

	if !exists {
		b = &bucket{
			tokens:     rl.maxRequests + rl.burst,
			lastRefill: time.Now(),
		}

		rl.mutex.Lock()
		// Another goroutine may have created the bucket meanwhile.
		if existing, ok := rl.buckets[clientID]; ok {
			b = existing
		} else {
			rl.buckets[clientID] = b
		}
		rl.mutex.Unlock()
	}

	return b.consume(rl.maxRequests, rl.window)
}

// consume attempts to take a token, refilling when the window has elapsed
func (b *bucket) consume(maxRequests int, window time.Duration) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	now := time.Now()

	if now.Sub(b.lastRefill) >= window {
		b.tokens = maxRequests
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Stop terminates the background cleanup loop
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// cleanupLoop periodically removes idle buckets
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanupOldBuckets removes buckets that haven't refilled recently
func (rl *RateLimiter) cleanupOldBuckets() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)

	for clientID, b := range rl.buckets {
		b.mutex.Lock()
		idle := b.lastRefill.Before(cutoff)
		b.mutex.Unlock()
		if idle {
			delete(rl.buckets, clientID)
		}
	}
}

// GetStats returns rate limiting statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]interface{}{
		"active_clients": len(rl.buckets),
		"max_requests":   rl.maxRequests,
		"window_seconds": int(rl.window.Seconds()),
	}
}
