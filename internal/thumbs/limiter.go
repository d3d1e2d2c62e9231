package thumbs

import (
	"sync"
	"time"
)

// DefaultWindow spaces regeneration attempts for one feature image.
const DefaultWindow = 10 * time.Second

// Limiter throttles thumbnail regeneration to one request per (path, key)
// per window. A note whose attachment stays missing asks again at most
// once a window instead of on every render.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   map[ckey]time.Time
}

// NewLimiter returns a limiter with the given window.
func NewLimiter(window time.Duration) *Limiter {
	return &Limiter{window: window, now: time.Now, last: make(map[ckey]time.Time)}
}

// Allow reports whether a regeneration may fire now, recording the attempt
// when it may.
func (l *Limiter) Allow(path, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	k := ckey{path, key}
	if t, ok := l.last[k]; ok && now.Sub(t) < l.window {
		return false
	}
	l.last[k] = now
	return true
}

// Forget clears the record for a path, all keys. Called when a note is
// removed so the map does not hold dead entries.
func (l *Limiter) Forget(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for k := range l.last {
		if k.path == path {
			delete(l.last, k)
		}
	}
}
