package gateways

import (
	"context"
	"sync"
	"time"
)

type rateWindow struct {
	count   int64
	resetAt time.Time
}

// RateMemory counts hits per key in fixed windows, per process.
type RateMemory struct {
	mutex   sync.Mutex
	windows map[string]rateWindow
	now     func() time.Time
}

func NewRateMemory() *RateMemory {
	return &RateMemory{windows: make(map[string]rateWindow), now: time.Now}
}

// Hit records one attempt for key and returns the attempts seen in the
// current window and the time left until it resets.
func (r *RateMemory) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	w, ok := r.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = rateWindow{resetAt: now.Add(window)}
		r.sweep(now)
	}
	w.count++
	r.windows[key] = w
	return w.count, w.resetAt.Sub(now), nil
}

// sweep drops expired windows so one-off clients do not pile up.
func (r *RateMemory) sweep(now time.Time) {
	for k, w := range r.windows {
		if !now.Before(w.resetAt) {
			delete(r.windows, k)
		}
	}
}
