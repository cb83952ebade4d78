package gateways

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrLockHeld = errors.New("lock is held by another request")

const (
	lockRetryInterval = 25 * time.Millisecond
	lockWait          = 3 * time.Second
)

func roomLockKey(roomID uint) string {
	return fmt.Sprintf("lock:room:%d", roomID)
}

// acquire retries try until it succeeds, lockWait passes or ctx ends.
func acquire(ctx context.Context, try func() (bool, error)) error {
	deadline := time.Now().Add(lockWait)
	for {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrLockHeld
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

type lockEntry struct {
	token     string
	expiresAt time.Time
}

// LockMemory is a per-process room lock.
type LockMemory struct {
	mutex sync.Mutex
	held  map[string]lockEntry
}

func NewLockMemory() *LockMemory {
	return &LockMemory{held: make(map[string]lockEntry)}
}

// LockRoom blocks until the room's lock is free (or ErrLockHeld after a short wait).
// The lock expires after ttl even if release is never called.
func (l *LockMemory) LockRoom(ctx context.Context, roomID uint, ttl time.Duration) (func(), error) {
	key := roomLockKey(roomID)
	token := uuid.NewString()

	err := acquire(ctx, func() (bool, error) {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		if e, ok := l.held[key]; ok && time.Now().Before(e.expiresAt) {
			return false, nil
		}
		l.held[key] = lockEntry{token: token, expiresAt: time.Now().Add(ttl)}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return func() {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		if e, ok := l.held[key]; ok && e.token == token {
			delete(l.held, key)
		}
	}, nil
}
