package gateways

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	statusProcessing = "processing"
	statusSuccess    = "success"

	idempotencyTTL = 24 * time.Hour
)

var ErrKeyInProgress = errors.New("idempotency key is already being processed")

// IdempotencyResult is what a finished request stored under its key.
type IdempotencyResult struct {
	ReservationID uint `json:"reservation_id"`
}

type idempotencyState struct {
	Status    string             `json:"status"`
	Result    *IdempotencyResult `json:"result,omitempty"`
	ExpiresAt time.Time          `json:"-"`
}

type IdempotencyMemory struct {
	mutex sync.Mutex
	keys  map[string]*idempotencyState
	now   func() time.Time
}

func NewIdempotencyMemory() *IdempotencyMemory {
	return &IdempotencyMemory{keys: make(map[string]*idempotencyState), now: time.Now}
}

// Reserve claims key. It returns the stored result when the key already
// succeeded, ErrKeyInProgress while another request holds it, and nil, nil
// when the caller now owns the key.
func (m *IdempotencyMemory) Reserve(_ context.Context, key string) (*IdempotencyResult, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if state, ok := m.keys[key]; ok && m.now().Before(state.ExpiresAt) {
		switch state.Status {
		case statusSuccess:
			return state.Result, nil
		case statusProcessing:
			return nil, ErrKeyInProgress
		}
	}

	m.keys[key] = &idempotencyState{Status: statusProcessing, ExpiresAt: m.now().Add(idempotencyTTL)}
	return nil, nil
}

func (m *IdempotencyMemory) MarkFailure(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.keys, key)
	return nil
}

func (m *IdempotencyMemory) MarkSuccess(_ context.Context, key string, reservationID uint) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.keys[key] = &idempotencyState{
		Status:    statusSuccess,
		Result:    &IdempotencyResult{ReservationID: reservationID},
		ExpiresAt: m.now().Add(idempotencyTTL),
	}
	return nil
}
