package services

import (
	"context"
	"time"

	"resort-backend/gateways"
)

// RoomLocker serialises reservation creation per room across instances.
type RoomLocker interface {
	LockRoom(ctx context.Context, roomID uint, ttl time.Duration) (release func(), err error)
}

type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (*gateways.IdempotencyResult, error)
	MarkSuccess(ctx context.Context, key string, reservationID uint) error
	MarkFailure(ctx context.Context, key string) error
}

type KitchenPublisher interface {
	Publish(ctx context.Context, event gateways.KitchenEvent) error
}

type Mailer interface {
	SendCheckoutReceipt(ctx context.Context, receipt gateways.Receipt) error
}
