package gateways

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "idempotency:reservation:"

type IdempotencyRedis struct {
	client *redis.Client
}

func NewIdempotencyRedis(client *redis.Client) *IdempotencyRedis {
	return &IdempotencyRedis{client: client}
}

func (r *IdempotencyRedis) key(idempotencyKey string) string {
	return idempotencyKeyPrefix + idempotencyKey
}

func (r *IdempotencyRedis) Reserve(ctx context.Context, idempotencyKey string) (*IdempotencyResult, error) {
	k := r.key(idempotencyKey)

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := r.client.Get(ctx, k).Bytes()
		if err == redis.Nil {
			raw, _ := json.Marshal(idempotencyState{Status: statusProcessing})
			_, err := r.client.SetArgs(ctx, k, raw, redis.SetArgs{Mode: "NX", TTL: idempotencyTTL}).Result()
			if err == redis.Nil {
				// lost the race, read the winner's state
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("redis set: %w", err)
			}
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("redis get: %w", err)
		}

		var state idempotencyState
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, fmt.Errorf("redis unmarshal: %w", err)
		}

		switch state.Status {
		case statusSuccess:
			return state.Result, nil
		case statusProcessing:
			return nil, ErrKeyInProgress
		default:
			raw, _ := json.Marshal(idempotencyState{Status: statusProcessing})
			if err := r.client.Set(ctx, k, raw, idempotencyTTL).Err(); err != nil {
				return nil, fmt.Errorf("redis set: %w", err)
			}
			return nil, nil
		}
	}
}

func (r *IdempotencyRedis) MarkFailure(ctx context.Context, idempotencyKey string) error {
	return r.client.Del(ctx, r.key(idempotencyKey)).Err()
}

func (r *IdempotencyRedis) MarkSuccess(ctx context.Context, idempotencyKey string, reservationID uint) error {
	raw, err := json.Marshal(idempotencyState{
		Status: statusSuccess,
		Result: &IdempotencyResult{ReservationID: reservationID},
	})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(idempotencyKey), raw, idempotencyTTL).Err()
}
