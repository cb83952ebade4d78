package gateways

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type LockRedis struct {
	client *redis.Client
}

func NewLockRedis(client *redis.Client) *LockRedis {
	return &LockRedis{client: client}
}

func (l *LockRedis) LockRoom(ctx context.Context, roomID uint, ttl time.Duration) (func(), error) {
	key := roomLockKey(roomID)
	token := uuid.NewString()

	err := acquire(ctx, func() (bool, error) {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return false, fmt.Errorf("redis setnx: %w", err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, err
	}

	return func() {
		// the request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}, nil
}
