package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const leaseKeyPrefix = "memento:sweep-lease:"

// releaseScript deletes the lease only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLease implements Lease with SET NX PX.
type RedisLease struct {
	client redis.UniversalClient
}

func NewRedisLease(client redis.UniversalClient) *RedisLease {
	return &RedisLease{client: client}
}

func (l *RedisLease) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := leaseKeyPrefix + name
	holder := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, holder, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		_ = releaseScript.Run(context.WithoutCancel(ctx), l.client, []string{key}, holder).Err()
	}
	return release, true, nil
}
