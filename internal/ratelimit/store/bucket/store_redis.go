package bucket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"memento/internal/ratelimit/models"
	"memento/pkg/requestcontext"
)

// slidingWindowScript trims the sorted set to the window, then admits the hit
// only while the set holds fewer than limit members. Returns
// {allowed, count, oldestMillis}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
local count = redis.call("ZCARD", key)
local allowed = 0
if count < limit then
	redis.call("ZADD", key, now, member)
	count = count + 1
	allowed = 1
end
redis.call("PEXPIRE", key, window)
local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
local oldestScore = now
if oldest[2] then
	oldestScore = tonumber(oldest[2])
end
return {allowed, count, oldestScore}
`)

// RedisBucketStore is the shared sliding window used when several replicas
// serve the public endpoints.
type RedisBucketStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisBucketStore {
	return &RedisBucketStore{client: client}
}

func (s *RedisBucketStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)
	res, err := slidingWindowScript.Run(ctx, s.client, []string{key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("sliding window %s: %w", key, err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("sliding window %s: unexpected reply %v", key, res)
	}

	resetAt := time.UnixMilli(res[2]).Add(window)
	if res[0] == 0 {
		return models.Denied(limit, resetAt, now), nil
	}
	return &models.RateLimitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(res[1]),
		ResetAt:   resetAt,
	}, nil
}

func (s *RedisBucketStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
