package lockout

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"securevote/internal/platform/redis"
	id "securevote/pkg/domain"
)

// RedisStore shares lockout state across instances. Failure counting uses a
// fixed window keyed by handle; the lock is a value with a TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func failKey(handle id.VoterHandle) string { return "lockout:fail:" + handle.String() }
func lockKey(handle id.VoterHandle) string { return "lockout:lock:" + handle.String() }

func (s *RedisStore) AddFailure(ctx context.Context, handle id.VoterHandle, _ time.Time, window time.Duration) (int, error) {
	key := failKey(handle)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("lockout incr: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("lockout expire: %w", err)
		}
	}
	return int(count), nil
}

func (s *RedisStore) LockedUntil(ctx context.Context, handle id.VoterHandle) (time.Time, error) {
	val, err := s.client.Get(ctx, lockKey(handle)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("lockout get: %w", err)
	}
	until, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("lockout parse: %w", err)
	}
	return until, nil
}

func (s *RedisStore) Lock(ctx context.Context, handle id.VoterHandle, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, lockKey(handle), until.Format(time.RFC3339Nano), ttl)
	pipe.Del(ctx, failKey(handle))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lockout lock: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, handle id.VoterHandle) error {
	if err := s.client.Del(ctx, failKey(handle), lockKey(handle)).Err(); err != nil {
		return fmt.Errorf("lockout clear: %w", err)
	}
	return nil
}
