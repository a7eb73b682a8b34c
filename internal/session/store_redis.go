package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key layout: session:{sid}:{key} -> JSON string.
const redisKeyFormat = "session:%s:%s"

// Sessions outlive single page loads but not the user's week.
var TTLSession = 24 * time.Hour

// RedisStore persists session state in Redis so it survives restarts
// and is shared across app instances.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func NewRedisStoreFromClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (r *RedisStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, fmt.Sprintf(redisKeyFormat, sid, key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisStore) Set(ctx context.Context, sid, key, value string) error {
	return r.rdb.Set(ctx, fmt.Sprintf(redisKeyFormat, sid, key), value, TTLSession).Err()
}

func (r *RedisStore) Delete(ctx context.Context, sid, key string) error {
	return r.rdb.Del(ctx, fmt.Sprintf(redisKeyFormat, sid, key)).Err()
}
