package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached results between instances.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) genKey() string {
	return s.prefix + ":gen"
}

func (s *RedisStore) entryKey(gen uint64, key string) string {
	return s.prefix + ":g" + strconv.FormatUint(gen, 10) + ":" + key
}

func (s *RedisStore) Generation(ctx context.Context) (uint64, error) {
	gen, err := s.rdb.Get(ctx, s.genKey()).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis GET generation: %w", err)
	}
	return gen, nil
}

func (s *RedisStore) Get(ctx context.Context, gen uint64, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, s.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, gen uint64, key string, val []byte) error {
	if err := s.rdb.Set(ctx, s.entryKey(gen, key), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps the generation. Entries of older generations expire on
// their own TTL.
func (s *RedisStore) Invalidate(ctx context.Context) error {
	if err := s.rdb.Incr(ctx, s.genKey()).Err(); err != nil {
		return fmt.Errorf("redis INCR generation: %w", err)
	}
	return nil
}
