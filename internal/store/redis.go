package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis stores each record as a plain Redis string under namespace+key.
type Redis struct {
	rdb       *redis.Client
	namespace string
}

// NewRedis returns a Redis store. namespace is prepended to every key, e.g.
// "jobtracker:".
func NewRedis(rdb *redis.Client, namespace string) *Redis {
	return &Redis{rdb: rdb, namespace: namespace}
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.namespace+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.namespace+key, value, 0).Err()
}

// Remove implements Store.
func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.namespace+key).Err()
}
