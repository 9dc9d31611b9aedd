package localstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "racketoutlet:local:"

// Redis stores values in Redis without TTL; entries live until deleted.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a Redis-backed KV.
func NewRedis(addr, password string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
