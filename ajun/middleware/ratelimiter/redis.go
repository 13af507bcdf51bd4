package ratelimiter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisBackend keeps one JSON value per client IP under <prefix><ip>.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{
		client: client,
		prefix: prefix,
	}
}

func (rb *RedisBackend) Get(ctx context.Context, clientIP string) (*ClientIPData, error) {
	result, err := rb.client.Get(ctx, rb.prefix+clientIP).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var data ClientIPData
	if err := json.Unmarshal([]byte(result), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (rb *RedisBackend) Set(ctx context.Context, clientIP string, data *ClientIPData) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return rb.client.Set(ctx, rb.prefix+clientIP, jsonData, 0).Err()
}

func (rb *RedisBackend) Delete(ctx context.Context, clientIP string) error {
	return rb.client.Del(ctx, rb.prefix+clientIP).Err()
}

func (rb *RedisBackend) List(ctx context.Context) (map[string]*ClientIPData, error) {
	result := make(map[string]*ClientIPData)

	iter := rb.client.Scan(ctx, 0, rb.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		val, err := rb.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var data ClientIPData
		if err := json.Unmarshal([]byte(val), &data); err != nil {
			return nil, err
		}
		result[strings.TrimPrefix(key, rb.prefix)] = &data
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
