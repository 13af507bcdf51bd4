package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores every product as a JSON value under <prefix>item:<id>
// and keeps insertion order in the list <prefix>index.
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

func (rb *RedisBackend) itemKey(id string) string {
	return rb.prefix + "item:" + id
}

func (rb *RedisBackend) indexKey() string {
	return rb.prefix + "index"
}

func (rb *RedisBackend) Get(ctx context.Context, id string) (*Product, error) {
	result, err := rb.client.Get(ctx, rb.itemKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}

	var p Product
	if err := json.Unmarshal([]byte(result), &p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	return &p, nil
}

func (rb *RedisBackend) Set(ctx context.Context, p *Product) error {
	jsonData, err := json.Marshal(p)
	if err != nil {
		return err
	}

	exists, err := rb.client.Exists(ctx, rb.itemKey(p.ID)).Result()
	if err != nil {
		return fmt.Errorf("redis exists %s: %w", p.ID, err)
	}

	_, err = rb.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, rb.itemKey(p.ID), jsonData, 0)
		if exists == 0 {
			pipe.RPush(ctx, rb.indexKey(), p.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", p.ID, err)
	}
	return nil
}

func (rb *RedisBackend) List(ctx context.Context) ([]Product, error) {
	ids, err := rb.client.LRange(ctx, rb.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	products := make([]Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = rb.itemKey(id)
	}

	values, err := rb.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	for i, val := range values {
		raw, ok := val.(string)
		if !ok {
			continue
		}
		var p Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", ids[i], err)
		}
		products = append(products, p)
	}
	return products, nil
}
