package ratelimiter

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("client ip not found")

type Backend interface {
	Get(ctx context.Context, clientIP string) (*ClientIPData, error)
	Set(ctx context.Context, clientIP string, data *ClientIPData) error
	Delete(ctx context.Context, clientIP string) error
	List(ctx context.Context) (map[string]*ClientIPData, error)
}
