package ratelimiter

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]*ClientIPData
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string]*ClientIPData),
	}
}

func (mb *MemoryBackend) Get(_ context.Context, clientIP string) (*ClientIPData, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	data, exists := mb.data[clientIP]
	if !exists {
		return nil, ErrNotFound
	}
	dataCopy := *data
	return &dataCopy, nil
}

func (mb *MemoryBackend) Set(_ context.Context, clientIP string, data *ClientIPData) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	dataCopy := *data
	mb.data[clientIP] = &dataCopy
	return nil
}

func (mb *MemoryBackend) Delete(_ context.Context, clientIP string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	delete(mb.data, clientIP)
	return nil
}

func (mb *MemoryBackend) List(_ context.Context) (map[string]*ClientIPData, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	copyData := make(map[string]*ClientIPData, len(mb.data))
	for k, v := range mb.data {
		dataCopy := *v
		copyData[k] = &dataCopy
	}
	return copyData, nil
}
