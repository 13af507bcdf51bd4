package product

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	mu    sync.RWMutex
	data  map[string]*Product
	order []string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string]*Product),
	}
}

func (mb *MemoryBackend) Get(_ context.Context, id string) (*Product, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	p, exists := mb.data[id]
	if !exists {
		return nil, ErrNotFound
	}
	pCopy := *p
	return &pCopy, nil
}

func (mb *MemoryBackend) Set(_ context.Context, p *Product) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if _, exists := mb.data[p.ID]; !exists {
		mb.order = append(mb.order, p.ID)
	}
	pCopy := *p
	mb.data[p.ID] = &pCopy
	return nil
}

func (mb *MemoryBackend) List(_ context.Context) ([]Product, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	products := make([]Product, 0, len(mb.order))
	for _, id := range mb.order {
		products = append(products, *mb.data[id])
	}
	return products, nil
}
