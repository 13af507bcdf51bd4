package product

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Repository implements Store on top of a Backend and assigns ids to new
// products.
type Repository struct {
	mu      sync.Mutex
	backend Backend
	newID   func() string
}

func NewRepository(backend Backend) *Repository {
	return &Repository{
		backend: backend,
		newID:   uuid.NewString,
	}
}

func (r *Repository) FindAll(ctx context.Context) ([]Product, error) {
	products, err := r.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (Product, error) {
	p, err := r.backend.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return *p, nil
}

func (r *Repository) Create(ctx context.Context, fields ProductFields) (Product, error) {
	return r.Insert(ctx, fields.Merge(Product{}))
}

// Insert stores p as a new product, keeping p.ID when it is already set.
func (r *Repository) Insert(ctx context.Context, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = r.newID()
	}
	if err := r.backend.Set(ctx, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id string, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.backend.Get(ctx, id); err != nil {
		return Product{}, err
	}

	p.ID = id
	if err := r.backend.Set(ctx, &p); err != nil {
		return Product{}, err
	}
	return p, nil
}
