package product

import "context"

// Backend persists products keyed by id. List must return products in the
// order they were first stored.
type Backend interface {
	Get(ctx context.Context, id string) (*Product, error)
	Set(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
}
