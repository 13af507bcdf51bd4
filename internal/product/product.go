package product

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ProductFields carries the fields sent by a client. A nil field was absent
// from the request and must not overwrite the stored value.
type ProductFields struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// Merge returns p with every field present in f applied on top of it.
func (f ProductFields) Merge(p Product) Product {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	return p
}

type Store interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, fields ProductFields) (Product, error)
	Update(ctx context.Context, id string, p Product) (Product, error)
}
