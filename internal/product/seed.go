package product

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
}

// LoadSeed inserts the products listed in a YAML file. Nothing is inserted
// when the repository already holds products. It returns how many products
// were inserted.
func LoadSeed(ctx context.Context, r *Repository, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	existing, err := r.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, sp := range seed.Products {
		_, err := r.Insert(ctx, Product{
			ID:          sp.ID,
			Title:       sp.Title,
			Description: sp.Description,
			Price:       sp.Price,
		})
		if err != nil {
			return i, fmt.Errorf("seed product %d: %w", i, err)
		}
	}
	return len(seed.Products), nil
}
