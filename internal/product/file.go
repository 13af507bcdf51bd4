package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend keeps the whole collection as a JSON array on disk and
// rewrites the file on every Set.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (fb *FileBackend) Get(_ context.Context, id string) (*Product, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	products, err := fb.read()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, ErrNotFound
}

func (fb *FileBackend) Set(_ context.Context, p *Product) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	products, err := fb.read()
	if err != nil {
		return err
	}

	replaced := false
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = *p
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, *p)
	}
	return fb.write(products)
}

func (fb *FileBackend) List(_ context.Context) ([]Product, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	return fb.read()
}

func (fb *FileBackend) read() ([]Product, error) {
	data, err := os.ReadFile(fb.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fb.path, err)
	}

	products := []Product{}
	if len(data) == 0 {
		return products, nil
	}
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fb.path, err)
	}
	return products, nil
}

func (fb *FileBackend) write(products []Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(fb.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fb.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fb.path)
}
