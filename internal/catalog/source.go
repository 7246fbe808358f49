package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
)

//go:embed fixtures/products.json
var embeddedProducts []byte

// Source supplies the immutable product list and lookup by id.
type Source interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
}

// StaticSource serves a product list decoded once at construction.
type StaticSource struct {
	products []Product
	byID     map[string]int
}

var _ Source = (*StaticSource)(nil)

// NewStaticSource validates products and indexes them by id.
func NewStaticSource(products []Product) (*StaticSource, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog requires at least one product")
	}
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d has no id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if !p.Category.IsValid() {
			return nil, fmt.Errorf("product %q has unknown category %q", p.ID, p.Category)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q has negative price", p.ID)
		}
		byID[p.ID] = i
	}
	return &StaticSource{products: products, byID: byID}, nil
}

// LoadStaticSource decodes the product fixture at path, or the embedded fixture when path is empty.
func LoadStaticSource(path string) (*StaticSource, error) {
	raw := embeddedProducts
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog fixture: %w", err)
		}
		raw = data
	}
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode catalog fixture: %w", err)
	}
	return NewStaticSource(products)
}

// List returns the shared product slice; callers must treat it as read-only.
func (s *StaticSource) List(context.Context) ([]Product, error) {
	return s.products, nil
}

func (s *StaticSource) Get(_ context.Context, id string) (Product, error) {
	idx, ok := s.byID[id]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"productId": id})
	}
	return s.products[idx], nil
}
