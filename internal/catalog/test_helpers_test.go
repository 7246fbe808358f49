package catalog

import (
	"time"

	"github.com/zora-fashion/storefront/pkg/enums"
)

func int64Ptr(v int64) *int64 { return &v }

func testProduct(id, name string, category enums.ProductCategory, price int64) Product {
	return Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		Colors:    []string{"Indigo"},
		Sizes:     []string{"S", "M", "L"},
		Details:   []string{"Cotton"},
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func ids(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
