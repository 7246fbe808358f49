package catalog

import (
	"slices"
	"time"

	"github.com/zora-fashion/storefront/pkg/enums"
)

// Product is an immutable catalog entry. Field names match the persisted cart snapshot layout.
type Product struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Category        enums.ProductCategory `json:"category"`
	Price           int64                 `json:"price"`
	OriginalPrice   *int64                `json:"originalPrice,omitempty"`
	Colors          []string              `json:"colors"`
	Sizes           []string              `json:"sizes"`
	Images          []string              `json:"images"`
	Details         []string              `json:"details"`
	Rating          float64               `json:"rating"`
	Reviews         int                   `json:"reviews"`
	IsNew           bool                  `json:"isNew"`
	IsFeatured      bool                  `json:"isFeatured"`
	CreatedAt       time.Time             `json:"createdAt"`
	RelatedProducts []string              `json:"relatedProducts,omitempty"`
}

func (p Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

func (p Product) HasColor(color string) bool {
	return slices.Contains(p.Colors, color)
}

// OnSale reports whether the product carries a higher original price.
func (p Product) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}
