package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/zora-fashion/storefront/pkg/enums"
)

// Query describes which products to show and in what order. The zero value matches everything
// in featured order.
type Query struct {
	Search   string
	Category string
	Color    string
	MinPrice *int64
	MaxPrice *int64
	Sort     enums.CatalogSort
}

const (
	paramSearch   = "search"
	paramCategory = "category"
	paramColor    = "color"
	paramMinPrice = "minPrice"
	paramMaxPrice = "maxPrice"
	paramSort     = "sort"
)

// ParseQuery reads a query from URL parameters. A malformed price bound is dropped rather than
// excluding every product.
func ParseQuery(values url.Values) Query {
	q := Query{
		Search:   strings.TrimSpace(values.Get(paramSearch)),
		Category: strings.TrimSpace(values.Get(paramCategory)),
		Color:    strings.TrimSpace(values.Get(paramColor)),
		MinPrice: parsePriceBound(values.Get(paramMinPrice)),
		MaxPrice: parsePriceBound(values.Get(paramMaxPrice)),
		Sort:     enums.ParseCatalogSort(strings.TrimSpace(values.Get(paramSort))),
	}
	return q
}

func parsePriceBound(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Values encodes the query back into URL parameters so filter state stays shareable.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set(paramSearch, q.Search)
	}
	if q.Category != "" {
		values.Set(paramCategory, q.Category)
	}
	if q.Color != "" {
		values.Set(paramColor, q.Color)
	}
	if q.MinPrice != nil {
		values.Set(paramMinPrice, strconv.FormatInt(*q.MinPrice, 10))
	}
	if q.MaxPrice != nil {
		values.Set(paramMaxPrice, strconv.FormatInt(*q.MaxPrice, 10))
	}
	if q.Sort != "" && q.Sort != enums.CatalogSortFeatured {
		values.Set(paramSort, q.Sort.String())
	}
	return values
}

func (q Query) sortOrder() enums.CatalogSort {
	if q.Sort == "" {
		return enums.CatalogSortFeatured
	}
	return q.Sort
}
