package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/zora-fashion/storefront/pkg/enums"
)

const (
	maxSuggestions      = 5
	collectionSize      = 4
	defaultShowcaseSize = 4
)

// Run filters and orders products for q. The input slice is never modified and the result is a
// fresh slice; identical inputs always produce identical output.
func Run(products []Product, q Query) []Product {
	result := make([]Product, 0, len(products))
	needle := ""
	fold := cases.Fold()
	if q.Search != "" {
		needle = fold.String(q.Search)
	}

	for _, p := range products {
		if needle != "" && !matchesSearch(fold, p, needle) {
			continue
		}
		if q.Category != "" && string(p.Category) != q.Category {
			continue
		}
		if q.Color != "" && !p.HasColor(q.Color) {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		result = append(result, p)
	}

	sortProducts(result, q.sortOrder())
	return result
}

func matchesSearch(fold cases.Caser, p Product, needle string) bool {
	if strings.Contains(fold.String(p.Name), needle) {
		return true
	}
	if strings.Contains(fold.String(string(p.Category)), needle) {
		return true
	}
	for _, c := range p.Colors {
		if strings.Contains(fold.String(c), needle) {
			return true
		}
	}
	for _, d := range p.Details {
		if strings.Contains(fold.String(d), needle) {
			return true
		}
	}
	return false
}

func sortProducts(products []Product, order enums.CatalogSort) {
	switch order {
	case enums.CatalogSortNewest:
		slices.SortStableFunc(products, func(a, b Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case enums.CatalogSortPriceLow:
		slices.SortStableFunc(products, func(a, b Product) int {
			return compareInt64(a.Price, b.Price)
		})
	case enums.CatalogSortPriceHigh:
		slices.SortStableFunc(products, func(a, b Product) int {
			return compareInt64(b.Price, a.Price)
		})
	default:
		slices.SortStableFunc(products, func(a, b Product) int {
			return featuredRank(a) - featuredRank(b)
		})
	}
}

func featuredRank(p Product) int {
	if p.IsFeatured {
		return 0
	}
	return 1
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Suggest returns up to five distinct completions for a partial search input, scanning product
// names, then categories, then colors. Callers own any debounce policy.
func Suggest(products []Product, input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return []string{}
	}
	fold := cases.Fold()
	needle := fold.String(input)

	seen := map[string]struct{}{}
	out := make([]string, 0, maxSuggestions)
	add := func(candidate string) bool {
		if _, ok := seen[candidate]; ok {
			return len(out) < maxSuggestions
		}
		if strings.Contains(fold.String(candidate), needle) {
			seen[candidate] = struct{}{}
			out = append(out, candidate)
		}
		return len(out) < maxSuggestions
	}

	for _, p := range products {
		if !add(p.Name) {
			return out
		}
	}
	facets := Facets(products)
	for _, c := range facets.Categories {
		if !add(c) {
			return out
		}
	}
	for _, c := range facets.Colors {
		if !add(c) {
			return out
		}
	}
	return out
}

// FilterOptions lists the values a shopper can filter the given products by.
type FilterOptions struct {
	Categories []string   `json:"categories"`
	Colors     []string   `json:"colors"`
	PriceRange PriceRange `json:"priceRange"`
}

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Facets collects distinct categories and colors in first-seen order plus the price range.
func Facets(products []Product) FilterOptions {
	opts := FilterOptions{Categories: []string{}, Colors: []string{}}
	seenCategory := map[string]struct{}{}
	seenColor := map[string]struct{}{}

	for i, p := range products {
		if _, ok := seenCategory[string(p.Category)]; !ok {
			seenCategory[string(p.Category)] = struct{}{}
			opts.Categories = append(opts.Categories, string(p.Category))
		}
		for _, c := range p.Colors {
			if _, ok := seenColor[c]; !ok {
				seenColor[c] = struct{}{}
				opts.Colors = append(opts.Colors, c)
			}
		}
		if i == 0 || p.Price < opts.PriceRange.Min {
			opts.PriceRange.Min = p.Price
		}
		if i == 0 || p.Price > opts.PriceRange.Max {
			opts.PriceRange.Max = p.Price
		}
	}
	return opts
}

// Collection is a curated, capped group of products.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Products    []Product `json:"products"`
}

type collectionRule struct {
	id          string
	name        string
	description string
	nameTerm    string
	categories  []enums.ProductCategory
}

var collectionRules = []collectionRule{
	{
		id:          "batik",
		name:        "Batik Collection",
		description: "Modern and traditional batik designs",
		nameTerm:    "batik",
		categories:  []enums.ProductCategory{enums.ProductCategoryTops, enums.ProductCategoryDresses},
	},
	{
		id:          "kebaya",
		name:        "Traditional Wear",
		description: "Authentic Indonesian kebaya and sarongs",
		nameTerm:    "kebaya",
		categories:  []enums.ProductCategory{enums.ProductCategoryDresses},
	},
	{
		id:          "office",
		name:        "Office Collection",
		description: "Professional looks with Indonesian textiles",
		nameTerm:    "office",
		categories:  []enums.ProductCategory{enums.ProductCategoryOuterwear, enums.ProductCategoryBottoms},
	},
	{
		id:          "accessories",
		name:        "Accessories",
		description: "Complement your outfit with traditional accents",
		categories:  []enums.ProductCategory{enums.ProductCategoryAccessories},
	},
}

// Collections groups products into the fixed curated collections, four products each at most.
func Collections(products []Product) []Collection {
	fold := cases.Fold()
	out := make([]Collection, 0, len(collectionRules))
	for _, rule := range collectionRules {
		c := Collection{ID: rule.id, Name: rule.name, Description: rule.description, Products: []Product{}}
		for _, p := range products {
			if len(c.Products) == collectionSize {
				break
			}
			if rule.matches(fold, p) {
				c.Products = append(c.Products, p)
			}
		}
		out = append(out, c)
	}
	return out
}

func (r collectionRule) matches(fold cases.Caser, p Product) bool {
	if r.nameTerm != "" && strings.Contains(fold.String(p.Name), r.nameTerm) {
		return true
	}
	return slices.Contains(r.categories, p.Category)
}

// NewArrivals returns the first limit products flagged as new, in list order.
func NewArrivals(products []Product, limit int) []Product {
	return firstMatching(products, limit, func(p Product) bool { return p.IsNew })
}

// Featured returns the first limit featured products, in list order.
func Featured(products []Product, limit int) []Product {
	return firstMatching(products, limit, func(p Product) bool { return p.IsFeatured })
}

func firstMatching(products []Product, limit int, keep func(Product) bool) []Product {
	if limit <= 0 {
		limit = defaultShowcaseSize
	}
	out := make([]Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
