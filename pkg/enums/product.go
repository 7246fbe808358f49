package enums

import "fmt"

// ProductCategory is the fixed set of catalog departments.
type ProductCategory string

const (
	ProductCategoryTops        ProductCategory = "Tops"
	ProductCategoryDresses     ProductCategory = "Dresses"
	ProductCategoryOuterwear   ProductCategory = "Outerwear"
	ProductCategoryBottoms     ProductCategory = "Bottoms"
	ProductCategoryAccessories ProductCategory = "Accessories"
)

var validProductCategories = []ProductCategory{
	ProductCategoryTops,
	ProductCategoryDresses,
	ProductCategoryOuterwear,
	ProductCategoryBottoms,
	ProductCategoryAccessories,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// CatalogSort orders catalog results.
type CatalogSort string

const (
	CatalogSortFeatured  CatalogSort = "featured"
	CatalogSortNewest    CatalogSort = "newest"
	CatalogSortPriceLow  CatalogSort = "price-low"
	CatalogSortPriceHigh CatalogSort = "price-high"
)

var validCatalogSorts = []CatalogSort{
	CatalogSortFeatured,
	CatalogSortNewest,
	CatalogSortPriceLow,
	CatalogSortPriceHigh,
}

func (s CatalogSort) String() string {
	return string(s)
}

func (s CatalogSort) IsValid() bool {
	for _, candidate := range validCatalogSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCatalogSort maps raw input to a sort. Unknown values fall back to featured, matching
// how the storefront treats an unrecognised sort parameter.
func ParseCatalogSort(value string) CatalogSort {
	for _, candidate := range validCatalogSorts {
		if string(candidate) == value {
			return candidate
		}
	}
	return CatalogSortFeatured
}
