package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zora-fashion/storefront/pkg/enums"
)

func twoPriceCatalog() []Product {
	return []Product{
		testProduct("a", "Batik Shirt", enums.ProductCategoryTops, 200),
		testProduct("b", "Linen Skirt", enums.ProductCategoryBottoms, 100),
	}
}

func TestRunPriceBounds(t *testing.T) {
	got := Run(twoPriceCatalog(), Query{MinPrice: int64Ptr(150)})
	assert.Equal(t, []string{"a"}, ids(got))

	got = Run(twoPriceCatalog(), Query{MaxPrice: int64Ptr(150)})
	assert.Equal(t, []string{"b"}, ids(got))

	got = Run(twoPriceCatalog(), Query{MinPrice: int64Ptr(100), MaxPrice: int64Ptr(200)})
	assert.Len(t, got, 2)
}

func TestRunSortByPrice(t *testing.T) {
	low := Run(twoPriceCatalog(), Query{Sort: enums.CatalogSortPriceLow})
	assert.Equal(t, []int64{100, 200}, []int64{low[0].Price, low[1].Price})

	high := Run(twoPriceCatalog(), Query{Sort: enums.CatalogSortPriceHigh})
	assert.Equal(t, []int64{200, 100}, []int64{high[0].Price, high[1].Price})
}

func TestRunSearchWithoutMatchIsEmpty(t *testing.T) {
	got := Run(twoPriceCatalog(), Query{Search: "abc"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRunEmptySearchMatchesAll(t *testing.T) {
	assert.Len(t, Run(twoPriceCatalog(), Query{Search: ""}), 2)
}

func TestRunSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	products := []Product{
		testProduct("name", "BATIK Blouse", enums.ProductCategoryTops, 1),
		testProduct("category", "Plain Wrap", enums.ProductCategoryDresses, 1),
		testProduct("color", "Plain Tee", enums.ProductCategoryTops, 1),
		testProduct("detail", "Plain Pants", enums.ProductCategoryBottoms, 1),
		testProduct("none", "Plain Scarf", enums.ProductCategoryAccessories, 1),
	}
	products[2].Colors = []string{"Terracotta"}
	products[3].Details = []string{"Hand-drawn motif"}

	assert.Equal(t, []string{"name"}, ids(Run(products, Query{Search: "batik"})))
	assert.Equal(t, []string{"category"}, ids(Run(products, Query{Search: "dress"})))
	assert.Equal(t, []string{"color"}, ids(Run(products, Query{Search: "TERRA"})))
	assert.Equal(t, []string{"detail"}, ids(Run(products, Query{Search: "hand-drawn"})))
}

func TestRunCategoryAndColorAreExact(t *testing.T) {
	products := []Product{
		testProduct("1", "Top", enums.ProductCategoryTops, 1),
		testProduct("2", "Dress", enums.ProductCategoryDresses, 1),
	}
	products[1].Colors = []string{"Gold", "Emerald"}

	assert.Equal(t, []string{"2"}, ids(Run(products, Query{Category: "Dresses"})))
	assert.Empty(t, Run(products, Query{Category: "dresses"}))
	assert.Equal(t, []string{"2"}, ids(Run(products, Query{Color: "Gold"})))
	assert.Empty(t, Run(products, Query{Color: "gold"}))
}

func TestRunFeaturedSortIsStable(t *testing.T) {
	products := []Product{
		testProduct("p1", "One", enums.ProductCategoryTops, 1),
		testProduct("f1", "Two", enums.ProductCategoryTops, 1),
		testProduct("p2", "Three", enums.ProductCategoryTops, 1),
		testProduct("f2", "Four", enums.ProductCategoryTops, 1),
		testProduct("p3", "Five", enums.ProductCategoryTops, 1),
	}
	products[1].IsFeatured = true
	products[3].IsFeatured = true

	got := Run(products, Query{})
	assert.Equal(t, []string{"f1", "f2", "p1", "p2", "p3"}, ids(got))
	assert.Equal(t, []string{"p1", "f1", "p2", "f2", "p3"}, ids(products), "input must not be reordered")
}

func TestRunNewestSortsByCreatedAtDescending(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []Product{
		testProduct("old", "Old", enums.ProductCategoryTops, 1),
		testProduct("new", "New", enums.ProductCategoryTops, 1),
		testProduct("tie", "Tie", enums.ProductCategoryTops, 1),
	}
	products[0].CreatedAt = base
	products[1].CreatedAt = base.Add(48 * time.Hour)
	products[2].CreatedAt = base

	assert.Equal(t, []string{"new", "old", "tie"}, ids(Run(products, Query{Sort: enums.CatalogSortNewest})))
}

func TestRunSortsKeepInputOrderOnTies(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []Product{
		testProduct("t1", "One", enums.ProductCategoryTops, 300),
		testProduct("c1", "Two", enums.ProductCategoryTops, 100),
		testProduct("t2", "Three", enums.ProductCategoryTops, 300),
		testProduct("c2", "Four", enums.ProductCategoryTops, 100),
		testProduct("t3", "Five", enums.ProductCategoryTops, 300),
	}
	for i := range products {
		products[i].CreatedAt = base
	}
	products[1].CreatedAt = base.Add(time.Hour)
	products[3].CreatedAt = base.Add(time.Hour)

	tests := []struct {
		sort enums.CatalogSort
		want []string
	}{
		{enums.CatalogSortPriceLow, []string{"c1", "c2", "t1", "t2", "t3"}},
		{enums.CatalogSortPriceHigh, []string{"t1", "t2", "t3", "c1", "c2"}},
		{enums.CatalogSortNewest, []string{"c1", "c2", "t1", "t2", "t3"}},
		{enums.CatalogSortFeatured, []string{"t1", "c1", "t2", "c2", "t3"}},
	}
	for _, tc := range tests {
		t.Run(string(tc.sort), func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Run(products, Query{Sort: tc.sort})))
		})
	}
	assert.Equal(t, []string{"t1", "c1", "t2", "c2", "t3"}, ids(products), "input must not be reordered")
}

func TestRunIsDeterministic(t *testing.T) {
	src, err := LoadStaticSource("")
	require.NoError(t, err)
	products, _ := src.List(t.Context())

	q := Query{Search: "batik", Sort: enums.CatalogSortPriceHigh}
	assert.Equal(t, Run(products, q), Run(products, q))
}

func TestSuggestScansNamesThenCategoriesThenColors(t *testing.T) {
	products := []Product{
		testProduct("1", "Golden Kebaya", enums.ProductCategoryDresses, 1),
		testProduct("2", "Ochre Tee", enums.ProductCategoryTops, 1),
	}
	products[1].Colors = []string{"Gold"}

	assert.Equal(t, []string{"Golden Kebaya", "Gold"}, Suggest(products, "gol"))
	assert.Equal(t, []string{"Dresses"}, Suggest(products, "DRESS"))
	assert.Empty(t, Suggest(products, "  "))
}

func TestSuggestCapsAtFive(t *testing.T) {
	src, err := LoadStaticSource("")
	require.NoError(t, err)
	products, _ := src.List(t.Context())

	got := Suggest(products, "a")
	assert.Len(t, got, 5)

	seen := map[string]bool{}
	for _, s := range got {
		assert.False(t, seen[s], "duplicate suggestion %q", s)
		seen[s] = true
	}
}

func TestSuggestDeduplicatesNames(t *testing.T) {
	products := []Product{
		testProduct("1", "Batik Shirt", enums.ProductCategoryTops, 1),
		testProduct("2", "Batik Shirt", enums.ProductCategoryTops, 1),
	}
	assert.Equal(t, []string{"Batik Shirt"}, Suggest(products, "batik"))
}

func TestFacets(t *testing.T) {
	products := twoPriceCatalog()
	products[1].Colors = []string{"Indigo", "Cream"}

	f := Facets(products)
	assert.Equal(t, []string{"Tops", "Bottoms"}, f.Categories)
	assert.Equal(t, []string{"Indigo", "Cream"}, f.Colors)
	assert.Equal(t, PriceRange{Min: 100, Max: 200}, f.PriceRange)

	empty := Facets(nil)
	assert.Empty(t, empty.Categories)
	assert.Equal(t, PriceRange{}, empty.PriceRange)
}

func TestCollectionsOnFixture(t *testing.T) {
	src, err := LoadStaticSource("")
	require.NoError(t, err)
	products, _ := src.List(t.Context())

	got := Collections(products)
	require.Len(t, got, 4)

	byID := map[string][]string{}
	for _, c := range got {
		assert.LessOrEqual(t, len(c.Products), 4)
		byID[c.ID] = ids(c.Products)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, byID["batik"])
	assert.Equal(t, []string{"2", "3", "4", "12"}, byID["kebaya"])
	assert.Equal(t, []string{"5", "6", "7", "8"}, byID["office"])
	assert.Equal(t, []string{"10", "11", "15"}, byID["accessories"])
}

func TestNewArrivalsAndFeatured(t *testing.T) {
	src, err := LoadStaticSource("")
	require.NoError(t, err)
	products, _ := src.List(t.Context())

	assert.Equal(t, []string{"2", "3", "6", "8"}, ids(NewArrivals(products, 0)))
	assert.Equal(t, []string{"1", "3"}, ids(Featured(products, 2)))
}
