package enums

import "testing"

func TestParseProductCategory(t *testing.T) {
	got, err := ParseProductCategory("Dresses")
	if err != nil || got != ProductCategoryDresses {
		t.Fatalf("expected Dresses, got %q err=%v", got, err)
	}
	if _, err := ParseProductCategory("dresses"); err == nil {
		t.Fatalf("category matching is exact")
	}
	if ProductCategory("Shoes").IsValid() {
		t.Fatalf("Shoes is not a catalog category")
	}
}

func TestParseCatalogSortFallsBackToFeatured(t *testing.T) {
	cases := map[string]CatalogSort{
		"newest":     CatalogSortNewest,
		"price-low":  CatalogSortPriceLow,
		"price-high": CatalogSortPriceHigh,
		"featured":   CatalogSortFeatured,
		"":           CatalogSortFeatured,
		"rating":     CatalogSortFeatured,
	}
	for in, want := range cases {
		if got := ParseCatalogSort(in); got != want {
			t.Fatalf("ParseCatalogSort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("")
	if err != nil || got != PaymentMethodBankTransfer {
		t.Fatalf("expected default bank transfer, got %q err=%v", got, err)
	}
	got, err = ParsePaymentMethod("cod")
	if err != nil || got != PaymentMethodCOD {
		t.Fatalf("expected cod, got %q err=%v", got, err)
	}
	if _, err := ParsePaymentMethod("crypto"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}
