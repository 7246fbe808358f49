package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zora-fashion/storefront/api/responses"
	"github.com/zora-fashion/storefront/api/validators"
	"github.com/zora-fashion/storefront/internal/catalog"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/pagination"
)

const maxSearchLen = 100

var (
	listLimit     = validators.IntBounds{Default: pagination.DefaultLimit, Min: 1, Max: pagination.MaxLimit}
	showcaseLimit = validators.IntBounds{Default: 4, Min: 1, Max: 24}
)

// ProductList handles the filtered, sorted, paginated catalog listing.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.QueryInt(r.URL.Query(), "limit", listLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := catalog.ParseQuery(r.URL.Query())
		query.Search = validators.SanitizeString(query.Search, maxSearchLen)

		result, err := svc.List(r.Context(), query, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProductFilters(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		options, err := svc.Filters(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, options)
	}
}

// ProductSuggestions answers typeahead lookups. Debouncing is left to the client.
func ProductSuggestions(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		input := validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen)
		suggestions, err := svc.Suggest(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"query": input, "suggestions": suggestions})
	}
}

func ProductNewArrivals(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return showcase(svc, logg, func(r *http.Request, limit int) ([]catalog.Product, error) {
		return svc.NewArrivals(r.Context(), limit)
	})
}

func ProductFeatured(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return showcase(svc, logg, func(r *http.Request, limit int) ([]catalog.Product, error) {
		return svc.Featured(r.Context(), limit)
	})
}

func showcase(svc catalog.Service, logg *logger.Logger, load func(*http.Request, int) ([]catalog.Product, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		limit, err := validators.QueryInt(r.URL.Query(), "limit", showcaseLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := load(r, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// ProductDetail renders a product page. Unknown ids fall back to the first catalog product
// and are flagged with "fallback": true.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "productId"))
		detail, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if detail.Fallback && logg != nil {
			logg.Debug(logg.WithField(r.Context(), "product_id", id), "catalog.detail_fallback")
		}
		responses.WriteSuccess(w, detail)
	}
}

func CollectionsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		collections, err := svc.Collections(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, collections)
	}
}
