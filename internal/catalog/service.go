package catalog

import (
	"context"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/pagination"
)

// MetricsRecorder receives catalog query counts.
type MetricsRecorder interface {
	IncCatalogQuery(sort string)
}

type ServiceParams struct {
	Source  Source
	Metrics MetricsRecorder
}

// Service exposes catalog reads for the storefront.
type Service interface {
	List(ctx context.Context, q Query, page pagination.Params) (ListResult, error)
	Search(ctx context.Context, q Query) ([]Product, error)
	Suggest(ctx context.Context, input string) ([]string, error)
	Filters(ctx context.Context) (FilterOptions, error)
	Collections(ctx context.Context) ([]Collection, error)
	NewArrivals(ctx context.Context, limit int) ([]Product, error)
	Featured(ctx context.Context, limit int) ([]Product, error)
	Detail(ctx context.Context, id string) (Detail, error)
	Product(ctx context.Context, id string) (Product, error)
}

// ListResult is a page of query results plus the canonical query string for the view.
type ListResult struct {
	pagination.Page[Product]
	Query string `json:"query"`
}

// Detail is a product page: the product plus its resolved related products.
type Detail struct {
	Product  Product   `json:"product"`
	Related  []Product `json:"relatedProducts"`
	Fallback bool      `json:"fallback"`
}

type service struct {
	source  Source
	metrics MetricsRecorder
}

func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog source is required")
	}
	return &service{source: params.Source, metrics: params.Metrics}, nil
}

func (s *service) products(ctx context.Context) ([]Product, error) {
	products, err := s.source.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}
	return products, nil
}

func (s *service) List(ctx context.Context, q Query, page pagination.Params) (ListResult, error) {
	results, err := s.Search(ctx, q)
	if err != nil {
		return ListResult{}, err
	}
	paged, err := pagination.Paginate(results, page)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return ListResult{Page: paged, Query: q.Values().Encode()}, nil
}

func (s *service) Search(ctx context.Context, q Query) ([]Product, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncCatalogQuery(q.sortOrder().String())
	}
	return Run(products, q), nil
}

func (s *service) Suggest(ctx context.Context, input string) ([]string, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return Suggest(products, input), nil
}

func (s *service) Filters(ctx context.Context) (FilterOptions, error) {
	products, err := s.products(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	return Facets(products), nil
}

func (s *service) Collections(ctx context.Context) ([]Collection, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return Collections(products), nil
}

func (s *service) NewArrivals(ctx context.Context, limit int) ([]Product, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return NewArrivals(products, limit), nil
}

func (s *service) Featured(ctx context.Context, limit int) ([]Product, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	return Featured(products, limit), nil
}

// Detail never reports not-found: unknown ids resolve to the first product in the catalog.
func (s *service) Detail(ctx context.Context, id string) (Detail, error) {
	products, err := s.products(ctx)
	if err != nil {
		return Detail{}, err
	}
	if len(products) == 0 {
		return Detail{}, pkgerrors.New(pkgerrors.CodeNotFound, "catalog is empty")
	}

	detail := Detail{Related: []Product{}}
	product, err := s.source.Get(ctx, id)
	switch {
	case err == nil:
		detail.Product = product
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		detail.Product = products[0]
		detail.Fallback = true
	default:
		return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	for _, relatedID := range detail.Product.RelatedProducts {
		if relatedID == detail.Product.ID {
			continue
		}
		related, err := s.source.Get(ctx, relatedID)
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			continue
		}
		if err != nil {
			return Detail{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load related product")
		}
		detail.Related = append(detail.Related, related)
	}
	return detail, nil
}

// Product looks up a product strictly; unknown ids are NOT_FOUND.
func (s *service) Product(ctx context.Context, id string) (Product, error) {
	product, err := s.source.Get(ctx, id)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return Product{}, err
		}
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
