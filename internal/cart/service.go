package cart

import (
	"context"
	"strings"

	"github.com/zora-fashion/storefront/internal/catalog"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
)

type productLoader interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}

// Service exposes session cart operations to the HTTP layer.
type Service interface {
	Get(ctx context.Context, sessionID string) (View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error)
	UpdateItem(ctx context.Context, sessionID string, input UpdateItemInput) (View, error)
	RemoveItem(ctx context.Context, sessionID, productID, selectedSize string) (View, error)
	Clear(ctx context.Context, sessionID string) (View, error)
	SetPanelOpen(ctx context.Context, sessionID string, open bool) (View, error)
	Snapshot(ctx context.Context, sessionID string) (Snapshot, error)
}

type AddItemInput struct {
	ProductID    string
	SelectedSize string
	Quantity     int
}

type UpdateItemInput struct {
	ProductID    string
	SelectedSize string
	Quantity     int
}

type service struct {
	registry *Registry
	products productLoader
}

func NewService(registry *Registry, products productLoader) (Service, error) {
	if registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart registry is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{registry: registry, products: products}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (View, error) {
	store, err := s.registry.Open(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return store.View(), nil
}

// AddItem resolves the product and checks the size is one it is sold in before adding.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (View, error) {
	size := strings.TrimSpace(input.SelectedSize)
	if size == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "please select a size").
			WithDetails(map[string]any{"field": "selectedSize"})
	}
	product, err := s.products.Product(ctx, input.ProductID)
	if err != nil {
		return View{}, err
	}
	if !product.HasSize(size) {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "size not available for product").
			WithDetails(map[string]any{"selectedSize": size, "sizes": product.Sizes})
	}

	store, err := s.registry.Open(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	if err := store.Add(ctx, product, size, input.Quantity); err != nil {
		return View{}, err
	}
	return store.View(), nil
}

func (s *service) UpdateItem(ctx context.Context, sessionID string, input UpdateItemInput) (View, error) {
	store, err := s.registry.Open(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	store.UpdateQuantity(ctx, input.ProductID, strings.TrimSpace(input.SelectedSize), input.Quantity)
	return store.View(), nil
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID, selectedSize string) (View, error) {
	store, err := s.registry.Open(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	store.Remove(ctx, productID, strings.TrimSpace(selectedSize))
	return store.View(), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) (View, error) {
	store, err := s.registry.Open(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	store.Clear(ctx)
	return store.View(), nil
}

func (s *service) SetPanelOpen(ctx context.Context, sessionID string, open bool) (View, error) {
	store, err := s.registry.Open(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	store.SetPanelOpen(open)
	return store.View(), nil
}

func (s *service) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	store, err := s.registry.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return store.Lines(), nil
}
