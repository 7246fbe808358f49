package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/zora-fashion/storefront/api/responses"
	"github.com/zora-fashion/storefront/api/validators"
	"github.com/zora-fashion/storefront/internal/cart"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
)

type addCartItemRequest struct {
	ProductID    string `json:"productId" validate:"required,max=64"`
	SelectedSize string `json:"selectedSize" validate:"max=16"`
	Quantity     int    `json:"quantity"`
}

type updateCartItemRequest struct {
	ProductID    string `json:"productId" validate:"required,max=64"`
	SelectedSize string `json:"selectedSize" validate:"required,max=16"`
	Quantity     int    `json:"quantity"`
}

type cartPanelRequest struct {
	Open *bool `json:"open" validate:"required"`
}

// cartHandler wraps the shared session lookup and error rendering for every cart route.
func cartHandler(svc cart.Service, logg *logger.Logger, fn func(r *http.Request, sid string) (cart.View, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		sid, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, status, err := fn(r, sid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, status, view)
	}
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, sid string) (cart.View, int, error) {
		view, err := svc.Get(r.Context(), sid)
		return view, http.StatusOK, err
	})
}

// CartAddItem adds a product in the chosen size. Quantities below one count as one.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, sid string) (cart.View, int, error) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return cart.View{}, 0, err
		}
		view, err := svc.AddItem(r.Context(), sid, cart.AddItemInput{
			ProductID:    payload.ProductID,
			SelectedSize: payload.SelectedSize,
			Quantity:     payload.Quantity,
		})
		return view, http.StatusCreated, err
	})
}

func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, sid string) (cart.View, int, error) {
		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return cart.View{}, 0, err
		}
		view, err := svc.UpdateItem(r.Context(), sid, cart.UpdateItemInput{
			ProductID:    payload.ProductID,
			SelectedSize: payload.SelectedSize,
			Quantity:     payload.Quantity,
		})
		return view, http.StatusOK, err
	})
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, sid string) (cart.View, int, error) {
		productID, err := url.PathUnescape(chi.URLParam(r, "productId"))
		if err != nil {
			return cart.View{}, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		size, err := url.PathUnescape(chi.URLParam(r, "size"))
		if err != nil {
			return cart.View{}, 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size")
		}
		view, err := svc.RemoveItem(r.Context(), sid, productID, size)
		return view, http.StatusOK, err
	})
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, sid string) (cart.View, int, error) {
		view, err := svc.Clear(r.Context(), sid)
		return view, http.StatusOK, err
	})
}

// CartPanel opens or closes the mini cart.
func CartPanel(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(r *http.Request, sid string) (cart.View, int, error) {
		var payload cartPanelRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return cart.View{}, 0, err
		}
		view, err := svc.SetPanelOpen(r.Context(), sid, *payload.Open)
		return view, http.StatusOK, err
	})
}
