package controllers

import (
	"net/http"

	"github.com/zora-fashion/storefront/api/responses"
	"github.com/zora-fashion/storefront/api/validators"
	"github.com/zora-fashion/storefront/internal/checkout"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/logger"
)

// Checkout places an order for the session cart. The Idempotency-Key requirement is enforced
// by middleware; field validation happens in the checkout service.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		sid, err := sessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var form checkout.Form
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), sid, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
