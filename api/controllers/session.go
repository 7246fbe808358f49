package controllers

import (
	"net/http"

	"github.com/zora-fashion/storefront/api/middleware"
	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
)

func sessionID(r *http.Request) (string, error) {
	sid := middleware.SessionIDFromContext(r.Context())
	if sid == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return sid, nil
}
