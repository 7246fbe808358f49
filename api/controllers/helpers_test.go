package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zora-fashion/storefront/api/middleware"
	"github.com/zora-fashion/storefront/internal/cart"
	"github.com/zora-fashion/storefront/internal/catalog"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/storage/memory"
	"github.com/zora-fashion/storefront/pkg/types"
)

const testSession = "6f1d2c3b-4a5e-4f60-8a7b-9c0d1e2f3a4b"

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func testCatalog(t *testing.T) catalog.Service {
	t.Helper()
	source, err := catalog.LoadStaticSource("")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	svc, err := catalog.NewService(catalog.ServiceParams{Source: source})
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	return svc
}

func testCart(t *testing.T, products catalog.Service) cart.Service {
	t.Helper()
	reg, err := cart.NewRegistry(cart.RegistryParams{Storage: memory.New()})
	if err != nil {
		t.Fatalf("cart registry: %v", err)
	}
	svc, err := cart.NewService(reg, products)
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	return svc
}

func newRequest(method, target, body string, params map[string]string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := middleware.WithSessionID(req.Context(), testSession)
	if len(params) > 0 {
		rc := chi.NewRouteContext()
		for k, v := range params {
			rc.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rc)
	}
	return req.WithContext(ctx)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope types.Envelope[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return envelope.Data
}

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var envelope struct {
		Error apiError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error: %v (%s)", err, rec.Body.String())
	}
	return envelope.Error
}
