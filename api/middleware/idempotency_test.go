package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/zora-fashion/storefront/pkg/errors"
	"github.com/zora-fashion/storefront/pkg/storage/memory"
)

const checkoutPath = "/api/v1/checkout"

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rc)
	ctx = WithSessionID(ctx, "0b5c8f9e-5a57-4c43-9d1e-0d7f3a4e2b11")
	return req.WithContext(ctx)
}

func checkoutRequest(key, body string) *http.Request {
	req := requestWithPattern(http.MethodPost, checkoutPath, checkoutPath, strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse error response: %v", err)
	}
	return payload.Error.Code
}

func TestGuardedRoutes(t *testing.T) {
	tests := []struct {
		method  string
		pattern string
		want    bool
	}{
		{http.MethodPost, checkoutPath, true},
		{http.MethodGet, checkoutPath, false},
		{http.MethodPost, "/api/v1/cart/items", false},
		{http.MethodPost, "", false},
	}
	for _, tt := range tests {
		if got := guarded(tt.method, tt.pattern); got != tt.want {
			t.Fatalf("guarded(%s, %q) = %v, want %v", tt.method, tt.pattern, got, tt.want)
		}
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	resp := httptest.NewRecorder()
	Idempotency(memory.New(), time.Hour, nil)(handler).ServeHTTP(resp, checkoutRequest("", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareSkipsUnguardedRoutes(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	req := requestWithPattern(http.MethodPost, "/api/v1/contact", "/api/v1/contact", strings.NewReader(`{}`))

	Idempotency(memory.New(), time.Hour, nil)(handler).ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatalf("expected handler to run")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	mw := Idempotency(memory.New(), time.Hour, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	first := httptest.NewRecorder()
	mw(handler).ServeHTTP(first, checkoutRequest("abc", `{"name":"Sari"}`))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}

	rec := httptest.NewRecorder()
	mw(handler).ServeHTTP(rec, checkoutRequest("abc", `{"name":"Sari"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected replay status 201 got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected content-type header preserved")
	}
	if rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay marker header")
	}
	if strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("expected stored body got %s", rec.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler executed %d times, expected 1", calls)
	}
}

func TestIdempotencyMiddlewareDetectsBodyChange(t *testing.T) {
	mw := Idempotency(memory.New(), time.Hour, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw(handler).ServeHTTP(httptest.NewRecorder(), checkoutRequest("xyz", `{"name":"Sari"}`))

	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, checkoutRequest("xyz", `{"name":"Dewi"}`))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected error code %s got %s", pkgerrors.CodeIdempotency, code)
	}
}

func TestIdempotencyMiddlewareRejectsInFlightDuplicate(t *testing.T) {
	store := memory.New()
	mw := Idempotency(store, time.Hour, nil)

	var inner *httptest.ResponseRecorder
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inner == nil {
			inner = httptest.NewRecorder()
			mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatalf("duplicate must not execute")
			})).ServeHTTP(inner, checkoutRequest("dup", `{}`))
		}
		w.WriteHeader(http.StatusCreated)
	})

	mw(handler).ServeHTTP(httptest.NewRecorder(), checkoutRequest("dup", `{}`))

	if inner.Code != http.StatusConflict {
		t.Fatalf("expected 409 for in-flight duplicate got %d", inner.Code)
	}
	if code := errorCode(t, inner); code != string(pkgerrors.CodeConflict) {
		t.Fatalf("expected %s got %s", pkgerrors.CodeConflict, code)
	}
}

func TestIdempotencyMiddlewareReleasesKeyOnServerError(t *testing.T) {
	mw := Idempotency(memory.New(), time.Hour, nil)
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})

	mw(handler).ServeHTTP(httptest.NewRecorder(), checkoutRequest("retry", `{}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, checkoutRequest("retry", `{}`))

	if resp.Code != http.StatusCreated || calls != 2 {
		t.Fatalf("expected retry to execute, got status %d calls %d", resp.Code, calls)
	}
}

type failingStore struct{ *memory.Store }

func (failingStore) SetNX(context.Context, string, string, time.Duration) (bool, error) {
	return false, errors.New("storage offline")
}

func TestIdempotencyMiddlewareStorageFailure(t *testing.T) {
	mw := Idempotency(failingStore{memory.New()}, time.Hour, nil)
	resp := httptest.NewRecorder()
	mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("handler must not run")
	})).ServeHTTP(resp, checkoutRequest("k", `{}`))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestIdempotencyMiddlewareRejectsOversizedBody(t *testing.T) {
	store := memory.New()
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	body := `{"name":"` + strings.Repeat("a", maxRequestBody) + `"}`
	rec := httptest.NewRecorder()
	Idempotency(store, time.Hour, nil)(handler).ServeHTTP(rec, checkoutRequest("big", body))

	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %d %s", rec.Code, rec.Body.String())
	}
	if called {
		t.Fatal("handler should not run for an oversized body")
	}
	if store.Len() != 0 {
		t.Fatalf("expected no idempotency key claimed, got %d entries", store.Len())
	}
}
