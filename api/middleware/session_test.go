package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func runSession(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	handler := Session(SessionOptions{CookieMaxAge: time.Hour}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestSessionUsesHeader(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(SessionHeader, id)

	rec, seen := runSession(t, req)
	if seen != id {
		t.Fatalf("expected session %s, got %s", id, seen)
	}
	if rec.Header().Get(SessionHeader) != id {
		t.Fatalf("expected session echoed in header")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("existing sessions should not be re-issued")
	}
}

func TestSessionUsesCookie(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})

	_, seen := runSession(t, req)
	if seen != id {
		t.Fatalf("expected cookie session %s, got %s", id, seen)
	}
}

func TestSessionIssuesNewIDForMissingOrMalformed(t *testing.T) {
	for _, header := range []string{"", "zora:session:evil", "not-a-uuid"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		if header != "" {
			req.Header.Set(SessionHeader, header)
		}

		rec, seen := runSession(t, req)
		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("expected issued uuid for %q, got %q", header, seen)
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value != seen {
			t.Fatalf("expected session cookie for %q, got %+v", header, cookies)
		}
		if !cookies[0].HttpOnly {
			t.Fatalf("session cookie should be http only")
		}
	}
}
