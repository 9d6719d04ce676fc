package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkhalid/tasklist/internal/auth"
	"github.com/mkhalid/tasklist/internal/middleware"
	"github.com/mkhalid/tasklist/internal/models"
	"github.com/mkhalid/tasklist/internal/store"
)

func newProtectedHandler(t *testing.T) (http.Handler, string) {
	t.Helper()
	mem := store.NewMemoryStore(nil)
	tokens := auth.NewTokenService("0123456789abcdef0123456789abcdef", 24*time.Hour, nil)
	svc := auth.NewService(mem, tokens)

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFrom(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		w.Write([]byte(identity.Email))
	})
	return middleware.RequireAuth(svc)(next), resp.Token
}

func TestRequireAuthPassesIdentity(t *testing.T) {
	handler, token := newProtectedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "alice@example.com" {
		t.Fatalf("expected resolved email in body, got %q", rec.Body.String())
	}
}

func TestRequireAuthRejects(t *testing.T) {
	handler, token := newProtectedHandler(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + token},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
	}
	var bodies []string
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	// A missing header, a wrong scheme and a bad token must all produce
	// byte-identical responses.
	for i, body := range bodies[1:] {
		if body != bodies[0] {
			t.Fatalf("%s: body %q differs from %q", cases[i+1].name, body, bodies[0])
		}
	}
}

func TestUnauthenticatedMatchesTokenFailure(t *testing.T) {
	// The gate's error and the token service's error are distinct values
	// (the packages cannot share one without an import cycle), but their
	// kind and message must stay in lockstep.
	if middleware.ErrUnauthenticated.Kind != auth.ErrInvalidToken.Kind {
		t.Fatalf("kinds diverged: %v vs %v", middleware.ErrUnauthenticated.Kind, auth.ErrInvalidToken.Kind)
	}
	if middleware.ErrUnauthenticated.Error() != auth.ErrInvalidToken.Error() {
		t.Fatalf("messages diverged: %q vs %q", middleware.ErrUnauthenticated.Error(), auth.ErrInvalidToken.Error())
	}
}
