package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkhalid/tasklist/internal/apperr"
	"github.com/mkhalid/tasklist/internal/models"
	"github.com/mkhalid/tasklist/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore(nil)
	tokens := NewTokenService(testSecret, 24*time.Hour, nil)
	return NewService(mem, tokens), mem
}

func TestSignupAndSignin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.User.ID == "" || resp.User.Email != "alice@example.com" {
		t.Fatalf("unexpected identity view: %+v", resp.User)
	}
	if resp.User.PasswordHash == "hunter2hunter2" {
		t.Fatal("password hash must not be the plaintext")
	}
	if resp.Token == "" {
		t.Fatal("expected a token at signup")
	}

	signin, err := svc.Signin(ctx, models.SigninRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if signin.User.ID != resp.User.ID {
		t.Fatalf("signin resolved a different identity: %q vs %q", signin.User.ID, resp.User.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "longenoughpw"},
		{"malformed email", "not-an-email", "longenoughpw"},
		{"short password", "bob@example.com", "short"},
	}
	for _, tc := range cases {
		_, err := svc.Signup(ctx, models.SignupRequest{Email: tc.email, Password: tc.password})
		if apperr.KindOf(err) != apperr.KindValidationFailed {
			t.Fatalf("%s: expected validation failure, got %v", tc.name, err)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	first, err := svc.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err = svc.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "differentpassword"})
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}

	// The existing identity is untouched by the failed signup.
	existing, err := mem.GetIdentityByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get identity: %v", err)
	}
	if existing.ID != first.User.ID {
		t.Fatal("duplicate signup must not replace the existing identity")
	}
	if !CheckPassword("hunter2hunter2", existing.PasswordHash) {
		t.Fatal("duplicate signup must not alter the stored hash")
	}
}

func TestSigninFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, wrongPw := svc.Signin(ctx, models.SigninRequest{Email: "alice@example.com", Password: "wrong-password"})
	_, unknown := svc.Signin(ctx, models.SigninRequest{Email: "nobody@example.com", Password: "hunter2hunter2"})

	if wrongPw == nil || unknown == nil {
		t.Fatal("expected both signins to fail")
	}
	if apperr.KindOf(wrongPw) != apperr.KindUnauthorized || apperr.KindOf(unknown) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized for both, got %v and %v", wrongPw, unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("failure messages must match: %q vs %q", wrongPw.Error(), unknown.Error())
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	identity, err := svc.Resolve(ctx, resp.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.ID != resp.User.ID {
		t.Fatalf("resolved wrong identity: %q vs %q", identity.ID, resp.User.ID)
	}
}

func TestResolveDeletedAccount(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	resp, err := svc.Signup(ctx, models.SignupRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	// The token remains cryptographically valid after the account is gone;
	// resolution must still fail uniformly.
	if err := mem.DeleteIdentity(ctx, resp.User.ID); err != nil {
		t.Fatalf("delete identity: %v", err)
	}
	if _, err := svc.Resolve(ctx, resp.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for deleted account, got %v", err)
	}
}
