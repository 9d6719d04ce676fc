package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkhalid/tasklist/internal/apperr"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService(testSecret, 24*time.Hour, func() time.Time { return issued })

	token, err := svc.Issue("identity-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected three dot-separated segments, got %q", token)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "identity-1" {
		t.Fatalf("expected subject identity-1, got %q", claims.Subject)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
	if !claims.IssuedAt.Time.Equal(issued) {
		t.Fatalf("expected iat %v, got %v", issued, claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(issued.Add(24 * time.Hour)) {
		t.Fatalf("expected exp = iat + ttl, got %v", claims.ExpiresAt.Time)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	svc := NewTokenService(testSecret, 24*time.Hour, func() time.Time { return *clock })

	token, err := svc.Issue("identity-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	shifted := now.Add(24*time.Hour + time.Minute)
	*clock = shifted
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour, nil)
	token, err := svc.Issue("identity-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService(testSecret, 24*time.Hour, nil)
	verifier := NewTokenService("another-secret-that-is-32-chars!", 24*time.Hour, nil)

	token, err := issuer.Issue("identity-1", "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected rotation to invalidate the token, got %v", err)
	}
}

func TestVerifyRejectsForeignAlgorithm(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour, nil)

	// A token signed with HS512 over the same secret parses fine but must
	// be rejected by the declared-algorithm check.
	claims := &TokenClaims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "identity-1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign foreign token: %v", err)
	}

	if _, err := svc.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for HS512 token, got %v", err)
	}
}

func TestVerifyFailuresAreUniform(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour, nil)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c", "a.b.c.d"} {
		_, err := svc.Verify(bad)
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("verify(%q): expected ErrInvalidToken, got %v", bad, err)
		}
		if apperr.KindOf(err) != apperr.KindUnauthorized {
			t.Fatalf("verify(%q): expected unauthorized kind, got %v", bad, apperr.KindOf(err))
		}
	}
}

func TestVerifyRequiresSubject(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour, nil)

	claims := &TokenClaims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for missing subject, got %v", err)
	}
}
