package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkhalid/tasklist/internal/apperr"
)

// ErrInvalidToken is the single failure surfaced by Verify. Malformed,
// tampered and expired tokens are indistinguishable to callers.
var ErrInvalidToken = apperr.New(apperr.KindUnauthorized, "Invalid or expired token")

// TokenClaims is the claim set carried by issued tokens.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. Verification is pure
// computation against the process-wide secret; rotating the secret
// invalidates every outstanding token at once.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service. now may be nil, in which case the
// wall clock is used.
func NewTokenService(secret string, ttl time.Duration, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token for the given identity. Expiry is issuance time plus
// the configured TTL.
func (s *TokenService) Issue(identityID, email string) (string, error) {
	issuedAt := s.now().UTC()
	claims := &TokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify parses and validates a token string. Any failure, structural or
// cryptographic or temporal, collapses to ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (*TokenClaims, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
