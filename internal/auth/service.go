package auth

import (
	"context"
	"net/mail"

	"github.com/mkhalid/tasklist/internal/apperr"
	"github.com/mkhalid/tasklist/internal/models"
)

const minPasswordLen = 8

// errInvalidCredentials is shared by every signin failure path so that an
// unknown email and a wrong password are indistinguishable.
var errInvalidCredentials = apperr.New(apperr.KindUnauthorized, "Invalid credentials")

// IdentityStore defines the persistence needed by the auth service.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, email, passwordHash string) (*models.Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*models.Identity, error)
	GetIdentityByID(ctx context.Context, id string) (*models.Identity, error)
}

// Service implements signup, signin and bearer-token resolution.
type Service struct {
	identities IdentityStore
	tokens     *TokenService
}

func NewService(identities IdentityStore, tokens *TokenService) *Service {
	return &Service{identities: identities, tokens: tokens}
}

// Signup registers a new identity and issues its first token. A duplicate
// email fails with a conflict; the store's unique constraint is the
// authoritative race-breaker, the lookup here is only a fast path.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}

	existing, err := s.identities.GetIdentityByEmail(ctx, req.Email)
	if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		return nil, apperr.Wrap(apperr.KindInternal, "signup failed", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindConflict, "An account with this email already exists")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "signup failed", err)
	}

	identity, err := s.identities.CreateIdentity(ctx, req.Email, hash)
	if err != nil {
		// Two concurrent signups can both pass the fast path; the insert
		// surfaces the loser as a conflict.
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.KindInternal, "signup failed", err)
	}

	token, err := s.tokens.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "signup failed", err)
	}
	return &models.AuthResponse{User: identity, Token: token}, nil
}

// Signin authenticates an existing identity and issues a token.
func (s *Service) Signin(ctx context.Context, req models.SigninRequest) (*models.AuthResponse, error) {
	identity, err := s.identities.GetIdentityByEmail(ctx, req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, errInvalidCredentials
		}
		return nil, apperr.Wrap(apperr.KindInternal, "signin failed", err)
	}
	if !CheckPassword(req.Password, identity.PasswordHash) {
		return nil, errInvalidCredentials
	}

	token, err := s.tokens.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "signin failed", err)
	}
	return &models.AuthResponse{User: identity, Token: token}, nil
}

// Resolve maps a bearer token to the identity it was issued for. A valid
// token whose subject no longer exists (account deleted after issuance)
// fails the same way a bad token does.
func (s *Service) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	identity, err := s.identities.GetIdentityByID(ctx, claims.Subject)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, ErrInvalidToken
		}
		return nil, apperr.Wrap(apperr.KindInternal, "resolve identity failed", err)
	}
	return identity, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return apperr.New(apperr.KindValidationFailed, "Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.New(apperr.KindValidationFailed, "Email address is not valid")
	}
	if len(password) < minPasswordLen {
		return apperr.New(apperr.KindValidationFailed, "Password must be at least 8 characters")
	}
	return nil
}
