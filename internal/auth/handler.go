package auth

import (
	"net/http"

	"github.com/mkhalid/tasklist/internal/api"
	"github.com/mkhalid/tasklist/internal/middleware"
	"github.com/mkhalid/tasklist/internal/models"
)

// Handler holds the auth-related HTTP handlers.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Signup registers a new identity.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	resp, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, resp)
}

// Signin authenticates an existing identity.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req models.SigninRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, err)
		return
	}

	resp, err := h.svc.Signin(r.Context(), req)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// Signout confirms signout. Tokens are stateless, so there is no session to
// invalidate; the client discards its token.
func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Successfully signed out"})
}

// Me returns the identity resolved from the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		api.WriteError(w, middleware.ErrUnauthenticated)
		return
	}
	api.WriteJSON(w, http.StatusOK, identity)
}
