package handler

import (
	"net/http"
	"time"

	"vv-api/internal/domain"
	"vv-api/internal/middleware"
	"vv-api/internal/service"
	"vv-api/internal/validation"
	"vv-api/pkg/errors"
	"vv-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// AuthHandler serves account and session endpoints
type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
	log          *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, secureCookie bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		log:          log.Named("auth_handler"),
	}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if err := validation.SignUp(&req); err != nil {
		respondError(w, r, err)
		return
	}

	auth, err := h.authService.SignUp(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, auth)
	respondJSON(w, http.StatusCreated, auth)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if err := validation.SignIn(&req); err != nil {
		respondError(w, r, err)
		return
	}

	auth, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		// One generic message for unknown email and wrong password alike
		respondError(w, r, errors.NewAuthenticationError("Invalid email or password"))
		return
	}

	h.setSessionCookie(w, auth)
	respondJSON(w, http.StatusOK, auth)
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Me handles GET /api/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	respondJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT /api/users/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req domain.UpdateProfileRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		respondError(w, r, appErr)
		return
	}
	if err := validation.ProfileUpdate(&req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// Profile handles GET /api/users/{username}
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.authService.GetProfile(r.Context(), username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, auth *domain.AuthResponse) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    auth.Token,
		Path:     "/",
		Expires:  auth.ExpiresAt,
		MaxAge:   int(time.Until(auth.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
