package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/authhub/authhub/internal/handler/dto"
	"github.com/authhub/authhub/internal/model"
	"github.com/authhub/authhub/internal/provider"
	"github.com/authhub/authhub/internal/service"
)

// stateTTL bounds how long an issued consent-flow state stays valid.
const stateTTL = 10 * time.Minute

// LoginOrchestrator is the slice of the auth service the handler needs.
type LoginOrchestrator interface {
	LoginWithPassword(ctx context.Context, email, password string) (*service.LoginResult, error)
	LoginWithProfile(ctx context.Context, profile *provider.Profile) (*service.LoginResult, error)
}

// StateStore persists transient OAuth anti-forgery state.
type StateStore interface {
	SaveOAuthState(ctx context.Context, state string, ttl time.Duration) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

// AuthHandler handles the login endpoints.
type AuthHandler struct {
	svc    LoginOrchestrator
	google provider.OAuthProvider
	states StateStore
	appEnv string
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. google may be nil when the
// provider is not configured; the federated endpoints then answer 503.
func NewAuthHandler(svc LoginOrchestrator, google provider.OAuthProvider, states StateStore, appEnv string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		google: google,
		states: states,
		appEnv: appEnv,
		logger: logger,
	}
}

// Login handles POST /auth/login.
// Invalid credentials answer a uniform 401; the response never reveals
// whether the email exists.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	result, err := h.svc.LoginWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
			return
		}
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("password_login", "user_id", result.User.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{AccessToken: result.AccessToken})
}

// GoogleRedirect handles GET /auth/google.
// Issues an anti-forgery state and redirects into the provider's consent flow.
func (h *AuthHandler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED", "Google login is not configured")
		return
	}

	state, err := generateState()
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	if err := h.states.SaveOAuthState(r.Context(), state, stateTTL); err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback handles GET /auth/google/callback.
// The provider redirects here after consent; on success the response
// carries an access token, same shape as password login.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeError(w, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED", "Google login is not configured")
		return
	}

	query := r.URL.Query()

	ok, err := h.states.ConsumeOAuthState(r.Context(), query.Get("state"))
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_STATE", "Missing or expired state parameter")
		return
	}

	code := query.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "MISSING_CODE", "Missing authorization code")
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Warn("federated_login_failed",
			"provider", h.google.Name(),
			"error", err,
		)
		writeError(w, http.StatusUnauthorized, "AUTH_FAILED", "Authentication failed")
		return
	}

	h.completeFederatedLogin(w, r, profile)
}

// GoogleTestCallback handles POST /auth/google/test-callback.
// Test-only endpoint simulating the provider callback; refused outside
// the test environment and when required profile fields are missing.
func (h *AuthHandler) GoogleTestCallback(w http.ResponseWriter, r *http.Request) {
	if h.appEnv != "test" {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Test endpoint only available in test environment")
		return
	}

	var req dto.TestCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if !req.HasRequiredFields() {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "Missing required fields: email and googleId")
		return
	}

	profile := &provider.Profile{
		Provider:      model.ProviderGoogle,
		ExternalID:    req.ExternalID,
		Email:         req.Email,
		EmailVerified: true,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
	}

	h.completeFederatedLogin(w, r, profile)
}

func (h *AuthHandler) completeFederatedLogin(w http.ResponseWriter, r *http.Request, profile *provider.Profile) {
	result, err := h.svc.LoginWithProfile(r.Context(), profile)
	if err != nil {
		if errors.Is(err, service.ErrEmailNotVerified) {
			writeError(w, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Provider did not verify email ownership")
			return
		}
		// The provider already authenticated the user; reconciliation
		// failures are internal, not unauthorized.
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.logger.Info("federated_login",
		"user_id", result.User.ID,
		"provider", profile.Provider,
	)

	writeJSON(w, http.StatusOK, dto.LoginResponse{AccessToken: result.AccessToken})
}

// generateState returns a URL-safe random state value.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
