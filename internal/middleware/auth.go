package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/authhub/authhub/internal/auth"
)

// Authenticator decides whether a request carries a valid identity.
// Implementations return the claims to inject into the request context,
// or an error when the request must be rejected.
type Authenticator interface {
	Authenticate(r *http.Request) (*auth.Claims, error)
}

var errMissingToken = errors.New("missing bearer token")

// NoopAuthenticator lets every request through without attaching claims.
// It is the default when user routes are left unprotected.
type NoopAuthenticator struct{}

func (NoopAuthenticator) Authenticate(_ *http.Request) (*auth.Claims, error) {
	return nil, nil
}

// TokenAuthenticator validates a bearer access token from the
// Authorization header.
type TokenAuthenticator struct {
	issuer *auth.TokenIssuer
}

func NewTokenAuthenticator(issuer *auth.TokenIssuer) *TokenAuthenticator {
	return &TokenAuthenticator{issuer: issuer}
}

func (a *TokenAuthenticator) Authenticate(r *http.Request) (*auth.Claims, error) {
	token := extractBearerToken(r)
	if token == "" {
		return nil, errMissingToken
	}
	return a.issuer.Verify(token)
}

// Auth returns a middleware that runs the given authenticator and, on
// success, injects the resulting claims into the request context.
// All failures produce the same 401 response to prevent enumeration.
func Auth(a Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.Authenticate(r)
			if err != nil {
				logger.Warn("authentication failed",
					slog.String("reason", authFailureReason(err)),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if claims != nil {
				r = r.WithContext(auth.ContextWithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, errMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrTokenExpired):
		return "token_expired"
	default:
		return "invalid_token"
	}
}

// extractBearerToken pulls the access token out of the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"invalid or missing access token","code":"UNAUTHORIZED"}`))
}
