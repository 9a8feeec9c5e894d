package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *model.User {
	return &model.User{
		ID:    "6f1c2a34-9f1e-4e6b-8a3c-0d9e7f5b1c22",
		Email: "alice@example.com",
	}
}

// TestAuth_NoopLetsRequestsThrough verifies the default authenticator does not
// require any credentials.
func TestAuth_NoopLetsRequestsThrough(t *testing.T) {
	t.Parallel()

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
			t.Error("Noop authenticator should not attach claims")
		}
		w.WriteHeader(http.StatusOK)
	})

	wrapped := Auth(NoopAuthenticator{}, testLogger())(handler)

	req := httptest.NewRequest("GET", "/users", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if !called {
		t.Fatal("next handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestAuth_ValidToken verifies a valid bearer token reaches the handler with
// claims attached to the context.
func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	issuer := auth.NewTokenIssuer("test-secret-at-least-32-characters!!", time.Hour)
	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Fatal("claims missing from request context")
		}
		if claims.Subject != testUser().ID {
			t.Errorf("subject = %q, want %q", claims.Subject, testUser().ID)
		}
		if claims.Email != testUser().Email {
			t.Errorf("email = %q, want %q", claims.Email, testUser().Email)
		}
		w.WriteHeader(http.StatusOK)
	})

	wrapped := Auth(NewTokenAuthenticator(issuer), testLogger())(handler)

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// TestAuth_RejectsBadRequests verifies all failure modes map to the same 401.
func TestAuth_RejectsBadRequests(t *testing.T) {
	t.Parallel()

	issuer := auth.NewTokenIssuer("test-secret-at-least-32-characters!!", time.Hour)
	otherIssuer := auth.NewTokenIssuer("a-completely-different-signing-key!!", time.Hour)
	expiredIssuer := auth.NewTokenIssuer("test-secret-at-least-32-characters!!", -time.Hour)

	foreignToken, err := otherIssuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	expiredToken, err := expiredIssuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong signing key", "Bearer " + foreignToken},
		{"expired token", "Bearer " + expiredToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("next handler should not run for rejected requests")
			})

			wrapped := Auth(NewTokenAuthenticator(issuer), testLogger())(handler)

			req := httptest.NewRequest("GET", "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}

			var body struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if body.Code != "UNAUTHORIZED" {
				t.Errorf("code = %q, want UNAUTHORIZED", body.Code)
			}
		})
	}
}

// TestExtractBearerToken covers the header parsing edge cases.
func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"wrong scheme", "Token abc", ""},
		{"lowercase scheme", "bearer abc", ""},
		{"bare token", "abc.def.ghi", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
