// Package provider defines the contract for external OAuth identity providers.
package provider

import "context"

// Profile is a verified external identity as asserted by a provider.
// It carries facts only; reconciling it onto a local user record is the
// caller's job. Access and refresh tokens pass through and are never
// persisted.
type Profile struct {
	Provider      string
	ExternalID    string
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
	AccessToken   string
	RefreshToken  string
}

// OAuthProvider is implemented by external identity providers.
// Implementations return identity facts only and must not perform user
// creation, linking, or token issuance.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the provider's consent-flow URL for the given
	// anti-forgery state value.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for provider credentials
	// and returns the verified profile.
	Exchange(ctx context.Context, code string) (*Profile, error)
}
