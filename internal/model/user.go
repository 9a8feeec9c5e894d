// Package model defines domain entities for the application.
package model

import "time"

// Provider values for User.Provider.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User is the sole persisted entity: a local (email+password) or
// federated (external OAuth provider) account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Provider     string     `json:"provider"`
	ExternalID   string     `json:"external_id,omitempty"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsFederated reports whether the account is vouched for by an external
// provider rather than a locally stored password.
func (u *User) IsFederated() bool {
	return u.Provider != "" && u.Provider != ProviderLocal
}

// Sanitized returns a copy of the user with the password digest stripped.
// The digest must never leave the credential-validation boundary.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}
