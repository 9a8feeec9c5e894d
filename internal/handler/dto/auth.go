package dto

import "strings"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present. Format checks stop
// here; whether the pair matches an account is the validator's concern.
func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// LoginResponse is the success body of the login endpoints.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// TestCallbackRequest is the body of the test-only callback endpoint
// simulating a verified Google profile.
type TestCallbackRequest struct {
	Email      string `json:"email"`
	ExternalID string `json:"googleId"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
}

// HasRequiredFields reports whether the simulated profile carries the
// fields a real provider callback would guarantee.
func (r *TestCallbackRequest) HasRequiredFields() bool {
	return strings.TrimSpace(r.Email) != "" && strings.TrimSpace(r.ExternalID) != ""
}
