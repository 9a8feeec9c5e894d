package dto

import (
	"regexp"
	"strings"
	"time"

	"github.com/authhub/authhub/internal/model"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Validate checks the request fields and returns one error per invalid
// field. Called at the request boundary before any service is invoked.
func (r *CreateUserRequest) Validate() []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(r.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(r.Password) < MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters long"})
	}

	return errs
}

// UserResponse is the public shape of a user. The password digest is
// already stripped by the service layer; this type simply has no slot
// for it.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Provider    string     `json:"provider"`
	ExternalID  string     `json:"external_id,omitempty"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to its public shape.
func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Provider:    u.Provider,
		ExternalID:  u.ExternalID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserListResponse converts a list of domain users.
func ToUserListResponse(users []*model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}
