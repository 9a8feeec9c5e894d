package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/metrics"
	"github.com/authhub/authhub/internal/model"
	"github.com/authhub/authhub/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already in use")
)

// UserService handles user registration and management.
type UserService struct {
	store   UserStore
	hasher  *auth.Hasher
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, hasher *auth.Hasher, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		store:   store,
		hasher:  hasher,
		metrics: recorder,
	}
}

// RegisterInput defines input for local registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a local user with a hashed password.
// A duplicate email yields ErrEmailExists; the uniqueness constraint at
// the store settles concurrent registrations for the same address, so no
// pre-insert existence check is made.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        NormalizeEmail(input.Email),
		PasswordHash: digest,
		Provider:     model.ProviderLocal,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			s.metrics.IncRegistrationConflict()
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncRegistration()

	return user.Sanitized(), nil
}

// List returns all users with their digests stripped.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	sanitized := make([]*model.User, 0, len(users))
	for _, u := range users {
		sanitized = append(sanitized, u.Sanitized())
	}

	return sanitized, nil
}

// Get returns a single user by ID with the digest stripped.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user.Sanitized(), nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// NormalizeEmail lower-cases and trims an email address so lookups and
// writes agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
