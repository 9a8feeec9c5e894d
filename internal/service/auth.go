package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/authhub/authhub/internal/auth"
	"github.com/authhub/authhub/internal/metrics"
	"github.com/authhub/authhub/internal/model"
	"github.com/authhub/authhub/internal/provider"
	"github.com/authhub/authhub/internal/repository"
)

// Authentication errors.
var (
	// ErrInvalidCredentials is the uniform rejection for password login.
	// It never distinguishes an unknown email from a wrong password or a
	// federated-only account.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailNotVerified rejects profiles whose email ownership the
	// provider did not assert; linking by email is only safe when the
	// provider vouches for the address.
	ErrEmailNotVerified = errors.New("provider did not verify email ownership")
)

// LoginResult is the terminal success outcome of a login attempt.
type LoginResult struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

// AuthService composes credential validation and identity reconciliation
// with token issuance. Both the password-login and OAuth-callback entry
// points end here.
type AuthService struct {
	store   UserStore
	hasher  *auth.Hasher
	issuer  *auth.TokenIssuer
	metrics metrics.Recorder
	now     func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(store UserStore, hasher *auth.Hasher, issuer *auth.TokenIssuer, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		store:   store,
		hasher:  hasher,
		issuer:  issuer,
		metrics: recorder,
		now:     time.Now,
	}
}

// ValidateCredentials checks an email/password pair against the store.
// Every rejection path returns ErrInvalidCredentials: unknown email,
// federated-only account (no digest), or digest mismatch. On success the
// returned user has the digest stripped. No side effects on failure.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	// Federated-only accounts carry no digest and can never be logged
	// into with a password, even when the email is known.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user.Sanitized(), nil
}

// ReconcileExternal maps a verified external profile onto a local user
// record: find by email, create when absent, otherwise refresh the name
// fields and the provider link. The check-then-insert race between two
// concurrent first logins is settled by the store's uniqueness constraint;
// the loser of the insert re-reads and takes the update path.
func (s *AuthService) ReconcileExternal(ctx context.Context, profile *provider.Profile) (*model.User, error) {
	if !profile.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	email := NormalizeEmail(profile.Email)
	now := s.now().UTC()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}

		created := &model.User{
			ID:          uuid.New().String(),
			Email:       email,
			Provider:    profile.Provider,
			ExternalID:  profile.ExternalID,
			FirstName:   profile.FirstName,
			LastName:    profile.LastName,
			LastLoginAt: &now,
		}

		err := s.store.CreateUser(ctx, created)
		if err == nil {
			return created.Sanitized(), nil
		}
		if !errors.Is(err, repository.ErrEmailExists) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		// Lost the insert race; the record now exists, update it below.
		user, err = s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read user after conflict: %w", err)
		}
	}

	// Existing account, local or federated: refresh names and link the
	// external identity. A local account silently gains the provider
	// link here because the provider verified email ownership. Empty
	// profile fields never erase stored names.
	user.Provider = profile.Provider
	user.ExternalID = profile.ExternalID
	if profile.FirstName != "" {
		user.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		user.LastName = profile.LastName
	}
	user.LastLoginAt = &now

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user.Sanitized(), nil
}

// LoginWithPassword runs the password login flow: credential validation
// followed by token issuance.
func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		s.metrics.IncPasswordLogin(metrics.StatusRejected)
		return nil, err
	}

	result, err := s.issueToken(user)
	if err != nil {
		s.metrics.IncPasswordLogin(metrics.StatusRejected)
		return nil, err
	}

	s.metrics.IncPasswordLogin(metrics.StatusSuccess)
	return result, nil
}

// LoginWithProfile runs the federated login flow: identity reconciliation
// followed by token issuance. Reconciliation failures are not credential
// failures; the provider already authenticated the user.
func (s *AuthService) LoginWithProfile(ctx context.Context, profile *provider.Profile) (*LoginResult, error) {
	user, err := s.ReconcileExternal(ctx, profile)
	if err != nil {
		s.metrics.IncFederatedLogin(metrics.StatusRejected)
		return nil, err
	}

	result, err := s.issueToken(user)
	if err != nil {
		s.metrics.IncFederatedLogin(metrics.StatusRejected)
		return nil, err
	}

	s.metrics.IncFederatedLogin(metrics.StatusSuccess)
	return result, nil
}

func (s *AuthService) issueToken(user *model.User) (*LoginResult, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncTokenIssued()

	return &LoginResult{
		User:        user,
		AccessToken: token,
	}, nil
}
