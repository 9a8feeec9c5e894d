// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/authhub/authhub/internal/model"
)

// UserStore is the persistence boundary for user records.
// *repository.Repository satisfies it; tests use an in-memory fake.
// Implementations must surface duplicate emails as repository.ErrEmailExists
// and missing records as repository.ErrUserNotFound.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}
