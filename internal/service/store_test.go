package service

import (
	"context"
	"sync"
	"time"

	"github.com/authhub/authhub/internal/model"
	"github.com/authhub/authhub/internal/repository"
)

// fakeStore is an in-memory UserStore honoring the email uniqueness
// constraint, for tests that exercise service logic without a database.
type fakeStore struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by ID

	// failCreateOnce makes the next CreateUser return ErrEmailExists
	// without inserting, simulating a lost insert race.
	failCreateOnce bool
	// raceUser is inserted right before the failed create, simulating
	// the concurrent winner.
	raceUser *model.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*model.User)}
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreateOnce {
		f.failCreateOnce = false
		if f.raceUser != nil {
			f.users[f.raceUser.ID] = f.raceUser
			f.raceUser = nil
		}
		return repository.ErrEmailExists
	}

	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) ListUsers(_ context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}

	existing.Provider = user.Provider
	existing.ExternalID = user.ExternalID
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.LastLoginAt = user.LastLoginAt
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}
