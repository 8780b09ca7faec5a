// Package authtest provides an in-memory auth.UserRepository for tests that
// need a working credential store without MongoDB.
package authtest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dentalsupply/inventory/internal/apperror"
	"github.com/dentalsupply/inventory/internal/plugins/auth"
)

// UserRepository stores accounts in memory. Email uniqueness is enforced the
// way the users collection's unique index does it: the second insert fails
// with a Conflict.
type UserRepository struct {
	mu      sync.Mutex
	byID    map[string]auth.User
	byEmail map[string]string
}

// NewUserRepository returns an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]auth.User),
		byEmail: make(map[string]string),
	}
}

// Create inserts user and assigns it an ObjectID hex id.
func (r *UserRepository) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return apperror.NewConflict("user already exists")
	}
	user.ID = primitive.NewObjectID().Hex()
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

// FindByID returns a copy of the stored account.
func (r *UserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	return &u, nil
}

// FindByEmail returns a copy of the stored account.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	id, ok := r.byEmail[email]
	r.mu.Unlock()
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	return r.FindByID(ctx, id)
}

// Delete removes an account. Used to simulate an account vanishing while a
// token for it is still in circulation.
func (r *UserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}

// Len returns the number of stored accounts.
func (r *UserRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
