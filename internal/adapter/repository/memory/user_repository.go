package memory

import (
	"context"
	"time"

	"github.com/hugohenrick/erp-ceramica/internal/domain/apperr"
	"github.com/hugohenrick/erp-ceramica/internal/domain/user"
)

// UserRepository implementa user.Repository em memória
type UserRepository struct{ store *Store }

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, existing := range r.store.data.users {
		if existing.Username == u.Username {
			return apperr.Conflict("usuário %s já existe", u.Username)
		}
	}
	r.store.data.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	u, ok := r.store.data.users[id]
	if !ok {
		return nil, apperr.NotFound("usuário", id)
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	for _, u := range r.store.data.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("usuário", username)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	r.store.lock(ctx)
	defer r.store.unlock(ctx)

	u, ok := r.store.data.users[id]
	if !ok {
		return apperr.NotFound("usuário", id)
	}
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	r.store.data.users[id] = u
	return nil
}
