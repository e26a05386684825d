package inmem

import (
	"context"
	"strings"
	"sync"

	"github.com/khoahotran/devlinks/internal/domain/user"
)

type UserRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*user.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byEmail: make(map[string]*user.User)}
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return user.ErrEmailTaken
	}
	cp := *u
	r.byEmail[key] = &cp
	return nil
}
