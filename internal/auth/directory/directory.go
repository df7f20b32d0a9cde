// Package directory is a stand-in for the external users service. It keeps a
// read-only set of accounts in memory so the auth service can run and be
// tested on its own; in a deployment the real directory sits behind the same
// service.UserDirectory interface.
package directory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spendtrack/auth/internal/auth/domain"
	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/pkg/cryptox"
	"github.com/spendtrack/auth/pkg/idx"
)

// InMemory implements service.UserDirectory over a map.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> id
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// Add registers a user. Emails are compared case-insensitively.
func (d *InMemory) Add(u domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[u.ID] = u
	d.byEmail[strings.ToLower(u.Email)] = u.ID
}

// Seed hashes the given password and registers a user with a generated id.
// Returns the stored record.
func (d *InMemory) Seed(fullName, email, password string) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		FullName:     fullName,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	d.Add(u)
	return u, nil
}

func (d *InMemory) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	return d.byID[id], nil
}

func (d *InMemory) FindByID(ctx context.Context, id string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.byID[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	return u, nil
}
