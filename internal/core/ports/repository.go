package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

// Repository is a key-indexed store for one entity kind.
type Repository[T domain.Entity] interface {
	Create(ctx context.Context, entity T) error
	// GetAll returns every entity in insertion order.
	GetAll(ctx context.Context) ([]T, error)
	// Delete removes the entity with the given id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id int) error
	// FindByID returns domain.ErrNotFound when no entity has the given id.
	FindByID(ctx context.Context, id int) (T, error)
}

// SessionStore holds at most one logged-in account.
type SessionStore interface {
	// Current returns nil, nil when nobody is logged in.
	Current(ctx context.Context) (domain.Account, error)
	Start(ctx context.Context, account domain.Account) error
	End(ctx context.Context) error
}
