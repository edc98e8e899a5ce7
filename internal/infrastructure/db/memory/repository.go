// Package memory provides process-local implementations of the storage ports.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/99minutos/account-service/internal/core/domain"
)

// Repository keeps entities in insertion order.
type Repository[T domain.Entity] struct {
	mu    sync.RWMutex
	items []T
}

func NewRepository[T domain.Entity]() *Repository[T] {
	return &Repository[T]{}
}

// Create appends entity. An entity with the same id must not already exist.
func (r *Repository[T]) Create(_ context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.EntityID()
	if _, _, found := r.find(id); found {
		return fmt.Errorf("create %d: %w", id, domain.ErrDuplicateID)
	}
	r.items = append(r.items, entity)
	return nil
}

func (r *Repository[T]) GetAll(_ context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *Repository[T]) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = lo.Reject(r.items, func(v T, _ int) bool { return v.EntityID() == id })
	return nil
}

func (r *Repository[T]) FindByID(_ context.Context, id int) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, _, found := r.find(id)
	if !found {
		var zero T
		return zero, domain.ErrNotFound
	}
	return v, nil
}

func (r *Repository[T]) find(id int) (T, int, bool) {
	return lo.FindIndexOf(r.items, func(v T) bool { return v.EntityID() == id })
}
