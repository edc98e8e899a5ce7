package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

// Repositories groups the stores the account service coordinates. Any of them may be nil.
type Repositories struct {
	Users      ports.Repository[domain.Account]
	Admins     ports.Repository[*domain.Admin]
	Developers ports.Repository[*domain.Developer]
	Customers  ports.Repository[*domain.Customer]
	Carts      ports.Repository[*domain.ShoppingCart]
}

// StoreMode selects which repositories the email uniqueness check scans.
type StoreMode string

const (
	// StoreModeSingle scans only the generic user repository.
	StoreModeSingle StoreMode = "single"
	// StoreModeMulti scans the admin, developer and customer repositories.
	StoreModeMulti StoreMode = "multi"
)

// ModeFor returns single-store mode when a generic user repository is configured.
func ModeFor(repos Repositories) StoreMode {
	if repos.Users != nil {
		return StoreModeSingle
	}
	return StoreModeMulti
}

// ParseStoreMode accepts "single", "multi" or "" (inferred from repos).
func ParseStoreMode(s string, repos Repositories) (StoreMode, error) {
	switch StoreMode(s) {
	case "":
		return ModeFor(repos), nil
	case StoreModeSingle, StoreModeMulti:
		return StoreMode(s), nil
	default:
		return "", fmt.Errorf("unknown store mode %q", s)
	}
}

// accountStore erases the entity type of a repository so every role can be driven the same way.
type accountStore struct {
	name   string
	count  func(ctx context.Context) (int, error)
	list   func(ctx context.Context) ([]domain.Account, error)
	create func(ctx context.Context, account domain.Account) error
	remove func(ctx context.Context, id int) error
}

func storeOf[T domain.Account](name string, repo ports.Repository[T]) *accountStore {
	if repo == nil {
		return nil
	}
	list := func(ctx context.Context) ([]domain.Account, error) {
		all, err := repo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", name, err)
		}
		return lo.Map(all, func(v T, _ int) domain.Account { return v }), nil
	}
	return &accountStore{
		name: name,
		list: list,
		count: func(ctx context.Context) (int, error) {
			all, err := repo.GetAll(ctx)
			if err != nil {
				return 0, fmt.Errorf("count %s: %w", name, err)
			}
			return len(all), nil
		},
		create: func(ctx context.Context, account domain.Account) error {
			v, ok := account.(T)
			if !ok {
				return fmt.Errorf("%s repository cannot store %T", name, account)
			}
			return repo.Create(ctx, v)
		},
		remove: repo.Delete,
	}
}

// roleKinds maps each role that has a dedicated kind to its store.
// A role present with a nil store has no dedicated repository configured.
type roleKinds map[domain.Role]*accountStore

func newRoleKinds(repos Repositories) roleKinds {
	return roleKinds{
		domain.RoleAdmin:     storeOf("admin", repos.Admins),
		domain.RoleDeveloper: storeOf("developer", repos.Developers),
		domain.RoleCustomer:  storeOf("customer", repos.Customers),
	}
}

// forSignUp returns the dedicated store of role, or the generic store as fallback.
func (k roleKinds) forSignUp(role domain.Role, generic *accountStore) (*accountStore, error) {
	if st := k[role]; st != nil {
		return st, nil
	}
	if generic == nil {
		return nil, fmt.Errorf("%w: no store for role %s", domain.ErrRepositoryUnavailable, role)
	}
	return generic, nil
}

// forDeletion returns the store an account of role is deleted from. Roles with a
// dedicated kind never fall back to the generic store.
func (k roleKinds) forDeletion(role domain.Role, generic *accountStore) (*accountStore, error) {
	st, dedicated := k[role]
	if !dedicated {
		st = generic
	}
	if st == nil {
		name := "user"
		if dedicated {
			name = string(role)
		}
		return nil, fmt.Errorf("%w: %s repository", domain.ErrRepositoryUnavailable, name)
	}
	return st, nil
}
