package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

// AccountService implements signup, login, logout and account deletion over
// per-role repositories and a single session slot.
type AccountService struct {
	mu      sync.Mutex
	generic *accountStore
	kinds   roleKinds
	carts   ports.Repository[*domain.ShoppingCart]
	mode    StoreMode
	session ports.SessionStore
	events  ports.EventPublisher
	log     zerolog.Logger
	now     func() time.Time
}

// NewAccountService wires the service. events may be nil.
func NewAccountService(
	repos Repositories,
	mode StoreMode,
	session ports.SessionStore,
	events ports.EventPublisher,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		generic: storeOf("user", repos.Users),
		kinds:   newRoleKinds(repos),
		carts:   repos.Carts,
		mode:    mode,
		session: session,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

// SignUp registers an account whose role is derived from the email domain.
func (s *AccountService) SignUp(ctx context.Context, username, email, password string) (domain.Account, error) {
	account, err := s.signUp(ctx, username, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	s.publish(ctx, domain.EventSignedUp, account)
	return account, nil
}

func (s *AccountService) signUp(ctx context.Context, username, email, password string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	used, err := s.isEmailUsed(ctx, email)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, domain.ErrDuplicateEmail
	}

	role, err := domain.RoleForEmail(email)
	if err != nil {
		return nil, err
	}

	target, err := s.kinds.forSignUp(role, s.generic)
	if err != nil {
		return nil, err
	}

	n, err := target.count(ctx)
	if err != nil {
		return nil, err
	}

	account := domain.NewAccount(role, n+1, username, email, password)
	if customer, ok := account.(*domain.Customer); ok {
		err = s.createCustomer(ctx, target, customer)
	} else {
		err = target.create(ctx, account)
	}
	if err != nil {
		evt := s.log.Error().Err(err).Str("role", string(role)).Str("store", target.name)
		if errors.Is(err, domain.ErrDuplicateID) {
			evt.Int("account_id", account.EntityID()).Msg("account id already taken; signups for this store stay blocked until the store grows past it")
		} else {
			evt.Msg("failed to create account")
		}
		return nil, err
	}

	s.log.Info().Int("account_id", account.EntityID()).Str("role", string(role)).Str("store", target.name).Msg("account created")
	return account, nil
}

// createCustomer stores a customer together with its cart, or neither.
func (s *AccountService) createCustomer(ctx context.Context, target *accountStore, c *domain.Customer) error {
	if s.carts == nil {
		return fmt.Errorf("%w: shopping cart repository", domain.ErrRepositoryUnavailable)
	}

	if err := target.create(ctx, c); err != nil {
		return err
	}
	if err := s.carts.Create(ctx, c.ShoppingCart); err != nil {
		if rbErr := target.remove(ctx, c.ID); rbErr != nil {
			s.log.Error().Err(rbErr).Int("account_id", c.ID).Msg("failed to roll back customer after cart failure")
			return fmt.Errorf("create shopping cart: %w (rollback: %v)", err, rbErr)
		}
		return fmt.Errorf("create shopping cart: %w", err)
	}
	return nil
}

// LogIn authenticates against every configured repository and starts the session.
// Unknown email and wrong password both yield domain.ErrInvalidCredentials.
func (s *AccountService) LogIn(ctx context.Context, email, password string) (domain.Account, error) {
	match, err := s.logIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("log in: %w", err)
	}
	s.publish(ctx, domain.EventLoggedIn, match)
	return match, nil
}

func (s *AccountService) logIn(ctx context.Context, email, password string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.allAccounts(ctx)
	if err != nil {
		return nil, err
	}

	match, ok := lo.Find(accounts, func(a domain.Account) bool {
		return a.Base().Matches(email, password)
	})
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.session.Start(ctx, match); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	s.log.Info().Str("username", match.Base().Username).Msg("successful authentication")
	return match, nil
}

// LogOut ends the active session.
func (s *AccountService) LogOut(ctx context.Context) error {
	current, err := s.logOut(ctx)
	if err != nil {
		return fmt.Errorf("log out: %w", err)
	}
	s.publish(ctx, domain.EventLoggedOut, current)
	return nil
}

func (s *AccountService) logOut(ctx context.Context) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentOrFail(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.End(ctx); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteAccount removes the logged-in account and everything it owns, then ends the session.
func (s *AccountService) DeleteAccount(ctx context.Context) error {
	deleted, err := s.deleteAccount(ctx)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.publish(ctx, domain.EventDeleted, deleted)
	return nil
}

func (s *AccountService) deleteAccount(ctx context.Context) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.currentOrFail(ctx)
	if err != nil {
		return nil, err
	}

	base := current.Base()
	if base.Role == domain.RoleCustomer {
		err = s.deleteCustomer(ctx, current)
	} else {
		var st *accountStore
		st, err = s.kinds.forDeletion(base.Role, s.generic)
		if err == nil {
			err = st.remove(ctx, base.ID)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := s.session.End(ctx); err != nil {
		return nil, err
	}

	s.log.Info().Int("account_id", base.ID).Str("role", string(base.Role)).Msg("account deleted")
	return current, nil
}

func (s *AccountService) deleteCustomer(ctx context.Context, account domain.Account) error {
	st, err := s.kinds.forDeletion(domain.RoleCustomer, s.generic)
	if err != nil {
		return err
	}

	if c, ok := account.(*domain.Customer); ok {
		if err := s.deleteCart(ctx, c); err != nil {
			return err
		}
		c.ClearOwned()
	}
	return st.remove(ctx, account.EntityID())
}

// deleteCart removes the customer's stored cart, if there is one.
func (s *AccountService) deleteCart(ctx context.Context, c *domain.Customer) error {
	if s.carts == nil {
		return nil
	}
	cartID := c.ID
	if c.ShoppingCart != nil {
		cartID = c.ShoppingCart.ID
	}

	cart, err := s.carts.FindByID(ctx, cartID)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Int("account_id", c.ID).Msg("customer has no stored shopping cart")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find shopping cart: %w", err)
	}
	if err := s.carts.Delete(ctx, cart.ID); err != nil {
		return fmt.Errorf("delete shopping cart: %w", err)
	}
	return nil
}

// CurrentUser returns the logged-in account, or nil.
func (s *AccountService) CurrentUser(ctx context.Context) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Current(ctx)
}

// Accounts lists every account across the configured repositories.
func (s *AccountService) Accounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allAccounts(ctx)
}

func (s *AccountService) currentOrFail(ctx context.Context) (domain.Account, error) {
	current, err := s.session.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNoActiveSession
	}
	return current, nil
}

// allAccounts concatenates generic users, admins, developers and customers, in that order.
func (s *AccountService) allAccounts(ctx context.Context) ([]domain.Account, error) {
	stores := []*accountStore{
		s.generic,
		s.kinds[domain.RoleAdmin],
		s.kinds[domain.RoleDeveloper],
		s.kinds[domain.RoleCustomer],
	}
	return collect(ctx, stores)
}

// isEmailUsed scans the generic store in single-store mode, otherwise the role stores.
func (s *AccountService) isEmailUsed(ctx context.Context, email string) (bool, error) {
	var stores []*accountStore
	switch s.mode {
	case StoreModeSingle:
		if s.generic == nil {
			return false, fmt.Errorf("%w: user repository", domain.ErrRepositoryUnavailable)
		}
		stores = []*accountStore{s.generic}
	default:
		stores = []*accountStore{
			s.kinds[domain.RoleAdmin],
			s.kinds[domain.RoleDeveloper],
			s.kinds[domain.RoleCustomer],
		}
	}

	accounts, err := collect(ctx, stores)
	if err != nil {
		return false, err
	}
	return lo.ContainsBy(accounts, func(a domain.Account) bool {
		return a.Base().Email == email
	}), nil
}

func collect(ctx context.Context, stores []*accountStore) ([]domain.Account, error) {
	var all []domain.Account
	for _, st := range stores {
		if st == nil {
			continue
		}
		accounts, err := st.list(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, accounts...)
	}
	return all, nil
}

// publish emits an account event. It must be called without s.mu held.
// Failures are logged, never returned.
func (s *AccountService) publish(ctx context.Context, typ domain.EventType, account domain.Account) {
	if s.events == nil {
		return
	}
	base := account.Base()
	event := domain.AccountEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		AccountID: base.ID,
		Role:      base.Role,
		Email:     base.Email,
		At:        s.now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(typ)).Int("account_id", base.ID).Msg("failed to publish account event")
	}
}
