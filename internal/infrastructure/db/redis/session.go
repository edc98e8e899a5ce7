package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/account-service/internal/core/domain"
)

// SessionStore keeps the single session slot under session:<scope> with no expiry.
// The stored snapshot omits the password.
type SessionStore struct {
	client *redis.Client
	key    string
}

func NewSessionStore(client *redis.Client, scope string) *SessionStore {
	if scope == "" {
		scope = "default"
	}
	return &SessionStore{client: client, key: "session:" + scope}
}

// envelope tags the account snapshot with its role so the right kind is restored.
type envelope struct {
	Role    domain.Role     `json:"role"`
	Account json.RawMessage `json:"account"`
}

func (s *SessionStore) Current(ctx context.Context) (domain.Account, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeSession(payload)
}

func (s *SessionStore) Start(ctx context.Context, account domain.Account) error {
	payload, err := encodeSession(account)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) End(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func encodeSession(account domain.Account) ([]byte, error) {
	body, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return json.Marshal(envelope{Role: account.Base().Role, Account: body})
}

func decodeSession(payload []byte) (domain.Account, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	var account domain.Account
	switch env.Role {
	case domain.RoleAdmin:
		account = &domain.Admin{}
	case domain.RoleDeveloper:
		account = &domain.Developer{}
	case domain.RoleCustomer:
		account = &domain.Customer{}
	default:
		account = &domain.User{}
	}
	if err := json.Unmarshal(env.Account, account); err != nil {
		return nil, fmt.Errorf("decode session account: %w", err)
	}
	return account, nil
}
