package ports

import (
	"context"

	"github.com/99minutos/account-service/internal/core/domain"
)

type AccountService interface {
	SignUp(ctx context.Context, username, email, password string) (domain.Account, error)
	LogIn(ctx context.Context, email, password string) (domain.Account, error)
	LogOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	CurrentUser(ctx context.Context) (domain.Account, error)
	Accounts(ctx context.Context) ([]domain.Account, error)
}
