package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/core/domain"
)

// SessionReader is the slice of the account service the middleware needs.
type SessionReader interface {
	CurrentUser(ctx context.Context) (domain.Account, error)
}

// Session loads the logged-in account into the context as "account" and its
// role as "role". Requests without an active session fail with
// domain.ErrNoActiveSession.
func Session(accounts SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := accounts.CurrentUser(c.Request().Context())
			if err != nil {
				return err
			}
			if account == nil {
				return domain.ErrNoActiveSession
			}

			c.Set("account", account)
			c.Set("role", account.Base().Role)
			return next(c)
		}
	}
}
