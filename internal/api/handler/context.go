package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/core/domain"
)

// ctxAccount returns the account loaded by the Session middleware.
func ctxAccount(c echo.Context) (domain.Account, error) {
	account, _ := c.Get("account").(domain.Account)
	if account == nil {
		return nil, domain.ErrNoActiveSession
	}
	return account, nil
}
