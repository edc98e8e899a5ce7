package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/account-service/internal/api/metrics"
	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/ports"
)

type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type signUpRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type logInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type accountResponse struct {
	Account domain.Account `json:"account"`
}

type accountListResponse struct {
	Items []domain.Account `json:"items"`
	Total int              `json:"total"`
}

// SignUp registers a new account. The role is taken from the email domain.
//
// @Summary      Sign up
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/accounts [post]
func (h *AccountHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupRejectionsTotal.WithLabelValues("invalid_input").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.SignUp(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		metrics.SignupRejectionsTotal.WithLabelValues(signUpRejection(err)).Inc()
		return err
	}

	metrics.SignupsTotal.WithLabelValues(string(account.Base().Role)).Inc()
	return c.JSON(http.StatusCreated, accountResponse{Account: account})
}

func signUpRejection(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedDomain):
		return "unsupported_domain"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	default:
		return "error"
	}
}

// LogIn starts the session for the account matching the credentials.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      logInRequest  true  "Credentials"
// @Success      200   {object}  accountResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/session [post]
func (h *AccountHandler) LogIn(c echo.Context) error {
	var req logInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.LogIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = "invalid_credentials"
		}
		metrics.LoginsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, accountResponse{Account: account})
}

// LogOut ends the active session.
//
// @Summary      Log out
// @Tags         session
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /v1/session [delete]
func (h *AccountHandler) LogOut(c echo.Context) error {
	if err := h.service.LogOut(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Current returns the logged-in account. Requires the Session middleware.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200   {object}  accountResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/session [get]
func (h *AccountHandler) Current(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accountResponse{Account: account})
}

// Delete removes the logged-in account and everything it owns.
//
// @Summary      Delete account
// @Tags         accounts
// @Success      204
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/accounts/me [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteAccount(c.Request().Context()); err != nil {
		return err
	}

	metrics.DeletionsTotal.WithLabelValues(string(account.Base().Role)).Inc()
	return c.NoContent(http.StatusNoContent)
}

// List returns every account. Admin only.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Success      200   {object}  accountListResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/admin/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.Accounts(c.Request().Context())
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return c.JSON(http.StatusOK, accountListResponse{Items: accounts, Total: len(accounts)})
}
