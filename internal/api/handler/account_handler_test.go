package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/99minutos/account-service/internal/api/metrics"
	"github.com/99minutos/account-service/internal/core/domain"
)

type stubAccountService struct {
	signUpFn   func(ctx context.Context, username, email, password string) (domain.Account, error)
	logInFn    func(ctx context.Context, email, password string) (domain.Account, error)
	logOutFn   func(ctx context.Context) error
	deleteFn   func(ctx context.Context) error
	current    domain.Account
	accountsFn func(ctx context.Context) ([]domain.Account, error)
}

func (s *stubAccountService) SignUp(ctx context.Context, username, email, password string) (domain.Account, error) {
	return s.signUpFn(ctx, username, email, password)
}

func (s *stubAccountService) LogIn(ctx context.Context, email, password string) (domain.Account, error) {
	return s.logInFn(ctx, email, password)
}

func (s *stubAccountService) LogOut(ctx context.Context) error { return s.logOutFn(ctx) }

func (s *stubAccountService) DeleteAccount(ctx context.Context) error { return s.deleteFn(ctx) }

func (s *stubAccountService) CurrentUser(context.Context) (domain.Account, error) {
	return s.current, nil
}

func (s *stubAccountService) Accounts(ctx context.Context) ([]domain.Account, error) {
	return s.accountsFn(ctx)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAccountHandler_SignUp_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		signUpFn: func(ctx context.Context, username, email, password string) (domain.Account, error) {
			if username != "ana" || email != "ana@gmail.com" || password != "pw" {
				t.Fatalf("unexpected args: %s %s %s", username, email, password)
			}
			return domain.NewAccount(domain.RoleCustomer, 1, username, email, password), nil
		},
	}
	h := NewAccountHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/accounts", `{"username":"ana","email":"ana@gmail.com","password":"pw"}`), rec)

	if err := h.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	account := resp["account"]
	if account["role"] != "Customer" || account["id"] != float64(1) {
		t.Fatalf("unexpected account payload: %+v", account)
	}
	if _, leaked := account["password"]; leaked {
		t.Fatalf("password must not be serialized")
	}
	if _, ok := account["shopping_cart"]; !ok {
		t.Fatalf("expected shopping_cart in customer payload")
	}
}

func TestAccountHandler_SignUp_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		signUpFn: func(context.Context, string, string, string) (domain.Account, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/accounts", `{"username":"ana"}`), httptest.NewRecorder())

	err := h.SignUp(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestAccountHandler_SignUp_PropagatesDomainError(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		signUpFn: func(context.Context, string, string, string) (domain.Account, error) {
			return nil, domain.ErrDuplicateEmail
		},
	})

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/accounts", `{"username":"a","email":"a@dev.com","password":"x"}`), httptest.NewRecorder())

	if err := h.SignUp(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAccountHandler_LogIn(t *testing.T) {
	e := newTestEcho()
	admin := domain.NewAccount(domain.RoleAdmin, 1, "root", "root@adm.com", "pw")
	h := NewAccountHandler(&stubAccountService{
		logInFn: func(_ context.Context, email, password string) (domain.Account, error) {
			if email == "root@adm.com" && password == "pw" {
				return admin, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/session", `{"email":"root@adm.com","password":"pw"}`), rec)
	if err := h.LogIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/v1/session", `{"email":"root@adm.com","password":"nope"}`), httptest.NewRecorder())
	if err := h.LogIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountHandler_LogOut(t *testing.T) {
	e := newTestEcho()
	calls := 0
	h := NewAccountHandler(&stubAccountService{
		logOutFn: func(context.Context) error {
			calls++
			if calls > 1 {
				return domain.ErrNoActiveSession
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	if err := h.LogOut(e.NewContext(httptest.NewRequest(http.MethodDelete, "/v1/session", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	err := h.LogOut(e.NewContext(httptest.NewRequest(http.MethodDelete, "/v1/session", nil), httptest.NewRecorder()))
	if !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestAccountHandler_CurrentRequiresSessionAccount(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/session", nil), httptest.NewRecorder())
	if err := h.Current(c); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}

	rec := httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/session", nil), rec)
	c.Set("account", domain.NewAccount(domain.RoleDeveloper, 3, "dana", "dana@dev.com", "pw"))
	if err := h.Current(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"username":"dana"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	e := newTestEcho()
	deleted := false
	h := NewAccountHandler(&stubAccountService{
		deleteFn: func(context.Context) error {
			deleted = true
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/v1/accounts/me", nil), rec)
	c.Set("account", domain.NewAccount(domain.RoleCustomer, 1, "bob", "bob@gmail.com", "pw"))

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !deleted || rec.Code != http.StatusNoContent {
		t.Fatalf("expected delete and 204, got deleted=%v code=%d", deleted, rec.Code)
	}
}

func TestAccountHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		accountsFn: func(context.Context) ([]domain.Account, error) {
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/admin/accounts", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"items":[],"total":0}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestAccountHandler_LogIn_MetricsSeparateErrors(t *testing.T) {
	e := newTestEcho()
	storeErr := errors.New("session store down")
	h := NewAccountHandler(&stubAccountService{
		logInFn: func(_ context.Context, email, _ string) (domain.Account, error) {
			if email == "down@gmail.com" {
				return nil, storeErr
			}
			return nil, domain.ErrInvalidCredentials
		},
	})

	invalid := testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("invalid_credentials"))
	failed := testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("error"))

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/session", `{"email":"down@gmail.com","password":"pw"}`), httptest.NewRecorder())
	if err := h.LogIn(c); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	c = e.NewContext(jsonRequest(http.MethodPost, "/v1/session", `{"email":"who@gmail.com","password":"pw"}`), httptest.NewRecorder())
	_ = h.LogIn(c)

	if got := testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("error")) - failed; got != 1 {
		t.Fatalf("error logins = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues("invalid_credentials")) - invalid; got != 1 {
		t.Fatalf("invalid_credentials logins = %v, want 1", got)
	}
}

func TestAccountHandler_SignUp_RejectionsHaveTheirOwnCounter(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		signUpFn: func(_ context.Context, _, email, _ string) (domain.Account, error) {
			if email == "eve@yahoo.com" {
				return nil, &domain.ValidationError{Field: "email", Value: email, Err: domain.ErrUnsupportedDomain}
			}
			return nil, domain.ErrDuplicateEmail
		},
	})

	unsupported := testutil.ToFloat64(metrics.SignupRejectionsTotal.WithLabelValues("unsupported_domain"))
	duplicate := testutil.ToFloat64(metrics.SignupRejectionsTotal.WithLabelValues("duplicate_email"))
	invalidInput := testutil.ToFloat64(metrics.SignupRejectionsTotal.WithLabelValues("invalid_input"))

	for _, body := range []string{
		`{"username":"eve","email":"eve@yahoo.com","password":"pw"}`,
		`{"username":"bob","email":"bob@gmail.com","password":"pw"}`,
		`{"username":"bob"}`,
	} {
		_ = h.SignUp(e.NewContext(jsonRequest(http.MethodPost, "/v1/accounts", body), httptest.NewRecorder()))
	}

	if got := testutil.ToFloat64(metrics.SignupRejectionsTotal.WithLabelValues("unsupported_domain")) - unsupported; got != 1 {
		t.Fatalf("unsupported_domain rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.SignupRejectionsTotal.WithLabelValues("duplicate_email")) - duplicate; got != 1 {
		t.Fatalf("duplicate_email rejections = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.SignupRejectionsTotal.WithLabelValues("invalid_input")) - invalidInput; got != 1 {
		t.Fatalf("invalid_input rejections = %v, want 1", got)
	}
}
