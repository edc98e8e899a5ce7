package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/core/domain"
	"github.com/99minutos/account-service/internal/core/service"
	"github.com/99minutos/account-service/internal/infrastructure/db/memory"
)

func newMemoryRouter() *echo.Echo {
	repos := service.Repositories{
		Admins:     memory.NewRepository[*domain.Admin](),
		Developers: memory.NewRepository[*domain.Developer](),
		Customers:  memory.NewRepository[*domain.Customer](),
		Carts:      memory.NewRepository[*domain.ShoppingCart](),
	}
	svc := service.NewAccountService(repos, service.ModeFor(repos), memory.NewSessionStore(), nil, zerolog.Nop())
	return NewRouter(Dependencies{Accounts: svc, Logger: zerolog.Nop()})
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// The Prometheus middleware registers its collectors globally, so a single
// router is shared by every subtest.
func TestRouter(t *testing.T) {
	e := newMemoryRouter()

	steps := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
		errMsg string
	}{
		{"liveness", http.MethodGet, "/health", "", http.StatusOK, ""},
		{"readiness without backends", http.MethodGet, "/health/ready", "", http.StatusOK, ""},
		{"no session yet", http.MethodGet, "/v1/session", "", http.StatusUnauthorized, "no active session"},
		{"logout without session", http.MethodDelete, "/v1/session", "", http.StatusUnauthorized, "no active session"},
		{"signup admin", http.MethodPost, "/v1/accounts", `{"username":"root","email":"root@adm.com","password":"pw"}`, http.StatusCreated, ""},
		{"signup customer", http.MethodPost, "/v1/accounts", `{"username":"bob","email":"bob@gmail.com","password":"pw"}`, http.StatusCreated, ""},
		{"duplicate email", http.MethodPost, "/v1/accounts", `{"username":"bob2","email":"bob@gmail.com","password":"x"}`, http.StatusConflict, "email already in use"},
		{"unsupported domain", http.MethodPost, "/v1/accounts", `{"username":"eve","email":"eve@yahoo.com","password":"x"}`, http.StatusUnprocessableEntity, ""},
		{"wrong password", http.MethodPost, "/v1/session", `{"email":"bob@gmail.com","password":"nope"}`, http.StatusUnauthorized, "invalid credentials"},
		{"customer login", http.MethodPost, "/v1/session", `{"email":"bob@gmail.com","password":"pw"}`, http.StatusOK, ""},
		{"current session", http.MethodGet, "/v1/session", "", http.StatusOK, ""},
		{"admin route as customer", http.MethodGet, "/v1/admin/accounts", "", http.StatusForbidden, "forbidden"},
		{"delete customer", http.MethodDelete, "/v1/accounts/me", "", http.StatusNoContent, ""},
		{"session ended by delete", http.MethodGet, "/v1/session", "", http.StatusUnauthorized, "no active session"},
		{"deleted account cannot log in", http.MethodPost, "/v1/session", `{"email":"bob@gmail.com","password":"pw"}`, http.StatusUnauthorized, "invalid credentials"},
		{"admin login", http.MethodPost, "/v1/session", `{"email":"root@adm.com","password":"pw"}`, http.StatusOK, ""},
		{"admin lists accounts", http.MethodGet, "/v1/admin/accounts", "", http.StatusOK, ""},
		{"admin logout", http.MethodDelete, "/v1/session", "", http.StatusNoContent, ""},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, ""},
	}

	for _, step := range steps {
		rec := do(e, step.method, step.path, step.body)
		if rec.Code != step.want {
			t.Fatalf("%s: expected %d, got %d (%s)", step.name, step.want, rec.Code, rec.Body.String())
		}
		if step.errMsg == "" {
			continue
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", step.name, err)
		}
		if resp.Error != step.errMsg {
			t.Fatalf("%s: error = %q, want %q", step.name, resp.Error, step.errMsg)
		}
	}
}
