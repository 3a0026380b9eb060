package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lmartinelli/tienda-backend/pkg/auth"
	"github.com/lmartinelli/tienda-backend/pkg/config"
	"github.com/lmartinelli/tienda-backend/pkg/enums"
	"github.com/lmartinelli/tienda-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubIdentities struct{}

func (stubIdentities) Exists(context.Context, uuid.UUID) (bool, error) { return true, nil }

func testRouterDeps() Deps {
	return Deps{
		Config: &config.Config{
			App: config.AppConfig{Env: "test", Port: "8080"},
			JWT: config.JWTConfig{
				Secret:            "router-test-secret",
				Issuer:            "tienda",
				ExpirationMinutes: 5,
			},
			AuthRateLimit: config.AuthRateLimitConfig{
				LoginWindow:        time.Minute,
				LoginEmailLimit:    5,
				LoginIPLimit:       20,
				RegisterWindow:     time.Minute,
				RegisterEmailLimit: 3,
				RegisterIPLimit:    20,
			},
		},
		Logger:     logger.New(logger.Options{Level: zerolog.ErrorLevel}),
		DB:         stubPinger{},
		Identities: stubIdentities{},
	}
}

func TestHealthLive(t *testing.T) {
	router := NewRouter(testRouterDeps())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := NewRouter(testRouterDeps())

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/reviews"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	deps := testRouterDeps()
	router := NewRouter(deps)

	token, err := auth.MintAccessToken(deps.Config.JWT, time.Now(), auth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleUser,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminRegisterHiddenInProduction(t *testing.T) {
	deps := testRouterDeps()
	deps.Config.App.Env = "prod"
	router := NewRouter(deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", nil))
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected admin register to be unmounted, got %d", rec.Code)
	}
}
