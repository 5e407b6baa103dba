package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/priyanshtech/TaskManager/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = auth.Config{
	Secret: "test-secret",
	Issuer: "task-manager-test",
}

func requestWithBearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

// TestGate_Resolve тестирует успешное определение владельца
func TestGate_Resolve(t *testing.T) {
	gate := auth.NewGate(testConfig)
	issuer := auth.NewIssuer(testConfig)

	token, err := issuer.Issue("auth0|user-1", time.Hour)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		owner, err := gate.Resolve(requestWithBearer(token))
		require.NoError(t, err)
		assert.Equal(t, "auth0|user-1", owner)
	})

	t.Run("lowercase scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+token)
		owner, err := gate.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "auth0|user-1", owner)
	})

	t.Run("session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: token})
		owner, err := gate.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, "auth0|user-1", owner)
	})

	t.Run("repeatable", func(t *testing.T) {
		req := requestWithBearer(token)
		first, err := gate.Resolve(req)
		require.NoError(t, err)
		second, err := gate.Resolve(req)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestGate_Resolve_CustomCookie(t *testing.T) {
	cfg := testConfig
	cfg.CookieName = "appSession"
	gate := auth.NewGate(cfg)
	token, err := auth.NewIssuer(cfg).Issue("user-2", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "appSession", Value: token})
	owner, err := gate.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, "user-2", owner)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: token})
	_, err = gate.Resolve(req)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestGate_Resolve_UserIDFallback(t *testing.T) {
	gate := auth.NewGate(testConfig)
	token := sign(t, jwt.SigningMethodHS256, []byte(testConfig.Secret), auth.Claims{
		UserID: "legacy-user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testConfig.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	owner, err := gate.Resolve(requestWithBearer(token))
	require.NoError(t, err)
	assert.Equal(t, "legacy-user", owner)
}

// TestGate_Resolve_Unauthenticated тестирует отказ для невалидных сессий
func TestGate_Resolve_Unauthenticated(t *testing.T) {
	gate := auth.NewGate(testConfig)
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name    string
		request func(t *testing.T) *http.Request
	}{
		{
			name: "no credentials",
			request: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodGet, "/", nil)
			},
		},
		{
			name: "basic scheme",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
				return req
			},
		},
		{
			name: "empty bearer",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set("Authorization", "Bearer ")
				return req
			},
		},
		{
			name: "garbage token",
			request: func(t *testing.T) *http.Request {
				return requestWithBearer("not-a-jwt")
			},
		},
		{
			name: "wrong secret",
			request: func(t *testing.T) *http.Request {
				return requestWithBearer(sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.RegisteredClaims{
					Subject: "user-1", Issuer: testConfig.Issuer, ExpiresAt: future,
				}))
			},
		},
		{
			name: "expired",
			request: func(t *testing.T) *http.Request {
				return requestWithBearer(sign(t, jwt.SigningMethodHS256, []byte(testConfig.Secret), jwt.RegisteredClaims{
					Subject: "user-1", Issuer: testConfig.Issuer,
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				}))
			},
		},
		{
			name: "no expiration",
			request: func(t *testing.T) *http.Request {
				return requestWithBearer(sign(t, jwt.SigningMethodHS256, []byte(testConfig.Secret), jwt.RegisteredClaims{
					Subject: "user-1", Issuer: testConfig.Issuer,
				}))
			},
		},
		{
			name: "wrong issuer",
			request: func(t *testing.T) *http.Request {
				return requestWithBearer(sign(t, jwt.SigningMethodHS256, []byte(testConfig.Secret), jwt.RegisteredClaims{
					Subject: "user-1", Issuer: "someone-else", ExpiresAt: future,
				}))
			},
		},
		{
			name: "unsigned token",
			request: func(t *testing.T) *http.Request {
				return requestWithBearer(sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{
					Subject: "user-1", Issuer: testConfig.Issuer, ExpiresAt: future,
				}))
			},
		},
		{
			name: "empty subject",
			request: func(t *testing.T) *http.Request {
				return requestWithBearer(sign(t, jwt.SigningMethodHS256, []byte(testConfig.Secret), jwt.RegisteredClaims{
					Subject: "  ", Issuer: testConfig.Issuer, ExpiresAt: future,
				}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := gate.Resolve(tt.request(t))
			assert.ErrorIs(t, err, auth.ErrUnauthenticated)
			assert.Empty(t, owner)
		})
	}
}

func TestIssuer_EmptyOwner(t *testing.T) {
	_, err := auth.NewIssuer(testConfig).Issue(" ", time.Hour)
	assert.Error(t, err)
}

func TestOwnerContext(t *testing.T) {
	_, err := auth.OwnerFrom(context.Background())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = auth.OwnerFrom(auth.WithOwner(context.Background(), ""))
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	owner, err := auth.OwnerFrom(auth.WithOwner(context.Background(), "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", owner)
}
