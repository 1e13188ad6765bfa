package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-chars-long-ok"

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		Sub:   "user-1",
		Email: "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedHandler(t *testing.T, hit *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	m := NewJWTMiddleware(testSecret)
	var hit bool

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()

	m.Authenticate(protectedHandler(t, &hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, hit)
}

func TestAuthenticate_ClaimsInContext(t *testing.T) {
	m := NewJWTMiddleware(testSecret)

	var got *Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(time.Hour)))
	m.Authenticate(inner).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.Sub)
	assert.Equal(t, "user@example.com", got.Email)
}

func TestAuthenticate_MissingToken(t *testing.T) {
	m := NewJWTMiddleware(testSecret)
	var hit bool

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	m.Authenticate(protectedHandler(t, &hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	m := NewJWTMiddleware(testSecret)
	var hit bool

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "some-other-secret-also-32-chars-long", time.Now().Add(time.Hour)))
	rr := httptest.NewRecorder()
	m.Authenticate(protectedHandler(t, &hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	m := NewJWTMiddleware(testSecret)
	var hit bool

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Now().Add(-time.Hour)))
	rr := httptest.NewRecorder()
	m.Authenticate(protectedHandler(t, &hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, hit)
}

func TestAuthenticate_EmptySecretPassesThrough(t *testing.T) {
	m := NewJWTMiddleware("")
	var hit bool

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	m.Authenticate(protectedHandler(t, &hit)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, hit)
}
