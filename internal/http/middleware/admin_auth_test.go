package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-admin-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminJWTValidToken(t *testing.T) {
	var gotClaims jwt.MapClaims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaims(r.Context())
		require.True(t, ok)
		gotClaims = claims
		w.WriteHeader(http.StatusOK)
	})
	h := AdminJWT(testSecret)(inner)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "ops@gridlightsolar.ng",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@gridlightsolar.ng", gotClaims["sub"])
}

func TestAdminJWTMissingToken(t *testing.T) {
	h := AdminJWT(testSecret)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTWrongSecret(t *testing.T) {
	h := AdminJWT(testSecret)(okHandler())

	token := signToken(t, "other-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTExpiredToken(t *testing.T) {
	h := AdminJWT(testSecret)(okHandler())

	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTUnconfiguredSecret(t *testing.T) {
	h := AdminJWT("")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
