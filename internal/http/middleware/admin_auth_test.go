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

func signedAdminToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "ops@evect.health",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
}

func TestAdminJWTRejects(t *testing.T) {
	noSubject := validClaims()
	noSubject.Subject = ""
	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name   string
		secret string
		header string
	}{
		{"secret unset", "", "Bearer " + signedAdminToken(t, "secret", validClaims())},
		{"no header", "secret", ""},
		{"basic scheme", "secret", "Basic Zm9vOmJhcg=="},
		{"wrong key", "secret", "Bearer " + signedAdminToken(t, "other", validClaims())},
		{"no subject", "secret", "Bearer " + signedAdminToken(t, "secret", noSubject)},
		{"no expiry", "secret", "Bearer " + signedAdminToken(t, "secret", noExpiry)},
		{"expired", "secret", "Bearer " + signedAdminToken(t, "secret", expired)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := AdminJWT(tt.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
			req := httptest.NewRequest(http.MethodDelete, "/admin/knowledge/cache", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestAdminJWTValidToken(t *testing.T) {
	var subject string
	h := AdminJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaimsFromContext(r.Context())
		require.True(t, ok)
		subject = claims.Subject
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodDelete, "/admin/knowledge/cache", nil)
	req.Header.Set("Authorization", "Bearer "+signedAdminToken(t, "secret", validClaims()))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@evect.health", subject)
}
