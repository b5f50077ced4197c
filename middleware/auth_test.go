package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func protected(t *testing.T, roles ...Role) (http.Handler, *string) {
	t.Helper()
	var seenUser string
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		seenUser = id
		w.WriteHeader(http.StatusNoContent)
	})
	return Authenticate(testSecret)(RequireRole(roles...)(final)), &seenUser
}

func TestAuthenticate(t *testing.T) {
	valid := jwt.MapClaims{"user_id": "org-1", "role": "organizer", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), valid), http.StatusUnauthorized},
		{"wrong alg", "Bearer " + signToken(t, jwt.SigningMethodHS512, testSecret, valid), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"user_id": "org-1", "role": "organizer", "exp": time.Now().Add(-time.Minute).Unix(),
		}), http.StatusUnauthorized},
		{"player role", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"user_id": "p-1", "role": "player",
		}), http.StatusForbidden},
		{"unknown role", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
			"user_id": "p-1", "role": "root",
		}), http.StatusForbidden},
		{"organizer", "Bearer " + signToken(t, jwt.SigningMethodHS256, testSecret, valid), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := protected(t, RoleOrganizer, RoleAdmin)
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus >= 400 {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestGetUserIDFromContext_ClaimShapes(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   string
	}{
		{"string user_id", jwt.MapClaims{"user_id": "abc", "role": "admin"}, "abc"},
		{"numeric user_id", jwt.MapClaims{"user_id": 42, "role": "admin"}, "42"},
		{"sub fallback", jwt.MapClaims{"sub": "u-7", "role": "admin"}, "u-7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, seen := protected(t, RoleAdmin)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, testSecret, tt.claims))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.want, *seen)
		})
	}
}
