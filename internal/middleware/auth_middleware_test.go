package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabin00012/codecommons/internal/auth"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithToken(t *testing.T, userID, role, email string) *http.Request {
	t.Helper()
	token, err := auth.GenerateJWT(userID, role, email)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	return req
}

func TestRequireAuthMissingCookie(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)

	RequireAuth(okHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestRequireAuthInvalidToken(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})

	RequireAuth(okHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthSetsIdentity(t *testing.T) {
	var gotID, gotRole, gotEmail string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
		gotRole = UserRole(r.Context())
		gotEmail = UserEmail(r.Context())
	})

	rec := httptest.NewRecorder()
	req := requestWithToken(t, "64f1b2a3c4d5e6f708091a0b", "teacher", "t@example.com")

	RequireAuth(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "64f1b2a3c4d5e6f708091a0b", gotID)
	assert.Equal(t, "teacher", gotRole)
	assert.Equal(t, "t@example.com", gotEmail)
}

func TestRequireRoleMismatch(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	req := requestWithToken(t, "64f1b2a3c4d5e6f708091a0b", "student", "s@example.com")

	RequireRole("teacher", okHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAdminPasses(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	req := requestWithToken(t, "64f1b2a3c4d5e6f708091a0b", "admin", "a@example.com")

	RequireRole("teacher", okHandler(&called)).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserIDOutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", UserID(req.Context()))
}
