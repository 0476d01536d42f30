package http_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/storerating-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/storerating-api/pkg/jwt"
)

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	s := newTestServer(t)
	r := s.do(t, fiber.MethodGet, "/v1/api/users/profile", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", r.body.Code)
	assert.False(t, r.body.Success)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	s := newTestServer(t)
	r := s.doWithHeader(t, fiber.MethodGet, "/v1/api/users/profile", "Authorization", "Token abc")
	assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", r.body.Code)
}

func TestAuthMiddleware_GarbageAndExpiredTokens(t *testing.T) {
	s := newTestServer(t)
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	garbage := s.do(t, fiber.MethodGet, "/v1/api/users/profile", "not.a.jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, garbage.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", garbage.body.Code)

	expired, err := pkgjwt.Generate(testJWTSecret, n.User.ID, n.User.Role, "storerating-test", -1)
	require.NoError(t, err)
	r := s.do(t, fiber.MethodGet, "/v1/api/users/profile", expired, nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)
	assert.Equal(t, garbage.body.Message, r.body.Message)

	forged, err := pkgjwt.Generate("another-secret", n.User.ID, n.User.Role, "storerating-test", 5)
	require.NoError(t, err)
	r = s.do(t, fiber.MethodGet, "/v1/api/users/profile", forged, nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)
}

func TestAuthMiddleware_DeletedUserLooksLikeInvalidToken(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodDelete, "/v1/api/admin/users/"+n.User.ID, admin.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))

	gone := s.do(t, fiber.MethodGet, "/v1/api/users/profile", n.AccessToken, nil)
	garbage := s.do(t, fiber.MethodGet, "/v1/api/users/profile", "not.a.jwt", nil)

	assert.Equal(t, fiber.StatusUnauthorized, gone.StatusCode)
	assert.Equal(t, garbage.StatusCode, gone.StatusCode)
	assert.Equal(t, garbage.body.Code, gone.body.Code)
	assert.Equal(t, garbage.body.Message, gone.body.Message)
}

func TestRequirePermission_WrongRole(t *testing.T) {
	s := newTestServer(t)
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodGet, "/v1/api/admin/dashboard", n.AccessToken, nil)
	assert.Equal(t, fiber.StatusForbidden, r.StatusCode)
	assert.Equal(t, "FORBIDDEN", r.body.Code)
	assert.Equal(t, "Access denied. System administrator role required.", r.body.Message)

	r = s.do(t, fiber.MethodDelete, "/v1/api/stores/00000000-0000-0000-0000-000000000001", n.AccessToken, nil)
	assert.Equal(t, fiber.StatusForbidden, r.StatusCode)
	assert.Equal(t, "Only system administrators can delete stores", r.body.Message)

	admin := s.registerAdmin(t, "admin@example.com")
	r = s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", admin.AccessToken,
		map[string]any{"rating": 5, "storeId": "00000000-0000-0000-0000-000000000001"})
	assert.Equal(t, fiber.StatusForbidden, r.StatusCode)
}

func TestRequirePermission_RoleReadFromStoredUser(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	n := s.signupAndLogin(t, "Future Owner", "owner@example.com")

	r := s.do(t, fiber.MethodGet, "/v1/api/storeowner/profile", n.AccessToken, nil)
	require.Equal(t, fiber.StatusForbidden, r.StatusCode)

	r = s.do(t, fiber.MethodPut, "/v1/api/admin/users/"+n.User.ID+"/role", admin.AccessToken,
		map[string]string{"role": "STORE_OWNER"})
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))

	// Same token, new role.
	r = s.do(t, fiber.MethodGet, "/v1/api/storeowner/profile", n.AccessToken, nil)
	assert.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t, func(d *apphttp.RouterDeps) { d.LoginRateLimit = 2 })
	creds := map[string]string{"email": "nobody@example.com", "password": "whatever"}

	for i := 0; i < 2; i++ {
		r := s.do(t, fiber.MethodPost, "/v1/api/users/login", "", creds)
		require.Equal(t, fiber.StatusUnauthorized, r.StatusCode)
	}
	r := s.do(t, fiber.MethodPost, "/v1/api/users/login", "", creds)
	assert.Equal(t, fiber.StatusTooManyRequests, r.StatusCode)
	assert.Equal(t, "TOO_MANY_REQUESTS", r.body.Code)
}
