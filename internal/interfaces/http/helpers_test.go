package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/storerating-api/internal/application/analytics"
	"github.com/jhoicas/storerating-api/internal/application/auth"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/infrastructure/cache"
	"github.com/jhoicas/storerating-api/internal/infrastructure/memory"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
	"github.com/jhoicas/storerating-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/storerating-api/internal/interfaces/http"
	"github.com/jhoicas/storerating-api/pkg/logger"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

type testServer struct {
	app     *fiber.App
	repos   usecase.Repos
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, opts ...func(*apphttp.RouterDeps)) *testServer {
	t.Helper()
	return newCachingTestServer(t, cache.Noop{}, 0, opts...)
}

// newCachingTestServer is newTestServer with the admin dashboard cached in c.
func newCachingTestServer(t *testing.T, c appanalytics.Cache, ttl time.Duration, opts ...func(*apphttp.RouterDeps)) *testServer {
	t.Helper()
	db := memory.New()
	repos := memory.Repositories(db)
	tx := memory.NewTxRunner(db)
	m := metrics.New("test")

	authUC := auth.NewAuthUseCase(repos.Users, auth.Config{
		JWTSecret:        testJWTSecret,
		JWTIssuer:        "storerating-test",
		AccessTTLMinutes: 5,
		BcryptCost:       bcrypt.MinCost,
		AllowAdminSignup: true,
	})

	app := apphttp.NewApp(apphttp.AppConfig{Name: "storerating-test", CORSOrigins: "http://localhost:5173"}, logger.Nop(), m, nil)
	deps := apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(repos.Users, repos.Stores, tx),
		StoreUC:     usecase.NewStoreUseCase(repos.Users, repos.Stores, repos.Ratings, tx),
		RatingUC:    usecase.NewRatingUseCase(repos.Stores, repos.Ratings),
		DashboardUC: appanalytics.NewDashboardUseCase(repos.Users, repos.Stores, repos.Ratings, c, ttl, pdf.NewStoreReportRenderer()),
		Metrics:     m,
		Cookie:      apphttp.CookieConfig{Secure: true, TTL: 7 * 24 * time.Hour},
	}
	for _, o := range opts {
		o(&deps)
	}
	apphttp.Router(app, deps)
	return &testServer{app: app, repos: repos, metrics: m}
}

// memoryCache is an in-process analytics.Cache.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{items: map[string][]byte{}} }

func (c *memoryCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	b, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = b
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

// envelope is the decoded body of any JSON response.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"error"`
}

type response struct {
	*http.Response
	body envelope
	raw  []byte
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) doWithHeader(t *testing.T, method, path, key, value string) response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(key, value)
	return s.send(t, req)
}

func (s *testServer) doRaw(t *testing.T, method, path, body string) response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	out := response{Response: resp, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func decode[T any](t *testing.T, r response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(r.body.Data, &v), string(r.raw))
	return v
}

type authData struct {
	User struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func signupBody(name, email string) map[string]string {
	return map[string]string{"name": name, "email": email, "password": "Secret#123", "address": "1 Test Street"}
}

// registerAdmin signs up an administrator and returns their session.
func (s *testServer) registerAdmin(t *testing.T, email string) authData {
	t.Helper()
	r := s.do(t, fiber.MethodPost, "/v1/api/admin/register", "", signupBody("Admin User", email))
	require.Equal(t, fiber.StatusCreated, r.StatusCode, string(r.raw))
	return decode[authData](t, r)
}

// signupAndLogin signs up a normal user and logs them in.
func (s *testServer) signupAndLogin(t *testing.T, name, email string) authData {
	t.Helper()
	r := s.do(t, fiber.MethodPost, "/v1/api/users/signup", "", signupBody(name, email))
	require.Equal(t, fiber.StatusCreated, r.StatusCode, string(r.raw))
	r = s.do(t, fiber.MethodPost, "/v1/api/users/login", "", map[string]string{"email": email, "password": "Secret#123"})
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	return decode[authData](t, r)
}
