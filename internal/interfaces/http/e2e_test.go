package http_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
)

type idData struct {
	ID string `json:"id"`
}

// ownedStore has the admin create a user and a store owned by them.
func ownedStore(t *testing.T, s *testServer, adminToken string) (ownerID, storeID string) {
	t.Helper()
	body := signupBody("Store Owner", "owner@example.com")
	r := s.do(t, fiber.MethodPost, "/v1/api/admin/users", adminToken, body)
	require.Equal(t, fiber.StatusCreated, r.StatusCode, string(r.raw))
	ownerID = decode[idData](t, r).ID

	r = s.do(t, fiber.MethodPost, "/v1/api/stores/create", adminToken, map[string]string{
		"name":    "Corner Shop",
		"email":   "shop@example.com",
		"address": "1 Main Street",
		"ownerId": ownerID,
	})
	require.Equal(t, fiber.StatusCreated, r.StatusCode, string(r.raw))
	return ownerID, decode[idData](t, r).ID
}

func TestRatingLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	ownerID, storeID := ownedStore(t, s, admin.AccessToken)

	owner, err := s.repos.Users.GetByID(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStoreOwner, owner.Role)

	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken,
		map[string]any{"rating": 4, "storeId": storeID})
	require.Equal(t, fiber.StatusCreated, r.StatusCode, string(r.raw))
	ratingID := decode[idData](t, r).ID

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/"+storeID, "", nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode)
	store := decode[dto.StoreDetailResponse](t, r)
	assert.Equal(t, 4.0, store.AverageRating)
	assert.Equal(t, 1, store.TotalRatings)

	r = s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken,
		map[string]any{"rating": 5, "storeId": storeID})
	assert.Equal(t, fiber.StatusConflict, r.StatusCode)
	assert.Equal(t, "CONFLICT", r.body.Code)

	r = s.do(t, fiber.MethodPut, "/v1/api/ratings/"+ratingID, n.AccessToken, map[string]int{"rating": 2})
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/"+storeID, "", nil)
	store = decode[dto.StoreDetailResponse](t, r)
	assert.Equal(t, 2.0, store.AverageRating)
	assert.Equal(t, 1, store.TotalRatings)

	r = s.do(t, fiber.MethodGet, "/v1/api/ratings/store/"+storeID+"/my-rating", n.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode)
	assert.Equal(t, 2, decode[dto.RatingResponse](t, r).Rating)

	r = s.do(t, fiber.MethodGet, "/v1/api/ratings/my-ratings", n.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode)
	mine := decode[[]dto.RatingResponse](t, r)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Store)
	assert.Equal(t, "Corner Shop", mine[0].Store.Name)
}

func TestRatingUpdate_OtherUsersRating(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	_, storeID := ownedStore(t, s, admin.AccessToken)

	a := s.signupAndLogin(t, "First Rater", "first@example.com")
	b := s.signupAndLogin(t, "Second Rater", "second@example.com")

	r := s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", a.AccessToken,
		map[string]any{"rating": 3, "storeId": storeID})
	require.Equal(t, fiber.StatusCreated, r.StatusCode)
	ratingID := decode[idData](t, r).ID

	r = s.do(t, fiber.MethodPut, "/v1/api/ratings/"+ratingID, b.AccessToken, map[string]int{"rating": 1})
	assert.Equal(t, fiber.StatusForbidden, r.StatusCode)
}

func TestRatingSubmit_Validation(t *testing.T) {
	s := newTestServer(t)
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken,
		map[string]any{"rating": 6, "storeId": "not-a-uuid"})
	assert.Equal(t, fiber.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", r.body.Code)
	fields := map[string]bool{}
	for _, e := range r.body.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["rating"])
	assert.True(t, fields["storeId"])

	r = s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken,
		map[string]any{"rating": 3, "storeId": "00000000-0000-0000-0000-000000000001"})
	assert.Equal(t, fiber.StatusNotFound, r.StatusCode)
}

func TestStoreDelete_DemotesOwnerAndDropsRatings(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	ownerID, storeID := ownedStore(t, s, admin.AccessToken)
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken,
		map[string]any{"rating": 5, "storeId": storeID})
	require.Equal(t, fiber.StatusCreated, r.StatusCode)

	r = s.do(t, fiber.MethodDelete, "/v1/api/stores/"+storeID, admin.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))

	owner, err := s.repos.Users.GetByID(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleNormalUser, owner.Role)

	count, err := s.repos.Ratings.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/"+storeID, "", nil)
	assert.Equal(t, fiber.StatusNotFound, r.StatusCode)
}

func TestStoreCreate_OwnerAlreadyHasStore(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	ownerID, _ := ownedStore(t, s, admin.AccessToken)

	r := s.do(t, fiber.MethodPost, "/v1/api/stores/create", admin.AccessToken, map[string]string{
		"name":    "Second Shop",
		"email":   "second-shop@example.com",
		"address": "2 Main Street",
		"ownerId": ownerID,
	})
	assert.Equal(t, fiber.StatusConflict, r.StatusCode)
}

func TestStoreBrowsing(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	ownedStore(t, s, admin.AccessToken)

	r := s.do(t, fiber.MethodGet, "/v1/api/stores/all?sortBy=rating&sortOrder=desc", "", nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	list := decode[dto.StoreListResponse](t, r)
	require.Len(t, list.Stores, 1)
	assert.Equal(t, 1, list.Pagination.TotalItems)

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/search?query=corner", "", nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	found := decode[dto.StoreListResponse](t, r)
	assert.Len(t, found.Stores, 1)
	assert.Equal(t, "corner", found.SearchQuery)

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/search?query=c", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, r.StatusCode)

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/all?limit=500", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, r.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", r.body.Code)
}

func TestOwnerDashboardAndReport(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	_, storeID := ownedStore(t, s, admin.AccessToken)
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken,
		map[string]any{"rating": 4, "storeId": storeID})
	require.Equal(t, fiber.StatusCreated, r.StatusCode)

	r = s.do(t, fiber.MethodPost, "/v1/api/storeowner/login", "",
		map[string]string{"email": "owner@example.com", "password": "Secret#123"})
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	owner := decode[authData](t, r)

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/dashboard/owner", owner.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	dash := decode[dto.OwnerDashboard](t, r)
	assert.Equal(t, storeID, dash.Store.ID)
	assert.Equal(t, 1, dash.Statistics.TotalRatings)
	assert.Equal(t, 4.0, dash.Statistics.AverageRating)
	assert.Equal(t, 1, dash.Statistics.RatingDistribution[4])
	assert.Len(t, dash.Customers, 1)

	r = s.do(t, fiber.MethodGet, "/v1/api/ratings/my-store", owner.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode)
	assert.Len(t, decode[dto.StoreRatingsResponse](t, r).Ratings, 1)

	r = s.do(t, fiber.MethodGet, "/v1/api/stores/dashboard/owner/report", owner.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode)
	assert.Equal(t, "application/pdf", r.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, r.Header.Get(fiber.HeaderContentDisposition), "attachment")
	assert.True(t, strings.HasPrefix(string(r.raw), "%PDF"))
}

func TestAdminDashboard(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	_, storeID := ownedStore(t, s, admin.AccessToken)
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")
	s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken, map[string]any{"rating": 5, "storeId": storeID})

	r := s.do(t, fiber.MethodGet, "/v1/api/admin/dashboard", admin.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	dash := decode[dto.AdminDashboard](t, r)
	assert.Equal(t, 3, dash.Statistics.TotalUsers)
	assert.Equal(t, 1, dash.Statistics.TotalStores)
	assert.Equal(t, 1, dash.Statistics.TotalRatings)
	assert.Equal(t, 1, dash.Statistics.UsersByRole[string(entity.RoleSystemAdmin)])
	assert.Equal(t, 1, dash.Statistics.UsersByRole[string(entity.RoleStoreOwner)])
	assert.Equal(t, 1, dash.Statistics.UsersByRole[string(entity.RoleNormalUser)])

	r = s.do(t, fiber.MethodGet, "/v1/api/admin/users?role=STORE_OWNER", admin.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	users := decode[dto.UserListResponse](t, r)
	require.Len(t, users.Users, 1)
	assert.Equal(t, "owner@example.com", users.Users[0].Email)

	r = s.do(t, fiber.MethodDelete, "/v1/api/admin/users/"+admin.User.ID, admin.AccessToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, r.StatusCode)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)
	s.signupAndLogin(t, "Normal User", "normal@example.com")

	wrongPassword := s.do(t, fiber.MethodPost, "/v1/api/users/login", "",
		map[string]string{"email": "normal@example.com", "password": "Wrong#1234"})
	unknownEmail := s.do(t, fiber.MethodPost, "/v1/api/users/login", "",
		map[string]string{"email": "nobody@example.com", "password": "Wrong#1234"})
	wrongRole := s.do(t, fiber.MethodPost, "/v1/api/admin/login", "",
		map[string]string{"email": "normal@example.com", "password": "Secret#123"})

	for _, r := range []response{wrongPassword, unknownEmail, wrongRole} {
		assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)
		assert.Equal(t, wrongPassword.body.Code, r.body.Code)
		assert.Equal(t, wrongPassword.body.Message, r.body.Message)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	s := newTestServer(t)
	r := s.do(t, fiber.MethodPost, "/v1/api/users/signup", "", signupBody("Normal User", "normal@example.com"))
	require.Equal(t, fiber.StatusCreated, r.StatusCode)

	r = s.do(t, fiber.MethodPost, "/v1/api/users/login", "",
		map[string]string{"email": "normal@example.com", "password": "Secret#123"})
	require.Equal(t, fiber.StatusOK, r.StatusCode)
	session := decode[authData](t, r)

	cookie := strings.ToLower(r.Header.Get(fiber.HeaderSetCookie))
	assert.Contains(t, cookie, "refreshtoken="+strings.ToLower(session.RefreshToken))
	assert.Contains(t, cookie, "httponly")
	assert.Contains(t, cookie, "secure")
	assert.Contains(t, cookie, "samesite=strict")

	refresh := func(token string) response {
		return s.doWithHeader(t, fiber.MethodPost, "/v1/api/users/refresh-token", fiber.HeaderCookie, "refreshToken="+token)
	}

	r = refresh(session.RefreshToken)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	rotated := decode[authData](t, r)
	assert.NotEqual(t, session.RefreshToken, rotated.RefreshToken)

	r = refresh(session.RefreshToken)
	assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)

	r = s.do(t, fiber.MethodPost, "/v1/api/users/logout", rotated.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode)

	r = refresh(rotated.RefreshToken)
	assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)

	r = s.do(t, fiber.MethodPost, "/v1/api/users/refresh-token", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.StatusCode)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodPut, "/v1/api/users/update-password", n.AccessToken,
		map[string]string{"currentPassword": "Secret#123", "newPassword": "weak"})
	assert.Equal(t, fiber.StatusBadRequest, r.StatusCode)

	r = s.do(t, fiber.MethodPut, "/v1/api/users/update-password", n.AccessToken,
		map[string]string{"currentPassword": "Secret#123", "newPassword": "Changed#456"})
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))

	r = s.do(t, fiber.MethodPost, "/v1/api/users/login", "",
		map[string]string{"email": "normal@example.com", "password": "Changed#456"})
	assert.Equal(t, fiber.StatusOK, r.StatusCode)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodPost, "/v1/api/users/signup", "", signupBody("Other User", "normal@example.com"))
	assert.Equal(t, fiber.StatusConflict, r.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.signupAndLogin(t, "Normal User", "normal@example.com")

	r := s.do(t, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, r.StatusCode)

	resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMalformedPathIDsAreNotFound(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	n := s.signupAndLogin(t, "Normal User", "normal@example.com")

	cases := []struct {
		method, path, token string
		body                any
	}{
		{fiber.MethodGet, "/v1/api/stores/not-a-uuid", "", nil},
		{fiber.MethodPut, "/v1/api/stores/not-a-uuid", admin.AccessToken, map[string]string{"name": "Renamed"}},
		{fiber.MethodDelete, "/v1/api/stores/not-a-uuid", admin.AccessToken, nil},
		{fiber.MethodPut, "/v1/api/ratings/xyz", n.AccessToken, map[string]int{"rating": 3}},
		{fiber.MethodGet, "/v1/api/ratings/store/xyz/my-rating", n.AccessToken, nil},
		{fiber.MethodPut, "/v1/api/admin/users/xyz/role", admin.AccessToken, map[string]string{"role": "STORE_OWNER"}},
		{fiber.MethodDelete, "/v1/api/admin/users/xyz", admin.AccessToken, nil},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			r := s.do(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, fiber.StatusNotFound, r.StatusCode, string(r.raw))
			assert.Equal(t, "NOT_FOUND", r.body.Code)
		})
	}
}

func TestStoreListing_OversizedPageIsRejected(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerAdmin(t, "admin@example.com")
	ownedStore(t, s, admin.AccessToken)

	for _, path := range []string{
		"/v1/api/stores/all?page=4611686018427387904&limit=100",
		"/v1/api/stores/all?page=4611686018427387904&limit=100&sortBy=rating",
		"/v1/api/stores/search?query=ab&page=4611686018427387904",
		"/v1/api/admin/users?page=4611686018427387904",
	} {
		r := s.do(t, fiber.MethodGet, path, admin.AccessToken, nil)
		assert.Equal(t, fiber.StatusBadRequest, r.StatusCode, path)
		assert.Equal(t, "VALIDATION_ERROR", r.body.Code, path)
	}

	r := s.do(t, fiber.MethodGet, "/v1/api/stores/all?page=100000", "", nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	assert.Empty(t, decode[dto.StoreListResponse](t, r).Stores)
}

func TestAdminDashboard_CacheRefreshedByWrites(t *testing.T) {
	s := newCachingTestServer(t, newMemoryCache(), time.Hour)
	admin := s.registerAdmin(t, "admin@example.com")

	stats := func() dto.AdminStatistics {
		t.Helper()
		r := s.do(t, fiber.MethodGet, "/v1/api/admin/dashboard", admin.AccessToken, nil)
		require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
		return decode[dto.AdminDashboard](t, r).Statistics
	}
	assert.Equal(t, 1, stats().TotalUsers)

	// rows written behind the API stay hidden until an API write invalidates the entry
	require.NoError(t, s.repos.Users.Create(context.Background(), &entity.User{
		ID: uuid.NewString(), Name: "Imported User", Email: "imported@example.com", Role: entity.RoleNormalUser, CreatedAt: time.Now(),
	}))
	assert.Equal(t, 1, stats().TotalUsers)

	n := s.signupAndLogin(t, "Normal User", "normal@example.com")
	assert.Equal(t, 3, stats().TotalUsers)

	_, storeID := ownedStore(t, s, admin.AccessToken)
	got := stats()
	assert.Equal(t, 4, got.TotalUsers)
	assert.Equal(t, 1, got.TotalStores)
	assert.Equal(t, 0, got.TotalRatings)

	r := s.do(t, fiber.MethodPost, "/v1/api/ratings/submit", n.AccessToken, map[string]any{"rating": 4, "storeId": storeID})
	require.Equal(t, fiber.StatusCreated, r.StatusCode, string(r.raw))
	got = stats()
	assert.Equal(t, 1, got.TotalRatings)
	assert.Equal(t, 4.0, got.AverageRating)

	r = s.do(t, fiber.MethodDelete, "/v1/api/stores/"+storeID, admin.AccessToken, nil)
	require.Equal(t, fiber.StatusOK, r.StatusCode, string(r.raw))
	got = stats()
	assert.Equal(t, 0, got.TotalStores)
	assert.Equal(t, 0, got.TotalRatings)
}
