package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	appanalytics "github.com/jhoicas/storerating-api/internal/application/analytics"
	"github.com/jhoicas/storerating-api/internal/application/auth"
	"github.com/jhoicas/storerating-api/internal/application/authz"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
)

// RouterDeps dependencies of the API routes.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	StoreUC     *usecase.StoreUseCase
	RatingUC    *usecase.RatingUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Metrics     *metrics.Metrics
	Cookie      CookieConfig
	// LoginRateLimit caps login attempts per minute and client IP; 0 disables it.
	LoginRateLimit int
}

// Router registers the /v1/api routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/v1/api")
	authn := AuthMiddleware(deps.AuthUC)
	can := RequirePermission
	loginLimit := loginLimiter(deps.LoginRateLimit)
	fresh := invalidatesDashboard(deps.DashboardUC)

	// Users
	userHandler := NewUserHandler(deps.AuthUC, deps.UserUC, deps.Cookie, deps.Metrics)
	users := api.Group("/users")
	users.Post("/signup", fresh, userHandler.Signup)
	users.Post("/login", loginLimit, userHandler.Login)
	users.Post("/refresh-token", userHandler.RefreshToken)
	users.Post("/logout", authn, userHandler.Logout)
	users.Get("/profile", authn, can(authz.ViewProfile), userHandler.Profile)
	users.Put("/profile", authn, can(authz.UpdateProfile), fresh, userHandler.UpdateProfile)
	users.Put("/update-password", authn, can(authz.ChangePassword), userHandler.ChangePassword)

	// Admin
	adminHandler := NewAdminHandler(deps.AuthUC, deps.UserUC, deps.DashboardUC, deps.Cookie, deps.Metrics)
	admin := api.Group("/admin")
	admin.Post("/register", fresh, adminHandler.Register)
	admin.Post("/login", loginLimit, adminHandler.Login)
	admin.Get("/dashboard", authn, can(authz.ViewAdminDashboard), adminHandler.Dashboard)
	admin.Get("/users", authn, can(authz.ListUsers), adminHandler.ListUsers)
	admin.Post("/users", authn, can(authz.CreateUser), fresh, adminHandler.CreateUser)
	admin.Put("/users/:userId/role", authn, can(authz.UpdateUserRole), fresh, adminHandler.UpdateRole)
	admin.Delete("/users/:userId", authn, can(authz.DeleteUser), fresh, adminHandler.DeleteUser)

	// Store owners
	ownerHandler := NewStoreOwnerHandler(deps.AuthUC, deps.UserUC, deps.StoreUC, deps.Cookie, deps.Metrics)
	owner := api.Group("/storeowner")
	owner.Post("/register", fresh, ownerHandler.Register)
	owner.Post("/login", loginLimit, ownerHandler.Login)
	owner.Get("/profile", authn, can(authz.ViewOwnerProfile), ownerHandler.Profile)
	owner.Put("/profile", authn, can(authz.UpdateOwnerProfile), fresh, ownerHandler.UpdateProfile)
	owner.Post("/store", authn, can(authz.CreateOwnStore), fresh, ownerHandler.CreateStore)
	owner.Put("/store", authn, can(authz.UpdateOwnStore), fresh, ownerHandler.UpdateStore)

	// Stores (browsing is public)
	storeHandler := NewStoreHandler(deps.StoreUC, deps.DashboardUC, deps.Metrics)
	stores := api.Group("/stores")
	stores.Get("/search", storeHandler.Search)
	stores.Get("/all", storeHandler.List)
	stores.Get("/dashboard/owner", authn, can(authz.ViewOwnerDashboard), storeHandler.OwnerDashboard)
	stores.Get("/dashboard/owner/report", authn, can(authz.ViewOwnerDashboard), storeHandler.OwnerReport)
	stores.Post("/create", authn, can(authz.CreateStore), fresh, storeHandler.Create)
	stores.Get("/:id", storeHandler.Get)
	stores.Put("/:id", authn, can(authz.UpdateStore), fresh, storeHandler.Update)
	stores.Delete("/:id", authn, can(authz.DeleteStore), fresh, storeHandler.Delete)

	// Ratings
	ratingHandler := NewRatingHandler(deps.RatingUC, deps.Metrics)
	ratings := api.Group("/ratings", authn)
	ratings.Post("/submit", can(authz.SubmitRating), fresh, ratingHandler.Submit)
	ratings.Get("/my-ratings", can(authz.ViewOwnRatings), ratingHandler.MyRatings)
	ratings.Get("/my-store", can(authz.ViewStoreRatings), ratingHandler.MyStoreRatings)
	ratings.Get("/store/:storeId/my-rating", can(authz.ViewStoreRating), ratingHandler.MyRatingForStore)
	ratings.Put("/:ratingId", can(authz.UpdateRating), fresh, ratingHandler.Update)
}

// invalidatesDashboard drops the cached admin summary once a write succeeds.
func invalidatesDashboard(uc *appanalytics.DashboardUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if uc != nil && c.Response().StatusCode() < fiber.StatusBadRequest {
			// a cache failure never fails the request; the entry still expires on its TTL
			_ = uc.Invalidate(c.UserContext())
		}
		return nil
	}
}

func loginLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "login:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return &apiError{status: fiber.StatusTooManyRequests, code: "TOO_MANY_REQUESTS", message: "Too many login attempts, try again later"}
		},
	})
}
