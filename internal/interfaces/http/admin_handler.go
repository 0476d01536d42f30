package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/storerating-api/internal/application/analytics"
	"github.com/jhoicas/storerating-api/internal/application/auth"
	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
)

// AdminHandler endpoints of /admin.
type AdminHandler struct {
	auth      *auth.AuthUseCase
	users     *usecase.UserUseCase
	dashboard *appanalytics.DashboardUseCase
	cookie    CookieConfig
	metrics   *metrics.Metrics
}

// NewAdminHandler builds the handler.
func NewAdminHandler(
	authUC *auth.AuthUseCase,
	users *usecase.UserUseCase,
	dashboard *appanalytics.DashboardUseCase,
	cookie CookieConfig,
	m *metrics.Metrics,
) *AdminHandler {
	return &AdminHandler{auth: authUC, users: users, dashboard: dashboard, cookie: cookie, metrics: m}
}

// Register godoc
// @Summary      Register a system administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SignupRequest  true  "name, email, password, address"
// @Success      201   {object}  dto.APIResponse{data=dto.AuthResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/admin/register [post]
func (h *AdminHandler) Register(c *fiber.Ctx) error {
	return registerAndLogin(c, h.auth, h.cookie, h.metrics, entity.RoleSystemAdmin, "Admin registered successfully")
}

// Login godoc
// @Summary      Log in as a system administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.APIResponse{data=dto.AuthResponse}
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /v1/api/admin/login [post]
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	return login(c, h.auth, h.cookie, h.metrics, entity.RoleSystemAdmin)
}

// Dashboard godoc
// @Summary      Platform statistics
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=dto.AdminDashboard}
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /v1/api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.AdminSummary(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, out, "Admin dashboard data retrieved successfully")
}

// ListUsers godoc
// @Summary      List users with filters, sorting and pagination
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        name       query  string  false  "Name contains"
// @Param        email      query  string  false  "Email contains"
// @Param        address    query  string  false  "Address contains"
// @Param        role       query  string  false  "Exact role"  Enums(SYSTEM_ADMIN, NORMAL_USER, STORE_OWNER)
// @Param        sortBy     query  string  false  "Sort field"  Enums(name, email, address, role, createdAt)
// @Param        sortOrder  query  string  false  "asc or desc"
// @Param        page       query  int     false  "Page"   default(1)
// @Param        limit      query  int     false  "Limit"  default(10)
// @Success      200  {object}  dto.APIResponse{data=dto.UserListResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /v1/api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var f dto.UserFilter
	if err := parseQuery(c, &f); err != nil {
		return err
	}
	out, err := h.users.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return ok(c, out, "Users retrieved successfully")
}

// CreateUser godoc
// @Summary      Create a user with any role
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateUserRequest  true  "name, email, password, address, role"
// @Success      201   {object}  dto.APIResponse{data=dto.UserResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/admin/users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.auth.CreateUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.metrics.UserRegistered(user.Role)
	return created(c, user, "User created successfully")
}

// UpdateRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        userId  path      string                 true  "User ID"
// @Param        body    body      dto.UpdateRoleRequest  true  "role"
// @Success      200     {object}  dto.APIResponse{data=dto.UserResponse}
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /v1/api/admin/users/{userId}/role [put]
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	var in dto.UpdateRoleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.users.UpdateRole(c.UserContext(), userID, entity.Role(in.Role))
	if err != nil {
		return err
	}
	return ok(c, user, "User role updated successfully")
}

// DeleteUser godoc
// @Summary      Delete a user, their ratings and their store
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  dto.APIResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /v1/api/admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := idParam(c, "userId", domain.ErrUserNotFound)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), GetUserID(c), userID); err != nil {
		return err
	}
	return ok(c, nil, "User deleted successfully")
}
