package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storerating-api/internal/application/auth"
	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
)

// StoreOwnerHandler endpoints of /storeowner.
type StoreOwnerHandler struct {
	auth    *auth.AuthUseCase
	users   *usecase.UserUseCase
	stores  *usecase.StoreUseCase
	cookie  CookieConfig
	metrics *metrics.Metrics
}

// NewStoreOwnerHandler builds the handler.
func NewStoreOwnerHandler(
	authUC *auth.AuthUseCase,
	users *usecase.UserUseCase,
	stores *usecase.StoreUseCase,
	cookie CookieConfig,
	m *metrics.Metrics,
) *StoreOwnerHandler {
	return &StoreOwnerHandler{auth: authUC, users: users, stores: stores, cookie: cookie, metrics: m}
}

// Register godoc
// @Summary      Register a store owner
// @Tags         storeowner
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SignupRequest  true  "name, email, password, address"
// @Success      201   {object}  dto.APIResponse{data=dto.AuthResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/storeowner/register [post]
func (h *StoreOwnerHandler) Register(c *fiber.Ctx) error {
	return registerAndLogin(c, h.auth, h.cookie, h.metrics, entity.RoleStoreOwner, "Store owner registered successfully")
}

// Login godoc
// @Summary      Log in as a store owner
// @Tags         storeowner
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.APIResponse{data=dto.AuthResponse}
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /v1/api/storeowner/login [post]
func (h *StoreOwnerHandler) Login(c *fiber.Ctx) error {
	return login(c, h.auth, h.cookie, h.metrics, entity.RoleStoreOwner)
}

// Profile godoc
// @Summary      Store owner profile with the owned store
// @Tags         storeowner
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=dto.UserResponse}
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /v1/api/storeowner/profile [get]
func (h *StoreOwnerHandler) Profile(c *fiber.Ctx) error {
	user, err := h.users.Profile(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, user, "Store owner profile retrieved successfully")
}

// UpdateProfile godoc
// @Summary      Update the store owner's name and address
// @Tags         storeowner
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UpdateProfileRequest  true  "name, address"
// @Success      200   {object}  dto.APIResponse{data=dto.UserResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /v1/api/storeowner/profile [put]
func (h *StoreOwnerHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return ok(c, user, "Profile updated successfully")
}

// CreateStore godoc
// @Summary      Create the owner's store
// @Tags         storeowner
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OwnStoreRequest  true  "name, email, address"
// @Success      201   {object}  dto.APIResponse{data=dto.StoreResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/storeowner/store [post]
func (h *StoreOwnerHandler) CreateStore(c *fiber.Ctx) error {
	var in dto.OwnStoreRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	store, err := h.stores.CreateOwn(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	h.metrics.StoreCreated()
	return created(c, store, "Store created successfully")
}

// UpdateStore godoc
// @Summary      Update the owner's store
// @Tags         storeowner
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UpdateStoreRequest  true  "name, email, address"
// @Success      200   {object}  dto.APIResponse{data=dto.StoreResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/storeowner/store [put]
func (h *StoreOwnerHandler) UpdateStore(c *fiber.Ctx) error {
	var in dto.UpdateStoreRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	store, err := h.stores.UpdateOwn(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return ok(c, store, "Store updated successfully")
}
