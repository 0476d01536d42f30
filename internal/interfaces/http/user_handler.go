package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storerating-api/internal/application/auth"
	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
)

// UserHandler sign-up, login, session and profile endpoints of /users.
type UserHandler struct {
	auth    *auth.AuthUseCase
	users   *usecase.UserUseCase
	cookie  CookieConfig
	metrics *metrics.Metrics
}

// NewUserHandler builds the handler.
func NewUserHandler(authUC *auth.AuthUseCase, users *usecase.UserUseCase, cookie CookieConfig, m *metrics.Metrics) *UserHandler {
	return &UserHandler{auth: authUC, users: users, cookie: cookie, metrics: m}
}

// Signup godoc
// @Summary      Register a normal user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SignupRequest  true  "name, email, password, address"
// @Success      201   {object}  dto.APIResponse{data=object{user=dto.UserResponse}}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/users/signup [post]
func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var in dto.SignupRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.auth.Register(c.UserContext(), in, entity.RoleNormalUser)
	if err != nil {
		return err
	}
	h.metrics.UserRegistered(user.Role)
	return created(c, fiber.Map{"user": user}, "User registered successfully")
}

// Login godoc
// @Summary      Log in as any role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.APIResponse{data=dto.AuthResponse}
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /v1/api/users/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	return login(c, h.auth, h.cookie, h.metrics, "")
}

// Profile godoc
// @Summary      Current user's profile
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=object{user=dto.UserResponse}}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /v1/api/users/profile [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := h.users.Profile(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"user": user}, "Profile retrieved successfully")
}

// UpdateProfile godoc
// @Summary      Update name and address
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UpdateProfileRequest  true  "name, address"
// @Success      200   {object}  dto.APIResponse{data=object{user=dto.UserResponse}}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /v1/api/users/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"user": user}, "Profile updated successfully")
}

// ChangePassword godoc
// @Summary      Change the password
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ChangePasswordRequest  true  "currentPassword, newPassword"
// @Success      200   {object}  dto.APIResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /v1/api/users/update-password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), GetUserID(c), in); err != nil {
		return err
	}
	return ok(c, nil, "Password updated successfully")
}

// RefreshToken godoc
// @Summary      Rotate the refresh token and issue a new access token
// @Description  The refresh token is read from the refreshToken cookie, or from the body.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RefreshTokenRequest  false  "refreshToken"
// @Success      200   {object}  dto.APIResponse{data=dto.AuthResponse}
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /v1/api/users/refresh-token [post]
func (h *UserHandler) RefreshToken(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookieName)
	if token == "" && len(c.Body()) > 0 {
		var in dto.RefreshTokenRequest
		if err := c.BodyParser(&in); err != nil {
			return errInvalidBody
		}
		token = in.RefreshToken
	}
	out, err := h.auth.Refresh(c.UserContext(), token)
	if err != nil {
		return err
	}
	h.cookie.setRefresh(c, out.RefreshToken)
	return ok(c, out, "Access token refreshed")
}

// Logout godoc
// @Summary      Invalidate the refresh token
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse
// @Router       /v1/api/users/logout [post]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext(), GetUserID(c)); err != nil {
		return err
	}
	h.cookie.clearRefresh(c)
	return ok(c, nil, "Logged out successfully")
}

// login is shared by the three login endpoints; role scopes the account type.
func login(c *fiber.Ctx, uc *auth.AuthUseCase, cookie CookieConfig, m *metrics.Metrics, role entity.Role) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := uc.Login(c.UserContext(), in, role)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			m.LoginFailed()
		}
		return err
	}
	cookie.setRefresh(c, out.RefreshToken)
	return ok(c, out, "Login successful")
}

// registerAndLogin is shared by the admin and store owner sign-up endpoints.
func registerAndLogin(c *fiber.Ctx, uc *auth.AuthUseCase, cookie CookieConfig, m *metrics.Metrics, role entity.Role, message string) error {
	var in dto.SignupRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := uc.RegisterAndLogin(c.UserContext(), in, role)
	if err != nil {
		return err
	}
	m.UserRegistered(string(role))
	cookie.setRefresh(c, out.RefreshToken)
	return created(c, out, message)
}
