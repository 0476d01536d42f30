package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storerating-api/internal/application/authz"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
)

// LocalUser clave de Locals con el *entity.User autenticado.
const LocalUser = "user"

var (
	errMissingToken = &apiError{status: fiber.StatusUnauthorized, code: "MISSING_TOKEN", message: "Authorization header is required"}
	errBadHeader    = &apiError{status: fiber.StatusUnauthorized, code: "INVALID_TOKEN", message: "Authorization header must be: Bearer <token>"}
)

// Authenticator resuelve un access token al usuario guardado.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}

// AuthMiddleware valida el token Bearer y guarda el usuario en c.Locals.
// El usuario se carga en cada request: una cuenta eliminada se rechaza como token
// inválido y los cambios de rol aplican de inmediato.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return errMissingToken
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return errBadHeader
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return errMissingToken
		}
		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// RequirePermission responde 403 si el rol del usuario autenticado no permite action.
// Debe ir después de AuthMiddleware.
func RequirePermission(action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return errMissingToken
		}
		if err := authz.Authorize(user.Role, action); err != nil {
			return err
		}
		return c.Next()
	}
}

// CurrentUser devuelve el usuario autenticado, o nil antes de AuthMiddleware.
func CurrentUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// GetUserID devuelve el id del usuario autenticado, o "".
func GetUserID(c *fiber.Ctx) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}
