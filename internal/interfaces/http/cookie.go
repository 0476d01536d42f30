package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const refreshCookieName = "refreshToken"

// CookieConfig refresh-token cookie attributes.
type CookieConfig struct {
	Secure bool
	Domain string
	TTL    time.Duration
}

func (cc CookieConfig) setRefresh(c *fiber.Ctx, token string) {
	ttl := cc.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cc.Domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		Secure:   cc.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (cc CookieConfig) clearRefresh(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cc.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   cc.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
