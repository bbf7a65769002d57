package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
)

// KeyFromCtx extracts the authenticated intake key set by APIKeyMiddleware.
func KeyFromCtx(c echo.Context) (string, bool) {
	v := c.Get("intake_key")
	key, ok := v.(string)
	return key, ok
}

// APIKeyMiddleware authenticates requests using the X-API-Key header against
// the configured key list. On success the key is stored in context so the
// rate limiter can bucket by it.
func APIKeyMiddleware(keys []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get("X-API-Key"))
			if key == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing api key"})
			}
			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					c.Set("intake_key", key)
					return next(c)
				}
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid api key"})
		}
	}
}
