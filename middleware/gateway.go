// middleware/gateway.go
package middleware

import (
	"crypto/subtle"
	"strings"

	"rank-progression-system/logger"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware validates the service token sent by the API gateway.
// An empty expected token disables the check. Event streams may pass the token
// as ?token= because EventSource cannot set headers.
func GatewayAuthMiddleware(expectedToken string, log *logger.Logger) fiber.Handler {
	if expectedToken == "" {
		log.Warn("SERVICE_TOKEN is not set, gateway authentication disabled")
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/health" || path == "/metrics" {
			return c.Next()
		}

		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" && strings.HasSuffix(path, "/stream") {
			token = c.Query("token")
		}
		if token == "" {
			log.Warn("gateway token missing", "path", path, "ip", c.IP())
			return fiber.NewError(fiber.StatusUnauthorized, "gateway authentication token missing")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
			log.Warn("gateway token invalid", "path", path, "ip", c.IP())
			return fiber.NewError(fiber.StatusUnauthorized, "invalid gateway authentication token")
		}
		return c.Next()
	}
}

// bearerToken accepts "Bearer <token>" or the raw token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if t, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(t)
	}
	return header
}
