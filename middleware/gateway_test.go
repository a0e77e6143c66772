package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rank-progression-system/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatewayApp(token string) *fiber.App {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware(token, logger.Nop()))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/health", ok)
	app.Get("/api/ranks", ok)
	app.Get("/api/notifications/user/:id/stream", ok)
	return app
}

func status(t *testing.T, app *fiber.App, target, auth string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestGatewayAuthMiddleware(t *testing.T) {
	app := gatewayApp("token-1")

	cases := []struct {
		name   string
		target string
		auth   string
		want   int
	}{
		{"health skipped", "/health", "", http.StatusOK},
		{"missing token", "/api/ranks", "", http.StatusUnauthorized},
		{"bearer token", "/api/ranks", "Bearer token-1", http.StatusOK},
		{"raw token", "/api/ranks", "token-1", http.StatusOK},
		{"wrong token", "/api/ranks", "Bearer token-2", http.StatusUnauthorized},
		{"query token on stream", "/api/notifications/user/u1/stream?token=token-1", "", http.StatusOK},
		{"query token elsewhere", "/api/ranks?token=token-1", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, status(t, app, tc.target, tc.auth))
		})
	}
}

func TestGatewayAuthDisabledWithoutToken(t *testing.T) {
	app := gatewayApp("")
	assert.Equal(t, http.StatusOK, status(t, app, "/api/ranks", ""))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("  abc "))
	assert.Equal(t, "", bearerToken(""))
}
