package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorContext(t *testing.T) {
	app := fiber.New()
	app.Use(ActorContext())

	var gotID string
	var gotRoles []string
	app.Get("/", func(c *fiber.Ctx) error {
		gotID = ActorID(c)
		gotRoles = ActorRoles(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, " 7f0c1a52-0f7e-4a55-9c32-3c4b8e1d2a10 ")
	req.Header.Set(HeaderUserRoles, "hr, admin,,")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "7f0c1a52-0f7e-4a55-9c32-3c4b8e1d2a10", gotID)
	assert.Equal(t, []string{"hr", "admin"}, gotRoles)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, gotID)
	assert.Empty(t, gotRoles)
}

func TestRequireRole(t *testing.T) {
	app := fiber.New()
	app.Use(ActorContext())
	app.Delete("/guarded", RequireRole("admin"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Delete("/open", RequireRole(""), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		roles  string
		status int
	}{
		{"no roles", "/guarded", "", http.StatusForbidden},
		{"other role", "/guarded", "hr", http.StatusForbidden},
		{"admin among roles", "/guarded", "hr, admin", http.StatusNoContent},
		{"guard disabled", "/open", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			if tt.roles != "" {
				req.Header.Set(HeaderUserRoles, tt.roles)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
