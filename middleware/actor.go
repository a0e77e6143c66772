// middleware/actor.go
package middleware

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRoles = "X-User-Roles"

	localActorID    = "actor_id"
	localActorRoles = "actor_roles"
)

// ActorContext copies the identity forwarded by the gateway into request locals.
// The service trusts the gateway, so missing headers are not an error.
func ActorContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localActorID, strings.TrimSpace(c.Get(HeaderUserID)))

		var roles []string
		for _, r := range strings.Split(c.Get(HeaderUserRoles), ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, r)
			}
		}
		c.Locals(localActorRoles, roles)
		return c.Next()
	}
}

// ActorID returns the acting user id, or "" when the gateway sent none.
func ActorID(c *fiber.Ctx) string {
	id, _ := c.Locals(localActorID).(string)
	return id
}

func ActorRoles(c *fiber.Ctx) []string {
	roles, _ := c.Locals(localActorRoles).([]string)
	return roles
}

// RequireRole rejects actors that do not carry role. An empty role disables the check.
func RequireRole(role string) fiber.Handler {
	if role == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		if !slices.Contains(ActorRoles(c), role) {
			return fiber.NewError(fiber.StatusForbidden, "role "+role+" required")
		}
		return c.Next()
	}
}
