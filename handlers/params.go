// handlers/params.go
package handlers

import (
	"strconv"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation(map[string]string{"body": "invalid JSON body"})
	}
	return dto.Validate(dst)
}

func uuidParam(c *fiber.Ctx, name string) (string, error) {
	v := c.Params(name)
	if err := dto.ValidateUUID(name, v); err != nil {
		return "", err
	}
	return v, nil
}

// userIDQuery reads the ?userId= parameter used by action endpoints.
func userIDQuery(c *fiber.Ctx) (string, error) {
	v := c.Query("userId")
	if err := dto.ValidateUUID("userId", v); err != nil {
		return "", err
	}
	return v, nil
}

func intParam(c *fiber.Ctx, name string) (int, error) {
	n, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, apperr.Validation(map[string]string{name: "must be an integer"})
	}
	return n, nil
}
