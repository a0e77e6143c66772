// handlers/user_routes.go
package handlers

import (
	"rank-progression-system/dto"
	"rank-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(api fiber.Router, userService *services.UserService) {
	users := api.Group("/users")

	users.Post("/", func(c *fiber.Ctx) error {
		var body dto.CreateUserRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		u, err := userService.Create(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(u))
	})

	users.Get("/:id", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		u, err := userService.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewUserResponse(u))
	})

	users.Get("/:id/progress", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		p, err := userService.Progress(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	users.Post("/:id/competencies", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		var body dto.AwardCompetencyRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		uc, err := userService.AwardCompetency(c.UserContext(), id, body)
		if err != nil {
			return err
		}
		return c.JSON(uc)
	})

	users.Post("/:id/experience", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		var body dto.GrantExperienceRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		u, err := userService.GrantExperience(c.UserContext(), id, body)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewUserResponse(u))
	})
}
