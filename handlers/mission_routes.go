// handlers/mission_routes.go
package handlers

import (
	"rank-progression-system/dto"
	"rank-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(api fiber.Router, missionService *services.MissionService) {
	missions := api.Group("/missions")

	missions.Get("/", func(c *fiber.Ctx) error {
		list, err := missionService.List(c.UserContext(), c.QueryBool("active", false))
		if err != nil {
			return err
		}
		return c.JSON(list)
	})

	missions.Post("/", func(c *fiber.Ctx) error {
		var body dto.CreateMissionRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		m, err := missionService.Create(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})

	missions.Get("/user/:userId", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		list, err := missionService.ListForUser(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(list)
	})

	missions.Post("/:id/start", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		userID, err := userIDQuery(c)
		if err != nil {
			return err
		}
		um, err := missionService.Start(c.UserContext(), id, userID)
		if err != nil {
			return err
		}
		return c.JSON(um)
	})

	missions.Post("/:id/complete", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		userID, err := userIDQuery(c)
		if err != nil {
			return err
		}
		res, err := missionService.Complete(c.UserContext(), id, userID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"user_mission": res.UserMission,
			"user":         dto.NewUserResponse(res.User),
			"artifact":     res.Artifact,
		})
	})
}
