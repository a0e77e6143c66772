// handlers/rank_routes.go
package handlers

import (
	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/logger"
	"rank-progression-system/progression"
	"rank-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRankRoutes(api fiber.Router, rankService *services.RankService, notificationService *services.NotificationService, admin fiber.Handler, log *logger.Logger) {
	ranks := api.Group("/ranks")

	ranks.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(dto.NewRankResponses(progression.Ranks()))
	})

	ranks.Get("/branch/:branch", func(c *fiber.Ctx) error {
		branch, ok := progression.ParseBranch(c.Params("branch"))
		if !ok {
			return apperr.Validation(map[string]string{"branch": "unknown branch"})
		}
		return c.JSON(dto.NewRankResponses(progression.RanksByBranch(branch)))
	})

	ranks.Get("/level/:level", func(c *fiber.Ctx) error {
		level, err := intParam(c, "level")
		if err != nil {
			return err
		}
		rank, err := progression.RankByLevel(level)
		if err != nil {
			return apperr.NotFound("rank", level)
		}
		return c.JSON(dto.NewRankResponse(rank))
	})

	// Promotion
	ranks.Post("/promote", func(c *fiber.Ctx) error {
		userID, err := userIDQuery(c)
		if err != nil {
			return err
		}
		res, err := rankService.Promote(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if _, err := notificationService.NotifyRankPromotion(c.UserContext(), userID, res.From, res.To); err != nil {
			log.Warn("promotion notification failed", "user_id", userID, "error", err)
		}
		return c.JSON(dto.NewUserResponse(res.User))
	})

	ranks.Get("/can-promote", func(c *fiber.Ctx) error {
		userID, err := userIDQuery(c)
		if err != nil {
			return err
		}
		ok, err := rankService.CanPromote(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(ok)
	})

	// Requirements
	reqs := ranks.Group("/requirements")

	reqs.Get("/", func(c *fiber.Ctx) error {
		list, err := rankService.ListRequirements(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(dto.NewRankRequirementsResponses(list))
	})

	reqs.Get("/level/:level", func(c *fiber.Ctx) error {
		level, err := intParam(c, "level")
		if err != nil {
			return err
		}
		req, err := rankService.GetRequirementsByLevel(c.UserContext(), level)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewRankRequirementsResponse(req))
	})

	reqs.Get("/:id", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		req, err := rankService.GetRequirements(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewRankRequirementsResponse(req))
	})

	reqs.Post("/", admin, func(c *fiber.Ctx) error {
		var body dto.CreateRankRequirementsRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		req, err := rankService.CreateRequirements(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(dto.NewRankRequirementsResponse(req))
	})

	reqs.Put("/:id", admin, func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		var body dto.UpdateRankRequirementsRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		req, err := rankService.UpdateRequirements(c.UserContext(), id, body)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewRankRequirementsResponse(req))
	})

	reqs.Delete("/:id", admin, func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		req, err := rankService.DeactivateRequirements(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewRankRequirementsResponse(req))
	})
}
