// handlers/collection_routes.go
package handlers

import (
	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupArtifactRoutes(api fiber.Router, artifactService *services.ArtifactService) {
	artifacts := api.Group("/artifacts")

	artifacts.Get("/", func(c *fiber.Ctx) error {
		list, err := artifactService.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(list)
	})

	artifacts.Post("/", func(c *fiber.Ctx) error {
		var body dto.CreateArtifactRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		a, err := artifactService.Create(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	})

	artifacts.Post("/:id/image", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		fh, err := c.FormFile("image")
		if err != nil {
			return apperr.Validation(map[string]string{"image": "is required"})
		}
		file, err := fh.Open()
		if err != nil {
			return err
		}
		defer file.Close()

		a, err := artifactService.UploadImage(c.UserContext(), id, fh.Filename, fh.Header.Get("Content-Type"), file)
		if err != nil {
			return err
		}
		return c.JSON(a)
	})

	artifacts.Get("/user/:userId", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		list, err := artifactService.ListForUser(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(list)
	})
}

func SetupCardRoutes(api fiber.Router, cardService *services.CardService) {
	cards := api.Group("/cards")

	cards.Get("/", func(c *fiber.Ctx) error {
		list, err := cardService.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(list)
	})

	cards.Post("/", func(c *fiber.Ctx) error {
		var body dto.CreateCardRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		card, err := cardService.Create(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(card)
	})

	cards.Post("/:id/grant", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		userID, err := userIDQuery(c)
		if err != nil {
			return err
		}
		var body dto.GrantCardRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &body); err != nil {
				return err
			}
		}
		uc, err := cardService.Grant(c.UserContext(), id, userID, body)
		if err != nil {
			return err
		}
		return c.JSON(uc)
	})

	cards.Get("/user/:userId", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		list, err := cardService.ListForUser(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(list)
	})
}
