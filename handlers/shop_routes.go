// handlers/shop_routes.go
package handlers

import (
	"rank-progression-system/dto"
	"rank-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupShopRoutes(api fiber.Router, shopService *services.ShopService) {
	shop := api.Group("/shop")

	shop.Get("/items", func(c *fiber.Ctx) error {
		list, err := shopService.ListItems(c.UserContext(), c.QueryBool("active", false))
		if err != nil {
			return err
		}
		return c.JSON(list)
	})

	shop.Post("/items", func(c *fiber.Ctx) error {
		var body dto.CreateShopItemRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		item, err := shopService.CreateItem(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	shop.Post("/items/:id/purchase", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		userID, err := userIDQuery(c)
		if err != nil {
			return err
		}
		res, err := shopService.Purchase(c.UserContext(), id, userID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"purchase": res.Purchase,
			"user":     dto.NewUserResponse(res.User),
			"artifact": res.Artifact,
		})
	})

	shop.Get("/purchases/user/:userId", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		list, err := shopService.ListPurchases(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(list)
	})
}
