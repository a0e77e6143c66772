// handlers/notification_routes.go
package handlers

import (
	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(api fiber.Router, notificationService *services.NotificationService, admin fiber.Handler) {
	notifications := api.Group("/notifications")

	notifications.Get("/user/:userId", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		var q dto.ListQuery
		if err := c.QueryParser(&q); err != nil {
			return apperr.Validation(map[string]string{"query": "invalid paging parameters"})
		}
		// without paging parameters the whole history is returned
		if c.Query("page") == "" && c.Query("per_page") == "" {
			list, total, err := notificationService.List(c.UserContext(), userID, -1, 0)
			if err != nil {
				return err
			}
			return c.JSON(dto.NotificationPage{
				Data:       dto.NewNotificationResponses(list),
				Pagination: dto.Pagination{Page: 1, PerPage: len(list), Total: total},
			})
		}
		limit, offset := q.Normalize()
		list, total, err := notificationService.List(c.UserContext(), userID, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(dto.NotificationPage{
			Data:       dto.NewNotificationResponses(list),
			Pagination: dto.Pagination{Page: offset/limit + 1, PerPage: limit, Total: total},
		})
	})

	notifications.Get("/user/:userId/unread", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		list, err := notificationService.ListUnread(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewNotificationResponses(list))
	})

	notifications.Get("/user/:userId/unread-count", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		count, err := notificationService.CountUnread(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(dto.UnreadCountResponse{UserID: userID, Count: count})
	})

	notifications.Get("/user/:userId/stream", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		return notificationService.StreamUserNotificationsSSE(c, userID)
	})

	notifications.Post("/", func(c *fiber.Ctx) error {
		var body dto.CreateNotificationRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		n, err := notificationService.Create(c.UserContext(), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(dto.NewNotificationResponse(n))
	})

	notifications.Put("/user/:userId/read-all", func(c *fiber.Ctx) error {
		userID, err := uuidParam(c, "userId")
		if err != nil {
			return err
		}
		updated, err := notificationService.MarkAllAsRead(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(dto.MarkAllReadResponse{UserID: userID, Updated: updated})
	})

	notifications.Put("/:id/read", func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		n, err := notificationService.MarkAsRead(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(dto.NewNotificationResponse(n))
	})

	notifications.Delete("/:id", admin, func(c *fiber.Ctx) error {
		id, err := uuidParam(c, "id")
		if err != nil {
			return err
		}
		if err := notificationService.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
