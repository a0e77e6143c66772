// services/sse_notification_service.go
package services

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"rank-progression-system/dto"
	"rank-progression-system/models"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

const streamPollInterval = 2 * time.Second

// StreamUserNotificationsSSE pushes notifications created after the stream opened.
func (s *NotificationService) StreamUserNotificationsSSE(c *fiber.Ctx, userID string) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	done := c.Context().Done()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(streamPollInterval)
		defer ticker.Stop()

		ctx := context.Background()
		cursor, cursorID := s.latestCursor(ctx, userID)

		// initial keepalive
		_, _ = w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				fresh, err := s.ListAfter(ctx, userID, cursor, cursorID)
				if err != nil {
					s.log.Warn("sse query failed", "user_id", userID, "error", err)
					continue
				}
				if len(fresh) == 0 {
					_, _ = w.WriteString(":\n\n")
				}
				for i := range fresh {
					payload, err := sonic.Marshal(dto.NewNotificationResponse(&fresh[i]))
					if err != nil {
						continue
					}
					fmt.Fprintf(w, "id: %s\nevent: notification\ndata: %s\n\n", fresh[i].ID, payload)
					cursor, cursorID = fresh[i].CreatedAt, fresh[i].ID
				}
				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-done:
				return
			}
		}
	})

	return nil
}

// latestCursor returns the (created_at, id) of the newest notification already stored.
func (s *NotificationService) latestCursor(ctx context.Context, userID string) (time.Time, string) {
	var latest models.Notification
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		s.log.Warn("sse cursor init failed", "user_id", userID, "error", err)
		return time.Now(), ""
	}
	return latest.CreatedAt, latest.ID
}
