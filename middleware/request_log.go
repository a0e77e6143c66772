// middleware/request_log.go
package middleware

import (
	"time"

	"rank-progression-system/logger"
	"rank-progression-system/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger tags each request with an id, logs it, and records HTTP metrics.
// The acting user set by ActorContext is logged as "actor".
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals("request_id", reqID)
		c.Set(HeaderRequestID, reqID)

		err := c.Next()
		if err != nil {
			// let the app error handler write the response so the status below is final
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		latency := time.Since(start)
		route := c.Route().Path
		metrics.RecordHTTPRequest(c.Method(), route, status, latency)

		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"request_id", reqID,
		}
		if actor := ActorID(c); actor != "" {
			fields = append(fields, "actor", actor)
		}
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
		return nil
	}
}
