// handlers/errors.go
package handlers

import (
	"errors"

	"rank-progression-system/apperr"
	"rank-progression-system/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorResponse is the envelope written for every failed request.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Details []string          `json:"details,omitempty"`
}

// ErrorHandler maps service errors onto HTTP statuses. Internal details are logged, never returned.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := renderError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.Locals("request_id"),
				"error", err,
			)
		}
		return c.Status(status).JSON(body)
	}
}

func renderError(err error) (int, ErrorResponse) {
	if e, ok := apperr.As(err); ok {
		switch e.Kind {
		case apperr.KindNotFound:
			return fiber.StatusNotFound, ErrorResponse{Title: "Not Found", Message: e.Message, Code: e.Code}
		case apperr.KindBusinessRule:
			return fiber.StatusBadRequest, ErrorResponse{Title: "Business Rule Violation", Message: e.Message, Code: e.Code, Details: e.Details}
		case apperr.KindValidation:
			return fiber.StatusBadRequest, ErrorResponse{Title: "Validation Error", Message: e.Message, Code: e.Code, Errors: e.Fields}
		}
		return fiber.StatusInternalServerError, internalError()
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.StatusNotFound, ErrorResponse{Title: "Not Found", Message: "resource not found", Code: "NOT_FOUND"}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, ErrorResponse{Title: statusTitle(fe.Code), Message: fe.Message}
	}

	return fiber.StatusInternalServerError, internalError()
}

func internalError() ErrorResponse {
	return ErrorResponse{Title: "Internal Server Error", Message: "an unexpected error occurred", Code: "INTERNAL_ERROR"}
}

func statusTitle(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "Not Found"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusForbidden:
		return "Forbidden"
	case fiber.StatusMethodNotAllowed:
		return "Method Not Allowed"
	default:
		if status >= 500 {
			return "Internal Server Error"
		}
		return "Bad Request"
	}
}
