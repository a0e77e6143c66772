// dto/notification_dto.go
package dto

import (
	"encoding/json"
	"time"

	"rank-progression-system/models"
)

type CreateNotificationRequest struct {
	UserID           string         `json:"user_id" validate:"required,uuid"`
	Title            string         `json:"title" validate:"required,max=255"`
	Content          string         `json:"content" validate:"required"`
	NotificationType string         `json:"notification_type" validate:"required,oneof=RANK_ASSIGNMENT RANK_PROMOTION MISSION_COMPLETED ARTIFACT_ACQUIRED SHOP_PURCHASE CARD_ACQUIRED SYSTEM_MESSAGE ACHIEVEMENT"`
	Metadata         map[string]any `json:"metadata"`
}

type ListQuery struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize clamps paging values and returns limit/offset.
func (q ListQuery) Normalize() (limit, offset int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q.PerPage, (q.Page - 1) * q.PerPage
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

type NotificationResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	NotificationType string          `json:"notification_type"`
	IsRead           bool            `json:"is_read"`
	ReadAt           *time.Time      `json:"read_at,omitempty"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func NewNotificationResponse(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:               n.ID,
		UserID:           n.UserID,
		Title:            n.Title,
		Content:          n.Content,
		NotificationType: string(n.NotificationType),
		IsRead:           n.IsRead,
		ReadAt:           n.ReadAt,
		CreatedAt:        n.CreatedAt,
	}
	if len(n.Metadata) > 0 {
		resp.Metadata = json.RawMessage(n.Metadata)
	}
	return resp
}

func NewNotificationResponses(list []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, NewNotificationResponse(&list[i]))
	}
	return out
}

type NotificationPage struct {
	Data       []NotificationResponse `json:"data"`
	Pagination Pagination             `json:"pagination"`
}

type UnreadCountResponse struct {
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

type MarkAllReadResponse struct {
	UserID  string `json:"user_id"`
	Updated int64  `json:"updated"`
}
