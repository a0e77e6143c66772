package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationRankAssignment   NotificationType = "RANK_ASSIGNMENT"
	NotificationRankPromotion    NotificationType = "RANK_PROMOTION"
	NotificationMissionCompleted NotificationType = "MISSION_COMPLETED"
	NotificationArtifactAcquired NotificationType = "ARTIFACT_ACQUIRED"
	NotificationShopPurchase     NotificationType = "SHOP_PURCHASE"
	NotificationCardAcquired     NotificationType = "CARD_ACQUIRED"
	NotificationSystemMessage    NotificationType = "SYSTEM_MESSAGE"
	NotificationAchievement      NotificationType = "ACHIEVEMENT"
)

var NotificationTypes = []NotificationType{
	NotificationRankAssignment,
	NotificationRankPromotion,
	NotificationMissionCompleted,
	NotificationArtifactAcquired,
	NotificationShopPurchase,
	NotificationCardAcquired,
	NotificationSystemMessage,
	NotificationAchievement,
}

func (t NotificationType) Valid() bool {
	for _, v := range NotificationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Notification is a narrative record about a progression or reward event.
// Only IsRead/ReadAt change after creation.
type Notification struct {
	ID               string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           string           `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`
	User             *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Title            string           `gorm:"type:varchar(255);not null" json:"title"`
	Content          string           `gorm:"type:text;not null" json:"content"`
	NotificationType NotificationType `gorm:"type:varchar(32);not null" json:"notification_type"`
	IsRead           bool             `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	ReadAt           *time.Time       `json:"read_at,omitempty"`
	Metadata         datatypes.JSON   `json:"metadata,omitempty"`
	CreatedAt        time.Time        `gorm:"<-:create;autoCreateTime;index" json:"created_at"`
}
