package models

import "time"

// Card is a collectible card, granted by admins for achievements.
type Card struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Series      string `gorm:"type:varchar(64)" json:"series,omitempty"`
	Rarity      Rarity `gorm:"type:varchar(16);default:'common'" json:"rarity"`

	Timestamps
}

// UserCard: awarded instance (many-to-many)
type UserCard struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"user_id"`
	CardID     string    `gorm:"type:uuid;index;not null" json:"card_id"`
	Card       Card      `gorm:"foreignKey:CardID" json:"card"`
	AwardedAt  time.Time `gorm:"autoCreateTime" json:"awarded_at"`
	AwardedFor string    `json:"awarded_for,omitempty"`
}
