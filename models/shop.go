package models

import "time"

// ShopItem is sold for mana. A nil Stock means unlimited.
type ShopItem struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug"`
	Description string  `gorm:"type:text" json:"description"`
	Emoji       string  `gorm:"size:10" json:"emoji,omitempty"`
	Price       int64   `gorm:"not null" json:"price"`
	Stock       *int64  `json:"stock,omitempty"`
	ArtifactID  *string `gorm:"type:uuid" json:"artifact_id,omitempty"`
	IsActive    bool    `gorm:"not null" json:"is_active"`

	Timestamps
}

type Purchase struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ShopItemID string    `gorm:"type:uuid;not null;index" json:"shop_item_id"`
	ShopItem   ShopItem  `gorm:"foreignKey:ShopItemID" json:"shop_item"`
	Price      int64     `gorm:"not null" json:"price"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
