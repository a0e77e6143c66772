package models

import "time"

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Artifact is a collectible granted by missions or bought in the shop.
type Artifact struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Rarity      Rarity `gorm:"type:varchar(16);default:'common'" json:"rarity"`
	ImageURL    string `gorm:"type:text" json:"image_url,omitempty"` // R2 URL

	Timestamps
}

type UserArtifact struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ArtifactID string    `gorm:"type:uuid;not null;index" json:"artifact_id"`
	Artifact   Artifact  `gorm:"foreignKey:ArtifactID" json:"artifact"`
	Source     string    `gorm:"type:varchar(16)" json:"source"` // mission | shop
	AcquiredAt time.Time `gorm:"autoCreateTime" json:"acquired_at"`
}
