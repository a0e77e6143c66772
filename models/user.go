package models

import "time"

// User is the progression-relevant part of an employee profile.
// Profiles mirrored from the HR directory carry ExternalID.
type User struct {
	ID         string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalID *string `gorm:"uniqueIndex" json:"external_id,omitempty"`
	Username   string  `gorm:"uniqueIndex;not null" json:"username"`
	Email      string  `json:"email,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`

	// Progression
	Experience int64 `gorm:"not null;default:0" json:"experience"`
	Rank       int   `gorm:"not null;default:0;index" json:"rank"`
	Mana       int64 `gorm:"not null;default:0" json:"mana"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
