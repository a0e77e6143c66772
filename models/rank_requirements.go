package models

import "gorm.io/datatypes"

// RankRequirements gates promotion into RankLevel.
// RankLevel references the static rank catalog and is validated on write.
type RankRequirements struct {
	ID                       string                      `gorm:"primaryKey;type:uuid" json:"id"`
	RankLevel                int                         `gorm:"uniqueIndex;not null" json:"rank_level"`
	RequiredExperience       int64                       `gorm:"not null;default:0" json:"required_experience"`
	RequiredMissionName      *string                     `json:"required_mission_name,omitempty"`
	RequiredCompetencyPoints int64                       `gorm:"not null;default:0" json:"required_competency_points"`
	CompetencyNames          datatypes.JSONSlice[string] `json:"competency_names"` // informational only
	IsActive                 bool                        `gorm:"not null" json:"is_active"`
	Description              string                      `gorm:"type:text" json:"description"`

	Timestamps
}
