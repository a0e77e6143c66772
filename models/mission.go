package models

// Mission is a completable onboarding task.
type Mission struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Branch      string `gorm:"type:varchar(32)" json:"branch,omitempty"`

	// Rewards granted on completion
	ExperienceReward int64   `gorm:"not null;default:0" json:"experience_reward"`
	ManaReward       int64   `gorm:"not null;default:0" json:"mana_reward"`
	CompetencyID     *string `gorm:"type:uuid" json:"competency_id,omitempty"`
	CompetencyReward int64   `gorm:"not null;default:0" json:"competency_reward"`
	ArtifactID       *string `gorm:"type:uuid" json:"artifact_id,omitempty"`

	IsActive bool `gorm:"not null" json:"is_active"`

	Timestamps
}

type Competency struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Timestamps
}
