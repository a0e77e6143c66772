package models

import "time"

type MissionStatus string

const (
	MissionStatusNotStarted MissionStatus = "NOT_STARTED"
	MissionStatusInProgress MissionStatus = "IN_PROGRESS"
	MissionStatusCompleted  MissionStatus = "COMPLETED"
	MissionStatusFailed     MissionStatus = "FAILED"
)

// UserMission is the per-user state of a mission.
type UserMission struct {
	ID          string        `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string        `gorm:"type:uuid;not null;uniqueIndex:idx_user_mission" json:"user_id"`
	MissionID   string        `gorm:"type:uuid;not null;uniqueIndex:idx_user_mission" json:"mission_id"`
	Mission     Mission       `gorm:"foreignKey:MissionID" json:"mission"`
	Status      MissionStatus `gorm:"type:varchar(16);not null;default:'NOT_STARTED';index" json:"status"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`

	Timestamps
}

// UserCompetency accumulates points for one competency of one user.
type UserCompetency struct {
	ID               string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID           string     `gorm:"type:uuid;not null;uniqueIndex:idx_user_competency" json:"user_id"`
	CompetencyID     string     `gorm:"type:uuid;not null;uniqueIndex:idx_user_competency" json:"competency_id"`
	Competency       Competency `gorm:"foreignKey:CompetencyID" json:"competency"`
	ExperiencePoints int64      `gorm:"not null;default:0" json:"experience_points"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
