// dto/user_dto.go
package dto

import (
	"strings"
	"time"

	"rank-progression-system/models"
	"rank-progression-system/progression"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Username   string  `json:"username" validate:"required,min=3,max=64"`
	Email      string  `json:"email" validate:"omitempty,email"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	ExternalID *string `json:"external_id" validate:"omitempty,max=128"`
	Mana       int64   `json:"mana" validate:"gte=0"`
}

// ToModel builds a user at the starting rank.
func (r CreateUserRequest) ToModel() *models.User {
	return &models.User{
		ID:         uuid.NewString(),
		ExternalID: trimPtr(r.ExternalID),
		Username:   strings.TrimSpace(r.Username),
		Email:      strings.ToLower(strings.TrimSpace(r.Email)),
		FirstName:  trimPtr(r.FirstName),
		LastName:   trimPtr(r.LastName),
		Rank:       progression.StartLevel,
		Mana:       r.Mana,
	}
}

// AwardCompetencyRequest identifies the competency by id or by name.
type AwardCompetencyRequest struct {
	CompetencyID   string `json:"competency_id" validate:"omitempty,uuid"`
	CompetencyName string `json:"competency_name" validate:"omitempty,max=255"`
	Points         int64  `json:"points" validate:"min=1"`
}

type GrantExperienceRequest struct {
	Experience int64  `json:"experience" validate:"min=1"`
	Reason     string `json:"reason" validate:"omitempty,max=255"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

/* ===================== RESPONSES ===================== */

type UserResponse struct {
	ID         string       `json:"id"`
	ExternalID *string      `json:"external_id,omitempty"`
	Username   string       `json:"username"`
	Email      string       `json:"email,omitempty"`
	FirstName  *string      `json:"first_name,omitempty"`
	LastName   *string      `json:"last_name,omitempty"`
	Experience int64        `json:"experience"`
	Mana       int64        `json:"mana"`
	Rank       RankResponse `json:"rank"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Experience: u.Experience,
		Mana:       u.Mana,
		Rank:       NewRankResponse(progression.RankByLevelOrDefault(u.Rank)),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type CompetencyProgress struct {
	CompetencyID string `json:"competency_id"`
	Name         string `json:"name"`
	Points       int64  `json:"points"`
}

// ProgressResponse describes where a user stands relative to the next rank.
type ProgressResponse struct {
	User              UserResponse                   `json:"user"`
	NextRank          *RankResponse                  `json:"next_rank,omitempty"`
	Requirements      *RankRequirementsResponse      `json:"requirements,omitempty"`
	CompletedMissions []string                       `json:"completed_missions"`
	Competencies      []CompetencyProgress           `json:"competencies"`
	Unmet             []progression.UnmetRequirement `json:"unmet"`
	Blocker           string                         `json:"blocker,omitempty"`
	CanPromote        bool                           `json:"can_promote"`
}
