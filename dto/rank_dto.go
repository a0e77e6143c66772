// dto/rank_dto.go
package dto

import (
	"strings"
	"time"

	"rank-progression-system/models"
	"rank-progression-system/progression"
	"rank-progression-system/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* ===================== REQUESTS ===================== */

type CreateRankRequirementsRequest struct {
	RankLevel                int      `json:"rank_level" validate:"min=1,max=10"`
	RequiredExperience       int64    `json:"required_experience" validate:"gte=0"`
	RequiredMissionName      *string  `json:"required_mission_name" validate:"omitempty,max=255"`
	RequiredCompetencyPoints int64    `json:"required_competency_points" validate:"gte=0"`
	CompetencyNames          []string `json:"competency_names" validate:"omitempty,dive,required,max=255"`
	IsActive                 *bool    `json:"is_active"`
	Description              string   `json:"description" validate:"max=2000"`
}

func (r CreateRankRequirementsRequest) ToModel() *models.RankRequirements {
	m := &models.RankRequirements{
		ID:                       uuid.NewString(),
		RankLevel:                r.RankLevel,
		RequiredExperience:       r.RequiredExperience,
		RequiredMissionName:      normalizeMissionName(r.RequiredMissionName),
		RequiredCompetencyPoints: r.RequiredCompetencyPoints,
		CompetencyNames:          datatypes.JSONSlice[string](trimAll(r.CompetencyNames)),
		IsActive:                 true,
		Description:              strings.TrimSpace(r.Description),
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

// UpdateRankRequirementsRequest is a partial update; nil fields are left untouched.
type UpdateRankRequirementsRequest struct {
	RankLevel                *int      `json:"rank_level" validate:"omitempty,min=1,max=10"`
	RequiredExperience       *int64    `json:"required_experience" validate:"omitempty,gte=0"`
	RequiredMissionName      *string   `json:"required_mission_name" validate:"omitempty,max=255"`
	RequiredCompetencyPoints *int64    `json:"required_competency_points" validate:"omitempty,gte=0"`
	CompetencyNames          *[]string `json:"competency_names"`
	IsActive                 *bool     `json:"is_active"`
	Description              *string   `json:"description" validate:"omitempty,max=2000"`
}

func (r *UpdateRankRequirementsRequest) ApplyToModel(m *models.RankRequirements) {
	if r.RankLevel != nil {
		m.RankLevel = *r.RankLevel
	}
	if r.RequiredExperience != nil {
		m.RequiredExperience = *r.RequiredExperience
	}
	if r.RequiredMissionName != nil {
		// empty string clears the mission requirement
		m.RequiredMissionName = normalizeMissionName(r.RequiredMissionName)
	}
	if r.RequiredCompetencyPoints != nil {
		m.RequiredCompetencyPoints = *r.RequiredCompetencyPoints
	}
	if r.CompetencyNames != nil {
		m.CompetencyNames = datatypes.JSONSlice[string](trimAll(*r.CompetencyNames))
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	if r.Description != nil {
		m.Description = strings.TrimSpace(*r.Description)
	}
}

func normalizeMissionName(name *string) *string {
	if name == nil {
		return nil
	}
	n := utils.NormalizeName(*name)
	if n == "" {
		return nil
	}
	return &n
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

/* ===================== RESPONSES ===================== */

type RankResponse struct {
	Level       int    `json:"level"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Branch      string `json:"branch"`
}

func NewRankResponse(r progression.Rank) RankResponse {
	return RankResponse{
		Level:       r.Level,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		Branch:      string(r.Branch),
	}
}

func NewRankResponses(ranks []progression.Rank) []RankResponse {
	out := make([]RankResponse, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, NewRankResponse(r))
	}
	return out
}

type RankRequirementsResponse struct {
	ID                       string       `json:"id"`
	RankLevel                int          `json:"rank_level"`
	Rank                     RankResponse `json:"rank"`
	RequiredExperience       int64        `json:"required_experience"`
	RequiredMissionName      *string      `json:"required_mission_name,omitempty"`
	RequiredCompetencyPoints int64        `json:"required_competency_points"`
	CompetencyNames          []string     `json:"competency_names"`
	IsActive                 bool         `json:"is_active"`
	Description              string       `json:"description,omitempty"`
	CreatedAt                time.Time    `json:"created_at"`
	UpdatedAt                time.Time    `json:"updated_at"`
}

func NewRankRequirementsResponse(m *models.RankRequirements) RankRequirementsResponse {
	names := []string(m.CompetencyNames)
	if names == nil {
		names = []string{}
	}
	return RankRequirementsResponse{
		ID:                       m.ID,
		RankLevel:                m.RankLevel,
		Rank:                     NewRankResponse(progression.RankByLevelOrDefault(m.RankLevel)),
		RequiredExperience:       m.RequiredExperience,
		RequiredMissionName:      m.RequiredMissionName,
		RequiredCompetencyPoints: m.RequiredCompetencyPoints,
		CompetencyNames:          names,
		IsActive:                 m.IsActive,
		Description:              m.Description,
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}

func NewRankRequirementsResponses(list []models.RankRequirements) []RankRequirementsResponse {
	out := make([]RankRequirementsResponse, 0, len(list))
	for i := range list {
		out = append(out, NewRankRequirementsResponse(&list[i]))
	}
	return out
}

// ToRequirements converts a stored row into the evaluator's view.
func ToRequirements(m *models.RankRequirements) progression.Requirements {
	req := progression.Requirements{
		RankLevel:                m.RankLevel,
		RequiredExperience:       m.RequiredExperience,
		RequiredCompetencyPoints: m.RequiredCompetencyPoints,
	}
	if m.RequiredMissionName != nil {
		req.RequiredMissionName = *m.RequiredMissionName
	}
	return req
}
