// dto/catalog_dto.go
package dto

import (
	"strings"

	"rank-progression-system/models"
	"rank-progression-system/utils"

	"github.com/google/uuid"
)

type CreateMissionRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=255"`
	Description      string  `json:"description" validate:"max=5000"`
	Branch           string  `json:"branch" validate:"omitempty,max=32"`
	ExperienceReward int64   `json:"experience_reward" validate:"gte=0"`
	ManaReward       int64   `json:"mana_reward" validate:"gte=0"`
	CompetencyID     *string `json:"competency_id" validate:"omitempty,uuid"`
	CompetencyReward int64   `json:"competency_reward" validate:"gte=0"`
	ArtifactID       *string `json:"artifact_id" validate:"omitempty,uuid"`
	IsActive         *bool   `json:"is_active"`
}

// ToModel normalises the name so it matches requirement mission names exactly.
func (r CreateMissionRequest) ToModel() *models.Mission {
	name := utils.NormalizeName(r.Name)
	m := &models.Mission{
		ID:               uuid.NewString(),
		Name:             name,
		Slug:             utils.MakeSlug(name),
		Description:      strings.TrimSpace(r.Description),
		Branch:           strings.TrimSpace(r.Branch),
		ExperienceReward: r.ExperienceReward,
		ManaReward:       r.ManaReward,
		CompetencyID:     trimPtr(r.CompetencyID),
		CompetencyReward: r.CompetencyReward,
		ArtifactID:       trimPtr(r.ArtifactID),
		IsActive:         true,
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

type CreateShopItemRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"max=5000"`
	Emoji       string  `json:"emoji" validate:"omitempty,max=10"`
	Price       int64   `json:"price" validate:"min=1"`
	Stock       *int64  `json:"stock" validate:"omitempty,gte=0"`
	ArtifactID  *string `json:"artifact_id" validate:"omitempty,uuid"`
	IsActive    *bool   `json:"is_active"`
}

func (r CreateShopItemRequest) ToModel() *models.ShopItem {
	name := utils.NormalizeName(r.Name)
	m := &models.ShopItem{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        utils.MakeSlug(name),
		Description: strings.TrimSpace(r.Description),
		Emoji:       strings.TrimSpace(r.Emoji),
		Price:       r.Price,
		Stock:       r.Stock,
		ArtifactID:  trimPtr(r.ArtifactID),
		IsActive:    true,
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

type CreateArtifactRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Rarity      string `json:"rarity" validate:"omitempty,oneof=common rare epic legendary"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

func (r CreateArtifactRequest) ToModel() *models.Artifact {
	name := utils.NormalizeName(r.Name)
	rarity := models.Rarity(r.Rarity)
	if rarity == "" {
		rarity = models.RarityCommon
	}
	return &models.Artifact{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        utils.MakeSlug(name),
		Description: strings.TrimSpace(r.Description),
		Rarity:      rarity,
		ImageURL:    strings.TrimSpace(r.ImageURL),
	}
}

type CreateCardRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=5000"`
	Series      string `json:"series" validate:"omitempty,max=64"`
	Rarity      string `json:"rarity" validate:"omitempty,oneof=common rare epic legendary"`
}

func (r CreateCardRequest) ToModel() *models.Card {
	name := utils.NormalizeName(r.Name)
	rarity := models.Rarity(r.Rarity)
	if rarity == "" {
		rarity = models.RarityCommon
	}
	return &models.Card{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        utils.MakeSlug(name),
		Description: strings.TrimSpace(r.Description),
		Series:      strings.TrimSpace(r.Series),
		Rarity:      rarity,
	}
}

type GrantCardRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}
