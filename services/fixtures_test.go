package services

import (
	"testing"
	"time"

	"rank-progression-system/database/dbtest"
	"rank-progression-system/logger"
	"rank-progression-system/models"
	"rank-progression-system/progression"
	"rank-progression-system/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db            *gorm.DB
	notifications *NotificationService
	ranks         *RankService
	users         *UserService
	missions      *MissionService
	shop          *ShopService
	cards         *CardService
	artifacts     *ArtifactService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithPolicy(t, progression.AnyCompetencyAtLeast)
}

func newFixtureWithPolicy(t *testing.T, policy progression.CompetencyPolicy) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	log := logger.Nop()

	notifications := NewNotificationService(db, log)
	ranks := NewRankService(db, progression.NewEvaluator(policy), log)
	return &fixture{
		db:            db,
		notifications: notifications,
		ranks:         ranks,
		users:         NewUserService(db, ranks, notifications, log),
		missions:      NewMissionService(db, notifications, log),
		shop:          NewShopService(db, notifications, log),
		cards:         NewCardService(db, notifications, log),
		artifacts:     NewArtifactService(db, nil, log),
	}
}

func (f *fixture) user(t *testing.T, username string, mutate func(*models.User)) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.NewString(), Username: username}
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) competency(t *testing.T, name string) *models.Competency {
	t.Helper()
	c := &models.Competency{ID: uuid.NewString(), Name: name}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) artifact(t *testing.T, name string) *models.Artifact {
	t.Helper()
	a := &models.Artifact{ID: uuid.NewString(), Name: name, Slug: utils.MakeSlug(name), Rarity: models.RarityRare}
	require.NoError(t, f.db.Create(a).Error)
	return a
}

func (f *fixture) mission(t *testing.T, name string, mutate func(*models.Mission)) *models.Mission {
	t.Helper()
	m := &models.Mission{ID: uuid.NewString(), Name: name, Slug: utils.MakeSlug(name), IsActive: true}
	if mutate != nil {
		mutate(m)
	}
	require.NoError(t, f.db.Create(m).Error)
	return m
}

func (f *fixture) completed(t *testing.T, userID, missionID string) {
	t.Helper()
	now := time.Now()
	um := &models.UserMission{
		ID:          uuid.NewString(),
		UserID:      userID,
		MissionID:   missionID,
		Status:      models.MissionStatusCompleted,
		StartedAt:   &now,
		CompletedAt: &now,
	}
	require.NoError(t, f.db.Create(um).Error)
}

func (f *fixture) points(t *testing.T, userID, competencyID string, points int64) {
	t.Helper()
	uc := &models.UserCompetency{
		ID:               uuid.NewString(),
		UserID:           userID,
		CompetencyID:     competencyID,
		ExperiencePoints: points,
	}
	require.NoError(t, f.db.Create(uc).Error)
}

func (f *fixture) requirements(t *testing.T, level int, exp int64, mission string, competency int64) *models.RankRequirements {
	t.Helper()
	req := &models.RankRequirements{
		ID:                       uuid.NewString(),
		RankLevel:                level,
		RequiredExperience:       exp,
		RequiredCompetencyPoints: competency,
		IsActive:                 true,
	}
	if mission != "" {
		req.RequiredMissionName = &mission
	}
	require.NoError(t, f.db.Create(req).Error)
	return req
}

func (f *fixture) reload(t *testing.T, id string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, "id = ?", id).Error)
	return &u
}

func (f *fixture) notificationCount(t *testing.T, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Notification{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}
