package services

import (
	"context"
	"testing"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteMissionPaysRewards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comp := f.competency(t, "Навигация")
	compass := f.artifact(t, "Звёздный компас")
	nav := f.mission(t, "Основы навигации", func(m *models.Mission) {
		m.ExperienceReward = 600
		m.ManaReward = 40
		m.CompetencyID = &comp.ID
		m.CompetencyReward = 60
		m.ArtifactID = &compass.ID
	})
	u := f.user(t, "seeker", nil)
	f.requirements(t, 1, 500, "Основы навигации", 50)

	_, err := f.missions.Start(ctx, nav.ID, u.ID)
	require.NoError(t, err)

	res, err := f.missions.Complete(ctx, nav.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MissionStatusCompleted, res.UserMission.Status)
	assert.NotNil(t, res.UserMission.CompletedAt)
	assert.Equal(t, int64(600), res.User.Experience)
	assert.Equal(t, int64(40), res.User.Mana)
	require.NotNil(t, res.Artifact)
	assert.Equal(t, compass.ID, res.Artifact.ID)

	var uc models.UserCompetency
	require.NoError(t, f.db.Where("user_id = ? AND competency_id = ?", u.ID, comp.ID).First(&uc).Error)
	assert.Equal(t, int64(60), uc.ExperiencePoints)

	var kinds []models.NotificationType
	require.NoError(t, f.db.Model(&models.Notification{}).Where("user_id = ?", u.ID).Pluck("notification_type", &kinds).Error)
	assert.ElementsMatch(t, []models.NotificationType{models.NotificationMissionCompleted, models.NotificationArtifactAcquired}, kinds)

	// completing a mission never promotes by itself
	assert.Equal(t, 0, f.reload(t, u.ID).Rank)
	ok, err := f.ranks.CanPromote(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.missions.Complete(ctx, nav.ID, u.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeMissionAlreadyComplete))
	assert.Equal(t, int64(600), f.reload(t, u.ID).Experience)

	_, err = f.missions.Start(ctx, nav.ID, u.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeMissionAlreadyComplete))
}

func TestCompleteMissionWithoutStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.mission(t, "Знакомство с экипажем", func(m *models.Mission) { m.ExperienceReward = 50 })
	u := f.user(t, "direct", nil)

	res, err := f.missions.Complete(ctx, m.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), res.User.Experience)
	assert.Nil(t, res.Artifact)

	list, err := f.missions.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Знакомство с экипажем", list[0].Mission.Name)
}

func TestMissionGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "guarded", nil)
	inactive := f.mission(t, "Архивная миссия", func(m *models.Mission) { m.IsActive = false })

	_, err := f.missions.Complete(ctx, inactive.ID, u.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeMissionInactive))

	_, err = f.missions.Complete(ctx, uuid.NewString(), u.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	m := f.mission(t, "Первый вылет", nil)
	_, err = f.missions.Start(ctx, m.ID, uuid.NewString())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateMissionNormalisesName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.missions.Create(ctx, dto.CreateMissionRequest{Name: "  Основы й навигации ", ExperienceReward: 10})
	require.NoError(t, err)
	assert.Equal(t, "Основы й навигации", m.Name)
	assert.NotEmpty(t, m.Slug)
	assert.True(t, m.IsActive)

	_, err = f.missions.Create(ctx, dto.CreateMissionRequest{Name: "Основы й навигации"})
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicateName))

	missing := uuid.NewString()
	_, err = f.missions.Create(ctx, dto.CreateMissionRequest{Name: "С артефактом", ArtifactID: &missing})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	list, err := f.missions.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
