package services

import (
	"context"
	"testing"

	"rank-progression-system/apperr"
	"rank-progression-system/dto"
	"rank-progression-system/models"
	"rank-progression-system/progression"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPromoteEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	nav := f.mission(t, "Основы навигации", nil)
	comp := f.competency(t, "Навигация")
	u := f.user(t, "cadet", func(u *models.User) { u.Experience = 600 })
	f.completed(t, u.ID, nav.ID)
	f.points(t, u.ID, comp.ID, 60)
	f.requirements(t, 1, 500, "Основы навигации", 50)

	ok, err := f.ranks.CanPromote(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	res, err := f.ranks.Promote(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.From.Level)
	assert.Equal(t, 1, res.To.Level)
	assert.Equal(t, "Кадет", res.To.Name)
	assert.Equal(t, 1, res.User.Rank)
	assert.Equal(t, 1, f.reload(t, u.ID).Rank)
}

func TestPromoteMovesExactlyOneLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "pilot", func(u *models.User) { u.Rank = 4; u.Experience = 100000 })
	f.requirements(t, 5, 100, "", 0)
	f.requirements(t, 6, 100, "", 0)

	res, err := f.ranks.Promote(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.To.Level)
	assert.Equal(t, 5, f.reload(t, u.ID).Rank)

	res, err = f.ranks.Promote(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, res.From.Level)
	assert.Equal(t, 6, res.To.Level)
}

func TestPromoteFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ranks.Promote(ctx, uuid.NewString())
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("terminal rank", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "admiral", func(u *models.User) { u.Rank = progression.MaxLevel })
		_, err := f.ranks.Promote(ctx, u.ID)
		assert.True(t, apperr.IsCode(err, apperr.CodeMaxRankReached))
		assert.Equal(t, progression.MaxLevel, f.reload(t, u.ID).Rank)
	})

	t.Run("missing requirements", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "seeker", nil)
		_, err := f.ranks.Promote(ctx, u.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.Equal(t, 0, f.reload(t, u.ID).Rank)
	})

	t.Run("inactive requirements", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "seeker", func(u *models.User) { u.Experience = 1000 })
		req := f.requirements(t, 1, 10, "", 0)
		require.NoError(t, f.db.Model(req).Update("is_active", false).Error)

		_, err := f.ranks.Promote(ctx, u.ID)
		assert.True(t, apperr.IsCode(err, apperr.CodeRequirementsInactive))
	})

	t.Run("required mission not completed", func(t *testing.T) {
		f := newFixture(t)
		u := f.user(t, "seeker", func(u *models.User) { u.Experience = 1000 })
		f.requirements(t, 1, 10, "Основы навигации", 0)

		_, err := f.ranks.Promote(ctx, u.ID)
		require.True(t, apperr.IsCode(err, apperr.CodeRequirementsNotMet))
		e, _ := apperr.As(err)
		require.Len(t, e.Details, 1)
		assert.Contains(t, e.Details[0], "Основы навигации")
		assert.Equal(t, 0, f.reload(t, u.ID).Rank)
	})

	t.Run("mission in progress does not count", func(t *testing.T) {
		f := newFixture(t)
		nav := f.mission(t, "Основы навигации", nil)
		u := f.user(t, "seeker", func(u *models.User) { u.Experience = 1000 })
		f.requirements(t, 1, 10, nav.Name, 0)
		_, err := f.missions.Start(ctx, nav.ID, u.ID)
		require.NoError(t, err)

		_, err = f.ranks.Promote(ctx, u.ID)
		assert.True(t, apperr.IsCode(err, apperr.CodeRequirementsNotMet))
	})
}

func TestPromoteCompetencyPolicies(t *testing.T) {
	ctx := context.Background()
	setup := func(t *testing.T, f *fixture) *models.User {
		a := f.competency(t, "Аналитика")
		b := f.competency(t, "Коммуникация")
		u := f.user(t, "split", func(u *models.User) { u.Experience = 1000 })
		f.points(t, u.ID, a.ID, 60)
		f.points(t, u.ID, b.ID, 50)
		f.requirements(t, 1, 0, "", 100)
		return u
	}

	t.Run("per competency", func(t *testing.T) {
		f := newFixture(t)
		u := setup(t, f)
		ok, err := f.ranks.CanPromote(ctx, u.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("summed", func(t *testing.T) {
		f := newFixtureWithPolicy(t, progression.SummedCompetencies)
		u := setup(t, f)
		ok, err := f.ranks.CanPromote(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCanPromoteIsReadOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "reader", func(u *models.User) { u.Experience = 900 })
	f.requirements(t, 1, 500, "", 0)
	before := f.reload(t, u.ID)

	for i := 0; i < 3; i++ {
		ok, err := f.ranks.CanPromote(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	after := f.reload(t, u.ID)
	assert.Equal(t, before.Rank, after.Rank)
	assert.Equal(t, before.Experience, after.Experience)
	assert.Zero(t, f.notificationCount(t, u.ID))
}

func TestCanPromoteBlockers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	top := f.user(t, "top", func(u *models.User) { u.Rank = progression.MaxLevel; u.Experience = 1 << 40 })
	ok, err := f.ranks.CanPromote(ctx, top.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	noReq := f.user(t, "noreq", func(u *models.User) { u.Rank = 3 })
	ok, err = f.ranks.CanPromote(ctx, noReq.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.ranks.CanPromote(ctx, uuid.NewString())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestPromoteLosesRaceWhenRankChanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "racer", func(u *models.User) { u.Experience = 1000 })
	f.requirements(t, 1, 0, "", 0)

	// another writer bumps the rank between evaluation and update
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:race", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			tx.Statement.ConnPool.ExecContext(tx.Statement.Context, "UPDATE users SET rank = 1 WHERE id = ?", u.ID)
		}
	}))

	_, err := f.ranks.Promote(ctx, u.ID)
	assert.True(t, apperr.IsCode(err, apperr.CodeRankChangedConcurrent))
	// the whole transaction, including the competing write, is rolled back
	assert.Equal(t, 0, f.reload(t, u.ID).Rank)
}

func TestRequirementsCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mission := "Основы навигации"
	created, err := f.ranks.CreateRequirements(ctx, dto.CreateRankRequirementsRequest{
		RankLevel:                1,
		RequiredExperience:       500,
		RequiredMissionName:      &mission,
		RequiredCompetencyPoints: 50,
		CompetencyNames:          []string{" Навигация ", ""},
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{"Навигация"}, []string(created.CompetencyNames))

	_, err = f.ranks.CreateRequirements(ctx, dto.CreateRankRequirementsRequest{RankLevel: 1})
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicateRequirements))

	_, err = f.ranks.CreateRequirements(ctx, dto.CreateRankRequirementsRequest{RankLevel: 11})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = f.ranks.CreateRequirements(ctx, dto.CreateRankRequirementsRequest{RankLevel: 0})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	byLevel, err := f.ranks.GetRequirementsByLevel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byLevel.ID)

	second, err := f.ranks.CreateRequirements(ctx, dto.CreateRankRequirementsRequest{RankLevel: 2, RequiredExperience: 1500})
	require.NoError(t, err)

	clash := 1
	_, err = f.ranks.UpdateRequirements(ctx, second.ID, dto.UpdateRankRequirementsRequest{RankLevel: &clash})
	assert.True(t, apperr.IsCode(err, apperr.CodeDuplicateRequirements))

	exp := int64(2000)
	empty := ""
	updated, err := f.ranks.UpdateRequirements(ctx, created.ID, dto.UpdateRankRequirementsRequest{
		RequiredExperience:  &exp,
		RequiredMissionName: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), updated.RequiredExperience)
	assert.Nil(t, updated.RequiredMissionName)

	deactivated, err := f.ranks.DeactivateRequirements(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	stored, err := f.ranks.GetRequirements(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	list, err := f.ranks.ListRequirements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].RankLevel)
	assert.Equal(t, 2, list[1].RankLevel)

	_, err = f.ranks.GetRequirements(ctx, uuid.NewString())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = f.ranks.GetRequirementsByLevel(ctx, 7)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCreateRequirementsInactiveIsKept(t *testing.T) {
	f := newFixture(t)
	inactive := false
	req, err := f.ranks.CreateRequirements(context.Background(), dto.CreateRankRequirementsRequest{RankLevel: 3, IsActive: &inactive})
	require.NoError(t, err)

	stored, err := f.ranks.GetRequirements(context.Background(), req.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
