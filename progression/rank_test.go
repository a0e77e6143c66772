package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankByLevelRoundTrips(t *testing.T) {
	for level := StartLevel; level <= MaxLevel; level++ {
		r, err := RankByLevel(level)
		require.NoError(t, err)
		assert.Equal(t, level, r.Level)
		assert.NotEmpty(t, r.Name)
	}
}

func TestRankByLevelRejectsUnknown(t *testing.T) {
	for _, level := range []int{-1, 11, 100} {
		_, err := RankByLevel(level)
		assert.Error(t, err, "level %d", level)
	}
}

func TestRankByLevelOrDefaultFallsBackToStart(t *testing.T) {
	for _, level := range []int{-5, 11, 1 << 20} {
		assert.NotPanics(t, func() {
			assert.Equal(t, StartLevel, RankByLevelOrDefault(level).Level)
		})
	}
	assert.Equal(t, 7, RankByLevelOrDefault(7).Level)
}

func TestCatalogShape(t *testing.T) {
	ranks := Ranks()
	require.Len(t, ranks, MaxLevel+1)

	finals := RanksByBranch(BranchFinal)
	require.Len(t, finals, 1)
	assert.Equal(t, MaxLevel, finals[0].Level)
	assert.Equal(t, BranchGeneral, ranks[StartLevel].Branch)

	seen := map[string]bool{}
	for i, r := range ranks {
		assert.Equal(t, i, r.Level)
		assert.False(t, seen[r.Code], "duplicate code %s", r.Code)
		seen[r.Code] = true
	}
}

func TestRanksIsACopy(t *testing.T) {
	ranks := Ranks()
	ranks[0].Name = "changed"
	assert.NotEqual(t, "changed", Ranks()[0].Name)
}

func TestNextStopsAtTerminal(t *testing.T) {
	r := RankByLevelOrDefault(9)
	next, ok := r.Next()
	require.True(t, ok)
	assert.Equal(t, 10, next.Level)
	assert.True(t, next.IsTerminal())

	_, ok = next.Next()
	assert.False(t, ok)
}

func TestRankByName(t *testing.T) {
	r, ok := RankByName("cadet")
	require.True(t, ok)
	assert.Equal(t, 1, r.Level)

	r, ok = RankByName("Адмирал галактики")
	require.True(t, ok)
	assert.Equal(t, 10, r.Level)

	_, ok = RankByName("nobody")
	assert.False(t, ok)
}

func TestParseBranch(t *testing.T) {
	b, ok := ParseBranch("communication-leadership")
	require.True(t, ok)
	assert.Equal(t, BranchCommunicationLeadership, b)

	_, ok = ParseBranch("space")
	assert.False(t, ok)
}
