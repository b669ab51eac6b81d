package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestLeaderboardManager(t *testing.T) (*LeaderboardManager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	lm := NewLeaderboardManager(client)
	return lm, mr
}

func TestLeaderboard_RecordMatchResult_NewPlayer(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// Winner survives the match
	err := lm.RecordMatchResult(ctx, "p1", "Player1", true, false)
	assert.NoError(t, err)

	stats, err := lm.GetPlayerStats(ctx, "p1")
	assert.NoError(t, err)

	assert.Equal(t, "p1", stats.PlayerID)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 0, stats.Explosions)
	assert.Equal(t, 20, stats.Score) // WinScore = 20
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestLeaderboard_RecordMatchResult_Exploded(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// Initial win -> Score 20
	err := lm.RecordMatchResult(ctx, "p1", "Player1", true, false)
	assert.NoError(t, err)

	// Then exploded -> Score 20 - 10 = 10
	err = lm.RecordMatchResult(ctx, "p1", "Player1", false, true)
	assert.NoError(t, err)

	stats, err := lm.GetPlayerStats(ctx, "p1")
	assert.NoError(t, err)

	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.Explosions)
	assert.Equal(t, 10, stats.Score)
	assert.Equal(t, -1, stats.CurrentStreak)
}

func TestLeaderboard_ScoreFloorsAtZero(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// Exploding with no prior score cannot go negative
	err := lm.RecordMatchResult(ctx, "p1", "Player1", false, true)
	assert.NoError(t, err)

	stats, err := lm.GetPlayerStats(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Score)
}

func TestLeaderboard_StreakBonus(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// 1st: 20, streak 1
	// 2nd: 40, streak 2
	// 3rd: 40 + 20 + 5 = 65, streak 3
	for i := 0; i < 3; i++ {
		err := lm.RecordMatchResult(ctx, "p1", "Player1", true, false)
		assert.NoError(t, err)
	}

	stats, err := lm.GetPlayerStats(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, 65, stats.Score)
	assert.Equal(t, 3, stats.CurrentStreak)
}

func TestLeaderboard_GetLeaderboard(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// p1: Score 20, p2: Score 0
	err := lm.RecordMatchResult(ctx, "p1", "Player1", true, false)
	assert.NoError(t, err)
	err = lm.RecordMatchResult(ctx, "p2", "Player2", false, true)
	assert.NoError(t, err)

	entries, err := lm.GetLeaderboard(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Equal(t, "p1", entries[0].PlayerID) // Rank 1
	assert.Equal(t, 20, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "p2", entries[1].PlayerID) // Rank 2
	assert.Equal(t, 0, entries[1].Score)
}

func TestLeaderboard_GetPlayerRank(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	err := lm.RecordMatchResult(ctx, "p1", "Player1", true, false) // Score 20
	assert.NoError(t, err)
	err = lm.RecordMatchResult(ctx, "p2", "Player2", false, true) // Score 0
	assert.NoError(t, err)

	rank, err := lm.GetPlayerRank(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rank)

	rank, err = lm.GetPlayerRank(ctx, "p2")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	rank, err = lm.GetPlayerRank(ctx, "p3")
	assert.NoError(t, err)
	assert.Equal(t, int64(-1), rank) // 未上榜
}

func TestLeaderboard_GetPlayerStats_Missing(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()

	stats, err := lm.GetPlayerStats(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, stats)
}

func TestLeaderboard_MatchHistory(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// One win, one explosion
	assert.NoError(t, lm.RecordMatchResult(ctx, "p1", "Player1", true, false))
	assert.NoError(t, lm.RecordMatchResult(ctx, "p1", "Player1", false, true))

	records, err := lm.GetMatchHistory(ctx, "p1", 10)
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	// Newest first
	assert.False(t, records[0].Won)
	assert.True(t, records[0].Exploded)
	assert.True(t, records[1].Won)
	assert.Equal(t, 20, records[1].ScoreChange) // WinScore = 20
}

func TestLeaderboard_MatchHistory_Capped(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	for i := 0; i < maxMatchHistory+10; i++ {
		assert.NoError(t, lm.RecordMatchResult(ctx, "p1", "Player1", false, false))
	}

	records, err := lm.GetMatchHistory(ctx, "p1", 0)
	assert.NoError(t, err)
	assert.Len(t, records, maxMatchHistory)
}
