package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey    = "player:stats:"
	leaderboardKey    = "leaderboard:score"
	dailyLeaderboard  = "leaderboard:daily:"
	weeklyLeaderboard = "leaderboard:weekly:"
	matchHistoryKey   = "player:history:"

	// 每人保留的对局记录条数
	maxMatchHistory = 50
)

// MatchRecord 单场对局记录
type MatchRecord struct {
	Won         bool  `json:"won"`
	Exploded    bool  `json:"exploded"`
	ScoreChange int   `json:"score_change"`
	PlayedAt    int64 `json:"played_at"`
}

// PlayerStats 玩家统计数据
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	TotalGames int `json:"total_games"` // 总场次
	Wins       int `json:"wins"`        // 吃鸡场次
	Losses     int `json:"losses"`      // 败场
	Explosions int `json:"explosions"`  // 被炸出局次数

	// 积分
	Score int `json:"score"`

	// 连胜/连败
	CurrentStreak int `json:"current_streak"` // 正数为连胜，负数为连败
	MaxWinStreak  int `json:"max_win_streak"` // 最大连胜

	LastPlayedAt int64 `json:"last_played_at"` // 最后游戏时间
	CreatedAt    int64 `json:"created_at"`     // 首次游戏时间
}

// 积分规则
const (
	WinScore      = 20  // 存活到最后
	LoseScore     = -5  // 中途离场
	ExplodedScore = -10 // 被炸出局

	// 连胜加成
	StreakBonus3  = 5  // 3 连胜加成
	StreakBonus5  = 10 // 5 连胜加成
	StreakBonus10 = 20 // 10 连胜加成
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardManager 排行榜管理器
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// GetPlayerStats 获取玩家统计，无记录时返回 nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	key := playerStatsKey + playerID
	data, err := lm.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SavePlayerStats 保存玩家统计
func (lm *LeaderboardManager) SavePlayerStats(ctx context.Context, stats *PlayerStats) error {
	key := playerStatsKey + stats.PlayerID
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lm.redis.Set(ctx, key, data, 0).Err()
}

// getOrCreateStats 获取或创建玩家统计
func (lm *LeaderboardManager) getOrCreateStats(ctx context.Context, playerID, playerName string) (*PlayerStats, error) {
	stats, err := lm.GetPlayerStats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return &PlayerStats{
			PlayerID:   playerID,
			PlayerName: playerName,
			CreatedAt:  time.Now().Unix(),
		}, nil
	}
	return stats, nil
}

// updateWinLossStats 更新胜负统计和连胜/连败
func updateWinLossStats(stats *PlayerStats, won bool) {
	if won {
		stats.Wins++
		stats.CurrentStreak = max(1, stats.CurrentStreak+1)
	} else {
		stats.Losses++
		stats.CurrentStreak = min(-1, stats.CurrentStreak-1)
	}

	if stats.CurrentStreak > stats.MaxWinStreak {
		stats.MaxWinStreak = stats.CurrentStreak
	}
}

// calculateStreakBonus 计算连胜加成
func calculateStreakBonus(streak int) int {
	switch {
	case streak >= 10:
		return StreakBonus10
	case streak >= 5:
		return StreakBonus5
	case streak >= 3:
		return StreakBonus3
	default:
		return 0
	}
}

// RecordMatchResult 记录一场比赛的结果。
// exploded 表示该玩家是被爆炸猫炸出局（区别于中途退出）。
func (lm *LeaderboardManager) RecordMatchResult(ctx context.Context, playerID, playerName string, won, exploded bool) error {
	stats, err := lm.getOrCreateStats(ctx, playerID, playerName)
	if err != nil {
		return err
	}

	stats.PlayerName = playerName
	stats.TotalGames++
	stats.LastPlayedAt = time.Now().Unix()

	var scoreChange int
	switch {
	case won:
		scoreChange = WinScore
	case exploded:
		stats.Explosions++
		scoreChange = ExplodedScore
	default:
		scoreChange = LoseScore
	}

	updateWinLossStats(stats, won)
	scoreChange += calculateStreakBonus(stats.CurrentStreak)
	stats.Score = max(0, stats.Score+scoreChange)

	if err := lm.SavePlayerStats(ctx, stats); err != nil {
		return err
	}
	if err := lm.appendMatchHistory(ctx, playerID, MatchRecord{
		Won:         won,
		Exploded:    exploded,
		ScoreChange: scoreChange,
		PlayedAt:    stats.LastPlayedAt,
	}); err != nil {
		return err
	}
	return lm.UpdateLeaderboard(ctx, stats)
}

// appendMatchHistory 追加一条对局记录，只保留最近 maxMatchHistory 条
func (lm *LeaderboardManager) appendMatchHistory(ctx context.Context, playerID string, record MatchRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := matchHistoryKey + playerID
	if err := lm.redis.LPush(ctx, key, data).Err(); err != nil {
		return err
	}
	return lm.redis.LTrim(ctx, key, 0, maxMatchHistory-1).Err()
}

// GetMatchHistory 获取最近 limit 条对局记录（新的在前）
func (lm *LeaderboardManager) GetMatchHistory(ctx context.Context, playerID string, limit int) ([]*MatchRecord, error) {
	if limit <= 0 || limit > maxMatchHistory {
		limit = maxMatchHistory
	}
	items, err := lm.redis.LRange(ctx, matchHistoryKey+playerID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*MatchRecord, 0, len(items))
	for _, item := range items {
		var r MatchRecord
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, nil
}

// UpdateLeaderboard 更新总榜、日榜、周榜
func (lm *LeaderboardManager) UpdateLeaderboard(ctx context.Context, stats *PlayerStats) error {
	member := redis.Z{
		Score:  float64(stats.Score),
		Member: stats.PlayerID,
	}

	if err := lm.redis.ZAdd(ctx, leaderboardKey, member).Err(); err != nil {
		return err
	}

	// 每日排行榜，保留 2 天
	today := time.Now().Format("2006-01-02")
	dailyKey := dailyLeaderboard + today
	if err := lm.redis.ZAdd(ctx, dailyKey, member).Err(); err != nil {
		return err
	}
	lm.redis.Expire(ctx, dailyKey, 48*time.Hour)

	// 每周排行榜，保留 8 天
	year, week := time.Now().ISOWeek()
	weeklyKey := fmt.Sprintf("%s%d-W%02d", weeklyLeaderboard, year, week)
	if err := lm.redis.ZAdd(ctx, weeklyKey, member).Err(); err != nil {
		return err
	}
	lm.redis.Expire(ctx, weeklyKey, 8*24*time.Hour)

	return nil
}

// GetLeaderboard 获取总榜前 limit 名（从高到低）
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	results, err := lm.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(results))
	for i, result := range results {
		playerID, ok := result.Member.(string)
		if !ok {
			continue
		}

		stats, err := lm.GetPlayerStats(ctx, playerID)
		if err != nil || stats == nil {
			continue
		}

		winRate := 0.0
		if stats.TotalGames > 0 {
			winRate = float64(stats.Wins) / float64(stats.TotalGames) * 100
		}

		entries = append(entries, &LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   playerID,
			PlayerName: stats.PlayerName,
			Score:      int(result.Score),
			Wins:       stats.Wins,
			WinRate:    winRate,
		})
	}

	return entries, nil
}

// GetPlayerRank 获取玩家排名，未上榜返回 -1
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil
		}
		return -1, err
	}
	return rank + 1, nil // Redis 排名从 0 开始
}
