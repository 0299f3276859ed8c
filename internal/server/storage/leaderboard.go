package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey = "player:stats:"
	leaderboardKey = "leaderboard:rating"

	recordTimeout = 3 * time.Second
)

// 积分规则：胜 +25，负 −18，连胜有小幅加成
const (
	RatingWin    = 25
	RatingLoss   = -18
	StreakBonus3 = 5  // 3 连胜加成
	StreakBonus5 = 10 // 5 连胜加成
)

// PlayerStats 玩家统计数据
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	TotalGames int `json:"total_games"` // 总场次
	Wins       int `json:"wins"`        // 胜场
	Losses     int `json:"losses"`      // 败场

	Rating int `json:"rating"` // 当前积分

	CurrentStreak int `json:"current_streak"` // 正数为连胜，负数为连败
	MaxWinStreak  int `json:"max_win_streak"` // 最大连胜

	LastPlayedAt int64 `json:"last_played_at"` // 最后游戏时间
	CreatedAt    int64 `json:"created_at"`     // 首次游戏时间
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Rating     int     `json:"rating"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardManager 战绩与排行榜管理器。
// 实现 room.ResultRecorder，ranked 房间终局时写入。
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// RecordGameResult 记录一场胜负并更新积分
func (lm *LeaderboardManager) RecordGameResult(playerID, playerName string, win bool) {
	if lm == nil || lm.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	stats, err := lm.getStats(ctx, playerID)
	if err != nil {
		log.Printf("读取玩家统计失败: %v", err)
		return
	}
	now := time.Now().Unix()
	if stats == nil {
		stats = &PlayerStats{PlayerID: playerID, CreatedAt: now}
	}
	stats.PlayerName = playerName
	stats.TotalGames++
	stats.LastPlayedAt = now

	delta := RatingLoss
	if win {
		stats.Wins++
		if stats.CurrentStreak < 0 {
			stats.CurrentStreak = 0
		}
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.MaxWinStreak {
			stats.MaxWinStreak = stats.CurrentStreak
		}
		delta = RatingWin
		switch {
		case stats.CurrentStreak >= 5:
			delta += StreakBonus5
		case stats.CurrentStreak >= 3:
			delta += StreakBonus3
		}
	} else {
		stats.Losses++
		if stats.CurrentStreak > 0 {
			stats.CurrentStreak = 0
		}
		stats.CurrentStreak--
	}

	stats.Rating += delta
	if stats.Rating < 0 {
		stats.Rating = 0
	}

	if err := lm.saveStats(ctx, stats); err != nil {
		log.Printf("保存玩家统计失败: %v", err)
		return
	}
	if err := lm.redis.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(stats.Rating),
		Member: playerID,
	}).Err(); err != nil {
		log.Printf("更新排行榜失败: %v", err)
	}
}

// GetPlayerStats 获取玩家统计
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	return lm.getStats(ctx, playerID)
}

// GetLeaderboard 按积分获取排行榜
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, offset, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	ids, err := lm.redis.ZRevRange(ctx, leaderboardKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		stats, err := lm.getStats(ctx, id)
		if err != nil || stats == nil {
			continue
		}
		winRate := 0.0
		if stats.TotalGames > 0 {
			winRate = float64(stats.Wins) / float64(stats.TotalGames)
		}
		entries = append(entries, LeaderboardEntry{
			Rank:       offset + i + 1,
			PlayerID:   stats.PlayerID,
			PlayerName: stats.PlayerName,
			Rating:     stats.Rating,
			Wins:       stats.Wins,
			WinRate:    winRate,
		})
	}
	return entries, nil
}

func (lm *LeaderboardManager) getStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	data, err := lm.redis.Get(ctx, playerStatsKey+playerID).Bytes()
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

func (lm *LeaderboardManager) saveStats(ctx context.Context, stats *PlayerStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return lm.redis.Set(ctx, playerStatsKey+stats.PlayerID, data, 0).Err()
}
