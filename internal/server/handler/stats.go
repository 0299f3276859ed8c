package handler

import (
	"context"
	"time"

	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/types"
)

const statsQueryTimeout = 3 * time.Second

// handleGetStats 处理获取个人统计
func (h *Handler) handleGetStats(client types.ClientInterface) {
	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	stats, err := h.server.GetLeaderboard().GetPlayerStats(ctx, client.GetID())
	if err != nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "查询统计失败"))
		return
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
		Stats: stats,
	}))
}

// handleGetLeaderboard 处理获取排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	limit := payload.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := payload.Offset
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsQueryTimeout)
	defer cancel()

	entries, err := h.server.GetLeaderboard().GetLeaderboard(ctx, offset, limit)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "查询排行榜失败"))
		return
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{
		Entries: entries,
	}))
}
