package handler

import (
	"errors"
	"log"

	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/game/room"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/server/session"
	"github.com/palemoky/color-whist/internal/server/storage"
	"github.com/palemoky/color-whist/internal/types"
)

// ServerContext 服务器上下文接口 - 避免循环依赖
type ServerContext interface {
	GetRoomManager() *room.RoomManager
	GetSessionManager() *session.Manager
	GetLeaderboard() *storage.LeaderboardManager
	IsMaintenanceMode() bool
	GetOnlineCount() int
	RehomeClient(oldID string, client types.ClientInterface)
}

// Handler 消息处理器
type Handler struct {
	server ServerContext
}

// NewHandler 创建处理器
func NewHandler(s ServerContext) *Handler {
	return &Handler{server: s}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	switch msg.Type {
	// 连接操作
	case protocol.MsgPing:
		h.handlePing(client, msg)
	case protocol.MsgReconnect:
		h.handleReconnect(client, msg)

	// 房间操作
	case protocol.MsgCreateGame:
		h.handleCreateGame(client, msg)
	case protocol.MsgJoinGame:
		h.handleJoinGame(client, msg)
	case protocol.MsgLeaveGame:
		h.handleLeaveGame(client)
	case protocol.MsgSelectTeam:
		h.handleSelectTeam(client, msg)
	case protocol.MsgAddBot:
		h.handleAddBot(client, msg)
	case protocol.MsgStartGame:
		h.handleStartGame(client)
	case protocol.MsgGetRoomList:
		h.handleGetRoomList(client)

	// 游戏操作
	case protocol.MsgPlaceBet:
		h.handlePlaceBet(client, msg)
	case protocol.MsgSkipBet:
		h.handleSkipBet(client)
	case protocol.MsgPlayCard:
		h.handlePlayCard(client, msg)
	case protocol.MsgRequestSwap:
		h.handleRequestSwap(client, msg)
	case protocol.MsgRespondSwap:
		h.handleRespondSwap(client, msg)
	case protocol.MsgToggleAutoplay:
		h.handleToggleAutoplay(client, msg)

	// 排行榜操作
	case protocol.MsgGetStats:
		h.handleGetStats(client)
	case protocol.MsgGetLeaderboard:
		h.handleGetLeaderboard(client, msg)

	// 运维操作
	case protocol.MsgOpsForceState:
		h.handleOpsForceState(client, msg)

	default:
		log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// sendError 把错误翻译成带错误码的协议消息
func sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// roomOf 找到客户端当前所在的房间
func (h *Handler) roomOf(client types.ClientInterface) *room.Room {
	gameID := client.GetGame()
	if gameID == "" {
		return nil
	}
	return h.server.GetRoomManager().GetRoom(gameID)
}
