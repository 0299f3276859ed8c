package handler

import (
	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/game/room"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/types"
)

// handleCreateGame 处理创建房间
func (h *Handler) handleCreateGame(client types.ClientInterface, msg *protocol.Message) {
	// 维护模式检查
	if h.server.IsMaintenanceMode() {
		client.SendMessage(protocol.NewErrorMessageWithText(
			protocol.ErrCodeUnknown, "服务器维护中，暂停创建房间"))
		return
	}

	payload, err := protocol.ParsePayload[protocol.CreateGamePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 如果已在房间中，先离开
	h.leaveCurrentRoom(client)

	r, err := h.server.GetRoomManager().CreateRoom(client, room.Mode(payload.Mode))
	if err != nil {
		sendError(client, err)
		return
	}

	resp := protocol.GameCreatedPayload{
		GameID: r.ID,
		Mode:   string(r.Mode),
		Player: protocol.PlayerInfo{ID: client.GetID(), Name: client.GetName(), Seat: -1, Connected: true},
	}
	// ranked 模式签发重连令牌
	if r.Mode == room.ModeRanked {
		sess := h.server.GetSessionManager().Issue(r.ID, client.GetID(), client.GetName())
		resp.ReconnectToken = sess.Token
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgGameCreated, resp))
}

// handleJoinGame 处理加入房间（玩家或观战者）
func (h *Handler) handleJoinGame(client types.ClientInterface, msg *protocol.Message) {
	if h.server.IsMaintenanceMode() {
		client.SendMessage(protocol.NewErrorMessageWithText(
			protocol.ErrCodeUnknown, "服务器维护中，暂停加入房间"))
		return
	}

	payload, err := protocol.ParsePayload[protocol.JoinGamePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.server.GetRoomManager().GetRoom(payload.GameID)
	if r == nil {
		sendError(client, apperrors.ErrRoomNotFound)
		return
	}

	h.leaveCurrentRoom(client)

	if payload.Spectator {
		if err := r.Spectate(client); err != nil {
			sendError(client, err)
			return
		}
		client.SendMessage(protocol.MustNewMessage(protocol.MsgGameJoined, protocol.GameJoinedPayload{
			GameID:    r.ID,
			Player:    protocol.PlayerInfo{ID: client.GetID(), Name: client.GetName(), Seat: -1},
			Players:   r.PlayersInfo(),
			Spectator: true,
		}))
		return
	}

	if err := r.Join(client); err != nil {
		sendError(client, err)
		return
	}

	resp := protocol.GameJoinedPayload{
		GameID:  r.ID,
		Player:  protocol.PlayerInfo{ID: client.GetID(), Name: client.GetName(), Seat: -1, Connected: true},
		Players: r.PlayersInfo(),
	}
	if r.Mode == room.ModeRanked {
		sess := h.server.GetSessionManager().Issue(r.ID, client.GetID(), client.GetName())
		resp.ReconnectToken = sess.Token
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgGameJoined, resp))
}

// handleLeaveGame 处理主动离开房间
func (h *Handler) handleLeaveGame(client types.ClientInterface) {
	h.leaveCurrentRoom(client)
}

// leaveCurrentRoom 把客户端从当前房间移出（含令牌作废）
func (h *Handler) leaveCurrentRoom(client types.ClientInterface) {
	r := h.roomOf(client)
	if r == nil {
		client.SetGame("")
		return
	}
	r.Leave(client.GetID())
	h.server.GetSessionManager().ClearPlayer(client.GetID())
	client.SetGame("")
}

// handleSelectTeam 处理选择队伍
func (h *Handler) handleSelectTeam(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SelectTeamPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.SelectTeam(client.GetID(), payload.Team); err != nil {
		sendError(client, err)
	}
}

// handleAddBot 处理添加机器人
func (h *Handler) handleAddBot(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.AddBotPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.AddBot(client.GetID(), payload.Team); err != nil {
		sendError(client, err)
	}
}

// handleStartGame 处理开始游戏（仅房主）
func (h *Handler) handleStartGame(client types.ClientInterface) {
	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.Start(client.GetID()); err != nil {
		sendError(client, err)
	}
}

// handleGetRoomList 处理获取房间列表
func (h *Handler) handleGetRoomList(client types.ClientInterface) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomListResult, protocol.RoomListResultPayload{
		Rooms: h.server.GetRoomManager().GetRoomList(),
	}))
}

// handleRequestSwap 处理换座请求
func (h *Handler) handleRequestSwap(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.RequestSwapPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	targetSeat := -1
	if payload.TargetSeat != nil {
		targetSeat = *payload.TargetSeat
	}
	if err := r.RequestSwap(client.GetID(), payload.TargetPlayerID, targetSeat); err != nil {
		sendError(client, err)
	}
}

// handleRespondSwap 处理换座回应
func (h *Handler) handleRespondSwap(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.RespondSwapPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.RespondSwap(client.GetID(), payload.Accept); err != nil {
		sendError(client, err)
	}
}
