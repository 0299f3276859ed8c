package handler

import (
	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/types"
)

// handlePlaceBet 处理叫分
func (h *Handler) handlePlaceBet(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PlaceBetPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.PlaceBet(client.GetID(), payload.Amount, payload.WithoutTrump); err != nil {
		sendError(client, err)
	}
}

// handleSkipBet 处理放弃叫分
func (h *Handler) handleSkipBet(client types.ClientInterface) {
	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.SkipBet(client.GetID()); err != nil {
		sendError(client, err)
	}
}

// handlePlayCard 处理出牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PlayCardPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	c, err := protocol.InfoToCard(payload.Card)
	if err != nil {
		sendError(client, apperrors.ErrInvalidPlay.WithReason("%v", err))
		return
	}
	if err := r.PlayCard(client.GetID(), c); err != nil {
		sendError(client, err)
	}
}

// handleToggleAutoplay 处理托管开关
func (h *Handler) handleToggleAutoplay(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ToggleAutoplayPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.ToggleAutoplay(client.GetID(), payload.Enabled); err != nil {
		sendError(client, err)
	}
}

// handleOpsForceState 处理运维强制状态（仅测试环境开启）
func (h *Handler) handleOpsForceState(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.OpsForceStatePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	r := h.roomOf(client)
	if r == nil {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}
	if err := r.ForceState(payload.Team1Score, payload.Team2Score, payload.Phase); err != nil {
		sendError(client, err)
	}
}
