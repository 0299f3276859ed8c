package handler

import (
	"log"
	"time"

	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/types"
)

// handlePing 处理心跳
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleReconnect 处理断线重连。令牌有效且对局还在进行时，
// 新连接继承原玩家身份回到座位上。
func (h *Handler) handleReconnect(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.ReconnectPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	sessions := h.server.GetSessionManager()
	sess, err := sessions.Validate(payload.Token)
	if err != nil {
		sendError(client, err)
		return
	}

	r := h.server.GetRoomManager().GetRoom(sess.GameID)
	if r == nil || r.Closed() {
		// 对局已经不在了，令牌随之作废
		sessions.Clear(payload.Token)
		sendError(client, apperrors.ErrSessionExpired.WithReason("对局已结束"))
		return
	}

	oldID, oldName := client.GetID(), client.GetName()
	client.SetIdentity(sess.PlayerID, sess.PlayerName)

	state, err := r.Rebind(sess.PlayerID, client)
	if err != nil {
		// 座位已经没了（对局结束或被移除），恢复临时身份
		client.SetIdentity(oldID, oldName)
		sessions.Clear(payload.Token)
		sendError(client, err)
		return
	}

	h.server.RehomeClient(oldID, client)
	client.SetGame(sess.GameID)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgReconnected, protocol.ReconnectedPayload{
		PlayerID:   sess.PlayerID,
		PlayerName: sess.PlayerName,
		GameID:     sess.GameID,
		GameState:  state,
	}))

	log.Printf("🔄 玩家 %s 重连回房间 %s", sess.PlayerName, sess.GameID)
}
