package types

import "github.com/palemoky/color-whist/internal/protocol"

// ClientInterface 连接抽象，方便测试时用 mock 替代真实 WebSocket 连接
type ClientInterface interface {
	GetID() string
	GetName() string
	SetIdentity(id, name string) // 重连时继承原会话身份
	GetGame() string
	SetGame(gameID string)
	SendMessage(msg *protocol.Message)
	Close()
}
