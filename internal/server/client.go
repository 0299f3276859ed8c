package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/color-whist/internal/logger"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096
)

// Client 代表一个连接的玩家
type Client struct {
	id     string
	name   string
	gameID string // 当前所在房间 ID
	IP     string // 客户端 IP 地址

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		id:     uuid.New().String(),
		name:   GenerateNickname(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// GetID 获取玩家 ID
func (c *Client) GetID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// GetName 获取玩家昵称
func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetIdentity 重连时继承原会话的身份
func (c *Client) SetIdentity(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
	c.name = name
}

// GetGame 获取所在房间 ID
func (c *Client) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

// SetGame 设置所在房间 ID
func (c *Client) SetGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
}

// ReadPump 从 WebSocket 读取消息
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] ReadPump panic recovered: %v", r)
		}
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("读取错误: %v", err)
			}
			break
		}

		msg := codec.GetMessage()
		if err := protocol.DecodeInto(message, msg); err != nil {
			codec.PutMessage(msg)
			log.Printf("消息解析错误: %v", err)
			c.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		// Handle 同步处理完毕后消息即可归还池中
		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			log.Printf("[PANIC] WritePump panic recovered: %v", r)
		}
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage 发送消息给客户端
func (c *Client) SendMessage(msg *protocol.Message) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	c.mu.RUnlock()

	buf := codec.GetBuffer()
	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		codec.PutBuffer(buf)
		log.Printf("消息编码错误: %v", err)
		return
	}
	// Encoder 会追加换行符，复制时去掉
	data := make([]byte, buf.Len()-1)
	copy(data, buf.Bytes())
	codec.PutBuffer(buf)

	select {
	case c.send <- data:
	default:
		// 发送缓冲区已满，关闭连接
		log.Printf("客户端 %s 发送缓冲区已满", c.GetID())
		c.Close()
	}
}

// handleDisconnect 处理断开连接
func (c *Client) handleDisconnect() {
	// 如果在房间中，交给房间决定是挂起还是移除
	if gameID := c.GetGame(); gameID != "" {
		if room := c.server.roomManager.GetRoom(gameID); room != nil {
			room.HandleDisconnect(c.GetID())
		}
	}

	// 从服务器注销连接（ranked 会话保留，等待重连）
	c.server.unregisterClient(c)
}

// Close 关闭客户端连接
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
