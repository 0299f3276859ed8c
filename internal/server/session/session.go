package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/palemoky/color-whist/internal/apperrors"
)

// PlayerSession 玩家会话：不透明令牌绑定 {房间, 玩家}，
// 服务端记录签发时间，宽限期内凭令牌可以重连回原座位。
type PlayerSession struct {
	Token      string
	PlayerID   string
	PlayerName string
	GameID     string
	IssuedAt   time.Time
}

// Manager 会话管理器。casual 模式的房间不签发令牌。
type Manager struct {
	grace    time.Duration
	sessions map[string]*PlayerSession // token -> session
	byPlayer map[string]string         // playerID -> token
	mu       sync.RWMutex

	stopCh chan struct{}
}

// nowFunc 便于测试替换时间
var nowFunc = time.Now

// NewManager 创建会话管理器并启动清理协程
func NewManager(grace time.Duration) *Manager {
	m := &Manager{
		grace:    grace,
		sessions: make(map[string]*PlayerSession),
		byPlayer: make(map[string]string),
		stopCh:   make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Issue 签发重连令牌。同一玩家重复签发时旧令牌作废。
func (m *Manager) Issue(gameID, playerID, playerName string) *PlayerSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byPlayer[playerID]; ok {
		delete(m.sessions, old)
	}

	s := &PlayerSession{
		Token:      generateToken(),
		PlayerID:   playerID,
		PlayerName: playerName,
		GameID:     gameID,
		IssuedAt:   nowFunc(),
	}
	m.sessions[s.Token] = s
	m.byPlayer[playerID] = s.Token
	return s
}

// Validate 校验令牌。未知令牌或签发时间超出宽限期都算过期，
// 过期的会话同时被清除，客户端应回到大厅重新匹配。
func (m *Manager) Validate(token string) (*PlayerSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, apperrors.ErrSessionExpired
	}
	if nowFunc().Sub(s.IssuedAt) > m.grace {
		delete(m.sessions, token)
		delete(m.byPlayer, s.PlayerID)
		return nil, apperrors.ErrSessionExpired
	}
	return s, nil
}

// Clear 清除令牌（游戏结束或重连被拒绝后）
func (m *Manager) Clear(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[token]; ok {
		delete(m.byPlayer, s.PlayerID)
		delete(m.sessions, token)
	}
}

// ClearPlayer 清除某玩家的会话
func (m *Manager) ClearPlayer(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token, ok := m.byPlayer[playerID]; ok {
		delete(m.sessions, token)
		delete(m.byPlayer, playerID)
	}
}

// Shutdown 停止清理协程
func (m *Manager) Shutdown() {
	close(m.stopCh)
}

// cleanupLoop 定期清理过期会话
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
		}

		m.mu.Lock()
		now := nowFunc()
		for token, s := range m.sessions {
			if now.Sub(s.IssuedAt) > m.grace {
				delete(m.sessions, token)
				delete(m.byPlayer, s.PlayerID)
			}
		}
		m.mu.Unlock()
	}
}

func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
