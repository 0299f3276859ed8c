//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/color-whist/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetIdentity(id, name string) {
	m.Called(id, name)
}

func (m *MockClient) GetGame() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetGame(gameID string) {
	m.Called(gameID)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言的测试）。
// 房间的定时器和机器人会从其他 goroutine 投递消息，所以加了锁。
type SimpleClient struct {
	ID     string
	Name   string
	GameID string

	mu       sync.Mutex
	messages []*protocol.Message
}

func (m *SimpleClient) GetID() string              { return m.ID }
func (m *SimpleClient) GetName() string            { return m.Name }
func (m *SimpleClient) SetIdentity(id, name string) { m.ID, m.Name = id, name }
func (m *SimpleClient) GetGame() string            { return m.GameID }
func (m *SimpleClient) SetGame(gameID string)      { m.GameID = gameID }
func (m *SimpleClient) Close()                     {}

func (m *SimpleClient) SendMessage(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// Messages 返回已收到消息的副本
func (m *SimpleClient) Messages() []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*protocol.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// LastOfType 返回最后一条指定类型的消息，没有则为 nil
func (m *SimpleClient) LastOfType(t protocol.MessageType) *protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Type == t {
			return m.messages[i]
		}
	}
	return nil
}

// CountOfType 返回指定类型消息的数量
func (m *SimpleClient) CountOfType(t protocol.MessageType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.Type == t {
			n++
		}
	}
	return n
}
