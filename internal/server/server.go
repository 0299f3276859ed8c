package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/color-whist/internal/config"
	"github.com/palemoky/color-whist/internal/game/room"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/server/handler"
	"github.com/palemoky/color-whist/internal/server/session"
	"github.com/palemoky/color-whist/internal/server/storage"
	"github.com/palemoky/color-whist/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
	EnableCompression: false,
}

// Server WebSocket 服务器
type Server struct {
	config         *config.Config
	redis          *redis.Client
	redisStore     *storage.RedisStore
	leaderboard    *storage.LeaderboardManager
	roomManager    *room.RoomManager
	sessionManager *session.Manager
	clients        map[string]*Client
	clientsMu      sync.RWMutex
	handler        *handler.Handler

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	httpServer *http.Server
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	s := &Server{
		config:         cfg,
		redis:          rdb,
		redisStore:     storage.NewRedisStore(rdb),
		leaderboard:    storage.NewLeaderboardManager(rdb),
		clients:        make(map[string]*Client),
		sessionManager: session.NewManager(cfg.Game.ReconnectGraceDuration()),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
	}

	s.roomManager = room.NewRoomManager(cfg, s.redisStore, s.leaderboard)
	s.handler = handler.NewHandler(s)

	return s, nil
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	// 启动监控 goroutine
	go s.monitorStats()

	log.Printf("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// 维护模式检查（最优先）
	if s.IsMaintenanceMode() {
		http.Error(w, "Server is under maintenance, please try again later",
			http.StatusServiceUnavailable)
		return
	}

	// 连接数限制检查
	select {
	case s.semaphore <- struct{}{}:
		defer func() { <-s.semaphore }()
	default:
		log.Printf("🚫 达到最大连接数限制 (%d)", s.maxConnections)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	client.IP = r.RemoteAddr
	s.registerClient(client)

	// 发送连接成功消息。重连令牌在创建/加入 ranked 房间时才签发
	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		PlayerID:   client.GetID(),
		PlayerName: client.GetName(),
	}))

	log.Printf("✅ 玩家 %s (%s) 已连接", client.GetName(), client.GetID())

	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.GetID()] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if s.clients[client.GetID()] == client {
		delete(s.clients, client.GetID())
		log.Printf("❌ 玩家 %s (%s) 已断开", client.GetName(), client.GetID())
	}
}

// RehomeClient 重连成功后把连接挂到原玩家 ID 下
func (s *Server) RehomeClient(oldID string, client types.ClientInterface) {
	c, ok := client.(*Client)
	if !ok {
		return
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, oldID)

	// 同一身份的旧连接还挂着时踢掉，避免双连接
	if old, exists := s.clients[c.GetID()]; exists && old != c {
		old.Close()
	}
	s.clients[c.GetID()] = c
}

// GetRoomManager 获取房间管理器
func (s *Server) GetRoomManager() *room.RoomManager {
	return s.roomManager
}

// GetSessionManager 获取会话管理器
func (s *Server) GetSessionManager() *session.Manager {
	return s.sessionManager
}

// GetLeaderboard 获取排行榜管理器
func (s *Server) GetLeaderboard() *storage.LeaderboardManager {
	return s.leaderboard
}

// GetOnlineCount 获取在线人数（按需调用）
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// BroadcastToLobby 广播消息给大厅玩家（未在房间内的玩家）
func (s *Server) BroadcastToLobby(msg *protocol.Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		if client.GetGame() == "" {
			client.SendMessage(msg)
		}
	}
}

// monitorStats 定期监控服务器状态
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		log.Printf("📊 [监控] 在线: %d | Goroutines: %d | 活跃连接: %d/%d | 内存: %.2f MB",
			s.GetOnlineCount(),
			runtime.NumGoroutine(),
			len(s.semaphore),
			s.maxConnections,
			float64(m.Alloc)/1024/1024)
	}
}

// EnterMaintenanceMode 进入维护模式
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	s.maintenanceMode = true
	s.maintenanceMu.Unlock()

	s.BroadcastToLobby(protocol.MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    protocol.ErrCodeUnknown,
		Message: "👷🏻‍♂️ 维护模式：停止新的房间创建",
	}))

	log.Println("🔧 进入维护模式：停止新连接和房间创建")
}

// IsMaintenanceMode 检查是否在维护模式
func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// GracefulShutdown 优雅关闭：先停新房间，等牌局打完再退出
func (s *Server) GracefulShutdown(timeout time.Duration) {
	s.EnterMaintenanceMode()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		activeGames := s.roomManager.ActiveGamesCount()
		if activeGames == 0 {
			log.Println("✅ 所有房间已结束，关闭服务器")
			break
		}
		log.Printf("⏳ 等待 %d 个房间结束...", activeGames)
		<-ticker.C
	}

	if activeGames := s.roomManager.ActiveGamesCount(); activeGames > 0 {
		log.Printf("⚠️ 超时，仍有 %d 个房间进行中，强制关闭", activeGames)
	}

	s.Shutdown()
}

// Shutdown 立即关闭服务器并释放资源
func (s *Server) Shutdown() {
	s.roomManager.Shutdown()
	s.sessionManager.Shutdown()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}

	if err := s.redis.Close(); err != nil {
		log.Printf("关闭 Redis 连接失败: %v", err)
	}
}
