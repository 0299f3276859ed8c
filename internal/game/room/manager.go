package room

import (
	"log"
	"sync"
	"time"

	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/config"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/types"
)

// RoomSummary 房间的可落盘摘要（ranked 模式写入 Redis）
type RoomSummary struct {
	ID          string `json:"id"`
	Mode        string `json:"mode"`
	Phase       string `json:"phase"`
	PlayerCount int    `json:"player_count"`
	RoundNumber int    `json:"round_number"`
	Team1Score  int    `json:"team1_score"`
	Team2Score  int    `json:"team2_score"`
	CreatedAt   int64  `json:"created_at"`
}

// RoomSaver 房间摘要持久化边界（Redis 实现在 storage 包）
type RoomSaver interface {
	SaveRoom(summary RoomSummary)
	DeleteRoom(roomID string)
}

// RoomManager 进程级房间注册表。各房间互相独立，
// 注册表本身只有一把读写锁保护 map。
type RoomManager struct {
	cfg      *config.Config
	saver    RoomSaver      // 可为 nil
	recorder ResultRecorder // 可为 nil（casual-only 部署）
	rooms    map[string]*Room
	mu       sync.RWMutex

	stopCh chan struct{}
}

// NewRoomManager 创建房间管理器并启动清理协程
func NewRoomManager(cfg *config.Config, saver RoomSaver, recorder ResultRecorder) *RoomManager {
	rm := &RoomManager{
		cfg:      cfg,
		saver:    saver,
		recorder: recorder,
		rooms:    make(map[string]*Room),
		stopCh:   make(chan struct{}),
	}
	go rm.cleanupLoop()
	return rm
}

// CreateRoom 创建房间，创建者自动入座选队阶段
func (rm *RoomManager) CreateRoom(client types.ClientInterface, mode Mode) (*Room, error) {
	switch mode {
	case ModeCasual, ModeRanked:
	case "":
		mode = ModeCasual
	default:
		return nil, apperrors.ErrInvalidTransition.WithReason("未知模式 %q", mode)
	}

	var recorder ResultRecorder
	if mode == ModeRanked {
		recorder = rm.recorder
	}

	r := NewRoom(client, mode, &rm.cfg.Game, rm.cfg.Ops.Enabled, recorder, rm.removeRoom)

	rm.mu.Lock()
	rm.rooms[r.ID] = r
	rm.mu.Unlock()

	rm.persist(r)
	log.Printf("🏠 房间 %s 已创建（%s），玩家 %s", r.ID, mode, client.GetName())
	return r, nil
}

// GetRoom 按 ID 获取房间
func (rm *RoomManager) GetRoom(gameID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[gameID]
}

// GetRoomByPlayerID 找玩家所在的房间
func (rm *RoomManager) GetRoomByPlayerID(playerID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for _, r := range rm.rooms {
		if r.HasPlayer(playerID) {
			return r
		}
	}
	return nil
}

// GetRoomList 返回可加入的房间列表（选队阶段且未满）
func (rm *RoomManager) GetRoomList() []protocol.RoomListItem {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	var items []protocol.RoomListItem
	for _, r := range rm.rooms {
		r.mu.Lock()
		if r.phase == PhaseTeamSelection && len(r.players) < 4 && !r.closed {
			items = append(items, protocol.RoomListItem{
				GameID:      r.ID,
				Mode:        string(r.Mode),
				PlayerCount: len(r.players),
				MaxPlayers:  4,
			})
		}
		r.mu.Unlock()
	}
	return items
}

// ActiveGamesCount 进行中的牌局数量
func (rm *RoomManager) ActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	count := 0
	for _, r := range rm.rooms {
		switch r.GetPhase() {
		case PhaseBetting, PhasePlaying, PhaseScoring:
			count++
		}
	}
	return count
}

// removeRoom 从注册表摘除房间（房间解散回调）
func (rm *RoomManager) removeRoom(roomID string) {
	rm.mu.Lock()
	delete(rm.rooms, roomID)
	rm.mu.Unlock()
	if rm.saver != nil {
		rm.saver.DeleteRoom(roomID)
	}
	log.Printf("🗑️ 房间 %s 已从注册表移除", roomID)
}

// persist 异步写入房间摘要（仅 ranked；casual 零落盘）
func (rm *RoomManager) persist(r *Room) {
	if rm.saver == nil || r.Mode != ModeRanked {
		return
	}
	r.mu.Lock()
	summary := RoomSummary{
		ID:          r.ID,
		Mode:        string(r.Mode),
		Phase:       string(r.phase),
		PlayerCount: len(r.players),
		RoundNumber: r.roundNumber,
		Team1Score:  r.scores[0],
		Team2Score:  r.scores[1],
		CreatedAt:   r.CreatedAt.Unix(),
	}
	r.mu.Unlock()
	go rm.saver.SaveRoom(summary)
}

// cleanupLoop 定期清理：打满的房间留一段时间给客户端看结算，
// 选队阶段闲置过久的房间直接解散。
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rm.stopCh:
			return
		case <-ticker.C:
		}

		rm.mu.RLock()
		candidates := make([]*Room, 0, len(rm.rooms))
		for _, r := range rm.rooms {
			candidates = append(candidates, r)
		}
		rm.mu.RUnlock()

		for _, r := range candidates {
			switch {
			case r.Closed():
				rm.removeRoom(r.ID)
			case r.FinishedFor() > 5*time.Minute:
				rm.removeRoom(r.ID)
			case r.GetPhase() == PhaseTeamSelection && time.Since(r.CreatedAt) > rm.cfg.Game.RoomTimeoutDuration():
				r.Abort("房间长时间未开局")
			default:
				rm.persist(r)
			}
		}
	}
}

// Shutdown 关停：解散所有房间并停止清理协程
func (rm *RoomManager) Shutdown() {
	close(rm.stopCh)

	rm.mu.Lock()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		rooms = append(rooms, r)
	}
	rm.mu.Unlock()

	for _, r := range rooms {
		r.Abort("服务器关闭")
	}
}
