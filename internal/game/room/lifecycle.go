package room

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/color-whist/internal/apperrors"
	"github.com/palemoky/color-whist/internal/config"
	"github.com/palemoky/color-whist/internal/game/bot"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/types"
)

// NewRoom 创建空房间，创建者自动加入
func NewRoom(creator types.ClientInterface, mode Mode, cfg *config.GameConfig, opsOn bool, recorder ResultRecorder, onClose func(string)) *Room {
	r := &Room{
		ID:         uuid.New().String(),
		Mode:       mode,
		Host:       creator.GetID(),
		CreatedAt:  time.Now(),
		phase:      PhaseTeamSelection,
		players:    make(map[string]*LobbyPlayer),
		spectators: make(map[string]types.ClientInterface),
		swaps:      make(map[string]*swapRequest),
		strategy:   bot.Basic{},
		recorder:   recorder,
		cfg:        cfg,
		opsOn:      opsOn,
		onClose:    onClose,
	}
	r.addLobbyPlayer(creator)
	return r
}

func (r *Room) addLobbyPlayer(client types.ClientInterface) {
	r.players[client.GetID()] = &LobbyPlayer{
		ID:     client.GetID(),
		Name:   client.GetName(),
		Client: client,
	}
	r.joinOrder = append(r.joinOrder, client.GetID())
	client.SetGame(r.ID)
}

// Join 加入房间（选队阶段）
func (r *Room) Join(client types.ClientInterface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseTeamSelection {
		return apperrors.ErrGameStarted
	}
	if len(r.players) >= 4 {
		return apperrors.ErrRoomFull
	}

	r.addLobbyPlayer(client)
	log.Printf("👤 玩家 %s 加入房间 %s", client.GetName(), r.ID)

	r.broadcastExcept(client.GetID(), protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: protocol.PlayerInfo{ID: client.GetID(), Name: client.GetName(), Seat: -1, Connected: true},
	}))
	return nil
}

// Spectate 以观战者身份加入，只收裁剪后的只读快照
func (r *Room) Spectate(client types.ClientInterface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseGameOver {
		return apperrors.ErrGameStarted
	}
	r.spectators[client.GetID()] = client
	client.SetGame(r.ID)
	client.SendMessage(protocol.MustNewMessage(protocol.MsgGameState, r.snapshotFor("")))
	return nil
}

// SelectTeam 选择队伍（1 或 2）
func (r *Room) SelectTeam(playerID string, team int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseTeamSelection {
		return apperrors.ErrInvalidTransition
	}
	p, ok := r.players[playerID]
	if !ok {
		return apperrors.ErrNotInRoom
	}
	if team != 1 && team != 2 {
		return apperrors.ErrTeamUnbalanced.WithReason("队伍只能是 1 或 2")
	}

	p.Team = team
	r.broadcast(protocol.MustNewMessage(protocol.MsgTeamSelected, protocol.TeamSelectedPayload{
		PlayerID: playerID,
		Team:     team,
		Seat:     -1,
	}))
	return nil
}

// AddBot 添加机器人补位。team 为 0 时自动选人少的队。
func (r *Room) AddBot(requesterID string, team int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseTeamSelection {
		return apperrors.ErrGameStarted
	}
	if _, ok := r.players[requesterID]; !ok {
		return apperrors.ErrNotInRoom
	}
	if len(r.players) >= 4 {
		return apperrors.ErrRoomFull
	}

	if team == 0 {
		counts := r.teamCounts()
		team = 1
		if counts[0] > counts[1] {
			team = 2
		}
	}
	if team != 1 && team != 2 {
		return apperrors.ErrTeamUnbalanced.WithReason("队伍只能是 1 或 2")
	}

	botID := "bot-" + uuid.New().String()
	p := &LobbyPlayer{
		ID:    botID,
		Name:  fmt.Sprintf("Bot-%d", len(r.players)+1),
		Team:  team,
		IsBot: true,
	}
	r.players[botID] = p
	r.joinOrder = append(r.joinOrder, botID)

	log.Printf("🤖 机器人 %s 加入房间 %s（队伍 %d）", p.Name, r.ID, team)
	r.broadcast(protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		Player: protocol.PlayerInfo{ID: botID, Name: p.Name, Seat: -1, Team: team, IsBot: true, Connected: true},
	}))
	return nil
}

func (r *Room) teamCounts() [2]int {
	var counts [2]int
	for _, p := range r.players {
		if p.Team == 1 || p.Team == 2 {
			counts[p.Team-1]++
		}
	}
	return counts
}

// Start 开始游戏：需要 4 个占位且两队恰好 2-2。
// 队伍 1 坐 0/2 号座位，队伍 2 坐 1/3 号，保证座位序就是轮转序。
func (r *Room) Start(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase != PhaseTeamSelection {
		return apperrors.ErrInvalidTransition
	}
	if requesterID != r.Host {
		return apperrors.ErrNotHost
	}
	if len(r.players) != 4 {
		return apperrors.ErrInvalidTransition.WithReason("需要 4 名玩家，当前 %d 名", len(r.players))
	}
	counts := r.teamCounts()
	if counts[0] != 2 || counts[1] != 2 {
		return apperrors.ErrTeamUnbalanced
	}

	// 按加入顺序把两队分到交替座位上
	seatsForTeam := map[int][]int{1: {0, 2}, 2: {1, 3}}
	for _, id := range r.joinOrder {
		p := r.players[id]
		idx := seatsForTeam[p.Team][0]
		seatsForTeam[p.Team] = seatsForTeam[p.Team][1:]
		r.seats[idx] = &Seat{
			Index:  idx,
			ID:     p.ID,
			Name:   p.Name,
			IsBot:  p.IsBot,
			Client: p.Client,
		}
	}

	r.dealer = 0
	r.roundNumber = 0
	log.Printf("🎮 房间 %s 开局（%s 模式）", r.ID, r.Mode)

	r.beginRound()
	return nil
}

// Rebind 重连：把新连接绑回原座位，不动手牌、分数和回合状态。
// 游戏已结束时拒绝。走房间锁，不会与机器人/超时动作交错。
func (r *Room) Rebind(playerID string, client types.ClientInterface) (*protocol.GameStateDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == PhaseGameOver || r.closed {
		return nil, apperrors.ErrSessionExpired
	}

	if r.phase == PhaseTeamSelection {
		p, ok := r.players[playerID]
		if !ok {
			return nil, apperrors.ErrSessionExpired
		}
		p.Client = client
	} else {
		seat := r.seatByPlayer(playerID)
		if seat == nil {
			return nil, apperrors.ErrSessionExpired
		}
		seat.Client = client
		seat.Offline = false
	}
	client.SetGame(r.ID)

	r.broadcastExcept(playerID, protocol.MustNewMessage(protocol.MsgPlayerOnline, protocol.PlayerOnlinePayload{
		PlayerID:   playerID,
		PlayerName: client.GetName(),
	}))
	log.Printf("🔄 玩家 %s 重连回房间 %s", client.GetName(), r.ID)

	dto := r.snapshotFor(playerID)
	return &dto, nil
}

// HandleDisconnect 连接断开。选队阶段直接移除；
// 牌局中标记离线，casual 模式立即转托管（不支持重连），
// ranked 模式等回合超时自然转托管。
func (r *Room) HandleDisconnect(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if _, ok := r.spectators[playerID]; ok {
		delete(r.spectators, playerID)
		return
	}

	if r.phase == PhaseTeamSelection {
		r.removeLobbyPlayerLocked(playerID)
		return
	}

	seat := r.seatByPlayer(playerID)
	if seat == nil {
		return
	}
	seat.Offline = true
	seat.Client = nil
	if r.Mode == ModeCasual && !seat.Autoplay {
		seat.Autoplay = true
		r.broadcast(protocol.MustNewMessage(protocol.MsgAutoplaySet, protocol.AutoplaySetPayload{
			PlayerID: playerID, Enabled: true, ByTimeout: true,
		}))
		if r.current == seat.Index && r.phase != PhaseScoring {
			r.scheduleAuto(r.turnSeq, botActDelay)
		}
	}

	grace := 0
	if r.Mode == ModeRanked {
		grace = int(r.cfg.ReconnectGraceDuration().Seconds())
	}
	r.broadcast(protocol.MustNewMessage(protocol.MsgPlayerOffline, protocol.PlayerOfflinePayload{
		PlayerID:   playerID,
		PlayerName: seat.Name,
		Timeout:    grace,
	}))
	log.Printf("📴 玩家 %s 掉线（房间 %s）", seat.Name, r.ID)
}

// Leave 主动离开。选队阶段移除占位；牌局中座位转空并托管，
// 手牌留在座位上以保持牌张守恒。
func (r *Room) Leave(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	if _, ok := r.spectators[playerID]; ok {
		delete(r.spectators, playerID)
		return
	}

	if r.phase == PhaseTeamSelection {
		r.removeLobbyPlayerLocked(playerID)
		return
	}

	seat := r.seatByPlayer(playerID)
	if seat == nil {
		return
	}
	name := seat.Name
	seat.ID = ""
	seat.Name = ""
	seat.IsBot = false
	seat.Client = nil
	seat.Offline = false
	seat.Autoplay = true
	r.cancelSwapsFor(playerID)

	r.broadcast(protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   playerID,
		PlayerName: name,
	}))
	log.Printf("👋 玩家 %s 离开房间 %s（座位 %d 转为托管）", name, r.ID, seat.Index)

	if r.current == seat.Index && (r.phase == PhaseBetting || r.phase == PhasePlaying) {
		r.scheduleAuto(r.turnSeq, botActDelay)
	}
}

func (r *Room) removeLobbyPlayerLocked(playerID string) {
	p, ok := r.players[playerID]
	if !ok {
		return
	}
	delete(r.players, playerID)
	for i, id := range r.joinOrder {
		if id == playerID {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
	r.broadcast(protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   playerID,
		PlayerName: p.Name,
	}))

	// 房主离开则移交给最早加入的玩家
	if playerID == r.Host {
		for _, id := range r.joinOrder {
			if !r.players[id].IsBot {
				r.Host = id
				break
			}
		}
	}
	if r.humanCountLocked() == 0 {
		r.closeLocked("房间已无真人玩家")
	}
}

func (r *Room) humanCountLocked() int {
	if r.phase == PhaseTeamSelection {
		count := 0
		for _, p := range r.players {
			if !p.IsBot {
				count++
			}
		}
		return count
	}
	count := 0
	for _, s := range r.seats {
		if s != nil && !s.IsEmpty() && !s.IsBot {
			count++
		}
	}
	return count
}

// Abort 因内部不变量被破坏而解散房间。只影响本房间：
// 通知所有参与者后整体拆除，不影响其他房间和进程。
func (r *Room) Abort(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked(reason)
}

func (r *Room) closeLocked(reason string) {
	if r.closed {
		return
	}
	r.closed = true
	r.stopTimersLocked()
	r.broadcast(protocol.MustNewMessage(protocol.MsgGameAborted, protocol.GameAbortedPayload{Reason: reason}))
	log.Printf("💥 房间 %s 解散: %s", r.ID, reason)
	if r.onClose != nil {
		go r.onClose(r.ID)
	}
}

// Closed 房间是否已解散
func (r *Room) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// FinishedFor 游戏结束后经过的时长，未结束返回 0
func (r *Room) FinishedFor() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finishedAt.IsZero() {
		return 0
	}
	return time.Since(r.finishedAt)
}
