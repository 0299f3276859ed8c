package room

import (
	"sync"
	"time"

	"github.com/palemoky/color-whist/internal/config"
	"github.com/palemoky/color-whist/internal/game/bet"
	"github.com/palemoky/color-whist/internal/game/bot"
	"github.com/palemoky/color-whist/internal/game/card"
	"github.com/palemoky/color-whist/internal/game/score"
	"github.com/palemoky/color-whist/internal/game/trick"
	"github.com/palemoky/color-whist/internal/protocol"
	"github.com/palemoky/color-whist/internal/types"
)

// Mode 房间持久化模式
type Mode string

const (
	ModeCasual Mode = "casual" // 不发令牌、不落盘、不支持重连
	ModeRanked Mode = "ranked" // 发重连令牌，终局写入战绩和积分
)

// Phase 游戏阶段。每个阶段只有对应的数据才有效：
// betting 阶段 betRound 非 nil，playing 阶段 curTrick 非 nil，
// 阶段不符的操作属于结构性错配，直接拒绝。
type Phase string

const (
	PhaseTeamSelection Phase = "team_selection"
	PhaseBetting       Phase = "betting"
	PhasePlaying       Phase = "playing"
	PhaseScoring       Phase = "scoring"
	PhaseGameOver      Phase = "game_over"
)

// LobbyPlayer 选队阶段的占位（含机器人）
type LobbyPlayer struct {
	ID     string
	Name   string
	Team   int // 0 表示未选
	IsBot  bool
	Client types.ClientInterface // 机器人为 nil
}

// Seat 开局后的座位。身份（ID/昵称/连接/托管）随换座移动，
// 手牌、已赢墩数和回合指针都绑定在座位上。
type Seat struct {
	Index     int
	ID        string // 空座位为 ""
	Name      string
	IsBot     bool
	Offline   bool
	Autoplay  bool
	Hand      []card.Card
	TricksWon int
	Client    types.ClientInterface
}

// IsEmpty 座位是否无人
func (s *Seat) IsEmpty() bool {
	return s.ID == ""
}

// Team 队伍由座位索引决定：0/2 号座位是队伍 1，1/3 号是队伍 2
func (s *Seat) Team() int {
	return s.Index%2 + 1
}

// ResultRecorder ranked 模式终局战绩落盘的边界接口
type ResultRecorder interface {
	RecordGameResult(playerID, playerName string, win bool)
}

// Room 一个独立的游戏房间。房间内所有变更（玩家操作、机器人、
// 超时、重连、换座）都经过 mu 串行化；不同房间完全并行。
// 广播只向客户端的发送队列投递，不会阻塞变更路径。
type Room struct {
	ID        string
	Mode      Mode
	Host      string // 创建者玩家 ID
	CreatedAt time.Time

	phase      Phase
	players    map[string]*LobbyPlayer // 选队阶段
	joinOrder  []string
	spectators map[string]types.ClientInterface

	// 开局后的牌局状态
	seats       [4]*Seat
	dealer      int
	current     int // 当前应行动的座位
	roundNumber int

	trump    card.Color
	trumpSet bool // 本局将牌是否已定（无主局也算已定）

	betRound    *bet.Round
	betRecords  [4]bet.SeatBet // 叫分结束后的记录（供快照）
	bidWinner   int            // 叫分获胜座位
	winningBid  bet.Bid
	bettingTeam int

	curTrick       *trick.Trick
	prevTrick      *trick.Trick // 仅供 UI 回放，不参与任何判定
	resolvedTricks int
	trickPoints    [2]int

	scores  [2]int
	history []score.RoundResult

	// 回合计时。turnSeq 随每次行动递增，过期的计时器回调
	// 对不上序号就什么都不做，保证计时器取消与行动提交原子。
	turnSeq    uint64
	turnTimer  *time.Timer
	roundTimer *time.Timer

	swaps map[string]*swapRequest // 按发起者索引

	strategy bot.Strategy
	recorder ResultRecorder // casual 模式为 nil
	cfg      *config.GameConfig
	opsOn    bool
	onClose  func(roomID string)

	finishedAt time.Time
	closed     bool
	mu         sync.Mutex
}

// nowFunc 便于测试替换时间
var nowFunc = time.Now

// GetPhase 返回当前阶段
func (r *Room) GetPhase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// broadcast 向所有在座玩家和观战者投递消息（加锁状态下调用）
func (r *Room) broadcast(msg *protocol.Message) {
	r.eachClient(func(c types.ClientInterface) {
		c.SendMessage(msg)
	})
}

// broadcastExcept 向除指定玩家外的所有人投递消息
func (r *Room) broadcastExcept(playerID string, msg *protocol.Message) {
	r.eachClient(func(c types.ClientInterface) {
		if c.GetID() != playerID {
			c.SendMessage(msg)
		}
	})
}

func (r *Room) eachClient(fn func(c types.ClientInterface)) {
	if r.phase == PhaseTeamSelection {
		for _, p := range r.players {
			if p.Client != nil {
				fn(p.Client)
			}
		}
	} else {
		for _, s := range r.seats {
			if s != nil && s.Client != nil && !s.Offline {
				fn(s.Client)
			}
		}
	}
	for _, c := range r.spectators {
		fn(c)
	}
}

// seatByPlayer 按玩家 ID 找座位（加锁状态下调用）
func (r *Room) seatByPlayer(playerID string) *Seat {
	for _, s := range r.seats {
		if s != nil && s.ID == playerID {
			return s
		}
	}
	return nil
}

// PlayerCount 返回占用人数（玩家 + 机器人）
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseTeamSelection {
		return len(r.players)
	}
	count := 0
	for _, s := range r.seats {
		if s != nil && !s.IsEmpty() {
			count++
		}
	}
	return count
}

// HasPlayer 玩家是否在房间中（座位或选队占位，不含观战）
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase == PhaseTeamSelection {
		_, ok := r.players[playerID]
		return ok
	}
	return r.seatByPlayer(playerID) != nil
}
