package protocol

// --- 客户端请求 Payloads ---

// ReconnectPayload 断线重连请求
type ReconnectPayload struct {
	Token    string `json:"token"`     // 重连令牌
	PlayerID string `json:"player_id"` // 玩家 ID
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateGamePayload 创建房间请求
type CreateGamePayload struct {
	Mode string `json:"mode"` // casual / ranked
}

// JoinGamePayload 加入房间请求
type JoinGamePayload struct {
	GameID    string `json:"game_id"`
	Spectator bool   `json:"spectator,omitempty"` // 观战者只读
}

// SelectTeamPayload 选择队伍请求
type SelectTeamPayload struct {
	Team int `json:"team"` // 1 或 2
}

// AddBotPayload 添加机器人请求
type AddBotPayload struct {
	Team int `json:"team,omitempty"` // 期望加入的队伍，0 表示自动
}

// PlaceBetPayload 叫分请求
type PlaceBetPayload struct {
	Amount       int  `json:"amount"`        // 7-12
	WithoutTrump bool `json:"without_trump"` // 无主叫分
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	Card CardInfo `json:"card"`
}

// RequestSwapPayload 换座请求。target_player_id 和 target_seat 二选一，
// 前者优先。
type RequestSwapPayload struct {
	TargetPlayerID string `json:"target_player_id,omitempty"`
	TargetSeat     *int   `json:"target_seat,omitempty"`
}

// RespondSwapPayload 换座回应
type RespondSwapPayload struct {
	Accept bool `json:"accept"`
}

// ToggleAutoplayPayload 托管开关请求
type ToggleAutoplayPayload struct {
	Enabled bool `json:"enabled"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Offset int `json:"offset"` // 偏移量
	Limit  int `json:"limit"`  // 数量
}

// OpsForceStatePayload 运维强制状态请求（仅测试环境开启）
type OpsForceStatePayload struct {
	Team1Score *int   `json:"team1_score,omitempty"`
	Team2Score *int   `json:"team2_score,omitempty"`
	Phase      string `json:"phase,omitempty"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// ReconnectedPayload 重连成功响应
type ReconnectedPayload struct {
	PlayerID   string        `json:"player_id"`
	PlayerName string        `json:"player_name"`
	GameID     string        `json:"game_id,omitempty"`
	GameState  *GameStateDTO `json:"game_state,omitempty"` // 如果在游戏中
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// PlayerOfflinePayload 玩家掉线通知
type PlayerOfflinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Timeout    int    `json:"timeout"` // 重连宽限期（秒）
}

// PlayerOnlinePayload 玩家重连通知
type PlayerOnlinePayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// GameCreatedPayload 房间创建成功响应
type GameCreatedPayload struct {
	GameID         string     `json:"game_id"`
	Mode           string     `json:"mode"`
	Player         PlayerInfo `json:"player"`
	ReconnectToken string     `json:"reconnect_token,omitempty"` // ranked 模式才有
}

// GameJoinedPayload 加入房间成功响应
type GameJoinedPayload struct {
	GameID         string       `json:"game_id"`
	Player         PlayerInfo   `json:"player"`
	Players        []PlayerInfo `json:"players"` // 房间内所有玩家
	Spectator      bool         `json:"spectator,omitempty"`
	ReconnectToken string       `json:"reconnect_token,omitempty"`
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Player PlayerInfo `json:"player"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// TeamSelectedPayload 队伍选择更新
type TeamSelectedPayload struct {
	PlayerID string `json:"player_id"`
	Team     int    `json:"team"`
	Seat     int    `json:"seat"`
}

// RoomListItem 房间列表条目
type RoomListItem struct {
	GameID      string `json:"game_id"`
	Mode        string `json:"mode"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
}

// RoomListResultPayload 房间列表响应
type RoomListResultPayload struct {
	Rooms []RoomListItem `json:"rooms"`
}

// CardInfo 牌的传输格式
type CardInfo struct {
	Color string `json:"color"`
	Value int    `json:"value"`
}

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Team      int    `json:"team"`
	IsBot     bool   `json:"is_bot"`
	IsEmpty   bool   `json:"is_empty,omitempty"`
	Connected bool   `json:"connected"`
	Autoplay  bool   `json:"autoplay"`
	HandCount int    `json:"hand_count"` // 手牌数量（内容只发给本人）
}

// TrickCardInfo 当前墩中的一张牌
type TrickCardInfo struct {
	PlayerID string   `json:"player_id"`
	Card     CardInfo `json:"card"`
}

// BetInfo 某个座位的叫分记录
type BetInfo struct {
	PlayerID     string `json:"player_id"`
	Amount       int    `json:"amount"`        // 0 表示尚未行动
	WithoutTrump bool   `json:"without_trump"`
	Skipped      bool   `json:"skipped"`
	Pending      bool   `json:"pending"`
}

// GameStateDTO 按接收者裁剪后的状态快照
// 手牌只出现在本人的快照里，观战者看不到任何手牌。
type GameStateDTO struct {
	GameID        string          `json:"game_id"`
	Mode          string          `json:"mode"`
	Phase         string          `json:"phase"`
	Players       []PlayerInfo    `json:"players"` // 按座位顺序
	Hand          []CardInfo      `json:"hand,omitempty"`
	DealerSeat    int             `json:"dealer_seat"`
	CurrentSeat   int             `json:"current_seat"`
	Trump         string          `json:"trump"` // none 表示尚未确定或无主局
	TrumpSet      bool            `json:"trump_set"`
	CurrentTrick  []TrickCardInfo `json:"current_trick"`
	PreviousTrick []TrickCardInfo `json:"previous_trick,omitempty"` // 仅供 UI 回放
	Bets          []BetInfo       `json:"bets,omitempty"`
	HighestBet    *BetInfo        `json:"highest_bet,omitempty"`
	Team1Score    int             `json:"team1_score"`
	Team2Score    int             `json:"team2_score"`
	RoundNumber   int             `json:"round_number"`
}

// DealCardsPayload 发牌通知（只发给本人）
type DealCardsPayload struct {
	Cards       []CardInfo `json:"cards"`
	RoundNumber int        `json:"round_number"`
	DealerSeat  int        `json:"dealer_seat"`
}

// BetTurnPayload 轮到叫分通知
type BetTurnPayload struct {
	PlayerID string `json:"player_id"`
	Timeout  int    `json:"timeout"` // 秒
}

// BetPlacedPayload 叫分结果通知
type BetPlacedPayload struct {
	PlayerID     string `json:"player_id"`
	PlayerName   string `json:"player_name"`
	Amount       int    `json:"amount"`
	WithoutTrump bool   `json:"without_trump"`
	Skipped      bool   `json:"skipped"`
}

// BetWonPayload 叫分结束通知
type BetWonPayload struct {
	PlayerID     string `json:"player_id"`
	PlayerName   string `json:"player_name"`
	Amount       int    `json:"amount"`
	WithoutTrump bool   `json:"without_trump"`
}

// PlayTurnPayload 轮到出牌通知
type PlayTurnPayload struct {
	PlayerID string `json:"player_id"`
	Timeout  int    `json:"timeout"` // 秒
	LedColor string `json:"led_color,omitempty"` // 本墩领出颜色
}

// CardPlayedPayload 出牌通知
type CardPlayedPayload struct {
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name"`
	Card       CardInfo `json:"card"`
	TrumpSet   bool     `json:"trump_set,omitempty"` // 本张牌是否定下将牌
	Trump      string   `json:"trump,omitempty"`
}

// TrickResolvedPayload 一墩结束通知
type TrickResolvedPayload struct {
	WinnerID   string `json:"winner_id"`
	WinnerName string `json:"winner_name"`
	Points     int    `json:"points"`
}

// TeamRoundResult 一局中单队的结果
type TeamRoundResult struct {
	TrickPoints int `json:"trick_points"` // 本局墩分（含修正）
	Delta       int `json:"delta"`        // 计入总分的变化量
	Total       int `json:"total"`        // 累计总分
}

// RoundCompletePayload 一局结算通知
type RoundCompletePayload struct {
	RoundNumber int             `json:"round_number"`
	BettingTeam int             `json:"betting_team"`
	BetAmount   int             `json:"bet_amount"`
	WithoutTrump bool           `json:"without_trump"`
	BetMade     bool            `json:"bet_made"`
	Team1       TeamRoundResult `json:"team1"`
	Team2       TeamRoundResult `json:"team2"`
}

// GameOverPayload 整场结束通知
type GameOverPayload struct {
	WinningTeam int `json:"winning_team"`
	Team1Score  int `json:"team1_score"`
	Team2Score  int `json:"team2_score"`
	Rounds      int `json:"rounds"`
}

// GameAbortedPayload 房间异常解散通知
type GameAbortedPayload struct {
	Reason string `json:"reason"`
}

// SwapRequestedPayload 收到换座请求通知
type SwapRequestedPayload struct {
	FromPlayerID   string `json:"from_player_id"`
	FromPlayerName string `json:"from_player_name"`
	Timeout        int    `json:"timeout"` // 秒
}

// SwapResolvedPayload 换座结果通知
type SwapResolvedPayload struct {
	Executed bool   `json:"executed"`
	PlayerA  string `json:"player_a"`
	PlayerB  string `json:"player_b,omitempty"`
	SeatA    int    `json:"seat_a"`
	SeatB    int    `json:"seat_b"`
	Reason   string `json:"reason,omitempty"` // 未执行时的原因
}

// AutoplaySetPayload 托管状态变更通知
type AutoplaySetPayload struct {
	PlayerID string `json:"player_id"`
	Enabled  bool   `json:"enabled"`
	ByTimeout bool  `json:"by_timeout"` // 是否因超时自动开启
}

// StatsResultPayload 个人统计响应
type StatsResultPayload struct {
	Stats any `json:"stats"` // storage.PlayerStats
}

// LeaderboardResultPayload 排行榜响应
type LeaderboardResultPayload struct {
	Entries any `json:"entries"` // []storage.LeaderboardEntry
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
