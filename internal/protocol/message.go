package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgReconnect MessageType = "reconnect" // 断线重连
	MsgPing      MessageType = "ping"      // 心跳 ping

	// 房间操作
	MsgCreateGame  MessageType = "create_game"  // 创建房间
	MsgJoinGame    MessageType = "join_game"    // 加入房间（可带观战标记）
	MsgLeaveGame   MessageType = "leave_game"   // 离开房间
	MsgSelectTeam  MessageType = "select_team"  // 选择队伍
	MsgAddBot      MessageType = "add_bot"      // 添加机器人补位
	MsgStartGame   MessageType = "start_game"   // 开始游戏
	MsgGetRoomList MessageType = "get_room_list" // 获取房间列表

	// 游戏操作
	MsgPlaceBet       MessageType = "place_bet"       // 叫分
	MsgSkipBet        MessageType = "skip_bet"        // 放弃叫分
	MsgPlayCard       MessageType = "play_card"       // 出牌
	MsgRequestSwap    MessageType = "request_swap"    // 请求换座
	MsgRespondSwap    MessageType = "respond_swap"    // 回应换座
	MsgToggleAutoplay MessageType = "toggle_autoplay" // 托管开关

	// 排行榜
	MsgGetStats       MessageType = "get_stats"       // 获取个人统计
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜

	// 运维（仅测试环境）
	MsgOpsForceState MessageType = "ops_force_state" // 强制设置分数/阶段
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"      // 连接成功
	MsgReconnected   MessageType = "reconnected"    // 重连成功
	MsgPong          MessageType = "pong"           // 心跳 pong
	MsgPlayerOffline MessageType = "player_offline" // 玩家掉线通知
	MsgPlayerOnline  MessageType = "player_online"  // 玩家重连通知

	// 房间相关
	MsgGameCreated  MessageType = "game_created"  // 房间创建成功
	MsgGameJoined   MessageType = "game_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离开
	MsgTeamSelected MessageType = "team_selected" // 队伍选择更新
	MsgRoomListResult MessageType = "room_list_result"

	// 游戏流程
	MsgGameState     MessageType = "game_state"     // 按人裁剪后的状态快照
	MsgDealCards     MessageType = "deal_cards"     // 发牌（各自手牌）
	MsgBetTurn       MessageType = "bet_turn"       // 轮到叫分
	MsgBetPlaced     MessageType = "bet_placed"     // 有人叫分/放弃
	MsgBetWon        MessageType = "bet_won"        // 叫分结束
	MsgPlayTurn      MessageType = "play_turn"      // 轮到出牌
	MsgCardPlayed    MessageType = "card_played"    // 有人出牌
	MsgTrickResolved MessageType = "trick_resolved" // 一墩结束
	MsgRoundComplete MessageType = "round_complete" // 一局结算
	MsgGameOver      MessageType = "game_over"      // 整场结束
	MsgGameAborted   MessageType = "game_aborted"   // 房间异常解散

	// 换座与托管
	MsgSwapRequested MessageType = "swap_requested" // 收到换座请求
	MsgSwapResolved  MessageType = "swap_resolved"  // 换座结果
	MsgAutoplaySet   MessageType = "autoplay_set"   // 托管状态变更

	// 排行榜
	MsgStatsResult       MessageType = "stats_result"
	MsgLeaderboardResult MessageType = "leaderboard_result"

	// 错误
	MsgError MessageType = "error" // 错误消息
)
