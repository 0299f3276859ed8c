package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002 // 速率限制

	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeGameStarted  = 2004 // 游戏已开始
	ErrCodeNotHost      = 2005 // 非房主操作

	ErrCodeInvalidTransition = 3001 // 当前阶段不允许该操作
	ErrCodeNotYourTurn       = 3002
	ErrCodeInvalidBet        = 3003 // 叫分不合法
	ErrCodeInvalidPlay       = 3004 // 出牌不合法
	ErrCodeTeamUnbalanced    = 3005 // 队伍人数不是 2-2
	ErrCodeSeatUnavailable   = 3006 // 换座目标不可用
	ErrCodeSessionExpired    = 3007 // 会话过期
	ErrCodeSwapConflict      = 3008 // 已有待处理的换座请求

	ErrCodeOpsDisabled = 5001 // 运维接口未开启
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "未知错误",
	ErrCodeInvalidMsg:        "无效的消息格式",
	ErrCodeRateLimit:         "请求过于频繁",
	ErrCodeRoomNotFound:      "房间不存在",
	ErrCodeRoomFull:          "房间已满",
	ErrCodeNotInRoom:         "您不在房间中",
	ErrCodeGameStarted:       "游戏已开始",
	ErrCodeNotHost:           "只有房主可以执行该操作",
	ErrCodeInvalidTransition: "当前阶段不允许该操作",
	ErrCodeNotYourTurn:       "还没轮到您",
	ErrCodeInvalidBet:        "叫分不合法",
	ErrCodeInvalidPlay:       "出牌不合法",
	ErrCodeTeamUnbalanced:    "两队人数必须为 2-2",
	ErrCodeSeatUnavailable:   "换座目标不可用",
	ErrCodeSessionExpired:    "会话已过期",
	ErrCodeSwapConflict:      "已有待处理的换座请求",
	ErrCodeOpsDisabled:       "运维接口未开启",
}
