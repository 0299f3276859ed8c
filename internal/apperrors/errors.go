package apperrors

import (
	"fmt"

	"github.com/palemoky/color-whist/internal/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// WithReason 带上具体原因，错误码不变
func (e *GameError) WithReason(format string, args ...any) *GameError {
	return &GameError{
		Code:    e.Code,
		Message: fmt.Sprintf("%s: %s", e.Message, fmt.Sprintf(format, args...)),
	}
}

// 预定义错误
var (
	ErrRoomNotFound = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull     = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom    = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted  = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrNotHost      = &GameError{Code: protocol.ErrCodeNotHost, Message: "只有房主可以执行该操作"}

	ErrInvalidTransition = &GameError{Code: protocol.ErrCodeInvalidTransition, Message: "当前阶段不允许该操作"}
	ErrNotYourTurn       = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrInvalidBet        = &GameError{Code: protocol.ErrCodeInvalidBet, Message: "叫分不合法"}
	ErrInvalidPlay       = &GameError{Code: protocol.ErrCodeInvalidPlay, Message: "出牌不合法"}
	ErrTeamUnbalanced    = &GameError{Code: protocol.ErrCodeTeamUnbalanced, Message: "两队人数必须为 2-2"}
	ErrSeatUnavailable   = &GameError{Code: protocol.ErrCodeSeatUnavailable, Message: "换座目标不可用"}
	ErrSessionExpired    = &GameError{Code: protocol.ErrCodeSessionExpired, Message: "会话已过期"}
	ErrSwapConflict      = &GameError{Code: protocol.ErrCodeSwapConflict, Message: "已有待处理的换座请求"}

	ErrOpsDisabled = &GameError{Code: protocol.ErrCodeOpsDisabled, Message: "运维接口未开启"}
)
