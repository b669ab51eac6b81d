package apperrors

import (
	"github.com/Kapi-hub/exploding-kittens/internal/network/protocol"
)

// GameError 游戏错误（房间和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound  = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrRoomFull      = &GameError{Code: protocol.ErrCodeRoomFull, Message: "房间已满"}
	ErrNotInRoom     = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrGameStarted   = &GameError{Code: protocol.ErrCodeGameStarted, Message: "游戏已开始"}
	ErrInvalidName   = &GameError{Code: protocol.ErrCodeInvalidName, Message: "昵称不合法或已被占用"}
	ErrInvalidSeats  = &GameError{Code: protocol.ErrCodeInvalidSeats, Message: "座位数必须在 2 到 5 之间"}
	ErrGameNotStart  = &GameError{Code: protocol.ErrCodeGameNotStart, Message: "游戏尚未开始"}
	ErrNotYourTurn   = &GameError{Code: protocol.ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrInvalidMove   = &GameError{Code: protocol.ErrCodeInvalidMove, Message: "无效的出牌"}
	ErrInvalidTarget = &GameError{Code: protocol.ErrCodeInvalidTarget, Message: "无效的目标玩家"}
	ErrInvalidIndex  = &GameError{Code: protocol.ErrCodeInvalidIndex, Message: "无效的插回位置"}
	ErrPendingAction = &GameError{Code: protocol.ErrCodePendingAction, Message: "有未完成的操作，请先处理"}
)

// WithText 返回同错误码、自定义文案的错误
func WithText(base *GameError, text string) *GameError {
	return &GameError{Code: base.Code, Message: text}
}
