package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001 // 协议违规，连接可能被关闭

	ErrCodeRoomNotFound = 2001
	ErrCodeRoomFull     = 2002
	ErrCodeNotInRoom    = 2003
	ErrCodeGameStarted  = 2004
	ErrCodeInvalidName  = 2005
	ErrCodeInvalidSeats = 2006

	ErrCodeGameNotStart  = 3001
	ErrCodeNotYourTurn   = 3002
	ErrCodeInvalidMove   = 3003 // 牌不在手中 / 张数不对 / 格式错误
	ErrCodeInvalidTarget = 3004 // 目标不存在或指向自己
	ErrCodeInvalidIndex  = 3005 // 插回下标越界
	ErrCodePendingAction = 3006 // 有未完成的交互，禁止其他操作
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:       "未知错误",
	ErrCodeInvalidMsg:    "无效的消息格式",
	ErrCodeRoomNotFound:  "房间不存在",
	ErrCodeRoomFull:      "房间已满",
	ErrCodeNotInRoom:     "您不在房间中",
	ErrCodeGameStarted:   "游戏已开始",
	ErrCodeInvalidName:   "昵称不合法或已被占用",
	ErrCodeInvalidSeats:  "座位数必须在 2 到 5 之间",
	ErrCodeGameNotStart:  "游戏尚未开始",
	ErrCodeNotYourTurn:   "还没轮到您",
	ErrCodeInvalidMove:   "无效的出牌",
	ErrCodeInvalidTarget: "无效的目标玩家",
	ErrCodeInvalidIndex:  "无效的插回位置",
	ErrCodePendingAction: "有未完成的操作，请先处理",
}
