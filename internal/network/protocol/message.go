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
	// 连接 / 房间操作
	MsgSetName     MessageType = "set_name"     // 设置昵称
	MsgCreateRoom  MessageType = "create_room"  // 创建房间（带座位数）
	MsgJoinRoom    MessageType = "join_room"    // 加入房间
	MsgLeaveRoom   MessageType = "leave_room"   // 离开房间
	MsgReady       MessageType = "ready"        // 准备就绪
	MsgCancelReady MessageType = "cancel_ready" // 取消准备
	MsgChat        MessageType = "chat"         // 聊天

	// 游戏操作
	MsgDraw          MessageType = "draw"           // 摸牌
	MsgPlayMove      MessageType = "play_move"      // 出牌（单张 / 两张 / 三张组合）
	MsgInsertExplode MessageType = "insert_explode" // 指定爆炸猫插回位置
	MsgFavorResponse MessageType = "favor_response" // 回应 FAVOR 索要

	// 排行榜
	MsgGetStats       MessageType = "get_stats"       // 查询个人战绩
	MsgGetLeaderboard MessageType = "get_leaderboard" // 查询排行榜
)

// 服务端 → 客户端 消息类型
const (
	// 连接 / 房间
	MsgConnected    MessageType = "connected"     // 连接成功
	MsgRoomCreated  MessageType = "room_created"  // 房间创建成功
	MsgRoomJoined   MessageType = "room_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离开
	MsgPlayerReady  MessageType = "player_ready"  // 玩家准备状态变化

	// 游戏流程
	MsgGameStart  MessageType = "game_start"  // 游戏开始
	MsgHandUpdate MessageType = "hand_update" // 手牌快照（仅发给本人）
	MsgTurnUpdate MessageType = "turn_update" // 当前回合 / 弃牌堆顶 / 剩余牌数

	// 行动结果
	MsgMovePending MessageType = "move_pending" // 出牌进入否决窗口
	MsgNopePlayed  MessageType = "nope_played"  // 有人打出 NOPE
	MsgMoveResult  MessageType = "move_result"  // 窗口结算：执行或作废
	MsgCardPlayed  MessageType = "card_played"  // 某玩家的牌已生效

	// 私发提示
	MsgSeeFuture      MessageType = "see_future"      // 牌堆顶 3 张（仅发起者可见）
	MsgFavorRequest   MessageType = "favor_request"   // 被 FAVOR 点名，要求交牌
	MsgFavorResult    MessageType = "favor_result"    // 索要完成（发给双方）
	MsgStealResult    MessageType = "steal_result"    // 组合偷牌结果（发给双方）
	MsgInsertRequest  MessageType = "insert_request"  // 要求指定爆炸猫插回下标
	MsgExplodeDefused MessageType = "explode_defused" // 摸到爆炸猫但用拆弹牌化解（广播）

	// 终局
	MsgPlayerEliminated MessageType = "player_eliminated" // 玩家被炸出局
	MsgGameOver         MessageType = "game_over"         // 比赛结束

	// 排行榜
	MsgStats       MessageType = "stats"       // 个人战绩
	MsgLeaderboard MessageType = "leaderboard" // 排行榜

	// 错误
	MsgError MessageType = "error" // 错误消息
)

// --- 客户端请求 Payloads ---

// SetNamePayload 设置昵称请求
type SetNamePayload struct {
	Name string `json:"name"`
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	Seats int `json:"seats"` // 座位数 2-5
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// ChatPayload 聊天消息（双向）
type ChatPayload struct {
	PlayerName string `json:"player_name,omitempty"` // 服务端下发时填充
	Text       string `json:"text"`
}

// PlayMovePayload 出牌请求。
// Cards 为 1-3 个相同或单独的牌名；组合时 Target 为目标玩家；
// 三张组合时 Desired 为点名索要的牌。
type PlayMovePayload struct {
	Cards   []string `json:"cards"`
	Target  string   `json:"target,omitempty"`
	Desired string   `json:"desired,omitempty"`
}

// InsertExplodePayload 指定爆炸猫插回位置
type InsertExplodePayload struct {
	Index int `json:"index"` // 0 = 牌堆底
}

// FavorResponsePayload 回应索要
type FavorResponsePayload struct {
	Card string `json:"card"`
}

// GetLeaderboardPayload 查询排行榜请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
	Seats    int    `json:"seats"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	RoomCode string       `json:"room_code"`
	Seats    int          `json:"seats"`
	Players  []PlayerInfo `json:"players"`
}

// PlayerInfo 房间内玩家信息
type PlayerInfo struct {
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	Ready bool   `json:"ready"`
}

// PlayerEventPayload 玩家加入 / 离开 / 准备通知
type PlayerEventPayload struct {
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
	Ready      bool   `json:"ready,omitempty"`
}

// GameStartPayload 游戏开始通知
type GameStartPayload struct {
	Players     []string `json:"players"` // 按座位顺序
	FirstPlayer string   `json:"first_player"`
	DeckSize    int      `json:"deck_size"`
}

// HandUpdatePayload 手牌快照（仅发给本人）
type HandUpdatePayload struct {
	Cards []string `json:"cards"`
}

// TurnUpdatePayload 回合状态广播
type TurnUpdatePayload struct {
	CurrentPlayer string `json:"current_player"`
	TurnsOwed     int    `json:"turns_owed"`      // 当前玩家还欠的回合数
	DiscardTop    string `json:"discard_top"`     // 弃牌堆顶，空串表示还没有弃牌
	DeckSize      int    `json:"deck_size"`       // 牌堆剩余张数
	StillSameTurn bool   `json:"still_same_turn"` // true 表示还是同一位玩家
}

// MovePendingPayload 出牌进入否决窗口通知
type MovePendingPayload struct {
	PlayerName string   `json:"player_name"`
	Cards      []string `json:"cards"`
	Target     string   `json:"target,omitempty"`
	Seconds    int      `json:"seconds"` // 窗口时长
}

// NopePlayedPayload NOPE 通知
type NopePlayedPayload struct {
	PlayerName string `json:"player_name"`
	Count      int    `json:"count"` // 本窗口累计 NOPE 数
}

// MoveResultPayload 否决窗口结算
type MoveResultPayload struct {
	PlayerName string   `json:"player_name"`
	Cards      []string `json:"cards"`
	Executed   bool     `json:"executed"` // false 表示被否决，牌作废
}

// CardPlayedPayload 牌已生效广播
type CardPlayedPayload struct {
	PlayerName string   `json:"player_name"`
	Cards      []string `json:"cards"`
	Target     string   `json:"target,omitempty"`
}

// SeeFuturePayload 牌堆顶 3 张（仅发起者可见）
type SeeFuturePayload struct {
	Cards []string `json:"cards"` // 下标 0 为最顶上一张
}

// FavorRequestPayload 被索要通知（仅发给目标玩家）
type FavorRequestPayload struct {
	FromPlayer string `json:"from_player"`
}

// FavorResultPayload 索要完成通知（发给双方，带牌名）
type FavorResultPayload struct {
	FromPlayer string `json:"from_player"` // 交出牌的玩家
	ToPlayer   string `json:"to_player"`   // 收到牌的玩家
	Card       string `json:"card"`
}

// StealResultPayload 组合偷牌结果（发给双方，旁观者看不到牌名）
type StealResultPayload struct {
	FromPlayer string `json:"from_player"`
	ToPlayer   string `json:"to_player"`
	Card       string `json:"card,omitempty"` // 三张组合未命中时为空
	Found      bool   `json:"found"`
}

// ExplodeDefusedPayload 拆弹成功广播
type ExplodeDefusedPayload struct {
	PlayerName string `json:"player_name"`
}

// InsertRequestPayload 要求指定插回下标（仅发给摸到爆炸猫的玩家）
type InsertRequestPayload struct {
	MaxIndex int `json:"max_index"` // 合法下标范围 [0, MaxIndex]
}

// PlayerEliminatedPayload 出局通知
type PlayerEliminatedPayload struct {
	PlayerName string `json:"player_name"`
	Remaining  int    `json:"remaining"`
}

// GameOverPayload 比赛结束通知
type GameOverPayload struct {
	Winner string `json:"winner"`
}

// StatsPayload 个人战绩响应
type StatsPayload struct {
	PlayerName string  `json:"player_name"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Explosions int     `json:"explosions"`
	Score      int     `json:"score"`
	Rank       int64   `json:"rank"` // -1 表示未上榜
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardPayload 排行榜响应
type LeaderboardPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
