package engines

import (
	"riichi/game/share"
)

type EngineType int32

const (
	RiichiMahjong4pEngine EngineType = iota // 立直麻将四人引擎
)

type GameState int

const (
	GameWaiting GameState = iota
	GameInProgress
	GameFinished
)

// Pusher 引擎出站推送。userIDs 为接收者，kind 为事件种类，
// data 为 JSON 负载
type Pusher interface {
	Push(userIDs []string, kind string, data []byte)
}

// Engine 游戏引擎。原型模式：每个房间从原型克隆一份实例
type Engine interface {
	// InitializeEngine 开桌。users 为 Room.UserMap，与房间共用
	InitializeEngine(roomID string, users map[string]*share.UserInfo) error

	// NotifyAction 提交玩家操作（入队，引擎内部串行处理）
	NotifyAction(action *share.GameAction)

	// Clone 从原型克隆新实例
	Clone() Engine

	// Done 整场结束时关闭
	Done() <-chan struct{}

	// Close 释放引擎资源
	Close()
}
