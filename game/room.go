package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"riichi/game/engines"
	"riichi/game/share"
)

// Room 一个对局房间：四名玩家加一个引擎实例
type Room struct {
	ID     string
	Users  map[string]*share.UserInfo // userID -> 玩家信息，与引擎共用
	Engine engines.Engine

	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewRoom 创建房间。users 为 userID -> connectorNodeID，
// 座位按遍历顺序分配
func NewRoom(engine engines.Engine, users map[string]string) (*Room, error) {
	if engine == nil {
		return nil, fmt.Errorf("引擎不能为空")
	}
	room := &Room{
		ID:     uuid.NewString(),
		Users:  make(map[string]*share.UserInfo, len(users)),
		Engine: engine,
	}
	seat := 0
	for userID, connector := range users {
		room.Users[userID] = &share.UserInfo{
			UserID:          userID,
			Nickname:        userID,
			Seat:            seat,
			ConnectorNodeID: connector,
			Online:          true,
		}
		seat++
	}
	return room, nil
}

// GetPlayer 房间内的玩家信息
func (r *Room) GetPlayer(userID string) (*share.UserInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.Users[userID]
	return info, ok
}

// SubmitAction 玩家操作转交引擎
func (r *Room) SubmitAction(a *share.GameAction) {
	r.Engine.NotifyAction(a)
}

// Close 释放房间资源
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		if r.Engine != nil {
			r.Engine.Close()
		}
	})
}
