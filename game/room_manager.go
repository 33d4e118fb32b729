package game

import (
	"errors"
	"fmt"
	"sync"

	"riichi/game/engines"
	"riichi/log"
)

// RoomManager 房间管理器。使用原型模式管理引擎：
// 每次开房从注入的原型克隆一个新引擎实例
type RoomManager struct {
	rooms            map[string]*Room
	playerRoom       map[string]string // userID -> roomID
	enginePrototypes map[engines.EngineType]engines.Engine
	mu               sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:            make(map[string]*Room),
		playerRoom:       make(map[string]string),
		enginePrototypes: make(map[engines.EngineType]engines.Engine),
	}
}

// SetEnginePrototype 注入引擎原型
func (rm *RoomManager) SetEnginePrototype(engineType engines.EngineType, engine engines.Engine) error {
	if engine == nil {
		return fmt.Errorf("引擎原型不能为空")
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.enginePrototypes[engineType] = engine
	log.Info("RoomManager 注入引擎原型: engineType=%d", engineType)
	return nil
}

// CreateRoom 创建房间并开桌。users 为 userID -> connectorNodeID
func (rm *RoomManager) CreateRoom(users map[string]string, engineType engines.EngineType) (*Room, error) {
	if len(users) != 4 || engineType != engines.RiichiMahjong4pEngine {
		return nil, errors.New("玩家列表异常")
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	for userID := range users {
		if roomID, exists := rm.playerRoom[userID]; exists {
			log.Warn("玩家 %s 已在房间 %s 中", userID, roomID)
		}
	}

	prototype, exists := rm.enginePrototypes[engineType]
	if !exists {
		return nil, fmt.Errorf("不支持的引擎类型: %d", engineType)
	}
	engine := prototype.Clone()
	if engine == nil {
		return nil, fmt.Errorf("克隆游戏引擎失败: engineType=%d", engineType)
	}

	room, err := NewRoom(engine, users)
	if err != nil {
		return nil, fmt.Errorf("创建房间失败: %v", err)
	}
	for userID := range users {
		rm.playerRoom[userID] = room.ID
	}

	if err := room.Engine.InitializeEngine(room.ID, room.Users); err != nil {
		rm.cleanupRoom(room.ID)
		return nil, fmt.Errorf("初始化游戏引擎失败: %v", err)
	}
	rm.rooms[room.ID] = room

	// 终局后自动回收房间
	go func() {
		<-room.Engine.Done()
		if err := rm.DeleteRoom(room.ID); err != nil {
			log.Warn("回收房间 %s 失败: %v", room.ID, err)
		}
	}()

	log.Info("RoomManager 创建房间 %s，玩家数: %d", room.ID, len(users))
	return room, nil
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(roomID string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	room, exists := rm.rooms[roomID]
	return room, exists
}

// GetPlayerRoom 获取玩家所在房间
func (rm *RoomManager) GetPlayerRoom(userID string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	roomID, exists := rm.playerRoom[userID]
	if !exists {
		return nil, false
	}
	room, exists := rm.rooms[roomID]
	return room, exists
}

// DeleteRoom 删除房间并清理玩家路由
func (rm *RoomManager) DeleteRoom(roomID string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, exists := rm.rooms[roomID]; !exists {
		return fmt.Errorf("房间 %s 不存在", roomID)
	}
	rm.cleanupRoom(roomID)
	log.Info("RoomManager 删除房间 %s", roomID)
	return nil
}

// UpdatePlayerConnector 重连后更新玩家的 connector 路由
func (rm *RoomManager) UpdatePlayerConnector(userID, newConnector string) error {
	room, exists := rm.GetPlayerRoom(userID)
	if !exists {
		return fmt.Errorf("玩家 %s 不在任何房间中", userID)
	}
	player, ok := room.GetPlayer(userID)
	if !ok {
		return fmt.Errorf("玩家 %s 不在房间 %s 中", userID, room.ID)
	}
	player.SetOnline(newConnector)
	return nil
}

// GetStats 房间数与玩家数统计
func (rm *RoomManager) GetStats() (roomCount int, playerCount int) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	roomCount = len(rm.rooms)
	playerCount = len(rm.playerRoom)
	return
}

// cleanupRoom 持锁调用
func (rm *RoomManager) cleanupRoom(roomID string) {
	room, exists := rm.rooms[roomID]
	if !exists {
		return
	}
	room.mu.RLock()
	for userID := range room.Users {
		delete(rm.playerRoom, userID)
	}
	room.mu.RUnlock()
	room.Close()
	delete(rm.rooms, roomID)
}
