package game

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"riichi/game/share"
	"riichi/log"
)

const (
	actionSubject     = "riichi.game.action"
	pushSubjectPrefix = "riichi.game.push."
)

// NatsRelay 事件中继。把引擎推送发布到每个玩家的 push 主题，
// 并订阅操作主题把玩家操作路由进对应房间
type NatsRelay struct {
	conn *nats.Conn
	rm   *RoomManager
	sub  *nats.Subscription
}

func NewNatsRelay(url string, rm *RoomManager) (*NatsRelay, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats 断开: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info("nats 已重连")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("连接 nats 失败: %v", err)
	}
	return &NatsRelay{conn: conn, rm: rm}, nil
}

// Start 订阅操作主题
func (nr *NatsRelay) Start() error {
	sub, err := nr.conn.Subscribe(actionSubject, func(msg *nats.Msg) {
		a := share.GameAction{ChankanTile: -1}
		if err := json.Unmarshal(msg.Data, &a); err != nil {
			log.Warn("操作反序列化失败: %v", err)
			return
		}
		room, ok := nr.rm.GetPlayerRoom(a.UserID)
		if !ok {
			log.Warn("玩家 %s 不在任何房间中", a.UserID)
			return
		}
		room.SubmitAction(&a)
	})
	if err != nil {
		return err
	}
	nr.sub = sub
	return nil
}

// Push 实现 engines.Pusher
func (nr *NatsRelay) Push(userIDs []string, kind string, data []byte) {
	for _, userID := range userIDs {
		if err := nr.conn.Publish(pushSubjectPrefix+userID, data); err != nil {
			log.Warn("推送 %s 给 %s 失败: %v", kind, userID, err)
		}
	}
}

func (nr *NatsRelay) Close() {
	if nr.sub != nil {
		_ = nr.sub.Unsubscribe()
	}
	if nr.conn != nil {
		nr.conn.Close()
	}
}
