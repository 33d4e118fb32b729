package game

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"riichi/game/share"
	"riichi/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// SessionServer websocket 直连驱动。客户端连上后第一条消息报
// userID，之后上行为 GameAction，下行为引擎推送
type SessionServer struct {
	rm       *RoomManager
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session // userID -> session
}

func NewSessionServer(rm *RoomManager) *SessionServer {
	return &SessionServer{
		rm: rm,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*Session),
	}
}

// Session 一条玩家连接
type Session struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	server *SessionServer
}

type helloMessage struct {
	UserID string `json:"userID"`
}

func (s *SessionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket 升级失败: %v", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var hello helloMessage
	if err := conn.ReadJSON(&hello); err != nil || hello.UserID == "" {
		log.Warn("握手失败: %v", err)
		_ = conn.Close()
		return
	}

	sess := &Session{userID: hello.UserID, conn: conn, send: make(chan []byte, sendBuffer), server: s}
	s.register(sess)
	go sess.writePump()
	sess.readPump()
}

func (s *SessionServer) register(sess *Session) {
	s.mu.Lock()
	if old, ok := s.sessions[sess.userID]; ok {
		close(old.send)
	}
	s.sessions[sess.userID] = sess
	s.mu.Unlock()
	log.Info("玩家 %s 上线", sess.userID)
}

func (s *SessionServer) unregister(sess *Session) {
	s.mu.Lock()
	if cur, ok := s.sessions[sess.userID]; ok && cur == sess {
		delete(s.sessions, sess.userID)
		close(sess.send)
	}
	s.mu.Unlock()
}

// Push 实现 engines.Pusher：送到在线玩家的连接
func (s *SessionServer) Push(userIDs []string, kind string, data []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, userID := range userIDs {
		sess, ok := s.sessions[userID]
		if !ok {
			continue
		}
		select {
		case sess.send <- data:
		default:
			log.Warn("玩家 %s 发送缓冲已满，丢弃 %s", userID, kind)
		}
	}
}

func (sess *Session) readPump() {
	defer func() {
		sess.server.unregister(sess)
		_ = sess.conn.Close()
	}()
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("玩家 %s 连接异常: %v", sess.userID, err)
			}
			return
		}
		a := share.GameAction{ChankanTile: -1}
		if err := json.Unmarshal(data, &a); err != nil {
			log.Warn("玩家 %s 操作非法: %v", sess.userID, err)
			continue
		}
		a.UserID = sess.userID
		room, ok := sess.server.rm.GetPlayerRoom(sess.userID)
		if !ok {
			log.Warn("玩家 %s 不在任何房间中", sess.userID)
			continue
		}
		room.SubmitAction(&a)
	}
}

func (sess *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sess.conn.Close()
	}()
	for {
		select {
		case data, ok := <-sess.send:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sess.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// MultiPusher 把推送同时送往多个出口（本地 websocket 与 nats）
type MultiPusher []interface {
	Push(userIDs []string, kind string, data []byte)
}

func (mp MultiPusher) Push(userIDs []string, kind string, data []byte) {
	for _, p := range mp {
		p.Push(userIDs, kind, data)
	}
}
