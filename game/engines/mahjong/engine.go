package mahjong

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"riichi/game/engines"
	"riichi/game/share"
	"riichi/log"
	"riichi/record"
)

// turnTimeout 问询窗口时限。行动者超时按摸切处理，
// 叫牌/荣和问询超时视为放弃
const turnTimeout = 30 * time.Second

// RiichiMahjong4p 四人立直麻将引擎。包装规则核心 Game：
// 驱动操作入队串行处理，事件按座位投影后推送出去
type RiichiMahjong4p struct {
	state  engines.GameState
	rules  Rules
	pusher engines.Pusher
	repo   record.Repository

	roomID   string
	users    map[string]*share.UserInfo
	seatUser [SeatCount]string

	game      *Game
	arbiter   *CallArbiter
	persister *GamePersister

	actions   chan *share.GameAction
	quit      chan struct{}
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewRiichiMahjong4p 创建引擎原型。repo 可为 nil（不留档）
func NewRiichiMahjong4p(rules Rules, pusher engines.Pusher, repo record.Repository) *RiichiMahjong4p {
	return &RiichiMahjong4p{
		state:  engines.GameWaiting,
		rules:  rules,
		pusher: pusher,
		repo:   repo,
	}
}

func (eg *RiichiMahjong4p) Clone() engines.Engine {
	return NewRiichiMahjong4p(eg.rules, eg.pusher, eg.repo)
}

func (eg *RiichiMahjong4p) InitializeEngine(roomID string, users map[string]*share.UserInfo) error {
	if len(users) != SeatCount {
		return fmt.Errorf("%w: 需要 %d 名玩家", ErrInvalidAction, SeatCount)
	}
	players := make([]*Player, SeatCount)
	for userID, info := range users {
		if info.Seat < 0 || info.Seat >= SeatCount || players[info.Seat] != nil {
			return fmt.Errorf("%w: 座位分配非法", ErrInvalidAction)
		}
		eg.seatUser[info.Seat] = userID
		players[info.Seat] = NewPlayer(info.Nickname)
	}
	eg.roomID = roomID
	eg.users = users
	eg.game = NewGame(eg.rules, time.Now().UnixNano())
	eg.persister = NewGamePersister(eg.repo, eg.game.ID, eg.game.Seed, roomID, eg.seatUser)
	eg.actions = make(chan *share.GameAction, 64)
	eg.quit = make(chan struct{})
	eg.done = make(chan struct{})

	// 座位已由房间分配，不再洗座
	if err := eg.game.StartGame(players, false); err != nil {
		return err
	}
	eg.state = engines.GameInProgress
	eg.flush()
	go eg.loop()
	log.Info("房间 %s 开桌，game=%s", roomID, eg.game.ID)
	return nil
}

func (eg *RiichiMahjong4p) NotifyAction(a *share.GameAction) {
	if eg.closed.Load() {
		return
	}
	select {
	case eg.actions <- a:
	default:
		log.Warn("房间 %s 操作队列已满，丢弃 %s", eg.roomID, a.Kind)
	}
}

func (eg *RiichiMahjong4p) Done() <-chan struct{} { return eg.done }

func (eg *RiichiMahjong4p) Close() {
	eg.closeOnce.Do(func() {
		eg.closed.Store(true)
		if eg.quit != nil {
			close(eg.quit)
		}
	})
}

func (eg *RiichiMahjong4p) loop() {
	timer := time.NewTimer(turnTimeout)
	defer timer.Stop()
	eg.armTimer(timer)
	for {
		select {
		case a := <-eg.actions:
			eg.safeHandle(a)
			eg.flush()
			if eg.game.IsOver() {
				eg.finish()
				return
			}
			eg.armTimer(timer)
		case <-timer.C:
			eg.timeoutPending()
			eg.flush()
			if eg.game.IsOver() {
				eg.finish()
				return
			}
			eg.armTimer(timer)
		case <-eg.quit:
			return
		}
	}
}

// armTimer 有未回应的问询就重置回合计时器，否则停表
func (eg *RiichiMahjong4p) armTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	if len(eg.game.queries) > 0 {
		t.Reset(turnTimeout)
	}
}

// timeoutPending 问询窗口超时兜底。仲裁中给缺席座位补放弃票，
// 让已到的叫牌/荣和照常裁决；抢杠窗口直接推动收尾；
// 行动者则代为摸切（没有现摸时打第一张可打牌）
func (eg *RiichiMahjong4p) timeoutPending() {
	g := eg.game
	if g.pending != nil {
		if eg.arbiter != nil {
			for _, seat := range eg.arbiter.Waiting() {
				if err := eg.arbiter.Respond(&CallResponse{Seat: seat, Pass: true}); err != nil {
					log.Warn("房间 %s 超时补票失败: %v", eg.roomID, err)
				}
			}
			eg.arbiter = nil
			return
		}
		g.RunContinuation()
		return
	}

	var dq *DiscardQuery
	for _, q := range g.queries {
		if d, ok := q.(*DiscardQuery); ok {
			dq = d
			break
		}
	}
	if dq == nil || len(dq.Allowed) == 0 {
		return
	}
	seat := dq.QuerySeat()
	tile := g.Players[seat].LatestDraw
	found := false
	for _, tl := range dq.Allowed {
		if tl == tile {
			found = true
			break
		}
	}
	if !found {
		tile = dq.Allowed[0]
	}
	if err := g.DiscardTile(seat, tile, false); err != nil {
		log.Error("房间 %s P%d 超时代打失败: %v", eg.roomID, seat, err)
	}
}

func (eg *RiichiMahjong4p) seatOf(userID string) int {
	if info, ok := eg.users[userID]; ok {
		return info.Seat
	}
	return SeatNone
}

// safeHandle 兜底操作处理中的 panic：转储引擎状态后丢弃该操作
func (eg *RiichiMahjong4p) safeHandle(a *share.GameAction) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("房间 %s 处理 %s 异常: %v\n%s", eg.roomID, a.Kind, r, eg.game.Dump())
		}
	}()
	eg.handle(a)
}

func (eg *RiichiMahjong4p) handle(a *share.GameAction) {
	seat := eg.seatOf(a.UserID)
	if seat == SeatNone {
		log.Warn("房间 %s 收到陌生用户 %s 的操作", eg.roomID, a.UserID)
		return
	}
	var err error
	switch a.Kind {
	case share.ActionDiscard:
		if len(a.Tiles) != 1 {
			err = fmt.Errorf("%w: 打牌需要一张牌", ErrInvalidAction)
		} else {
			err = eg.game.DiscardTile(seat, Tile(a.Tiles[0]), a.Riichi)
		}
	case share.ActionSelfKan:
		err = eg.game.CallClosedOrAddedKan(toTiles(a.Tiles), seat)
	case share.ActionNineTiles:
		err = eg.game.Do9TileDraw(seat)
	case share.ActionTsumo:
		err = eg.game.DoTsumo(seat)
	case share.ActionChi, share.ActionPon, share.ActionOpenKan, share.ActionRon, share.ActionPass:
		err = eg.respondCall(seat, a)
	case share.ActionContinue:
		eg.arbiter = nil
		eg.game.RunContinuation()
	default:
		err = fmt.Errorf("%w: 未知操作 %s", ErrInvalidAction, a.Kind)
	}
	if err != nil {
		log.Warn("房间 %s P%d %s 被拒: %v", eg.roomID, seat, a.Kind, err)
		eg.pushTo(a.UserID, "error", map[string]string{"reason": err.Error()})
	}
}

// respondCall 仲裁期的回应。抢杠荣和直接结算；弃牌仲裁交给
// CallArbiter 收齐后按优先级裁决
func (eg *RiichiMahjong4p) respondCall(seat int, a *share.GameAction) error {
	if a.Kind == share.ActionRon && a.ChankanTile >= 0 {
		return eg.game.DoRon([]int{seat}, a.Discarder, Tile(a.ChankanTile))
	}
	if eg.arbiter == nil {
		ar, err := NewCallArbiter(eg.game)
		if err != nil {
			// 不在弃牌仲裁中：放弃即推动收尾（抢杠问询）
			if a.Kind == share.ActionPass {
				eg.game.RunContinuation()
				return nil
			}
			return err
		}
		eg.arbiter = ar
	}
	r := &CallResponse{Seat: seat}
	switch a.Kind {
	case share.ActionPass:
		r.Pass = true
	case share.ActionRon:
		r.Ron = true
	case share.ActionChi:
		r.CallKind = MeldChi
		r.Tiles = toTiles(a.Tiles)
	case share.ActionPon:
		r.CallKind = MeldPon
		r.Tiles = toTiles(a.Tiles)
	case share.ActionOpenKan:
		r.CallKind = MeldOpenKan
		r.Tiles = toTiles(a.Tiles)
	}
	err := eg.arbiter.Respond(r)
	if len(eg.arbiter.Waiting()) == 0 {
		eg.arbiter = nil
	}
	return err
}

// flush 取走事件缓冲，逐座位投影后推送，同时喂给留档
func (eg *RiichiMahjong4p) flush() {
	for _, se := range eg.game.PopEvents() {
		eg.persister.Observe(se.Event)
		if se.Seat != SeatNone {
			if ev := se.Event.ForSeat(se.Seat); ev != nil {
				eg.pushTo(eg.seatUser[se.Seat], string(ev.Kind()), ev)
			}
			continue
		}
		for seat := 0; seat < SeatCount; seat++ {
			if ev := se.Event.ForSeat(seat); ev != nil {
				eg.pushTo(eg.seatUser[seat], string(ev.Kind()), ev)
			}
		}
	}
}

func (eg *RiichiMahjong4p) pushTo(userID, kind string, payload any) {
	if eg.pusher == nil || userID == "" {
		return
	}
	data, err := json.Marshal(&share.GamePush{RoomID: eg.roomID, Kind: kind, Data: payload})
	if err != nil {
		log.Error("事件序列化失败: %v", err)
		return
	}
	eg.pusher.Push([]string{userID}, kind, data)
}

func (eg *RiichiMahjong4p) finish() {
	eg.state = engines.GameFinished
	eg.persister.Flush()
	close(eg.done)
	log.Info("房间 %s 对局 %s 结束", eg.roomID, eg.game.ID)
}

func toTiles(ints []int) []Tile {
	out := make([]Tile, 0, len(ints))
	for _, n := range ints {
		out = append(out, Tile(n))
	}
	return out
}
