package mahjong

import (
	"fmt"
	"sort"
)

// CallResponse 仲裁中某座位的选择。Pass 为放弃；Ron 为荣和；
// 否则按 CallKind/Tiles 叫牌
type CallResponse struct {
	Seat     int
	Pass     bool
	Ron      bool
	CallKind MeldKind
	Tiles    []Tile
}

// CallArbiter 弃牌后的优先级仲裁。引擎把吃/碰/杠/荣和问询
// 各自独立发给座位；仲裁器收齐每个被问询座位的一份回应后，
// 按荣和 > 碰/明杠 > 吃、同级近位优先执行胜者，全员放弃则
// 驱动引擎收尾。测试里同步喂入回应即可
type CallArbiter struct {
	game      *Game
	discarder int
	waiting   map[int]bool
	responses map[int]*CallResponse
}

// NewCallArbiter 以当前挂起的弃牌仲裁创建。没有可仲裁的
// 弃牌时返回错误
func NewCallArbiter(g *Game) (*CallArbiter, error) {
	if g.pending == nil || g.pending.kind != pendingAfterDiscard {
		return nil, fmt.Errorf("%w: 当前没有弃牌仲裁", ErrInvalidAction)
	}
	a := &CallArbiter{
		game:      g,
		discarder: g.pending.seat,
		waiting:   map[int]bool{},
		responses: map[int]*CallResponse{},
	}
	for _, q := range g.queries {
		switch q.(type) {
		case *RonQuery, *CallQuery:
			a.waiting[q.QuerySeat()] = true
		}
	}
	return a, nil
}

// Waiting 还没回应的座位
func (a *CallArbiter) Waiting() []int {
	var out []int
	for seat := range a.waiting {
		if a.responses[seat] == nil {
			out = append(out, seat)
		}
	}
	sort.Ints(out)
	return out
}

// Respond 记录一个座位的回应。收齐后立刻裁决
func (a *CallArbiter) Respond(r *CallResponse) error {
	if !a.waiting[r.Seat] {
		return fmt.Errorf("%w: P%d 没有被问询", ErrInvalidAction, r.Seat)
	}
	if a.responses[r.Seat] != nil {
		return fmt.Errorf("%w: P%d 已经回应过", ErrInvalidAction, r.Seat)
	}
	a.responses[r.Seat] = r
	if len(a.responses) == len(a.waiting) {
		return a.resolve()
	}
	return nil
}

// callPriority 同级排序键：碰/明杠优先于吃，再按离放铳者的距离
func (a *CallArbiter) callPriority(r *CallResponse) (int, int) {
	rank := 1
	if r.CallKind == MeldChi {
		rank = 2
	}
	return rank, (r.Seat - a.discarder + SeatCount) % SeatCount
}

func (a *CallArbiter) resolve() error {
	var ronSeats []int
	var calls []*CallResponse
	for _, r := range a.responses {
		switch {
		case r.Pass:
		case r.Ron:
			ronSeats = append(ronSeats, r.Seat)
		default:
			calls = append(calls, r)
		}
	}

	if len(ronSeats) > 0 {
		sort.Ints(ronSeats)
		return a.game.DoRon(ronSeats, a.discarder, TileNone)
	}

	if len(calls) > 0 {
		sort.Slice(calls, func(i, j int) bool {
			ri, di := a.callPriority(calls[i])
			rj, dj := a.callPriority(calls[j])
			if ri != rj {
				return ri < rj
			}
			return di < dj
		})
		win := calls[0]
		switch win.CallKind {
		case MeldChi:
			return a.game.CallChi(win.Tiles, win.Seat, a.discarder)
		case MeldPon:
			return a.game.CallPon(win.Tiles, win.Seat, a.discarder)
		case MeldOpenKan:
			return a.game.CallOpenKan(win.Tiles, win.Seat, a.discarder)
		default:
			return fmt.Errorf("%w: 未知叫牌 %s", ErrInvalidAction, win.CallKind)
		}
	}

	a.game.RunContinuation()
	return nil
}
