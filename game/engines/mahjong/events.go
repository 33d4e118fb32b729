package mahjong

// EventKind 出站事件种类
type EventKind string

const (
	EventNewGame  EventKind = "new_game"
	EventNewRound EventKind = "new_round"
	EventTile     EventKind = "tile"
	EventDiscard  EventKind = "discard"
	EventCall     EventKind = "call"
	EventDora     EventKind = "dora"
	EventFuriten  EventKind = "furiten"
	EventWin      EventKind = "win"
	EventDraw     EventKind = "draw"
	EventGameOver EventKind = "game_over"

	QueryDiscard EventKind = "discard_query"
	QueryRiichi  EventKind = "riichi_query"
	QueryDraw    EventKind = "draw_query"
	QueryTsumo   EventKind = "tsumo_query"
	QueryRon     EventKind = "ron_query"
	QueryCall    EventKind = "call_query"
)

// Event 引擎出站事件。ForSeat 做视角投影：别家手牌与摸牌被隐藏，
// 问询只投给归属座位（其余座位得到 nil）
type Event interface {
	Kind() EventKind
	ForSeat(idx int) Event
}

// Query 问询事件：等待驱动方回应的决策点。Optional 为真时
// 可被其它强制操作隐式放弃
type Query interface {
	Event
	QuerySeat() int
	Optional() bool
}

// SeatEvent 事件缓冲条目。Seat 为事件归属座位，SeatNone 为全局广播
type SeatEvent struct {
	Seat  int
	Event Event
}

type NewGameEvent struct {
	PlayerNames [SeatCount]string
	Points      [SeatCount]int
}

func (e *NewGameEvent) Kind() EventKind       { return EventNewGame }
func (e *NewGameEvent) ForSeat(idx int) Event { return e }

type NewRoundEvent struct {
	Wind  Wind
	Round int
	Bonus int
	Hands [SeatCount][]Tile
}

func (e *NewRoundEvent) Kind() EventKind { return EventNewRound }

// ForSeat 只保留本家起手
func (e *NewRoundEvent) ForSeat(idx int) Event {
	out := &NewRoundEvent{Wind: e.Wind, Round: e.Round, Bonus: e.Bonus}
	if idx >= 0 && idx < SeatCount {
		out.Hands[idx] = append([]Tile(nil), e.Hands[idx]...)
	}
	return out
}

type TileEvent struct {
	Seat     int
	Tile     Tile
	DeadWall bool
}

func (e *TileEvent) Kind() EventKind { return EventTile }

// ForSeat 别家只看见有人摸了牌
func (e *TileEvent) ForSeat(idx int) Event {
	if idx == e.Seat {
		return e
	}
	return &TileEvent{Seat: e.Seat, Tile: TileNone, DeadWall: e.DeadWall}
}

type DiscardEvent struct {
	Seat        int
	Tile        Tile
	IsTsumogiri bool
	IsRiichi    bool
}

func (e *DiscardEvent) Kind() EventKind       { return EventDiscard }
func (e *DiscardEvent) ForSeat(idx int) Event { return e }

type CallEvent struct {
	Seat int
	Meld *Meld
}

func (e *CallEvent) Kind() EventKind       { return EventCall }
func (e *CallEvent) ForSeat(idx int) Event { return e }

type DoraEvent struct {
	Indicator Tile
}

func (e *DoraEvent) Kind() EventKind       { return EventDora }
func (e *DoraEvent) ForSeat(idx int) Event { return e }

// FuritenEvent 座位振听状态变化，仅投给本家
type FuritenEvent struct {
	Seat      int
	IsFuriten bool
}

func (e *FuritenEvent) Kind() EventKind { return EventFuriten }
func (e *FuritenEvent) ForSeat(idx int) Event {
	if idx == e.Seat {
		return e
	}
	return nil
}

type WinEvent struct {
	Win *Win
}

func (e *WinEvent) Kind() EventKind       { return EventWin }
func (e *WinEvent) ForSeat(idx int) Event { return e }

// DrawKind 流局种类
type DrawKind string

const (
	DrawExhaustive DrawKind = "exhaustive"
	DrawFourWinds  DrawKind = "wind"
	DrawNineTiles  DrawKind = "terminal"
	DrawFourRiichi DrawKind = "riichi"
	DrawFourKans   DrawKind = "kan"
)

type DrawEvent struct {
	DrawKind DrawKind
	Hands    [SeatCount][]Tile
	Nagashi  [SeatCount]bool
	Points   [SeatCount]int
}

func (e *DrawEvent) Kind() EventKind       { return EventDraw }
func (e *DrawEvent) ForSeat(idx int) Event { return e }

type GameOverEvent struct {
	Points [SeatCount]int
}

func (e *GameOverEvent) Kind() EventKind       { return EventGameOver }
func (e *GameOverEvent) ForSeat(idx int) Event { return e }

// seatQuery 问询公共部分
type seatQuery struct {
	Seat int
}

func (q *seatQuery) QuerySeat() int { return q.Seat }

func projectQuery(q Query, idx int) Event {
	if idx == q.QuerySeat() {
		return q
	}
	return nil
}

// DiscardQuery 强制问询：本回合可打出的牌。Waits 与 Allowed 对齐，
// 打出该牌后听牌时非 nil
type DiscardQuery struct {
	seatQuery
	Allowed []Tile
	Waits   []*Wait
}

func (q *DiscardQuery) Kind() EventKind       { return QueryDiscard }
func (q *DiscardQuery) Optional() bool        { return false }
func (q *DiscardQuery) ForSeat(idx int) Event { return projectQuery(q, idx) }

// RiichiQuery 可立直问询：每张可打牌与打出后的听牌
type RiichiQuery struct {
	seatQuery
	Allowed []Tile
	Waits   []*Wait
}

func (q *RiichiQuery) Kind() EventKind       { return QueryRiichi }
func (q *RiichiQuery) Optional() bool        { return true }
func (q *RiichiQuery) ForSeat(idx int) Event { return projectQuery(q, idx) }

// DrawQuery 九种九牌流局问询
type DrawQuery struct {
	seatQuery
}

func (q *DrawQuery) Kind() EventKind       { return QueryDraw }
func (q *DrawQuery) Optional() bool        { return true }
func (q *DrawQuery) ForSeat(idx int) Event { return projectQuery(q, idx) }

type TsumoQuery struct {
	seatQuery
}

func (q *TsumoQuery) Kind() EventKind       { return QueryTsumo }
func (q *TsumoQuery) Optional() bool        { return true }
func (q *TsumoQuery) ForSeat(idx int) Event { return projectQuery(q, idx) }

// RonQuery 荣和问询。IsChankan 时 Tile 为被抢的杠牌
type RonQuery struct {
	seatQuery
	FromSeat  int
	Tile      Tile
	IsChankan bool
}

func (q *RonQuery) Kind() EventKind       { return QueryRon }
func (q *RonQuery) Optional() bool        { return true }
func (q *RonQuery) ForSeat(idx int) Event { return projectQuery(q, idx) }

// CallKindKan 自家杠问询的笼统种类（暗杠与加杠的选项混在一起，
// 按选项牌数区分：四张暗杠，一张加杠）
const CallKindKan MeldKind = "kan"

// CallQuery 叫牌问询。Choices 为手里可用的组合（不含弃牌本身），
// DiscardIdx 为被叫弃牌在弃牌河中的下标
type CallQuery struct {
	seatQuery
	CallKind   MeldKind
	Choices    [][]Tile
	FromSeat   int
	DiscardIdx int
}

func (q *CallQuery) Kind() EventKind       { return QueryCall }
func (q *CallQuery) Optional() bool        { return true }
func (q *CallQuery) ForSeat(idx int) Event { return projectQuery(q, idx) }
