package mahjong

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"riichi/log"
)

// drawPurpose 一次取牌的用途。预置牌序列只对非发牌的取牌生效
type drawPurpose string

const (
	drawHand drawPurpose = "hand"
	drawLive drawPurpose = "tile"
	drawDead drawPurpose = "dead"
	drawDora drawPurpose = "dora"
	drawUra  drawPurpose = "ura"
)

// pendingKind 挂起动作种类。叫牌/荣和仲裁结束后由 RunContinuation
// 执行对应的收尾
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingAfterDiscard
	pendingAfterKan
)

// pendingAction 显式的挂起动作，捕获仲裁前的上下文
type pendingAction struct {
	kind     pendingKind
	seat     int
	ronSeats []int // 有荣和资格但可能放弃的座位

	// pendingAfterKan
	closedKan bool
}

// Game 一桌四人局。严格单线程：所有状态变更都发生在一次
// 驱动方调用内部，事件缓冲在调用之间被取走
type Game struct {
	ID    string
	Seed  int64
	Rules Rules

	Players [SeatCount]*Player
	Wall    *Wall

	Wind           Wind
	Round          int
	Bonus          int
	ActiveSeat     int
	RemainingDraws int
	DoraIndicators []Tile
	RiichiSticks   int

	rng      *rand.Rand
	searcher *Searcher
	calls    *CallComputer

	presetTiles []Tile
	events      []SeatEvent
	queries     []Query
	pending     *pendingAction
	over        bool
}

// NewGame 创建一桌。seed 决定整局随机序列
func NewGame(rules Rules, seed int64) *Game {
	rng := rand.New(rand.NewSource(seed))
	return &Game{
		ID:       uuid.NewString(),
		Seed:     seed,
		Rules:    rules,
		Wall:     NewWall(rules.AkaDora, rng),
		rng:      rng,
		searcher: NewSearcher(),
		calls:    NewCallComputer(rules.AkaDora),
	}
}

// StartGame 入座开局。shuffle 为真时随机调换座位
func (g *Game) StartGame(players []*Player, shuffle bool) error {
	if len(players) != SeatCount {
		return fmt.Errorf("%w: 需要 %d 名玩家，实际 %d", ErrInvalidAction, SeatCount, len(players))
	}
	order := []int{0, 1, 2, 3}
	if shuffle {
		g.rng.Shuffle(SeatCount, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	ev := &NewGameEvent{}
	for seat, src := range order {
		p := players[src]
		p.Idx = seat
		p.Points = g.Rules.StartPoints
		g.Players[seat] = p
		ev.PlayerNames[seat] = p.Name
		ev.Points[seat] = p.Points
	}
	g.emit(SeatNone, ev)

	g.Wind = WindEast
	g.Round = 1
	g.Bonus = 0
	g.startRound()
	return nil
}

// SetTilePreset 预置取牌序列（测试与剧本局）。发牌不消耗序列，
// 此后的每次取牌（含宝牌指示牌与岭上牌）按序消耗
func (g *Game) SetTilePreset(tileString string) error {
	tiles, err := ParseTiles(tileString)
	if err != nil {
		return err
	}
	g.presetTiles = tiles
	return nil
}

// PopEvents 取走事件缓冲。问询保持挂起直到被动作回应
func (g *Game) PopEvents() []SeatEvent {
	out := g.events
	g.events = nil
	return out
}

// PendingQueries 当前未回应的问询
func (g *Game) PendingQueries() []Query {
	return append([]Query(nil), g.queries...)
}

// IsOver 整场结束
func (g *Game) IsOver() bool { return g.over }

// RunContinuation 所有被问询方都已放弃时，执行仲裁后的收尾
func (g *Game) RunContinuation() {
	if g.over || g.pending == nil {
		return
	}
	pa := g.pending
	g.pending = nil
	g.clearQueries()
	switch pa.kind {
	case pendingAfterDiscard:
		g.afterDiscard(pa)
	case pendingAfterKan:
		g.afterKan(pa)
	}
}

func (g *Game) emit(seat int, ev Event) {
	g.events = append(g.events, SeatEvent{Seat: seat, Event: ev})
}

func (g *Game) emitQuery(q Query) {
	g.queries = append(g.queries, q)
	g.emit(q.QuerySeat(), q)
}

func (g *Game) clearQueries() {
	g.queries = nil
}

// DealerSeat 当前庄家座位
func (g *Game) DealerSeat() int { return (g.Round - 1) % SeatCount }

// SeatWind 座位的自风
func (g *Game) SeatWind(seat int) Wind {
	return Wind((seat - g.DealerSeat() + SeatCount) % SeatCount)
}

// totalMelds 全桌副露数（本局是否有人叫过牌）
func (g *Game) totalMelds() int {
	n := 0
	for _, p := range g.Players {
		n += len(p.Melds)
	}
	return n
}

// totalKans 全桌杠数与是否同一人所有
func (g *Game) totalKans() (int, bool) {
	total, seats := 0, 0
	for _, p := range g.Players {
		if n := p.kanCount(); n > 0 {
			total += n
			seats++
		}
	}
	return total, seats <= 1
}

func (g *Game) riichiCount() int {
	n := 0
	for _, p := range g.Players {
		if p.IsRiichi {
			n++
		}
	}
	return n
}

// drawFromWall 取一张牌。预置序列非空且用途不是发牌时优先消耗
func (g *Game) drawFromWall(purpose drawPurpose) (Tile, error) {
	if len(g.presetTiles) > 0 && purpose != drawHand {
		want := g.presetTiles[0]
		t, err := g.Wall.Take(want)
		if err == nil {
			g.presetTiles = g.presetTiles[1:]
			return t, nil
		}
		log.Warn("预置牌 %s 不可用，回退随机: %v", want, err)
	}
	return g.Wall.Draw()
}

// startRound 按当前 wind/round/bonus 开一局：洗山、发牌、
// 翻宝牌指示牌、庄家第一摸
func (g *Game) startRound() {
	g.Wall.Reset()
	g.RemainingDraws = g.Rules.LiveDraws
	g.DoraIndicators = nil
	g.pending = nil
	g.clearQueries()

	ev := &NewRoundEvent{Wind: g.Wind, Round: g.Round, Bonus: g.Bonus}
	for seat, p := range g.Players {
		p.ResetRound()
		if p.PresetHand != "" {
			tiles, err := ParseTiles(p.PresetHand)
			if err != nil || len(tiles) != 13 {
				log.Error("预置起手非法 %q: %v", p.PresetHand, err)
			} else {
				for _, want := range tiles {
					t, terr := g.Wall.Take(want)
					if terr != nil {
						log.Error("预置起手取牌失败 %s: %v", want, terr)
						continue
					}
					p.Hand = append(p.Hand, t)
				}
			}
		}
		for len(p.Hand) < 13 {
			t, err := g.drawFromWall(drawHand)
			if err != nil {
				log.Error("发牌失败: %v", err)
				break
			}
			p.Hand = append(p.Hand, t)
		}
		p.CalcShantenAndUkeire(g.searcher)
		ev.Hands[seat] = append([]Tile(nil), p.Hand...)
	}
	g.emit(SeatNone, ev)

	if ind, err := g.drawFromWall(drawDora); err == nil {
		g.DoraIndicators = append(g.DoraIndicators, ind)
		g.emit(SeatNone, &DoraEvent{Indicator: ind})
	} else {
		log.Error("翻宝牌失败: %v", err)
	}

	g.ActiveSeat = g.DealerSeat()
	g.drawTile(g.ActiveSeat, false)
}

// nextRoundBonus 本局连庄：bonus+1，局数不动
func (g *Game) nextRoundBonus() {
	g.Bonus++
	if g.checkGameOver(false) {
		return
	}
	g.startRound()
}

// nextRoundAdvance 过庄：bonus 清零、局数推进，南入按风推进
func (g *Game) nextRoundAdvance() {
	g.Bonus = 0
	g.Round++
	if g.Round > 4 {
		g.Round = 1
		g.Wind = g.Wind.Next()
	}
	if g.checkGameOver(true) {
		return
	}
	g.startRound()
}

// checkGameOver 终局判定：有人被飞，或打完最终局（过庄时）。
// 最终局连庄在无人到达目标分时继续
func (g *Game) checkGameOver(advanced bool) bool {
	broke := false
	for _, p := range g.Players {
		if p.Points < 0 {
			broke = true
		}
	}
	pastLast := g.Wind > g.Rules.LastWind ||
		(g.Wind == g.Rules.LastWind && g.Round > g.Rules.LastRound)
	if !broke && !(advanced && pastLast) {
		return false
	}
	if advanced && pastLast && !broke {
		reached := false
		for _, p := range g.Players {
			if p.Points >= g.Rules.MinWinPoints {
				reached = true
			}
		}
		if !reached {
			return false // 无人到达目标分，延长进下一风
		}
	}
	return g.finishGame()
}

func (g *Game) finishGame() bool {
	g.over = true
	ev := &GameOverEvent{}
	for seat, p := range g.Players {
		ev.Points[seat] = p.Points
	}
	g.emit(SeatNone, ev)
	return true
}

// Dump 诊断转储：场况、牌山与各家状态，异常时随日志留痕
func (g *Game) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%d 本场%d 供托%d 轮到P%d 余%d 山%d 宝牌%s\n",
		g.Wind, g.Round, g.Bonus, g.RiichiSticks, g.ActiveSeat,
		g.RemainingDraws, g.Wall.Remaining(), TilesString(g.DoraIndicators))
	for seat, p := range g.Players {
		if p == nil {
			continue
		}
		fmt.Fprintf(&b, "P%d %s %d点 手%s", seat, p.Name, p.Points, TilesString(p.Hand))
		for _, m := range p.Melds {
			fmt.Fprintf(&b, " 副露%s", TilesString(m.Tiles))
		}
		if len(p.Discards) > 0 {
			b.WriteString(" 河")
			for _, d := range p.Discards {
				b.WriteString(d.Tile.String())
			}
		}
		if p.IsRiichi {
			b.WriteString(" 立直")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// handsSnapshot 全桌闭手牌快照
func (g *Game) handsSnapshot() [SeatCount][]Tile {
	var out [SeatCount][]Tile
	for seat, p := range g.Players {
		out[seat] = append([]Tile(nil), p.Hand...)
	}
	return out
}

// pointsSnapshot 全桌分数快照
func (g *Game) pointsSnapshot() [SeatCount]int {
	var out [SeatCount]int
	for seat, p := range g.Players {
		out[seat] = p.Points
	}
	return out
}
