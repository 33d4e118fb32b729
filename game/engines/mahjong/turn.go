package mahjong

import (
	"errors"
	"fmt"
)

// drawTile 摸牌阶段。先判荒牌，再摸牌入手，然后按固定顺序
// 发问询：九种九牌、自摸、杠、立直、打牌
func (g *Game) drawTile(seat int, deadWall bool) {
	if g.RemainingDraws == 0 {
		g.exhaustiveDraw()
		return
	}
	if !deadWall || g.Rules.DeadWallDrawConsumes {
		g.RemainingDraws--
	}

	p := g.Players[seat]
	purpose := drawLive
	if deadWall {
		purpose = drawDead
	}
	t, err := g.drawFromWall(purpose)
	if err != nil {
		g.exhaustiveDraw()
		return
	}
	p.Hand = append(p.Hand, t)
	p.LatestDraw = t
	p.LatestDrawDeadWall = deadWall
	p.Kuikae = nil
	g.ActiveSeat = seat
	g.emit(SeatNone, &TileEvent{Seat: seat, Tile: t, DeadWall: deadWall})

	// 九种九牌
	if !deadWall && len(p.Discards) == 0 && g.totalMelds() == 0 &&
		uniqueTerminalKinds(p.Hand) >= 9 {
		g.emitQuery(&DrawQuery{seatQuery{seat}})
	}

	// 自摸
	if _, werr := g.evaluateWin(seat, TileNone, winFlags{tsumo: true}); werr == nil {
		g.emitQuery(&TsumoQuery{seatQuery{seat}})
	}

	// 暗杠/加杠
	if g.RemainingDraws > 0 {
		if total, _ := g.totalKans(); total < 4 {
			if choices := g.kanChoices(p); len(choices) > 0 {
				g.emitQuery(&CallQuery{
					seatQuery: seatQuery{seat},
					CallKind:  CallKindKan,
					Choices:   choices,
					FromSeat:  SeatNone,
				})
			}
		}
	}

	// 立直
	if !p.IsRiichi && p.onlyClosedKans() && p.Points >= 1000 && g.RemainingDraws >= 4 {
		if allowed, waits := g.riichiOptions(p); len(allowed) > 0 {
			g.emitQuery(&RiichiQuery{seatQuery: seatQuery{seat}, Allowed: allowed, Waits: waits})
		}
	}

	// 打牌（强制）
	allowed, waits := g.discardOptions(p)
	g.emitQuery(&DiscardQuery{seatQuery: seatQuery{seat}, Allowed: allowed, Waits: waits})
}

// uniqueTerminalKinds 手里幺九种类数
func uniqueTerminalKinds(tiles []Tile) int {
	seen := map[TileType]bool{}
	for _, t := range tiles {
		if tt := t.Type(); tt.IsTerminalOrHonor() {
			seen[tt] = true
		}
	}
	return len(seen)
}

// kanChoices 本家可杠的组合：手里四张成暗杠，碰可升级加杠。
// 立直后按规则只允许不变听的暗杠
func (g *Game) kanChoices(p *Player) [][]Tile {
	if p.IsRiichi && !g.Rules.AllowRiichiKan {
		return nil
	}
	var out [][]Tile

	var counts [TypeCount][]Tile
	for _, t := range p.Hand {
		counts[t.Type()] = append(counts[t.Type()], t)
	}
	for k := 0; k < TypeCount; k++ {
		tiles := counts[k]
		if len(tiles) != 4 {
			continue
		}
		kind := TileType(k)
		if p.IsRiichi {
			if kind != p.LatestDraw.Type() {
				continue
			}
			if g.Rules.RiichiKanRequiresSameWaits && !g.kanKeepsWaits(p, kind) {
				continue
			}
		}
		out = append(out, append([]Tile(nil), tiles...))
	}

	if !p.IsRiichi {
		for _, m := range p.Melds {
			if m.Kind != MeldPon {
				continue
			}
			for _, t := range p.Hand {
				if t.Type() == m.Tiles[0].Type() {
					out = append(out, []Tile{t})
				}
			}
		}
	}
	return out
}

// kanKeepsWaits 暗杠这种牌后听牌集合是否不变
func (g *Game) kanKeepsWaits(p *Player, kind TileType) bool {
	before := make([]Tile, 0, len(p.Hand)-1)
	for _, t := range p.Hand {
		if t != p.LatestDraw {
			before = append(before, t)
		}
	}
	after := make([]Tile, 0, len(p.Hand)-4)
	removed := 0
	for _, t := range p.Hand {
		if t.Type() == kind && removed < 4 {
			removed++
			continue
		}
		after = append(after, t)
	}

	h1, _ := Hand34FromTiles(before)
	h2, _ := Hand34FromTiles(after)
	f1 := fixedMeldsForCount(len(before))
	f2 := fixedMeldsForCount(len(after))
	if g.searcher.ShantenAll(h1, f1) != 0 || g.searcher.ShantenAll(h2, f2) != 0 {
		return false
	}
	w1, _ := g.searcher.WaitsAndUkeire(h1, f1, nil)
	w2, _ := g.searcher.WaitsAndUkeire(h2, f2, nil)
	if len(w1) != len(w2) {
		return false
	}
	for i := range w1 {
		if w1[i] != w2[i] {
			return false
		}
	}
	return true
}

// riichiOptions 可宣告立直的打牌选项及打出后的听牌
func (g *Game) riichiOptions(p *Player) ([]Tile, []*Wait) {
	var allowed []Tile
	var waits []*Wait
	seen := map[Tile]bool{}
	for _, t := range p.Hand {
		if seen[t] {
			continue
		}
		seen[t] = true
		rest := removeOne(p.Hand, t)
		if w := g.waitFor(p.Idx, rest); w != nil {
			allowed = append(allowed, t)
			waits = append(waits, w)
		}
	}
	return allowed, waits
}

// discardOptions 可打出的牌。立直后只能摸切；吃碰后受现物禁打约束
func (g *Game) discardOptions(p *Player) ([]Tile, []*Wait) {
	var allowed []Tile
	if p.IsRiichi {
		allowed = []Tile{p.LatestDraw}
	} else {
		seen := map[Tile]bool{}
		for _, t := range p.Hand {
			if seen[t] || kuikaeForbidden(p.Kuikae, t.Type()) {
				continue
			}
			seen[t] = true
			allowed = append(allowed, t)
		}
	}
	waits := make([]*Wait, len(allowed))
	for i, t := range allowed {
		waits[i] = g.waitFor(p.Idx, removeOne(p.Hand, t))
	}
	return allowed, waits
}

func kuikaeForbidden(kuikae []TileType, kind TileType) bool {
	for _, k := range kuikae {
		if k == kind {
			return true
		}
	}
	return false
}

func removeOne(tiles []Tile, t Tile) []Tile {
	out := make([]Tile, 0, len(tiles)-1)
	removed := false
	for _, h := range tiles {
		if !removed && h == t {
			removed = true
			continue
		}
		out = append(out, h)
	}
	return out
}

// DiscardTile 打牌动作。校验全部通过后才开始变更状态
func (g *Game) DiscardTile(seat int, t Tile, riichi bool) error {
	if g.over {
		return fmt.Errorf("%w: 对局已结束", ErrInvalidAction)
	}
	if seat != g.ActiveSeat {
		return fmt.Errorf("%w: 不是 P%d 的回合", ErrInvalidAction, seat)
	}
	if g.pending != nil {
		return fmt.Errorf("%w: 仲裁未结束", ErrInvalidAction)
	}
	p := g.Players[seat]
	if !p.HasTile(t) {
		return fmt.Errorf("%w: %s 不在手里", ErrInvalidAction, t)
	}
	if p.IsRiichi && t != p.LatestDraw {
		return fmt.Errorf("%w: 立直后只能摸切", ErrInvalidAction)
	}
	if !p.IsRiichi && kuikaeForbidden(p.Kuikae, t.Type()) {
		return fmt.Errorf("%w: %s 受现物禁打约束", ErrInvalidAction, t.Type())
	}
	if riichi {
		if p.IsRiichi {
			return fmt.Errorf("%w: 已在立直中", ErrInvalidAction)
		}
		if !p.onlyClosedKans() {
			return fmt.Errorf("%w: 副露后不能立直", ErrInvalidAction)
		}
		if p.Points < 1000 {
			return fmt.Errorf("%w: 点数不足立直", ErrInvalidAction)
		}
		if g.RemainingDraws < 4 {
			return fmt.Errorf("%w: 剩余摸牌不足立直", ErrInvalidAction)
		}
		if g.waitFor(seat, removeOne(p.Hand, t)) == nil {
			return fmt.Errorf("%w: 打出 %s 后未听牌", ErrInvalidAction, t)
		}
	}

	g.clearQueries()
	wasFuriten := p.IsFuriten()

	isTsumogiri := t == p.LatestDraw
	g.emit(SeatNone, &DiscardEvent{Seat: seat, Tile: t, IsTsumogiri: isTsumogiri, IsRiichi: riichi})
	d := NewDiscard(t, isTsumogiri, riichi)
	p.Discards = append(p.Discards, d)
	p.RemoveTile(t)
	p.LatestDraw = TileNone
	p.Kuikae = nil

	if !p.IsRiichi {
		p.IsTempFuriten = false
	}
	p.IsIppatsu = false
	p.CalcShantenAndUkeire(g.searcher)

	if riichi {
		p.IsRiichi = true
		p.IsIppatsu = true
		if len(p.Discards) == 1 && g.totalMelds() == 0 {
			p.IsDoubleRiichi = true
		}
		p.Points -= 1000
		g.RiichiSticks++
	}

	if g.checkFourWindsAbort() {
		return nil
	}

	if p.IsFuriten() != wasFuriten {
		g.emit(seat, &FuritenEvent{Seat: seat, IsFuriten: p.IsFuriten()})
	}

	if p.HasPendingDora {
		p.HasPendingDora = false
		if ind, err := g.drawFromWall(drawDora); err == nil {
			g.DoraIndicators = append(g.DoraIndicators, ind)
			g.emit(SeatNone, &DoraEvent{Indicator: ind})
		}
	}

	ronSeats := g.issueCallQueries(seat, d)
	g.pending = &pendingAction{kind: pendingAfterDiscard, seat: seat, ronSeats: ronSeats}
	if len(g.queries) == 0 {
		g.RunContinuation()
	}
	return nil
}

// checkFourWindsAbort 四风连打：四家第一巡弃同一种风牌且无副露
func (g *Game) checkFourWindsAbort() bool {
	var kinds []TileType
	for _, p := range g.Players {
		if len(p.Discards) != 1 || len(p.Melds) > 0 {
			return false
		}
		kinds = append(kinds, p.Discards[0].Tile.Type())
	}
	if !kinds[0].IsWind() {
		return false
	}
	for _, k := range kinds[1:] {
		if k != kinds[0] {
			return false
		}
	}
	g.emit(SeatNone, &DrawEvent{DrawKind: DrawFourWinds, Hands: g.handsSnapshot(), Points: g.pointsSnapshot()})
	g.nextRoundBonus()
	return true
}

// issueCallQueries 打牌后的叫牌仲裁问询。四家立直或四杠成立后
// 只发荣和问询。无役荣和资格不发问询但立即临时振听
func (g *Game) issueCallQueries(discarder int, d *Discard) []int {
	onlyRon := g.riichiCount() == 4
	if total, same := g.totalKans(); total == 4 && !same {
		onlyRon = true
	}
	discardIdx := len(g.Players[discarder].Discards) - 1

	var ronSeats []int
	for off := 1; off < SeatCount; off++ {
		seat := (discarder + off) % SeatCount
		p := g.Players[seat]

		_, err := g.evaluateWin(seat, d.Tile, winFlags{houtei: g.RemainingDraws == 0})
		switch {
		case err == nil:
			if !p.IsFuriten() {
				ronSeats = append(ronSeats, seat)
				g.emitQuery(&RonQuery{seatQuery: seatQuery{seat}, FromSeat: discarder, Tile: d.Tile})
			}
		case errors.Is(err, ErrNoYaku):
			if !p.IsTempFuriten {
				p.IsTempFuriten = true
				g.emit(seat, &FuritenEvent{Seat: seat, IsFuriten: true})
			}
		}

		if onlyRon || p.IsRiichi || g.RemainingDraws == 0 {
			continue
		}

		if sets := g.calls.GetPonSets(d.Tile, p.Hand); len(sets) > 0 {
			g.emitQuery(&CallQuery{
				seatQuery: seatQuery{seat}, CallKind: MeldPon,
				Choices: sets, FromSeat: discarder, DiscardIdx: discardIdx,
			})
		}
		if total, _ := g.totalKans(); total < 4 {
			if set := openKanSet(p.Hand, d.Tile.Type()); set != nil {
				g.emitQuery(&CallQuery{
					seatQuery: seatQuery{seat}, CallKind: MeldOpenKan,
					Choices: [][]Tile{set}, FromSeat: discarder, DiscardIdx: discardIdx,
				})
			}
		}
		if off == 1 {
			if sets := g.calls.GetChiSets(d.Tile, p.Hand); len(sets) > 0 {
				g.emitQuery(&CallQuery{
					seatQuery: seatQuery{seat}, CallKind: MeldChi,
					Choices: sets, FromSeat: discarder, DiscardIdx: discardIdx,
				})
			}
		}
	}
	return ronSeats
}

// openKanSet 手里这种牌的三张（大明杠用料）
func openKanSet(hand []Tile, kind TileType) []Tile {
	var set []Tile
	for _, t := range hand {
		if t.Type() == kind {
			set = append(set, t)
		}
	}
	if len(set) < 3 {
		return nil
	}
	return set[:3]
}

// afterDiscard 仲裁结束后的收尾：四家立直/四杠流局、
// 放弃荣和的临时振听、轮转到下家
func (g *Game) afterDiscard(pa *pendingAction) {
	if g.riichiCount() == 4 {
		g.emit(SeatNone, &DrawEvent{DrawKind: DrawFourRiichi, Hands: g.handsSnapshot(), Points: g.pointsSnapshot()})
		g.nextRoundBonus()
		return
	}
	if total, same := g.totalKans(); total == 4 && !same {
		g.emit(SeatNone, &DrawEvent{DrawKind: DrawFourKans, Hands: g.handsSnapshot(), Points: g.pointsSnapshot()})
		g.nextRoundBonus()
		return
	}
	for _, seat := range pa.ronSeats {
		p := g.Players[seat]
		if !p.IsTempFuriten {
			p.IsTempFuriten = true
			g.emit(seat, &FuritenEvent{Seat: seat, IsFuriten: true})
		}
	}
	g.drawTile((pa.seat+1)%SeatCount, false)
}
