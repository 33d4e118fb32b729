package mahjong

import (
	"errors"
	"fmt"
)

// validateDiscardCall 吃/碰/明杠的公共校验，返回被叫的弃牌
func (g *Game) validateDiscardCall(tiles []Tile, caller, discarder int, want int) (*Discard, error) {
	if g.over {
		return nil, fmt.Errorf("%w: 对局已结束", ErrInvalidAction)
	}
	if caller < 0 || caller >= SeatCount || discarder < 0 || discarder >= SeatCount || caller == discarder {
		return nil, fmt.Errorf("%w: 座位非法", ErrInvalidAction)
	}
	if g.pending == nil || g.pending.kind != pendingAfterDiscard || g.pending.seat != discarder {
		return nil, fmt.Errorf("%w: 当前没有 P%d 的弃牌可叫", ErrInvalidAction, discarder)
	}
	if g.RemainingDraws == 0 {
		return nil, fmt.Errorf("%w: 海底无牌不能叫", ErrInvalidAction)
	}
	p := g.Players[caller]
	if p.IsRiichi {
		return nil, fmt.Errorf("%w: 立直中不能叫牌", ErrInvalidAction)
	}
	if len(tiles) != want {
		return nil, fmt.Errorf("%w: 需要 %d 张手牌，实际 %d", ErrInvalidAction, want, len(tiles))
	}
	if hasDuplicate(tiles) {
		return nil, fmt.Errorf("%w: 手牌不可重复", ErrInvalidAction)
	}
	for _, t := range tiles {
		if !p.HasTile(t) {
			return nil, fmt.Errorf("%w: %s 不在手里", ErrInvalidAction, t)
		}
	}
	dp := g.Players[discarder]
	if len(dp.Discards) == 0 {
		return nil, fmt.Errorf("%w: P%d 没有弃牌", ErrInvalidAction, discarder)
	}
	d := dp.Discards[len(dp.Discards)-1]
	if d.CalledBy != SeatNone {
		return nil, fmt.Errorf("%w: 这张弃牌已被叫走", ErrInvalidAction)
	}
	return d, nil
}

// hasDuplicate 同一张实体牌是否重复出现
func hasDuplicate(tiles []Tile) bool {
	for i, t := range tiles {
		for j := 0; j < i; j++ {
			if tiles[j] == t {
				return true
			}
		}
	}
	return false
}

// declinedRon 叫牌抢占后，原本有荣和资格的座位视为放弃，临时振听
func (g *Game) declinedRon(ronSeats []int) {
	for _, seat := range ronSeats {
		p := g.Players[seat]
		if !p.IsTempFuriten {
			p.IsTempFuriten = true
			g.emit(seat, &FuritenEvent{Seat: seat, IsFuriten: true})
		}
	}
}

// executeDiscardCall 叫牌生效的公共部分
func (g *Game) executeDiscardCall(meld *Meld, caller int, d *Discard) {
	ronSeats := g.pending.ronSeats
	g.pending = nil
	g.clearQueries()
	g.declinedRon(ronSeats)

	p := g.Players[caller]
	for _, t := range meld.Tiles {
		if t != d.Tile {
			p.RemoveTile(t)
		}
	}
	d.CalledBy = caller
	p.Melds = append(p.Melds, meld)
	p.LatestDraw = TileNone
	p.CalcShantenAndUkeire(g.searcher)
	g.emit(SeatNone, &CallEvent{Seat: caller, Meld: meld})
	for _, pl := range g.Players {
		pl.IsIppatsu = false
	}
	g.ActiveSeat = caller
}

// CallChi 吃。只有下家可吃，吃后受现物禁打约束
func (g *Game) CallChi(tiles []Tile, caller, discarder int) error {
	if caller != (discarder+1)%SeatCount {
		return fmt.Errorf("%w: 只有下家可以吃", ErrInvalidAction)
	}
	d, err := g.validateDiscardCall(tiles, caller, discarder, 2)
	if err != nil {
		return err
	}
	kinds := []TileType{tiles[0].Type(), tiles[1].Type(), d.Tile.Type()}
	if !isRun(kinds) {
		return fmt.Errorf("%w: %s 不成顺子", ErrInvalidAction, TilesString(append(tiles, d.Tile)))
	}

	meld := NewMeld(MeldChi, append(append([]Tile(nil), tiles...), d.Tile), discarder, d.Tile)
	g.executeDiscardCall(meld, caller, d)

	p := g.Players[caller]
	p.Kuikae = chiKuikae([]TileType{tiles[0].Type(), tiles[1].Type(), d.Tile.Type()}, d.Tile.Type())
	allowed, waits := g.discardOptions(p)
	g.emitQuery(&DiscardQuery{seatQuery: seatQuery{caller}, Allowed: allowed, Waits: waits})
	return nil
}

// isRun 三种牌是否同花色连续
func isRun(kinds []TileType) bool {
	lo, mid, hi := kinds[0], kinds[1], kinds[2]
	if mid < lo {
		lo, mid = mid, lo
	}
	if hi < mid {
		mid, hi = hi, mid
	}
	if mid < lo {
		lo, mid = mid, lo
	}
	return lo.IsNumber() && hi.IsNumber() &&
		lo.Suit() == hi.Suit() && mid == lo+1 && hi == lo+2
}

// CallPon 碰。碰后禁打被叫的种类
func (g *Game) CallPon(tiles []Tile, caller, discarder int) error {
	d, err := g.validateDiscardCall(tiles, caller, discarder, 2)
	if err != nil {
		return err
	}
	if tiles[0].Type() != d.Tile.Type() || tiles[1].Type() != d.Tile.Type() {
		return fmt.Errorf("%w: %s 不成刻子", ErrInvalidAction, TilesString(append(tiles, d.Tile)))
	}

	meld := NewMeld(MeldPon, append(append([]Tile(nil), tiles...), d.Tile), discarder, d.Tile)
	g.executeDiscardCall(meld, caller, d)

	p := g.Players[caller]
	p.Kuikae = []TileType{d.Tile.Type()}
	allowed, waits := g.discardOptions(p)
	g.emitQuery(&DiscardQuery{seatQuery: seatQuery{caller}, Allowed: allowed, Waits: waits})
	return nil
}

// CallOpenKan 大明杠。新宝牌在下次打牌后翻开，随后摸岭上牌
func (g *Game) CallOpenKan(tiles []Tile, caller, discarder int) error {
	if total, _ := g.totalKans(); total >= 4 {
		return fmt.Errorf("%w: 已有四杠", ErrInvalidAction)
	}
	d, err := g.validateDiscardCall(tiles, caller, discarder, 3)
	if err != nil {
		return err
	}
	for _, t := range tiles {
		if t.Type() != d.Tile.Type() {
			return fmt.Errorf("%w: %s 不成杠", ErrInvalidAction, TilesString(append(tiles, d.Tile)))
		}
	}

	meld := NewMeld(MeldOpenKan, append(append([]Tile(nil), tiles...), d.Tile), discarder, d.Tile)
	g.executeDiscardCall(meld, caller, d)

	g.Players[caller].HasPendingDora = true
	g.drawTile(caller, true)
	return nil
}

// CallClosedOrAddedKan 暗杠（四张手牌）或加杠（一张手牌补进已有的碰）。
// 加杠先发抢杠问询，暗杠按规则可被国士抢
func (g *Game) CallClosedOrAddedKan(tiles []Tile, seat int) error {
	if g.over {
		return fmt.Errorf("%w: 对局已结束", ErrInvalidAction)
	}
	if seat != g.ActiveSeat {
		return fmt.Errorf("%w: 不是 P%d 的回合", ErrInvalidAction, seat)
	}
	if g.pending != nil {
		return fmt.Errorf("%w: 仲裁未结束", ErrInvalidAction)
	}
	if g.RemainingDraws == 0 {
		return fmt.Errorf("%w: 海底无牌不能杠", ErrInvalidAction)
	}
	if total, _ := g.totalKans(); total >= 4 {
		return fmt.Errorf("%w: 已有四杠", ErrInvalidAction)
	}
	p := g.Players[seat]
	if hasDuplicate(tiles) {
		return fmt.Errorf("%w: 手牌不可重复", ErrInvalidAction)
	}
	for _, t := range tiles {
		if !p.HasTile(t) {
			return fmt.Errorf("%w: %s 不在手里", ErrInvalidAction, t)
		}
	}

	var meld *Meld
	var kanTile Tile
	closed := false
	switch len(tiles) {
	case 4:
		closed = true
		kind := tiles[0].Type()
		for _, t := range tiles {
			if t.Type() != kind {
				return fmt.Errorf("%w: 暗杠四张必须同种", ErrInvalidAction)
			}
		}
		if p.IsRiichi {
			if !g.Rules.AllowRiichiKan {
				return fmt.Errorf("%w: 立直后不能杠", ErrInvalidAction)
			}
			if kind != p.LatestDraw.Type() {
				return fmt.Errorf("%w: 立直后只能杠刚摸的牌", ErrInvalidAction)
			}
			if g.Rules.RiichiKanRequiresSameWaits && !g.kanKeepsWaits(p, kind) {
				return fmt.Errorf("%w: 立直后暗杠不能改变听牌", ErrInvalidAction)
			}
		}
		for _, t := range tiles {
			p.RemoveTile(t)
		}
		meld = NewMeld(MeldClosedKan, tiles, SeatNone, TileNone)
		p.Melds = append(p.Melds, meld)
		kanTile = tiles[0]
	case 1:
		if p.IsRiichi {
			return fmt.Errorf("%w: 立直后不能加杠", ErrInvalidAction)
		}
		kanTile = tiles[0]
		var pon *Meld
		for _, m := range p.Melds {
			if m.Kind == MeldPon && m.Tiles[0].Type() == kanTile.Type() {
				pon = m
				break
			}
		}
		if pon == nil {
			return fmt.Errorf("%w: 没有 %s 的碰可加杠", ErrInvalidAction, kanTile.Type())
		}
		p.RemoveTile(kanTile)
		if err := pon.PromoteToAddedKan(kanTile); err != nil {
			return err
		}
		meld = pon
	default:
		return fmt.Errorf("%w: 杠需要四张或一张手牌，实际 %d", ErrInvalidAction, len(tiles))
	}

	g.clearQueries()
	p.LatestDraw = TileNone
	p.CalcShantenAndUkeire(g.searcher)
	g.emit(SeatNone, &CallEvent{Seat: seat, Meld: meld})
	for _, pl := range g.Players {
		pl.IsIppatsu = false
	}

	ronSeats := g.issueChankanQueries(seat, kanTile, closed)
	g.pending = &pendingAction{kind: pendingAfterKan, seat: seat, ronSeats: ronSeats, closedKan: closed}
	if len(g.queries) == 0 {
		g.RunContinuation()
	}
	return nil
}

// issueChankanQueries 抢杠问询。加杠对所有人开放；
// 暗杠仅在规则允许时对国士听牌开放
func (g *Game) issueChankanQueries(seat int, kanTile Tile, closedKan bool) []int {
	if closedKan && !g.Rules.KokushiChankan {
		return nil
	}
	var ronSeats []int
	for off := 1; off < SeatCount; off++ {
		other := (seat + off) % SeatCount
		p := g.Players[other]
		if closedKan {
			h, _ := Hand34FromTiles(append(append([]Tile(nil), p.Hand...), kanTile))
			if !IsAgariKokushi(h) {
				continue
			}
		}
		_, err := g.evaluateWin(other, kanTile, winFlags{chankan: true})
		switch {
		case err == nil:
			if !p.IsFuriten() {
				ronSeats = append(ronSeats, other)
				g.emitQuery(&RonQuery{seatQuery: seatQuery{other}, FromSeat: seat, Tile: kanTile, IsChankan: true})
			}
		case errors.Is(err, ErrNoYaku):
			if !p.IsTempFuriten {
				p.IsTempFuriten = true
				g.emit(other, &FuritenEvent{Seat: other, IsFuriten: true})
			}
		}
	}
	return ronSeats
}

// afterKan 抢杠仲裁结束后的收尾：放弃者临时振听、翻宝牌、摸岭上牌
func (g *Game) afterKan(pa *pendingAction) {
	g.declinedRon(pa.ronSeats)
	p := g.Players[pa.seat]
	if pa.closedKan {
		if ind, err := g.drawFromWall(drawDora); err == nil {
			g.DoraIndicators = append(g.DoraIndicators, ind)
			g.emit(SeatNone, &DoraEvent{Indicator: ind})
		}
	} else {
		p.HasPendingDora = true
	}
	g.drawTile(pa.seat, true)
}
