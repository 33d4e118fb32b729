package mahjong

import (
	"fmt"
	"sort"
)

// winFlags 一次和牌评估的场况开关
type winFlags struct {
	tsumo     bool
	houtei    bool
	chankan   bool
	ura       []Tile
	maskBonus bool // 多家荣和时非近位者不计本场与供托
}

// evaluateWin 以当前场况评估某座位的和牌。自摸用 LatestDraw，
// 荣和把 winTile 并入闭手。天和/地和按首巡无弃牌无副露自动判定
func (g *Game) evaluateWin(seat int, winTile Tile, f winFlags) (*HandResult, error) {
	p := g.Players[seat]
	tiles := append([]Tile(nil), p.Hand...)
	for _, m := range p.Melds {
		tiles = append(tiles, m.Tiles...)
	}
	wt := winTile
	if f.tsumo {
		wt = p.LatestDraw
	} else {
		tiles = append(tiles, winTile)
	}

	dealer := seat == g.DealerSeat()
	firstTurn := len(p.Discards) == 0 && g.totalMelds() == 0
	ctx := &HandContext{
		RoundWind:      g.Wind,
		SeatWind:       g.SeatWind(seat),
		IsTsumo:        f.tsumo,
		IsRiichi:       p.IsRiichi,
		IsDoubleRiichi: p.IsDoubleRiichi,
		IsIppatsu:      p.IsIppatsu,
		IsDealer:       dealer,
		IsRinshan:      f.tsumo && p.LatestDrawDeadWall,
		IsHaitei:       f.tsumo && g.RemainingDraws == 0 && !p.LatestDrawDeadWall,
		IsHoutei:       f.houtei && !f.tsumo,
		IsChankan:      f.chankan,
		IsTenhou:       f.tsumo && dealer && firstTurn,
		IsChiihou:      f.tsumo && !dealer && firstTurn,
		AkaDora:        g.Rules.AkaDora,
		OpenTanyao:     g.Rules.OpenTanyao,
	}
	if !f.maskBonus {
		ctx.Honba = g.Bonus
		ctx.RiichiSticks = g.RiichiSticks
	}
	indicators := append(append([]Tile(nil), g.DoraIndicators...), f.ura...)
	return EvaluateHand(tiles, wt, p.Melds, indicators, ctx)
}

// waitFor 这副 13 张（含副露折算）是否听牌，听什么。
// 不听返回 nil
func (g *Game) waitFor(seat int, hand13 []Tile) *Wait {
	h, _ := Hand34FromTiles(hand13)
	fixed := fixedMeldsForCount(len(hand13))
	if g.searcher.ShantenAll(h, fixed) != 0 {
		return nil
	}
	waits, _ := g.searcher.WaitsAndUkeire(h, fixed, nil)
	w := &Wait{Tiles: waits}
	p := g.Players[seat]
	for _, kind := range waits {
		w.HasYaku = append(w.HasYaku, g.hasYakuOnWait(seat, hand13, kind))
	}
	w.IsFuriten = p.IsFuritenForWaits(waits)
	return w
}

// hasYakuOnWait 荣和这种进张是否有役（不含立直等宣言役）
func (g *Game) hasYakuOnWait(seat int, hand13 []Tile, kind TileType) bool {
	win := Tile(4*int(kind) + 1)
	p := g.Players[seat]
	tiles := append([]Tile(nil), hand13...)
	for _, m := range p.Melds {
		tiles = append(tiles, m.Tiles...)
	}
	tiles = append(tiles, win)
	ctx := &HandContext{
		RoundWind:  g.Wind,
		SeatWind:   g.SeatWind(seat),
		AkaDora:    g.Rules.AkaDora,
		OpenTanyao: g.Rules.OpenTanyao,
	}
	_, err := EvaluateHand(tiles, win, p.Melds, g.DoraIndicators, ctx)
	return err == nil
}

// buildWin 和牌记录快照
func (g *Game) buildWin(seat int, winTile Tile, res *HandResult, ura []Tile) *Win {
	p := g.Players[seat]
	melds := make([][]Tile, 0, len(p.Melds))
	for _, m := range p.Melds {
		melds = append(melds, append([]Tile(nil), m.Tiles...))
	}
	total := res.Cost.Main + res.Cost.MainBonus
	if winTile == TileNone {
		total += 2 * (res.Cost.Additional + res.Cost.AdditionalBonus)
	}
	points := make([]int, SeatCount)
	for i, pl := range g.Players {
		points[i] = pl.Points
	}
	return &Win{
		Seat:              seat,
		Hand:              append([]Tile(nil), p.Hand...),
		WinTile:           winTile,
		Melds:             melds,
		DoraIndicators:    append([]Tile(nil), g.DoraIndicators...),
		UraDoraIndicators: ura,
		Han:               res.Han,
		Fu:                res.Fu,
		Yaku:              res.Yaku,
		Level:             res.Cost.YakuLevel,
		Total:             total,
		Points:            points,
	}
}

// Do9TileDraw 九种九牌宣告流局
func (g *Game) Do9TileDraw(seat int) error {
	if g.over {
		return fmt.Errorf("%w: 对局已结束", ErrInvalidAction)
	}
	if seat != g.ActiveSeat {
		return fmt.Errorf("%w: 不是 P%d 的回合", ErrInvalidAction, seat)
	}
	p := g.Players[seat]
	if len(p.Discards) > 0 || g.totalMelds() > 0 || uniqueTerminalKinds(p.Hand) < 9 {
		return fmt.Errorf("%w: 不满足九种九牌条件", ErrInvalidAction)
	}
	g.clearQueries()
	g.pending = nil
	g.emit(SeatNone, &DrawEvent{DrawKind: DrawNineTiles, Hands: g.handsSnapshot(), Points: g.pointsSnapshot()})
	g.nextRoundBonus()
	return nil
}

// DoTsumo 自摸。立直者先翻与宝牌指示牌数相同的里宝牌再结算
func (g *Game) DoTsumo(seat int) error {
	if g.over {
		return fmt.Errorf("%w: 对局已结束", ErrInvalidAction)
	}
	if seat != g.ActiveSeat {
		return fmt.Errorf("%w: 不是 P%d 的回合", ErrInvalidAction, seat)
	}
	if _, err := g.evaluateWin(seat, TileNone, winFlags{tsumo: true}); err != nil {
		return fmt.Errorf("%w: 自摸不成立: %v", ErrInvalidAction, err)
	}
	g.clearQueries()
	g.pending = nil

	p := g.Players[seat]
	var ura []Tile
	if p.IsRiichi {
		for range g.DoraIndicators {
			if t, err := g.drawFromWall(drawUra); err == nil {
				ura = append(ura, t)
			}
		}
	}
	res, err := g.evaluateWin(seat, TileNone, winFlags{tsumo: true, ura: ura})
	if err != nil {
		return fmt.Errorf("%w: 自摸不成立: %v", ErrInvalidAction, err)
	}

	dealer := seat == g.DealerSeat()
	for off := 1; off < SeatCount; off++ {
		payer := g.Players[(seat+off)%SeatCount]
		pay := res.Cost.Additional + res.Cost.AdditionalBonus
		if dealer || payer.Idx == g.DealerSeat() {
			pay = res.Cost.Main + res.Cost.MainBonus
		}
		payer.Points -= pay
		p.Points += pay
	}
	p.Points += 1000 * g.RiichiSticks
	g.RiichiSticks = 0

	g.emit(SeatNone, &WinEvent{Win: g.buildWin(seat, TileNone, res, ura)})
	if dealer {
		g.nextRoundBonus()
	} else {
		g.nextRoundAdvance()
	}
	return nil
}

// DoRon 荣和，含多家荣与抢杠。chankanTile 为被抢的杠牌，
// 普通荣和传 TileNone。本场与供托只付给离放铳者最近的下家
func (g *Game) DoRon(callers []int, discarder int, chankanTile Tile) error {
	if g.over {
		return fmt.Errorf("%w: 对局已结束", ErrInvalidAction)
	}
	if len(callers) < 1 || len(callers) > 3 {
		return fmt.Errorf("%w: 荣和座位数 %d 非法", ErrInvalidAction, len(callers))
	}
	seen := map[int]bool{}
	for _, c := range callers {
		if c == discarder || c < 0 || c >= SeatCount || seen[c] {
			return fmt.Errorf("%w: 荣和座位非法", ErrInvalidAction)
		}
		seen[c] = true
	}

	dp := g.Players[discarder]
	chankan := chankanTile != TileNone
	var winTile Tile
	if chankan {
		found := false
		for _, m := range dp.Melds {
			if !m.IsKan() {
				continue
			}
			for _, t := range m.Tiles {
				if t == chankanTile {
					found = true
				}
			}
		}
		if !found {
			return fmt.Errorf("%w: %s 不在 P%d 的杠中", ErrInvalidAction, chankanTile, discarder)
		}
		winTile = chankanTile
	} else {
		if len(dp.Discards) == 0 {
			return fmt.Errorf("%w: P%d 没有弃牌", ErrInvalidAction, discarder)
		}
		winTile = dp.Discards[len(dp.Discards)-1].Tile
	}

	houtei := g.RemainingDraws == 0 && !chankan
	for _, c := range callers {
		if g.Players[c].IsFuriten() {
			return fmt.Errorf("%w: P%d 振听中", ErrInvalidAction, c)
		}
		if _, err := g.evaluateWin(c, winTile, winFlags{houtei: houtei, chankan: chankan}); err != nil {
			return fmt.Errorf("%w: P%d 荣和不成立: %v", ErrInvalidAction, c, err)
		}
	}

	g.clearQueries()
	g.pending = nil

	// 立直宣言牌被荣和：宣言作废退回
	if !chankan {
		if last := dp.Discards[len(dp.Discards)-1]; last.IsRiichi {
			dp.Points += 1000
			g.RiichiSticks--
			dp.IsRiichi = false
			dp.IsDoubleRiichi = false
			dp.IsIppatsu = false
			last.IsRiichi = false
		}
	}

	anyRiichi := false
	for _, c := range callers {
		if g.Players[c].IsRiichi {
			anyRiichi = true
		}
	}
	var ura []Tile
	if anyRiichi {
		for range g.DoraIndicators {
			if t, err := g.drawFromWall(drawUra); err == nil {
				ura = append(ura, t)
			}
		}
	}

	ordered := append([]int(nil), callers...)
	sort.Slice(ordered, func(i, j int) bool {
		return (ordered[i]-discarder+SeatCount)%SeatCount < (ordered[j]-discarder+SeatCount)%SeatCount
	})
	recipient := ordered[0]
	sticks := g.RiichiSticks

	results := make([]*HandResult, len(ordered))
	for i, c := range ordered {
		callerUra := ura
		if !g.Players[c].IsRiichi {
			callerUra = nil
		}
		res, err := g.evaluateWin(c, winTile, winFlags{
			houtei:    houtei,
			chankan:   chankan,
			ura:       callerUra,
			maskBonus: c != recipient,
		})
		if err != nil {
			return fmt.Errorf("%w: P%d 荣和不成立: %v", ErrInvalidAction, c, err)
		}
		results[i] = res
	}

	dealerWon := false
	for i, c := range ordered {
		pay := results[i].Cost.Main + results[i].Cost.MainBonus
		dp.Points -= pay
		g.Players[c].Points += pay
		if c == recipient {
			g.Players[c].Points += 1000 * sticks
		}
		if c == g.DealerSeat() {
			dealerWon = true
		}
	}
	g.RiichiSticks = 0

	for i, c := range ordered {
		callerUra := ura
		if !g.Players[c].IsRiichi {
			callerUra = nil
		}
		g.emit(SeatNone, &WinEvent{Win: g.buildWin(c, winTile, results[i], callerUra)})
	}

	if dealerWon {
		g.nextRoundBonus()
	} else {
		g.nextRoundAdvance()
	}
	return nil
}

// exhaustiveDraw 荒牌流局：有流局满贯按满贯结算，否则听牌料收
func (g *Game) exhaustiveDraw() {
	g.clearQueries()
	g.pending = nil

	var tenpai, nagashi [SeatCount]bool
	anyNagashi := false
	for seat, p := range g.Players {
		tenpai[seat] = p.Shanten == 0
		nagashi[seat] = p.HasNagashiMangan()
		if nagashi[seat] {
			anyNagashi = true
		}
	}

	if anyNagashi {
		for seat, p := range g.Players {
			if !nagashi[seat] {
				continue
			}
			dealer := seat == g.DealerSeat()
			cost := calcCost(5, 30, &HandContext{IsTsumo: true, IsDealer: dealer}, 0)
			for off := 1; off < SeatCount; off++ {
				payer := g.Players[(seat+off)%SeatCount]
				pay := cost.Additional
				if dealer || payer.Idx == g.DealerSeat() {
					pay = cost.Main
				}
				payer.Points -= pay
				p.Points += pay
			}
		}
	} else {
		tenpaiCount := 0
		for _, t := range tenpai {
			if t {
				tenpaiCount++
			}
		}
		if tenpaiCount >= 1 && tenpaiCount <= 3 {
			gain := g.Rules.NotenPool / tenpaiCount
			loss := g.Rules.NotenPool / (SeatCount - tenpaiCount)
			for seat, p := range g.Players {
				if tenpai[seat] {
					p.Points += gain
				} else {
					p.Points -= loss
				}
			}
		}
	}

	g.emit(SeatNone, &DrawEvent{
		DrawKind: DrawExhaustive,
		Hands:    g.handsSnapshot(),
		Nagashi:  nagashi,
		Points:   g.pointsSnapshot(),
	})
	if tenpai[g.DealerSeat()] {
		g.nextRoundBonus()
	} else {
		g.nextRoundAdvance()
	}
}
