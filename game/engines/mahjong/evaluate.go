package mahjong

import "fmt"

// HandContext 和牌评估上下文
type HandContext struct {
	RoundWind Wind
	SeatWind  Wind

	IsTsumo        bool
	IsRiichi       bool
	IsDoubleRiichi bool
	IsIppatsu      bool
	IsDealer       bool
	IsRinshan      bool
	IsHaitei       bool
	IsHoutei       bool
	IsChankan      bool
	IsTenhou       bool
	IsChiihou      bool

	IsNagashiMangan bool

	AkaDora    bool
	OpenTanyao bool

	Honba        int
	RiichiSticks int
}

// Cost 点数分配。Main 为大头（荣和时放铳者全额，自摸时庄家份额），
// Additional 为自摸时闲家份额，Bonus 为本场加成，Total 含供托
type Cost struct {
	Main            int
	MainBonus       int
	Additional      int
	AdditionalBonus int
	Total           int
	YakuLevel       string
}

// HandResult 和牌评估结果
type HandResult struct {
	Han        int
	Fu         int
	Yaku       []YakuHan
	Cost       Cost
	IsOpenHand bool
}

// handBreakdown 一次具体拆解（含和牌张落点）的评估视图
type handBreakdown struct {
	ctx      *HandContext
	winType  TileType
	closed34 Hand34
	all34    [TypeCount]int
	allTiles []Tile

	pair       TileType
	sets       []setInfo
	sevenPairs bool
	kokushi    bool

	isOpen bool
	winIn  int // sets 下标；-1 雀头单骑；-2 未定位
	waitFu int // 嵌张/边张/单骑 2，两面/双碰 0
}

// EvaluateHand 评估一手完整的牌（闭手 + 副露摊平 + 和牌张）。
// 返回最高得点的拆解结果，或 ErrNotCorrect/ErrNotWinning/ErrNoYaku
func EvaluateHand(tiles []Tile, winTile Tile, melds []*Meld, doraIndicators []Tile, ctx *HandContext) (*HandResult, error) {
	if ctx.IsNagashiMangan {
		return nagashiResult(ctx), nil
	}

	// 从整手里剥出闭手部分
	closed := append([]Tile(nil), tiles...)
	for _, m := range melds {
		for _, mt := range m.Tiles {
			found := false
			for i, t := range closed {
				if t == mt {
					closed = append(closed[:i], closed[i+1:]...)
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: 副露牌 %s 不在整手中", ErrNotCorrect, mt)
			}
		}
	}
	if len(closed)+3*len(melds) != 14 {
		return nil, fmt.Errorf("%w: 牌数 %d 不构成一手", ErrNotCorrect, len(closed)+3*len(melds))
	}

	closed34, _ := Hand34FromTiles(closed)
	isOpen := false
	meldSets := make([]setInfo, 0, len(melds))
	for _, m := range melds {
		if m.IsOpen() {
			isOpen = true
		}
		meldSets = append(meldSets, meldSetInfo(m))
	}

	var cands []decomposition
	if len(melds) == 0 {
		if isChiitoiStrict(closed34) {
			cands = append(cands, decomposition{sevenPairs: true})
		}
		if IsAgariKokushi(closed34) {
			cands = append(cands, decomposition{kokushi: true})
		}
	}
	cands = append(cands, decomposeClosed(closed34, 4-len(melds))...)
	if len(cands) == 0 {
		return nil, ErrNotWinning
	}

	winType := winTile.Type()
	var best *HandResult
	var bestYakuman int
	for _, d := range cands {
		allSets := append(append([]setInfo(nil), d.sets...), meldSets...)
		for _, winIn := range winPlacements(d, allSets, winType) {
			b := &handBreakdown{
				ctx:        ctx,
				winType:    winType,
				closed34:   closed34,
				allTiles:   tiles,
				pair:       d.pair,
				sets:       allSets,
				sevenPairs: d.sevenPairs,
				kokushi:    d.kokushi,
				isOpen:     isOpen,
				winIn:      winIn,
			}
			for i := 0; i < TypeCount; i++ {
				b.all34[i] = int(closed34[i])
			}
			for _, m := range melds {
				for _, t := range m.Tiles {
					b.all34[t.Type()]++
				}
			}
			b.waitFu = waitFuOf(b)

			yaku, han, yakuman := runYakuRegistry(b)
			if han == 0 && yakuman == 0 {
				continue
			}
			fu := calcFu(b)
			if best == nil || yakuman > bestYakuman ||
				(yakuman == bestYakuman && (han > best.Han || (han == best.Han && fu > best.Fu))) {
				best = &HandResult{Han: han, Fu: fu, Yaku: yaku, IsOpenHand: isOpen}
				bestYakuman = yakuman
			}
		}
	}
	if best == nil {
		return nil, ErrNoYaku
	}

	// 役满不计宝牌
	if bestYakuman == 0 {
		dora, aka := 0, 0
		for _, t := range tiles {
			dora += PlusDora(t, doraIndicators)
			if ctx.AkaDora && t.IsRedFive() {
				aka++
			}
		}
		if dora > 0 {
			best.Yaku = append(best.Yaku, YakuHan{Name: "Dora", Han: dora})
			best.Han += dora
		}
		if aka > 0 {
			best.Yaku = append(best.Yaku, YakuHan{Name: "Aka Dora", Han: aka})
			best.Han += aka
		}
	}

	best.Cost = calcCost(best.Han, best.Fu, ctx, bestYakuman)
	return best, nil
}

// nagashiResult 流局满贯按满贯自摸结算
func nagashiResult(ctx *HandContext) *HandResult {
	tsumoCtx := *ctx
	tsumoCtx.IsTsumo = true
	r := &HandResult{
		Han:  5,
		Fu:   30,
		Yaku: []YakuHan{{Name: "Nagashi Mangan", Han: 5}},
	}
	r.Cost = calcCost(5, 30, &tsumoCtx, 0)
	return r
}

// isChiitoiStrict 七对子：恰好七种各两张
func isChiitoiStrict(h Hand34) bool {
	kinds := 0
	for i := 0; i < TypeCount; i++ {
		switch h[i] {
		case 0:
		case 2:
			kinds++
		default:
			return false
		}
	}
	return kinds == 7
}

// winPlacements 和牌张可能补完的位置（闭手面子下标或雀头）
func winPlacements(d decomposition, allSets []setInfo, winType TileType) []int {
	if d.sevenPairs || d.kokushi {
		return []int{-1}
	}
	var out []int
	for i, s := range allSets {
		if s.isMeld {
			continue
		}
		switch s.kind {
		case setChi:
			if winType >= s.base && winType <= s.base+2 {
				out = append(out, i)
			}
		case setPon:
			if winType == s.base {
				out = append(out, i)
			}
		}
	}
	if d.pair == winType {
		out = append(out, -1)
	}
	if len(out) == 0 {
		out = []int{-2}
	}
	return out
}

// waitFuOf 听型符：单骑/嵌张/边张 2，两面/双碰 0
func waitFuOf(b *handBreakdown) int {
	switch {
	case b.sevenPairs || b.kokushi:
		return 0
	case b.winIn == -1:
		return 2 // 单骑
	case b.winIn < 0:
		return 0
	}
	s := b.sets[b.winIn]
	if s.kind != setChi {
		return 0 // 双碰
	}
	switch {
	case b.winType == s.base+1:
		return 2 // 嵌张
	case b.winType == s.base && int(s.base)%9 == 6:
		return 2 // 边张 89 听 7
	case b.winType == s.base+2 && int(s.base)%9 == 0:
		return 2 // 边张 12 听 3
	}
	return 0
}

// isRyanmenWin 两面听完成顺子（平和条件）
func isRyanmenWin(b *handBreakdown) bool {
	if b.winIn < 0 {
		return false
	}
	s := b.sets[b.winIn]
	return s.kind == setChi && b.waitFu == 0
}
