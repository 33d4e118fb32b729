package mahjong

import (
	"riichi/cache"
)

// Hand34 手牌直方图（按 t34 种类计数）
type Hand34 [TypeCount]uint8

// Candidate 弃牌候选：弃掉 DiscardType 后听 Waits，有效进张 Ukeire
type Candidate struct {
	DiscardType    TileType
	DiscardOptions []Tile     // 实体牌：红5/普通5供选择
	Waits          []TileType // 听哪些牌
	Ukeire         int        // 有效张数
}

// Searcher 向听/和牌/听牌搜索器，结果经 ristretto 缓存
type Searcher struct {
	shantenCache *cache.GeneralCache
	agariCache   *cache.GeneralCache
	waitsCache   *cache.GeneralCache
}

func NewSearcher() *Searcher {
	s := &Searcher{}
	// 缓存创建失败时直接退化为无缓存搜索
	s.shantenCache, _ = cache.NewGeneralCache(1<<18, 0)
	s.agariCache, _ = cache.NewGeneralCache(1<<18, 0)
	s.waitsCache, _ = cache.NewGeneralCache(1<<16, 0)
	return s
}

// Hand34FromTiles 转换为直方图，同时按种类收集实体牌供红五选择
func Hand34FromTiles(tiles []Tile) (Hand34, map[TileType][]Tile) {
	var h Hand34
	opts := make(map[TileType][]Tile, TypeCount)
	for _, t := range tiles {
		h[t.Type()]++
		opts[t.Type()] = append(opts[t.Type()], t)
	}
	return h, opts
}

func (h Hand34) keyWithFixedMelds(fixedMelds int) string {
	var b [TypeCount + 1]byte
	for i := 0; i < TypeCount; i++ {
		b[i] = byte(h[i])
	}
	b[TypeCount] = byte(fixedMelds)
	return string(b[:])
}

// fixedMeldsForCount 闭手牌张数推出的已固定面子数（13、10、7、4、1 张）
func fixedMeldsForCount(n int) int {
	if n >= 13 {
		return 0
	}
	return (13 - n) / 3
}

// ShantenAndUkeire 引擎入口：闭手牌的向听数与有效进张（加入后严格降低向听的种类）
func (s *Searcher) ShantenAndUkeire(tiles []Tile) (int, []TileType) {
	h, _ := Hand34FromTiles(tiles)
	fixed := fixedMeldsForCount(len(tiles))
	base := s.ShantenAll(h, fixed)
	var uke []TileType
	for t := 0; t < TypeCount; t++ {
		if h[t] >= 4 {
			continue
		}
		work := h
		work[t]++
		if s.ShantenAll(work, fixed) < base {
			uke = append(uke, TileType(t))
		}
	}
	return base, uke
}

// SeekCandidates 14 张手牌弃哪张能听牌；是否允许立直由引擎层判断
func (s *Searcher) SeekCandidates(hand14 []Tile, fixedMelds int, visible *[TypeCount]uint8) []Candidate {
	h14, discardOpts := Hand34FromTiles(hand14)
	var out []Candidate

	for i := 0; i < TypeCount; i++ {
		if h14[i] == 0 {
			continue
		}
		h13 := h14
		h13[i]--

		waits, ukeire := s.WaitsAndUkeire(h13, fixedMelds, visible)
		if len(waits) == 0 {
			continue
		}
		out = append(out, Candidate{
			DiscardType:    TileType(i),
			DiscardOptions: discardOpts[TileType(i)],
			Waits:          waits,
			Ukeire:         ukeire,
		})
	}
	return out
}

// WaitsAndUkeire 枚举听牌 + 计算进张
func (s *Searcher) WaitsAndUkeire(h13 Hand34, fixedMelds int, visible *[TypeCount]uint8) ([]TileType, int) {
	key := "w" + h13.keyWithFixedMelds(fixedMelds)
	if s.waitsCache != nil {
		if v, ok := s.waitsCache.Get(key); ok {
			cached := v.([]TileType)
			waits := make([]TileType, len(cached))
			copy(waits, cached)
			return waits, s.ukeireByWaits(h13, waits, visible)
		}
	}

	var waits []TileType
	for t := 0; t < TypeCount; t++ {
		if h13[t] >= 4 {
			continue
		}
		work := h13
		work[t]++
		if s.IsAgariAll(work, fixedMelds) {
			waits = append(waits, TileType(t))
		}
	}

	if s.waitsCache != nil {
		s.waitsCache.Set(key, append([]TileType(nil), waits...))
	}
	return waits, s.ukeireByWaits(h13, waits, visible)
}

// ukeireByWaits 计算听牌的进张数
func (s *Searcher) ukeireByWaits(h13 Hand34, waits []TileType, visible *[TypeCount]uint8) int {
	ukeire := 0
	for _, tt := range waits {
		add := 4 - int(h13[tt])
		if visible != nil {
			add -= int(visible[tt])
		}
		if add > 0 {
			ukeire += add
		}
	}
	return ukeire
}

// IsAgariAll 是否和牌；无副露时兼查七对子与国士无双
func (s *Searcher) IsAgariAll(h Hand34, fixedMelds int) bool {
	key := "a" + h.keyWithFixedMelds(fixedMelds)
	if s.agariCache != nil {
		if v, ok := s.agariCache.Get(key); ok {
			return v.(bool)
		}
	}

	var ok bool
	if fixedMelds > 0 {
		ok = IsAgariNormal(h, fixedMelds)
	} else {
		ok = IsAgariNormal(h, 0) || IsAgariChiitoi(h) || IsAgariKokushi(h)
	}

	if s.agariCache != nil {
		s.agariCache.Set(key, ok)
	}
	return ok
}

// IsAgariNormal 普通牌型是否和牌：找雀头、组面子
func IsAgariNormal(h Hand34, fixedMelds int) bool {
	need := 4 - fixedMelds
	if need < 0 {
		return false
	}
	for j := 0; j < TypeCount; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

// IsAgariChiitoi 七对子是否和牌
func IsAgariChiitoi(h Hand34) bool {
	pairs := 0
	for i := 0; i < TypeCount; i++ {
		pairs += int(h[i] / 2)
	}
	return pairs >= 7
}

// IsAgariKokushi 国士无双是否和牌
func IsAgariKokushi(h Hand34) bool {
	unique := 0
	pair := false
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	return unique == 13 && pair
}

func canFormMelds(h *Hand34, need int) bool {
	if need == 0 {
		for i := 0; i < TypeCount; i++ {
			if (*h)[i] != 0 {
				return false
			}
		}
		return true
	}

	i := -1
	for k := 0; k < TypeCount; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return false
	}
	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		if canFormMelds(h, need-1) {
			(*h)[i] += 3
			return true
		}
		(*h)[i] += 3
	}
	// 顺子（仅数牌）
	if TileType(i).IsNumber() && i+2 < TypeCount && sameSuit3(i) {
		if (*h)[i] > 0 && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
			(*h)[i]--
			(*h)[i+1]--
			(*h)[i+2]--
			if canFormMelds(h, need-1) {
				(*h)[i]++
				(*h)[i+1]++
				(*h)[i+2]++
				return true
			}
			(*h)[i]++
			(*h)[i+1]++
			(*h)[i+2]++
		}
	}
	return false
}

func sameSuit3(i int) bool {
	return TileType(i).Suit() == TileType(i+1).Suit() && TileType(i).Suit() == TileType(i+2).Suit()
}

var kokushiTiles = [13]int{
	int(Man1), int(Man9),
	int(Pin1), int(Pin9),
	int(So1), int(So9),
	int(East), int(South), int(West), int(North),
	int(White), int(Green), int(Red),
}

// ShantenAll 向听数，带副露；和牌为 -1
func (s *Searcher) ShantenAll(h Hand34, fixedMelds int) int {
	key := "s" + h.keyWithFixedMelds(fixedMelds)
	if s.shantenCache != nil {
		if v, ok := s.shantenCache.Get(key); ok {
			return v.(int)
		}
	}

	best := s.ShantenNormal(h, fixedMelds)
	if fixedMelds == 0 {
		if v := ShantenChiitoi(h); v < best {
			best = v
		}
		if v := ShantenKokushi(h); v < best {
			best = v
		}
	}

	if s.shantenCache != nil {
		s.shantenCache.Set(key, best)
	}
	return best
}

// ShantenKokushi 国士无双向听数
func ShantenKokushi(h Hand34) int {
	unique := 0
	pair := false
	for _, idx := range kokushiTiles {
		if h[idx] > 0 {
			unique++
			if h[idx] >= 2 {
				pair = true
			}
		}
	}
	sh := 13 - unique
	if pair {
		sh--
	}
	return sh
}

// ShantenChiitoi 七对子向听数
func ShantenChiitoi(h Hand34) int {
	pairs := 0
	unique := 0
	for i := 0; i < TypeCount; i++ {
		if h[i] > 0 {
			unique++
		}
		pairs += int(h[i] / 2)
	}
	sh := 6 - pairs
	if unique < 7 {
		sh += 7 - unique
	}
	return sh
}

func (s *Searcher) ShantenNormal(h Hand34, fixedMelds int) int {
	best := 8 // 一般型最差上界
	work := h
	dfsNormalShanten(&work, fixedMelds, 0, 0, &best)
	return best
}

// dfsNormalShanten 普通牌型向听数搜索
// m：已形成的面子数（含 fixedMelds）、p：雀头数（0/1）、t：搭子数、best：全局最小向听
func dfsNormalShanten(h *Hand34, m int, p int, t int, best *int) {
	if m > 4 {
		return
	}

	t2 := t
	if limit := 4 - m; t2 > limit {
		t2 = limit
	}
	sh := 8 - 2*m - t2 - p
	if sh < *best {
		*best = sh
	}

	i := -1
	for k := 0; k < TypeCount; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return
	}

	if !TileType(i).IsNumber() {
		if (*h)[i] >= 3 {
			(*h)[i] -= 3
			dfsNormalShanten(h, m+1, p, t, best)
			(*h)[i] += 3
		}
		if p == 0 && (*h)[i] >= 2 {
			(*h)[i] -= 2
			dfsNormalShanten(h, m, 1, t, best)
			(*h)[i] += 2
		}
		// 对子作搭子（双碰）
		if (*h)[i] >= 2 {
			(*h)[i] -= 2
			dfsNormalShanten(h, m, p, t+1, best)
			(*h)[i] += 2
		}
		(*h)[i]--
		dfsNormalShanten(h, m, p, t, best)
		(*h)[i]++
		return
	}

	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		dfsNormalShanten(h, m+1, p, t, best)
		(*h)[i] += 3
	}

	if i+2 < TypeCount && sameSuit3(i) {
		if (*h)[i] > 0 && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
			(*h)[i]--
			(*h)[i+1]--
			(*h)[i+2]--
			dfsNormalShanten(h, m+1, p, t, best)
			(*h)[i]++
			(*h)[i+1]++
			(*h)[i+2]++
		}
	}

	if p == 0 && (*h)[i] >= 2 {
		(*h)[i] -= 2
		dfsNormalShanten(h, m, 1, t, best)
		(*h)[i] += 2
	}

	// 对子作搭子（双碰）
	if (*h)[i] >= 2 {
		(*h)[i] -= 2
		dfsNormalShanten(h, m, p, t+1, best)
		(*h)[i] += 2
	}

	if i+1 < TypeCount && TileType(i).Suit() == TileType(i+1).Suit() {
		if (*h)[i] > 0 && (*h)[i+1] > 0 {
			(*h)[i]--
			(*h)[i+1]--
			dfsNormalShanten(h, m, p, t+1, best)
			(*h)[i]++
			(*h)[i+1]++
		}
	}

	if i+2 < TypeCount && TileType(i).Suit() == TileType(i+2).Suit() {
		if (*h)[i] > 0 && (*h)[i+2] > 0 {
			(*h)[i]--
			(*h)[i+2]--
			dfsNormalShanten(h, m, p, t+1, best)
			(*h)[i]++
			(*h)[i+2]++
		}
	}

	(*h)[i]--
	dfsNormalShanten(h, m, p, t, best)
	(*h)[i]++
}
