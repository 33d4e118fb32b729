package mahjong

// CallComputer 叫牌组合枚举。红五启用时，含五的组合会把
// 红五与普通五作为不同选择分别枚举
type CallComputer struct {
	redFiveEnabled bool
}

func NewCallComputer(redFiveEnabled bool) *CallComputer {
	return &CallComputer{redFiveEnabled: redFiveEnabled}
}

// tile37Of 一张牌在 t37 空间的槽位
func (c *CallComputer) tile37Of(t Tile) int {
	if c.redFiveEnabled && t.IsRedFive() {
		return redFiveSlot[t.Type()]
	}
	return int(t.Type())
}

// tilesTo37 一组牌的 t37 直方图
func (c *CallComputer) tilesTo37(tiles []Tile) [wallSlots]int {
	var h [wallSlots]int
	for _, t := range tiles {
		h[c.tile37Of(t)]++
	}
	return h
}

// possibilities37 给定所需种类列表的全部 t37 组合：基础组合，
// 加上每个可用红五替换一张普通五的变体
func (c *CallComputer) possibilities37(kinds []TileType) [][wallSlots]int {
	var base [wallSlots]int
	for _, k := range kinds {
		base[k]++
	}
	poss := [][wallSlots]int{base}
	if c.redFiveEnabled {
		for _, red := range redFiveTypes {
			if base[red] > 0 {
				variant := base
				variant[red]--
				variant[redFiveSlot[red]]++
				poss = append(poss, variant)
			}
		}
	}
	return poss
}

// resolveSets 把 t37 组合映射成手里具体的 t136 组合，过滤掉手牌不足的组合
func (c *CallComputer) resolveSets(poss [][wallSlots]int, hand []Tile) [][]Tile {
	hand37 := c.tilesTo37(hand)
	var out [][]Tile
	for _, p := range poss {
		ok := true
		for i := 0; i < wallSlots; i++ {
			if hand37[i] < p[i] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		avail := append([]Tile(nil), hand...)
		var set []Tile
		for i := 0; i < wallSlots; i++ {
			for n := p[i]; n > 0; n-- {
				for j, t := range avail {
					if c.tile37Of(t) == i {
						set = append(set, t)
						avail = append(avail[:j], avail[j+1:]...)
						break
					}
				}
			}
		}
		out = append(out, set)
	}
	return out
}

// GetPonSets 手里能和这张弃牌组成碰的牌对（不含弃牌本身）
func (c *CallComputer) GetPonSets(disc Tile, hand []Tile) [][]Tile {
	return c.resolveSets(c.possibilities37([]TileType{disc.Type(), disc.Type()}), hand)
}

// GetChiSets 手里能和这张弃牌组成顺子的牌对（不含弃牌本身）
func (c *CallComputer) GetChiSets(disc Tile, hand []Tile) [][]Tile {
	d := disc.Type()
	if d.IsHonor() {
		return nil
	}
	idx := int(d) % 9
	var poss [][wallSlots]int
	if idx >= 2 { // 左吃：弃牌为顺子最大
		poss = append(poss, c.possibilities37([]TileType{d - 2, d - 1})...)
	}
	if idx >= 1 && idx <= 7 { // 嵌张
		poss = append(poss, c.possibilities37([]TileType{d - 1, d + 1})...)
	}
	if idx <= 6 { // 右吃：弃牌为顺子最小
		poss = append(poss, c.possibilities37([]TileType{d + 1, d + 2})...)
	}
	return c.resolveSets(poss, hand)
}

// chiKuikae 吃后禁打种类：被叫牌本身，边吃时再加顺子另一端外侧的牌
func chiKuikae(setTypes []TileType, called TileType) []TileType {
	kuikae := []TileType{called}
	lo, hi := called, called
	for _, tt := range setTypes {
		if tt < lo {
			lo = tt
		}
		if tt > hi {
			hi = tt
		}
	}
	switch {
	case hi == called: // 被叫牌在顺子高端，如 3m 吃 1m2m3m 再禁 6m
		if int(called)%9 <= 5 {
			kuikae = append(kuikae, called+3)
		}
	case lo == called: // 被叫牌在顺子低端，如 7m 吃 7m8m9m 再禁 4m
		if int(called)%9 >= 3 {
			kuikae = append(kuikae, called-3)
		}
	}
	return kuikae
}
