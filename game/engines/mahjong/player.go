package mahjong

// Player 座位状态。对象跨局存活，每局开始时由 ResetRound 清空局内字段
type Player struct {
	Name   string
	Idx    int
	Points int

	Hand     []Tile
	Discards []*Discard
	Melds    []*Meld

	Shanten int
	Ukeire  []TileType

	LatestDraw         Tile
	LatestDrawDeadWall bool

	IsRiichi       bool
	IsDoubleRiichi bool
	IsIppatsu      bool
	IsTempFuriten  bool
	HasPendingDora bool

	// 吃/碰后的现物禁打种类，出牌或下次摸牌时清空
	Kuikae []TileType

	// 预置起手（测试与剧本局用），发牌时从牌山按牌取出
	PresetHand string
}

func NewPlayer(name string) *Player {
	return &Player{Name: name, Idx: SeatNone, LatestDraw: TileNone}
}

// NewPresetPlayer 预置起手的玩家
func NewPresetPlayer(name, presetHand string) *Player {
	p := NewPlayer(name)
	p.PresetHand = presetHand
	return p
}

func (p *Player) ResetRound() {
	p.Hand = nil
	p.Discards = nil
	p.Melds = nil
	p.Ukeire = nil
	p.Shanten = 0
	p.LatestDraw = TileNone
	p.LatestDrawDeadWall = false
	p.IsRiichi = false
	p.IsDoubleRiichi = false
	p.IsIppatsu = false
	p.IsTempFuriten = false
	p.HasPendingDora = false
	p.Kuikae = nil
}

// CalcShantenAndUkeire 重算闭手牌的向听与有效进张
func (p *Player) CalcShantenAndUkeire(s *Searcher) {
	p.Shanten, p.Ukeire = s.ShantenAndUkeire(p.Hand)
}

// HasTile 闭手牌里是否有这张 t136
func (p *Player) HasTile(t Tile) bool {
	for _, h := range p.Hand {
		if h == t {
			return true
		}
	}
	return false
}

// RemoveTile 从闭手牌移除一张 t136
func (p *Player) RemoveTile(t Tile) bool {
	for i, h := range p.Hand {
		if h == t {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// IsFuritenForWaits 这些听牌种类是否振听（出现在自家弃牌或额外弃牌里）
func (p *Player) IsFuritenForWaits(waits []TileType, extraDiscards ...TileType) bool {
	seen := make(map[TileType]bool, len(p.Discards)+len(extraDiscards))
	for _, d := range p.Discards {
		seen[d.Tile.Type()] = true
	}
	for _, tt := range extraDiscards {
		seen[tt] = true
	}
	for _, w := range waits {
		if seen[w] {
			return true
		}
	}
	return false
}

// IsFuriten 振听判定：临时振听，或听牌且任一进张在自家弃牌中
func (p *Player) IsFuriten() bool {
	if p.IsTempFuriten {
		return true
	}
	if p.Shanten == 0 && p.IsFuritenForWaits(p.Ukeire) {
		return true
	}
	return false
}

// HasNagashiMangan 流局满贯：所有弃牌都是幺九且没有被叫走
func (p *Player) HasNagashiMangan() bool {
	for _, d := range p.Discards {
		if !d.Tile.Type().IsTerminalOrHonor() || d.CalledBy != SeatNone {
			return false
		}
	}
	return true
}

// hand34 闭手牌直方图
func (p *Player) hand34() Hand34 {
	h, _ := Hand34FromTiles(p.Hand)
	return h
}

// kanCount 该座位的杠数
func (p *Player) kanCount() int {
	n := 0
	for _, m := range p.Melds {
		if m.IsKan() {
			n++
		}
	}
	return n
}

// onlyClosedKans 副露全为暗杠（立直资格）
func (p *Player) onlyClosedKans() bool {
	for _, m := range p.Melds {
		if m.Kind != MeldClosedKan {
			return false
		}
	}
	return true
}
