package mahjong

import "fmt"

// MeldKind 副露类型
type MeldKind string

const (
	MeldChi       MeldKind = "chi"
	MeldPon       MeldKind = "pon"
	MeldClosedKan MeldKind = "closed_kan"
	MeldOpenKan   MeldKind = "open_kan"
	MeldAddedKan  MeldKind = "added_kan"
)

// SeatCount 四人东场固定四个座位
const SeatCount = 4

// SeatNone 表示"无座位"（暗杠没有被叫的来源）
const SeatNone = -1

// Meld 副露记录。创建后除碰升级加杠外不再修改
type Meld struct {
	Kind       MeldKind
	Tiles      []Tile
	CalledFrom int  // 被叫牌来自哪个座位，暗杠为 SeatNone
	CalledTile Tile // 被叫的那张牌，暗杠为 TileNone
}

func NewMeld(kind MeldKind, tiles []Tile, calledFrom int, calledTile Tile) *Meld {
	return &Meld{
		Kind:       kind,
		Tiles:      append([]Tile(nil), tiles...),
		CalledFrom: calledFrom,
		CalledTile: calledTile,
	}
}

// PromoteToAddedKan 碰原地升级为加杠
func (m *Meld) PromoteToAddedKan(t Tile) error {
	if m.Kind != MeldPon {
		return fmt.Errorf("%w: 只有碰可以加杠", ErrInvalidAction)
	}
	if m.Tiles[0].Type() != t.Type() {
		return fmt.Errorf("%w: %s 不能加进 %s 的碰", ErrInvalidAction, t, m.Tiles[0].Type())
	}
	m.Kind = MeldAddedKan
	m.Tiles = append(m.Tiles, t)
	return nil
}

// IsKan 是否杠
func (m *Meld) IsKan() bool {
	return m.Kind == MeldClosedKan || m.Kind == MeldOpenKan || m.Kind == MeldAddedKan
}

// IsOpen 是否明副露（暗杠之外都算明）
func (m *Meld) IsOpen() bool { return m.Kind != MeldClosedKan }

func (m *Meld) Clone() *Meld {
	return &Meld{
		Kind:       m.Kind,
		Tiles:      append([]Tile(nil), m.Tiles...),
		CalledFrom: m.CalledFrom,
		CalledTile: m.CalledTile,
	}
}

func (m *Meld) String() string {
	if m.Kind == MeldClosedKan {
		return fmt.Sprintf("%s of %s", m.Kind, TilesString(m.Tiles))
	}
	return fmt.Sprintf("%s of %s (%s) from P%d", m.Kind, TilesString(m.Tiles), m.CalledTile, m.CalledFrom)
}

// Discard 弃牌记录。被叫走的牌仍保留在弃牌列表中，只标记 CalledBy
type Discard struct {
	Tile        Tile
	IsTsumogiri bool
	IsRiichi    bool
	CalledBy    int // 未被叫为 SeatNone
}

func NewDiscard(t Tile, isTsumogiri, isRiichi bool) *Discard {
	return &Discard{Tile: t, IsTsumogiri: isTsumogiri, IsRiichi: isRiichi, CalledBy: SeatNone}
}

// Wait 听牌信息
type Wait struct {
	Tiles     []TileType
	HasYaku   []bool
	IsFuriten bool
}

// YakuHan 役种及其翻数
type YakuHan struct {
	Name string
	Han  int
}

// Win 和牌记录
type Win struct {
	Seat              int
	Hand              []Tile
	WinTile           Tile // 自摸为 TileNone
	Melds             [][]Tile
	DoraIndicators    []Tile
	UraDoraIndicators []Tile
	Han               int
	Fu                int
	Yaku              []YakuHan
	Level             string
	Total             int
	Points            []int
}
