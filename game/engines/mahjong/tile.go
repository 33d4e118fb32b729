package mahjong

import (
	"fmt"
	"strings"
)

// TileType 牌种（t34 编码）：0-8 万，9-17 筒，18-26 索，27-33 字
type TileType int

const (
	Man1 TileType = iota
	Man2
	Man3
	Man4
	Man5
	Man6
	Man7
	Man8
	Man9
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
	Pin9
	So1
	So2
	So3
	So4
	So5
	So6
	So7
	So8
	So9
	East
	South
	West
	North
	White
	Green
	Red
)

const TypeCount = 34

// Tile 物理牌（t136 编码）：种类 K 的四张占 4K..4K+3，红五为 4K+0
type Tile int

// TileNone 表示"无牌"，用于摸牌投影、自摸胜利牌等场合
const TileNone Tile = -1

// redFiveTypes 红五对应的种类
var redFiveTypes = [3]TileType{Man5, Pin5, So5}

func (t Tile) Type() TileType { return TileType(int(t) / 4) }
func (t Tile) Copy() int      { return int(t) % 4 }

// IsRedFive 是否红五（每种五的第 0 张）
func (t Tile) IsRedFive() bool {
	if t.Copy() != 0 {
		return false
	}
	tt := t.Type()
	return tt == Man5 || tt == Pin5 || tt == So5
}

func (t Tile) String() string {
	if t == TileNone {
		return "??"
	}
	return fmt.Sprintf("%s%d", t.Type(), t.Copy())
}

// tileTokens 线格式的两字符记号表，顺序即 t34 顺序
var tileTokens = [TypeCount]string{
	"1m", "2m", "3m", "4m", "5m", "6m", "7m", "8m", "9m",
	"1p", "2p", "3p", "4p", "5p", "6p", "7p", "8p", "9p",
	"1s", "2s", "3s", "4s", "5s", "6s", "7s", "8s", "9s",
	"ew", "sw", "ww", "nw", "wd", "gd", "rd",
}

func (tt TileType) String() string {
	if tt < 0 || tt >= TypeCount {
		return "??"
	}
	return tileTokens[tt]
}

func (tt TileType) IsHonor() bool  { return tt >= East }
func (tt TileType) IsNumber() bool { return tt < East }
func (tt TileType) IsWind() bool   { return tt >= East && tt <= North }
func (tt TileType) IsDragon() bool { return tt >= White }

// IsTerminal 幺牌（数牌 1、9）
func (tt TileType) IsTerminal() bool {
	if !tt.IsNumber() {
		return false
	}
	n := int(tt) % 9
	return n == 0 || n == 8
}

// IsTerminalOrHonor 幺九牌
func (tt TileType) IsTerminalOrHonor() bool {
	return tt.IsHonor() || tt.IsTerminal()
}

// Suit 花色：0 万 1 筒 2 索，字牌返回 -1
func (tt TileType) Suit() int {
	if tt.IsHonor() {
		return -1
	}
	return int(tt) / 9
}

// Number 数牌点数 1-9，字牌返回 0
func (tt TileType) Number() int {
	if tt.IsHonor() {
		return 0
	}
	return int(tt)%9 + 1
}

// DoraFromIndicator 指示牌对应的宝牌种类：数牌循环 9→1，风循环东南西北，三元循环白发中
func DoraFromIndicator(ind TileType) TileType {
	switch {
	case ind.IsNumber():
		base := TileType(ind.Suit() * 9)
		return base + TileType((int(ind)%9+1)%9)
	case ind.IsWind():
		return East + TileType((int(ind-East)+1)%4)
	default:
		return White + TileType((int(ind-White)+1)%3)
	}
}

// PlusDora 统计一张牌对给定指示牌的宝牌数
func PlusDora(t Tile, indicators []Tile) int {
	n := 0
	for _, ind := range indicators {
		if DoraFromIndicator(ind.Type()) == t.Type() {
			n++
		}
	}
	return n
}

// ParseTileType 解析两字符记号
func ParseTileType(token string) (TileType, error) {
	for i, tok := range tileTokens {
		if tok == token {
			return TileType(i), nil
		}
	}
	return 0, fmt.Errorf("未知的牌记号 %q", token)
}

// ParseTile 解析单张牌："5m" 或带第几张的 "5m2"
func ParseTile(s string) (Tile, error) {
	if len(s) != 2 && len(s) != 3 {
		return TileNone, fmt.Errorf("非法的牌 %q", s)
	}
	tt, err := ParseTileType(s[:2])
	if err != nil {
		return TileNone, err
	}
	copyIdx := 0
	if len(s) == 3 {
		if s[2] < '0' || s[2] > '3' {
			return TileNone, fmt.Errorf("非法的牌序号 %q", s)
		}
		copyIdx = int(s[2] - '0')
	}
	return Tile(int(tt)*4 + copyIdx), nil
}

// ParseTiles 解析一串牌记号（可含空格），无序号的记号按种类依次分配第 0、1、2、3 张。
// 记号后可跟序号 0-3；点数只会是 1-9，所以 0 一定是序号，
// 1-3 紧跟花色字母时按下一张牌的点数读
func ParseTiles(s string) ([]Tile, error) {
	s = strings.ReplaceAll(s, " ", "")
	var used [TypeCount]int
	var out []Tile
	for i := 0; i < len(s); {
		j := i + 2
		if j > len(s) {
			return nil, fmt.Errorf("非法的牌串 %q", s)
		}
		// 可选的第三位序号
		if j < len(s) && s[j] >= '0' && s[j] <= '3' {
			if s[j] == '0' || j+1 >= len(s) ||
				(s[j+1] != 'm' && s[j+1] != 'p' && s[j+1] != 's') {
				j++
			}
		}
		token := s[i:j]
		if len(token) == 3 {
			t, err := ParseTile(token)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		} else {
			tt, err := ParseTileType(token)
			if err != nil {
				return nil, err
			}
			if used[tt] >= 4 {
				return nil, fmt.Errorf("牌 %s 超过四张", tt)
			}
			out = append(out, Tile(int(tt)*4+used[tt]))
			used[tt]++
		}
		i = j
	}
	return out, nil
}

// TilesString 渲染一组牌为线格式
func TilesString(tiles []Tile) string {
	var b strings.Builder
	for i, t := range tiles {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// TypesOf 取一组牌的种类
func TypesOf(tiles []Tile) []TileType {
	out := make([]TileType, len(tiles))
	for i, t := range tiles {
		out[i] = t.Type()
	}
	return out
}

// Wind 场风/自风
type Wind int

const (
	WindEast Wind = iota
	WindSouth
	WindWest
	WindNorth
)

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "E"
	case WindSouth:
		return "S"
	case WindWest:
		return "W"
	case WindNorth:
		return "N"
	}
	return "?"
}

// Next 下一个风
func (w Wind) Next() Wind { return (w + 1) % 4 }

// TileType 风对应的字牌种类
func (w Wind) TileType() TileType { return East + TileType(w) }
