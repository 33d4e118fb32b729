package mahjong

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoValidTiles 按权重无牌可摸（或指定的牌已不在牌山中）
var ErrNoValidTiles = errors.New("no valid tiles")

// 牌山内部使用 t37 编码：34 个真实种类加 34/35/36 三个红五槽位
const wallSlots = 37

// redFiveSlot 红五种类到 t37 槽位的映射
var redFiveSlot = map[TileType]int{Man5: 34, Pin5: 35, So5: 36}

// redFiveSlotInv t37 槽位到红五种类
var redFiveSlotInv = map[int]TileType{34: Man5, 35: Pin5, 36: So5}

// Wall 牌山：按 t37 槽位维护剩余张数，摸牌按权重抽样
type Wall struct {
	hasRedFive bool
	available  [wallSlots]int
	rng        *rand.Rand
}

func NewWall(hasRedFive bool, rng *rand.Rand) *Wall {
	return &Wall{hasRedFive: hasRedFive, rng: rng}
}

// Reset 重置为满山：每种四张，启用红五时各移一张五到红五槽
func (w *Wall) Reset() {
	for i := 0; i < TypeCount; i++ {
		w.available[i] = 4
	}
	for i := TypeCount; i < wallSlots; i++ {
		w.available[i] = 0
	}
	if w.hasRedFive {
		for tt, slot := range redFiveSlot {
			w.available[tt]--
			w.available[slot] = 1
		}
	}
}

// Remaining 剩余总张数
func (w *Wall) Remaining() int {
	n := 0
	for _, c := range w.available {
		n += c
	}
	return n
}

// Available 某槽位的剩余张数（测试用）
func (w *Wall) Available(slot int) int { return w.available[slot] }

// slotOf t136 对应的 t37 槽位
func (w *Wall) slotOf(t Tile) int {
	if w.hasRedFive && t.IsRedFive() {
		return redFiveSlot[t.Type()]
	}
	return int(t.Type())
}

// remap 按当前剩余张数确定实际取出的 t136：红五槽位固定 4K+0，
// 其余为 4K + (3 - 取出后的剩余张数)，保证同种多次摸牌互不重复
func (w *Wall) remap(slot int) Tile {
	if tt, ok := redFiveSlotInv[slot]; ok {
		return Tile(int(tt) * 4)
	}
	return Tile(slot*4 + (3 - w.available[slot]))
}

// Draw 按权重摸一张牌。每个槽位的权重为剩余张数乘以所有权重集中
// 对应项的乘积；权重全零时返回 ErrNoValidTiles
func (w *Wall) Draw(weightSets ...[]float64) (Tile, error) {
	var weights [wallSlots]float64
	total := 0.0
	for i := 0; i < wallSlots; i++ {
		wt := float64(w.available[i])
		for _, set := range weightSets {
			if i < len(set) {
				wt *= set[i]
			} else {
				wt = 0
			}
		}
		weights[i] = wt
		total += wt
	}
	if total <= 0 {
		return TileNone, ErrNoValidTiles
	}

	r := w.rng.Float64() * total
	slot := -1
	for i := 0; i < wallSlots; i++ {
		if weights[i] <= 0 {
			continue
		}
		slot = i
		if r < weights[i] {
			break
		}
		r -= weights[i]
	}
	// 浮点误差落在区间之外时 slot 停在最后一个正权重槽位上

	w.available[slot]--
	return w.remap(slot), nil
}

// Take 取出指定的 t136（预置牌用），返回按剩余张数重映射后的 t136
func (w *Wall) Take(t Tile) (Tile, error) {
	slot := w.slotOf(t)
	if w.available[slot] == 0 {
		return TileNone, fmt.Errorf("%w: %s", ErrNoValidTiles, t)
	}
	w.available[slot]--
	return w.remap(slot), nil
}

// Replace 把牌放回牌山，是 Take/Draw 的逆操作
func (w *Wall) Replace(t Tile) {
	w.available[w.slotOf(t)]++
}

// DrawMany 摸 n 张，任何一张失败则全部放回并返回错误
func (w *Wall) DrawMany(n int, weightSets ...[]float64) ([]Tile, error) {
	out := make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		t, err := w.Draw(weightSets...)
		if err != nil {
			w.ReplaceMany(out)
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ReplaceMany 放回一组牌
func (w *Wall) ReplaceMany(tiles []Tile) {
	for _, t := range tiles {
		w.Replace(t)
	}
}
