package mahjong

// setKind 面子种类
type setKind int

const (
	setChi setKind = iota
	setPon
	setKan
)

// setInfo 评估用的面子信息。base 为顺子最小牌或刻/杠的种类
type setInfo struct {
	kind      setKind
	base      TileType
	open      bool // 荣和补完的暗刻也记为明刻
	closedKan bool
	isMeld    bool
}

// decomposition 一个完整的手牌拆解：雀头加四组面子，
// 或七对子/国士的特殊形
type decomposition struct {
	pair       TileType
	sets       []setInfo
	sevenPairs bool
	kokushi    bool
}

// decomposeClosed 枚举闭手部分（含和牌张）的所有标准拆解。
// need 为闭手需要组出的面子数（4 减去副露数）
func decomposeClosed(h Hand34, need int) []decomposition {
	var out []decomposition
	for pair := 0; pair < TypeCount; pair++ {
		if h[pair] < 2 {
			continue
		}
		work := h
		work[pair] -= 2
		var sets []setInfo
		dfsDecompose(&work, 0, need, &sets, TileType(pair), &out)
	}
	return out
}

func dfsDecompose(h *Hand34, from, need int, sets *[]setInfo, pair TileType, out *[]decomposition) {
	if need == 0 {
		for i := 0; i < TypeCount; i++ {
			if (*h)[i] != 0 {
				return
			}
		}
		d := decomposition{pair: pair, sets: append([]setInfo(nil), *sets...)}
		*out = append(*out, d)
		return
	}

	i := -1
	for k := from; k < TypeCount; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return
	}

	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		*sets = append(*sets, setInfo{kind: setPon, base: TileType(i)})
		dfsDecompose(h, i, need-1, sets, pair, out)
		*sets = (*sets)[:len(*sets)-1]
		(*h)[i] += 3
	}
	// 顺子
	if TileType(i).IsNumber() && i+2 < TypeCount && sameSuit3(i) &&
		(*h)[i] > 0 && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		*sets = append(*sets, setInfo{kind: setChi, base: TileType(i)})
		dfsDecompose(h, i, need-1, sets, pair, out)
		*sets = (*sets)[:len(*sets)-1]
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
	}
}

// meldSetInfo 副露对应的面子信息
func meldSetInfo(m *Meld) setInfo {
	info := setInfo{isMeld: true, open: m.IsOpen(), base: m.Tiles[0].Type()}
	switch m.Kind {
	case MeldChi:
		info.kind = setChi
		lo := m.Tiles[0].Type()
		for _, t := range m.Tiles {
			if t.Type() < lo {
				lo = t.Type()
			}
		}
		info.base = lo
	case MeldPon:
		info.kind = setPon
	default:
		info.kind = setKan
		info.closedKan = m.Kind == MeldClosedKan
	}
	return info
}
