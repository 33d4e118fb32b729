package mahjong

// calcFu 符数计算。七对固定 25，国士不计符，
// 平和自摸 20，食平和形补到 30，其余进位到十位
func calcFu(b *handBreakdown) int {
	if b.sevenPairs {
		return 25
	}
	if b.kokushi {
		return 0
	}
	if isPinfu(b) {
		if b.ctx.IsTsumo {
			return 20
		}
		return 30 // 门清荣和 +10
	}

	fu := 20
	if !b.ctx.IsTsumo && !b.isOpen {
		fu += 10
	}
	if b.ctx.IsTsumo {
		fu += 2
	}
	fu += b.waitFu
	for i, s := range b.sets {
		fu += setFu(b, i, s)
	}
	fu += pairFu(b)

	if fu == 20 {
		fu = 30 // 食平和形
	}
	return roundUpFu(fu)
}

// setFu 刻/杠符。荣和补完的刻子按明刻计
func setFu(b *handBreakdown, idx int, s setInfo) int {
	if s.kind == setChi {
		return 0
	}
	open := s.open
	if !s.isMeld && !b.ctx.IsTsumo && idx == b.winIn {
		open = true
	}
	fu := 2
	if s.kind == setKan {
		fu = 8
	}
	if !open {
		fu *= 2
	}
	if s.base.IsTerminalOrHonor() {
		fu *= 2
	}
	return fu
}

// pairFu 役牌雀头符。连风雀头计 4
func pairFu(b *handBreakdown) int {
	fu := 0
	if b.pair.IsDragon() {
		fu += 2
	}
	if b.pair == b.ctx.SeatWind.TileType() {
		fu += 2
	}
	if b.pair == b.ctx.RoundWind.TileType() {
		fu += 2
	}
	return fu
}

func roundUpFu(fu int) int {
	return (fu + 9) / 10 * 10
}
