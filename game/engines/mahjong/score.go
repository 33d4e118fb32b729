package mahjong

// 得点等级名
const (
	LevelMangan        = "mangan"
	LevelHaneman       = "haneman"
	LevelBaiman        = "baiman"
	LevelSanbaiman     = "sanbaiman"
	LevelYakuman       = "yakuman"
	LevelKazoeYakuman  = "kazoe yakuman"
	LevelDoubleYakuman = "double yakuman"
)

// basePoints 基本点与等级。番数封顶规则：
// 基本点超 2000 切满贯，6-7 跳满，8-10 倍满，11-12 三倍满，13+ 累计役满
func basePoints(han, fu, yakuman int) (int, string) {
	if yakuman > 0 {
		level := LevelYakuman
		if yakuman > 1 {
			level = LevelDoubleYakuman
		}
		return 8000 * yakuman, level
	}
	switch {
	case han >= 13:
		return 8000, LevelKazoeYakuman
	case han >= 11:
		return 6000, LevelSanbaiman
	case han >= 8:
		return 4000, LevelBaiman
	case han >= 6:
		return 3000, LevelHaneman
	}
	base := fu * (1 << uint(2+han))
	if base > 2000 {
		return 2000, LevelMangan
	}
	return base, ""
}

// roundUp100 支付额进位到百位
func roundUp100(n int) int {
	return (n + 99) / 100 * 100
}

// calcCost 支付拆分。自摸时 Main 为庄家（或放铳等价方）份额、
// Additional 为闲家份额；荣和时放铳者付 Main。本场每本自摸每家 100、
// 荣和 300，供托 1000/根计入 Total
func calcCost(han, fu int, ctx *HandContext, yakuman int) Cost {
	base, level := basePoints(han, fu, yakuman)
	var c Cost
	c.YakuLevel = level
	if ctx.IsTsumo {
		if ctx.IsDealer {
			c.Main = roundUp100(2 * base)
			c.Additional = c.Main
		} else {
			c.Main = roundUp100(2 * base)
			c.Additional = roundUp100(base)
		}
		c.MainBonus = 100 * ctx.Honba
		c.AdditionalBonus = 100 * ctx.Honba
		c.Total = c.Main + c.MainBonus + 2*(c.Additional+c.AdditionalBonus)
	} else {
		if ctx.IsDealer {
			c.Main = roundUp100(6 * base)
		} else {
			c.Main = roundUp100(4 * base)
		}
		c.MainBonus = 300 * ctx.Honba
		c.Total = c.Main + c.MainBonus
	}
	c.Total += 1000 * ctx.RiichiSticks
	return c
}
