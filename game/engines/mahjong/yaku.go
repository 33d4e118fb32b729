package mahjong

// YakuChecker 普通役判定器。返回该役在给定拆解下的番数条目，无则返回 nil
type YakuChecker interface {
	Check(b *handBreakdown) []YakuHan
}

type yakuCheckerFunc func(b *handBreakdown) []YakuHan

func (f yakuCheckerFunc) Check(b *handBreakdown) []YakuHan { return f(b) }

// YakumanChecker 役满判定器。返回役名与倍数（双倍役满为 2），不成立倍数为 0
type YakumanChecker interface {
	CheckYakuman(b *handBreakdown) (string, int)
}

type yakumanCheckerFunc func(b *handBreakdown) (string, int)

func (f yakumanCheckerFunc) CheckYakuman(b *handBreakdown) (string, int) { return f(b) }

var yakuRegistry = []YakuChecker{
	yakuCheckerFunc(checkRiichi),
	yakuCheckerFunc(checkDoubleRiichi),
	yakuCheckerFunc(checkIppatsu),
	yakuCheckerFunc(checkMenzenTsumo),
	yakuCheckerFunc(checkPinfu),
	yakuCheckerFunc(checkTanyao),
	yakuCheckerFunc(checkPeiko),
	yakuCheckerFunc(checkYakuhai),
	yakuCheckerFunc(checkSanshokuDoujun),
	yakuCheckerFunc(checkSanshokuDoukou),
	yakuCheckerFunc(checkIttsu),
	yakuCheckerFunc(checkChantaJunchan),
	yakuCheckerFunc(checkToitoi),
	yakuCheckerFunc(checkSanankou),
	yakuCheckerFunc(checkSankantsu),
	yakuCheckerFunc(checkShousangen),
	yakuCheckerFunc(checkHonroutou),
	yakuCheckerFunc(checkChiitoitsu),
	yakuCheckerFunc(checkFlush),
	yakuCheckerFunc(checkHaiteiHoutei),
	yakuCheckerFunc(checkRinshan),
	yakuCheckerFunc(checkChankan),
}

var yakumanRegistry = []YakumanChecker{
	yakumanCheckerFunc(checkKokushi),
	yakumanCheckerFunc(checkSuuankou),
	yakumanCheckerFunc(checkDaisangen),
	yakumanCheckerFunc(checkSuushi),
	yakumanCheckerFunc(checkTsuuiisou),
	yakumanCheckerFunc(checkChinroutou),
	yakumanCheckerFunc(checkRyuuiisou),
	yakumanCheckerFunc(checkChuuren),
	yakumanCheckerFunc(checkSuukantsu),
	yakumanCheckerFunc(checkTenhouChiihou),
}

// runYakuRegistry 汇总一个拆解的全部役。命中役满时只保留役满条目，
// 番数按每倍 13 计
func runYakuRegistry(b *handBreakdown) ([]YakuHan, int, int) {
	var yakuman []YakuHan
	total := 0
	for _, c := range yakumanRegistry {
		if name, n := c.CheckYakuman(b); n > 0 {
			yakuman = append(yakuman, YakuHan{Name: name, Han: 13 * n})
			total += n
		}
	}
	if total > 0 {
		han := 0
		for _, y := range yakuman {
			han += y.Han
		}
		return yakuman, han, total
	}

	var yaku []YakuHan
	han := 0
	for _, c := range yakuRegistry {
		for _, y := range c.Check(b) {
			yaku = append(yaku, y)
			han += y.Han
		}
	}
	return yaku, han, 0
}

func one(name string, han int) []YakuHan { return []YakuHan{{Name: name, Han: han}} }

func checkRiichi(b *handBreakdown) []YakuHan {
	if b.ctx.IsRiichi && !b.ctx.IsDoubleRiichi {
		return one("Riichi", 1)
	}
	return nil
}

func checkDoubleRiichi(b *handBreakdown) []YakuHan {
	if b.ctx.IsDoubleRiichi {
		return one("Double Riichi", 2)
	}
	return nil
}

func checkIppatsu(b *handBreakdown) []YakuHan {
	if b.ctx.IsIppatsu && (b.ctx.IsRiichi || b.ctx.IsDoubleRiichi) {
		return one("Ippatsu", 1)
	}
	return nil
}

func checkMenzenTsumo(b *handBreakdown) []YakuHan {
	if b.ctx.IsTsumo && !b.isOpen {
		return one("Menzen Tsumo", 1)
	}
	return nil
}

// isPinfu 平和：门清、四顺子、两面听、雀头非役牌
func isPinfu(b *handBreakdown) bool {
	if b.isOpen || b.sevenPairs || b.kokushi {
		return false
	}
	for _, s := range b.sets {
		if s.kind != setChi || s.isMeld {
			return false
		}
	}
	if !isRyanmenWin(b) {
		return false
	}
	if b.pair.IsDragon() {
		return false
	}
	if b.pair == b.ctx.SeatWind.TileType() || b.pair == b.ctx.RoundWind.TileType() {
		return false
	}
	return true
}

func checkPinfu(b *handBreakdown) []YakuHan {
	if isPinfu(b) {
		return one("Pinfu", 1)
	}
	return nil
}

func checkTanyao(b *handBreakdown) []YakuHan {
	if b.kokushi {
		return nil
	}
	for i := 0; i < TypeCount; i++ {
		if b.all34[i] > 0 && TileType(i).IsTerminalOrHonor() {
			return nil
		}
	}
	if b.isOpen && !b.ctx.OpenTanyao {
		return nil
	}
	return one("Tanyao", 1)
}

// checkPeiko 一盃口/二盃口，门清限定
func checkPeiko(b *handBreakdown) []YakuHan {
	if b.isOpen || b.sevenPairs || b.kokushi {
		return nil
	}
	chiCount := map[TileType]int{}
	for _, s := range b.sets {
		if s.kind == setChi && !s.isMeld {
			chiCount[s.base]++
		}
	}
	pairs := 0
	for _, n := range chiCount {
		pairs += n / 2
	}
	switch {
	case pairs >= 2:
		return one("Ryanpeikou", 3)
	case pairs == 1:
		return one("Iipeiko", 1)
	}
	return nil
}

var dragonYakuhaiNames = map[TileType]string{
	White: "Yakuhai (haku)",
	Green: "Yakuhai (hatsu)",
	Red:   "Yakuhai (chun)",
}

func checkYakuhai(b *handBreakdown) []YakuHan {
	var out []YakuHan
	for _, s := range b.sets {
		if s.kind == setChi {
			continue
		}
		if name, ok := dragonYakuhaiNames[s.base]; ok {
			out = append(out, YakuHan{Name: name, Han: 1})
		}
		if s.base == b.ctx.SeatWind.TileType() {
			out = append(out, YakuHan{Name: "Yakuhai (seat " + b.ctx.SeatWind.String() + ")", Han: 1})
		}
		if s.base == b.ctx.RoundWind.TileType() {
			out = append(out, YakuHan{Name: "Yakuhai (round " + b.ctx.RoundWind.String() + ")", Han: 1})
		}
	}
	return out
}

func checkSanshokuDoujun(b *handBreakdown) []YakuHan {
	var have [TypeCount]bool
	for _, s := range b.sets {
		if s.kind == setChi {
			have[s.base] = true
		}
	}
	for n := 0; n < 9; n++ {
		if have[n] && have[n+9] && have[n+18] {
			if b.isOpen {
				return one("Sanshoku Doujun", 1)
			}
			return one("Sanshoku Doujun", 2)
		}
	}
	return nil
}

func checkSanshokuDoukou(b *handBreakdown) []YakuHan {
	var have [TypeCount]bool
	for _, s := range b.sets {
		if s.kind != setChi && s.base.IsNumber() {
			have[s.base] = true
		}
	}
	for n := 0; n < 9; n++ {
		if have[n] && have[n+9] && have[n+18] {
			return one("Sanshoku Doukou", 2)
		}
	}
	return nil
}

func checkIttsu(b *handBreakdown) []YakuHan {
	var have [TypeCount]bool
	for _, s := range b.sets {
		if s.kind == setChi {
			have[s.base] = true
		}
	}
	for suit := 0; suit < 3; suit++ {
		base := TileType(suit * 9)
		if have[base] && have[base+3] && have[base+6] {
			if b.isOpen {
				return one("Ittsu", 1)
			}
			return one("Ittsu", 2)
		}
	}
	return nil
}

// setHasTerminal 面子是否带幺九（顺子看两端，刻/杠看种类）
func setHasTerminal(s setInfo) bool {
	if s.kind == setChi {
		n := int(s.base) % 9
		return n == 0 || n == 6
	}
	return s.base.IsTerminalOrHonor()
}

// checkChantaJunchan 混全/纯全带幺九。全刻子形交给对对和与混老头
func checkChantaJunchan(b *handBreakdown) []YakuHan {
	if b.sevenPairs || b.kokushi {
		return nil
	}
	hasChi := false
	hasHonor := b.pair.IsHonor()
	if !b.pair.IsTerminalOrHonor() {
		return nil
	}
	for _, s := range b.sets {
		if !setHasTerminal(s) {
			return nil
		}
		if s.kind == setChi {
			hasChi = true
		}
		if s.base.IsHonor() {
			hasHonor = true
		}
	}
	if !hasChi {
		return nil
	}
	if hasHonor {
		if b.isOpen {
			return one("Chanta", 1)
		}
		return one("Chanta", 2)
	}
	if b.isOpen {
		return one("Junchan", 2)
	}
	return one("Junchan", 3)
}

func checkToitoi(b *handBreakdown) []YakuHan {
	if b.sevenPairs || b.kokushi || len(b.sets) != 4 {
		return nil
	}
	for _, s := range b.sets {
		if s.kind == setChi {
			return nil
		}
	}
	return one("Toitoi", 2)
}

// ankouCount 暗刻数。荣和补完的刻子按明刻计
func ankouCount(b *handBreakdown) int {
	n := 0
	for i, s := range b.sets {
		switch {
		case s.kind == setChi:
		case s.isMeld && !s.closedKan:
		case !s.isMeld && !b.ctx.IsTsumo && i == b.winIn:
		default:
			n++
		}
	}
	return n
}

func checkSanankou(b *handBreakdown) []YakuHan {
	if b.sevenPairs || b.kokushi {
		return nil
	}
	if ankouCount(b) == 3 {
		return one("Sanankou", 2)
	}
	return nil
}

func checkSankantsu(b *handBreakdown) []YakuHan {
	n := 0
	for _, s := range b.sets {
		if s.kind == setKan {
			n++
		}
	}
	if n == 3 {
		return one("Sankantsu", 2)
	}
	return nil
}

func checkShousangen(b *handBreakdown) []YakuHan {
	if !b.pair.IsDragon() {
		return nil
	}
	n := 0
	for _, s := range b.sets {
		if s.kind != setChi && s.base.IsDragon() {
			n++
		}
	}
	if n == 2 {
		return one("Shousangen", 2)
	}
	return nil
}

func checkHonroutou(b *handBreakdown) []YakuHan {
	if b.kokushi {
		return nil
	}
	hasTerminal, hasHonor := false, false
	for i := 0; i < TypeCount; i++ {
		if b.all34[i] == 0 {
			continue
		}
		tt := TileType(i)
		switch {
		case tt.IsHonor():
			hasHonor = true
		case tt.IsTerminal():
			hasTerminal = true
		default:
			return nil
		}
	}
	if hasTerminal && hasHonor {
		return one("Honroutou", 2)
	}
	return nil
}

func checkChiitoitsu(b *handBreakdown) []YakuHan {
	if b.sevenPairs {
		return one("Chiitoitsu", 2)
	}
	return nil
}

// checkFlush 混一色/清一色
func checkFlush(b *handBreakdown) []YakuHan {
	if b.kokushi {
		return nil
	}
	suits := map[int]bool{}
	hasHonor := false
	for i := 0; i < TypeCount; i++ {
		if b.all34[i] == 0 {
			continue
		}
		tt := TileType(i)
		if tt.IsHonor() {
			hasHonor = true
		} else {
			suits[tt.Suit()] = true
		}
	}
	if len(suits) != 1 {
		return nil
	}
	if hasHonor {
		if b.isOpen {
			return one("Honitsu", 2)
		}
		return one("Honitsu", 3)
	}
	if b.isOpen {
		return one("Chinitsu", 5)
	}
	return one("Chinitsu", 6)
}

func checkHaiteiHoutei(b *handBreakdown) []YakuHan {
	if b.ctx.IsHaitei && b.ctx.IsTsumo {
		return one("Haitei Raoyue", 1)
	}
	if b.ctx.IsHoutei && !b.ctx.IsTsumo {
		return one("Houtei Raoyui", 1)
	}
	return nil
}

func checkRinshan(b *handBreakdown) []YakuHan {
	if b.ctx.IsRinshan && b.ctx.IsTsumo {
		return one("Rinshan Kaihou", 1)
	}
	return nil
}

func checkChankan(b *handBreakdown) []YakuHan {
	if b.ctx.IsChankan {
		return one("Chankan", 1)
	}
	return nil
}

func checkKokushi(b *handBreakdown) (string, int) {
	if !b.kokushi {
		return "", 0
	}
	if b.closed34[b.winType] == 2 {
		return "Kokushi Musou Juusanmen", 2
	}
	return "Kokushi Musou", 1
}

func checkSuuankou(b *handBreakdown) (string, int) {
	if b.sevenPairs || b.kokushi {
		return "", 0
	}
	if ankouCount(b) != 4 {
		return "", 0
	}
	if b.winIn == -1 {
		return "Suuankou Tanki", 2
	}
	return "Suuankou", 1
}

func checkDaisangen(b *handBreakdown) (string, int) {
	n := 0
	for _, s := range b.sets {
		if s.kind != setChi && s.base.IsDragon() {
			n++
		}
	}
	if n == 3 {
		return "Daisangen", 1
	}
	return "", 0
}

func checkSuushi(b *handBreakdown) (string, int) {
	n := 0
	for _, s := range b.sets {
		if s.kind != setChi && s.base.IsWind() {
			n++
		}
	}
	switch {
	case n == 4:
		return "Daisuushii", 2
	case n == 3 && b.pair.IsWind():
		return "Shousuushii", 1
	}
	return "", 0
}

func checkTsuuiisou(b *handBreakdown) (string, int) {
	if b.kokushi {
		return "", 0
	}
	for i := 0; i < TypeCount; i++ {
		if b.all34[i] > 0 && !TileType(i).IsHonor() {
			return "", 0
		}
	}
	return "Tsuuiisou", 1
}

func checkChinroutou(b *handBreakdown) (string, int) {
	if b.kokushi {
		return "", 0
	}
	for i := 0; i < TypeCount; i++ {
		if b.all34[i] > 0 && !TileType(i).IsTerminal() {
			return "", 0
		}
	}
	return "Chinroutou", 1
}

// ryuuiisouTypes 绿一色可用种类
var ryuuiisouTypes = map[TileType]bool{
	So2: true, So3: true, So4: true, So6: true, So8: true, Green: true,
}

func checkRyuuiisou(b *handBreakdown) (string, int) {
	for i := 0; i < TypeCount; i++ {
		if b.all34[i] > 0 && !ryuuiisouTypes[TileType(i)] {
			return "", 0
		}
	}
	return "Ryuuiisou", 1
}

func checkChuuren(b *handBreakdown) (string, int) {
	if b.isOpen || b.sevenPairs || b.kokushi || len(b.sets) == 0 {
		return "", 0
	}
	for _, s := range b.sets {
		if s.isMeld {
			return "", 0
		}
	}
	suit := -1
	for i := 0; i < TypeCount; i++ {
		if b.all34[i] == 0 {
			continue
		}
		tt := TileType(i)
		if tt.IsHonor() {
			return "", 0
		}
		if suit == -1 {
			suit = tt.Suit()
		} else if tt.Suit() != suit {
			return "", 0
		}
	}
	base := suit * 9
	if b.all34[base] < 3 || b.all34[base+8] < 3 {
		return "", 0
	}
	for n := 1; n <= 7; n++ {
		if b.all34[base+n] < 1 {
			return "", 0
		}
	}
	// 纯正九莲：去掉和牌张后恰为 1112345678999
	pure := true
	for n := 0; n < 9; n++ {
		want := 1
		if n == 0 || n == 8 {
			want = 3
		}
		got := b.all34[base+n]
		if TileType(base+n) == b.winType {
			got--
		}
		if got != want {
			pure = false
			break
		}
	}
	if pure {
		return "Junsei Chuuren Poutou", 2
	}
	return "Chuuren Poutou", 1
}

func checkSuukantsu(b *handBreakdown) (string, int) {
	n := 0
	for _, s := range b.sets {
		if s.kind == setKan {
			n++
		}
	}
	if n == 4 {
		return "Suukantsu", 1
	}
	return "", 0
}

func checkTenhouChiihou(b *handBreakdown) (string, int) {
	if b.ctx.IsTenhou {
		return "Tenhou", 1
	}
	if b.ctx.IsChiihou {
		return "Chiihou", 1
	}
	return "", 0
}
