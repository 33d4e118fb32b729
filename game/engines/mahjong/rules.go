package mahjong

// Rules 可配置规则项
type Rules struct {
	// AkaDora 启用红五（每色一张，计一翻）
	AkaDora bool
	// OpenTanyao 副露断幺是否成役
	OpenTanyao bool
	// DeadWallDrawConsumes 岭上摸牌是否消耗剩余摸牌数
	DeadWallDrawConsumes bool
	// AllowRiichiKan 立直后允许暗杠
	AllowRiichiKan bool
	// RiichiKanRequiresSameWaits 立直后暗杠要求听牌不变
	RiichiKanRequiresSameWaits bool
	// KokushiChankan 国士无双可抢暗杠
	KokushiChankan bool

	StartPoints  int
	LiveDraws    int
	MinWinPoints int
	// NotenPool 荒牌流局时未听牌方合计支付给听牌方的点数
	NotenPool int

	// 最终局（默认东四）
	LastWind  Wind
	LastRound int
}

func DefaultRules() Rules {
	return Rules{
		AkaDora:                    true,
		OpenTanyao:                 true,
		DeadWallDrawConsumes:       true,
		AllowRiichiKan:             true,
		RiichiKanRequiresSameWaits: true,
		KokushiChankan:             false,
		StartPoints:                25000,
		LiveDraws:                  70,
		MinWinPoints:               30000,
		NotenPool:                  3000,
		LastWind:                   WindEast,
		LastRound:                  4,
	}
}
