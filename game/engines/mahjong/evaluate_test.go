package mahjong

import (
	"errors"
	"testing"
)

func yakuNames(res *HandResult) map[string]int {
	out := map[string]int{}
	for _, y := range res.Yaku {
		out[y.Name] = y.Han
	}
	return out
}

func TestEvaluateHand_PinfuTanyaoTsumo(t *testing.T) {
	tiles := mustTiles(t, "2m3m4m2p3p4p2s3s4s6p7p8p6s6s")
	win := firstOfType(t, tiles, Pin8)
	ctx := &HandContext{RoundWind: WindEast, SeatWind: WindSouth, IsTsumo: true, AkaDora: true}
	res, err := EvaluateHand(tiles, win, nil, nil, ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	names := yakuNames(res)
	if names["Menzen Tsumo"] != 1 || names["Pinfu"] != 1 || names["Tanyao"] != 1 {
		t.Fatalf("expected tsumo+pinfu+tanyao, got %v", res.Yaku)
	}
	if res.Han != 3 || res.Fu != 20 {
		t.Fatalf("expected 3 han 20 fu, got %d han %d fu", res.Han, res.Fu)
	}
	// Non-dealer tsumo: 20 fu 3 han, base 640.
	if res.Cost.Main != 1300 || res.Cost.Additional != 700 {
		t.Fatalf("expected 1300/700, got %d/%d", res.Cost.Main, res.Cost.Additional)
	}
}

func TestEvaluateHand_PinfuRonIs30Fu(t *testing.T) {
	tiles := mustTiles(t, "2m3m4m2p3p4p2s3s4s6p7p8p6s6s")
	win := firstOfType(t, tiles, Pin8)
	ctx := &HandContext{RoundWind: WindEast, SeatWind: WindSouth}
	res, err := EvaluateHand(tiles, win, nil, nil, ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Fu != 30 {
		t.Fatalf("closed pinfu ron expected 30 fu, got %d", res.Fu)
	}
	if res.Cost.Main != 2000 {
		t.Fatalf("2 han 30 fu ron expected 2000, got %d", res.Cost.Main)
	}
}

func TestEvaluateHand_Chiitoitsu(t *testing.T) {
	tiles := mustTiles(t, "1m1m7m7m3p3p9p9p2s2s ew ew gd gd")
	win := firstOfType(t, tiles, Green)
	ctx := &HandContext{RoundWind: WindEast, SeatWind: WindWest}
	res, err := EvaluateHand(tiles, win, nil, nil, ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if yakuNames(res)["Chiitoitsu"] != 2 || res.Fu != 25 {
		t.Fatalf("expected chiitoitsu 2 han 25 fu, got %v %d fu", res.Yaku, res.Fu)
	}
	if res.Cost.Main != 1600 {
		t.Fatalf("2 han 25 fu ron expected 1600, got %d", res.Cost.Main)
	}
}

func TestEvaluateHand_KokushiThirteenWait(t *testing.T) {
	tiles := mustTiles(t, "1m9m1p9p1s9s ew sw ww nw wd gd rd rd")
	win := tiles[len(tiles)-1]
	ctx := &HandContext{RoundWind: WindEast, SeatWind: WindSouth}
	res, err := EvaluateHand(tiles, win, nil, mustTiles(t, "5p1"), ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	names := yakuNames(res)
	if names["Kokushi Musou Juusanmen"] != 26 {
		t.Fatalf("expected double yakuman kokushi, got %v", res.Yaku)
	}
	if res.Cost.YakuLevel != LevelDoubleYakuman || res.Cost.Main != 64000 {
		t.Fatalf("expected 64000 double yakuman, got %d (%s)", res.Cost.Main, res.Cost.YakuLevel)
	}
	// Dora never counts on a yakuman.
	if _, ok := names["Dora"]; ok {
		t.Fatalf("yakuman must not count dora: %v", res.Yaku)
	}
}

func TestEvaluateHand_OpenYakuhai(t *testing.T) {
	wds := mustTiles(t, "wd wd wd")
	meld := NewMeld(MeldPon, wds, 2, wds[2])
	tiles := append(mustTiles(t, "2m3m4m6p7p8p2s3s4s9s9s"), wds...)
	win := firstOfType(t, tiles, So9)
	ctx := &HandContext{RoundWind: WindEast, SeatWind: WindSouth}
	res, err := EvaluateHand(tiles, win, []*Meld{meld}, nil, ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if yakuNames(res)["Yakuhai (haku)"] != 1 {
		t.Fatalf("expected haku, got %v", res.Yaku)
	}
	if !res.IsOpenHand {
		t.Fatalf("pon meld should mark the hand open")
	}
	// 20 base + 4 open honor triplet + 2 tanki = 26 -> 30.
	if res.Fu != 30 || res.Cost.Main != 1000 {
		t.Fatalf("expected 30 fu / 1000, got %d fu / %d", res.Fu, res.Cost.Main)
	}
}

func TestEvaluateHand_RonTripletCountsOpen(t *testing.T) {
	// 333m completed by ron: no sanankou, triplet fu halves.
	tiles := mustTiles(t, "3m3m3m5m5m5m7p7p7p4s5s6s9s9s")
	win := firstOfType(t, tiles, Man3)
	ctx := &HandContext{RoundWind: WindEast, SeatWind: WindSouth, IsRiichi: true, AkaDora: false}
	res, err := EvaluateHand(tiles, win, nil, nil, ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if _, ok := yakuNames(res)["Sanankou"]; ok {
		t.Fatalf("ron-completed triplet must not count as concealed: %v", res.Yaku)
	}

	// Same shape by tsumo keeps three concealed triplets.
	ctx.IsTsumo = true
	res, err = EvaluateHand(tiles, win, nil, nil, ctx)
	if err != nil {
		t.Fatalf("evaluate tsumo: %v", err)
	}
	if yakuNames(res)["Sanankou"] != 2 {
		t.Fatalf("tsumo should keep sanankou, got %v", res.Yaku)
	}
}

func TestEvaluateHand_DoraAndAka(t *testing.T) {
	// Red 5p in hand, indicator 1s makes every 2s a dora.
	tiles := mustTiles(t, "2m3m4m4p5p06p2s3s4s6p7p8p6s6s")
	win := firstOfType(t, tiles, Pin8)
	ctx := &HandContext{RoundWind: WindEast, SeatWind: WindSouth, IsTsumo: true, AkaDora: true}
	res, err := EvaluateHand(tiles, win, nil, mustTiles(t, "1s"), ctx)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	names := yakuNames(res)
	if names["Dora"] != 1 || names["Aka Dora"] != 1 {
		t.Fatalf("expected 1 dora + 1 aka, got %v", res.Yaku)
	}
}

func TestEvaluateHand_Errors(t *testing.T) {
	tiles := mustTiles(t, "1m2m3m5m6m7m9m9m1p2p3p1s2s9s")
	if _, err := EvaluateHand(tiles, tiles[0], nil, nil, &HandContext{}); !errors.Is(err, ErrNotWinning) {
		t.Fatalf("expected ErrNotWinning, got %v", err)
	}

	// Complete but yakuless ron: the 111m triplet blocks pinfu and tanyao.
	noYaku := mustTiles(t, "1m1m1m2p3p4p7p8p9p4s5s6s9s9s")
	win := firstOfType(t, noYaku, So4)
	if _, err := EvaluateHand(noYaku, win, nil, nil, &HandContext{RoundWind: WindEast, SeatWind: WindSouth}); !errors.Is(err, ErrNoYaku) {
		t.Fatalf("expected ErrNoYaku, got %v", err)
	}

	// Meld tiles missing from the flattened hand.
	wds := mustTiles(t, "wd wd wd")
	meld := NewMeld(MeldPon, wds, 1, wds[0])
	if _, err := EvaluateHand(noYaku, win, []*Meld{meld}, nil, &HandContext{}); !errors.Is(err, ErrNotCorrect) {
		t.Fatalf("expected ErrNotCorrect, got %v", err)
	}
}

func TestCalcCost_Table(t *testing.T) {
	cases := []struct {
		name        string
		han, fu     int
		tsumo, deal bool
		honba       int
		main, add   int
		level       string
	}{
		{"dealer ron 1/30", 1, 30, false, true, 0, 1500, 0, ""},
		{"non-dealer ron 4/30 capless", 4, 30, false, false, 0, 7700, 0, ""},
		{"mangan cap 4/40", 4, 40, false, false, 0, 8000, 0, LevelMangan},
		{"haneman tsumo", 6, 30, true, false, 0, 6000, 3000, LevelHaneman},
		{"baiman ron", 8, 30, false, true, 0, 24000, 0, LevelBaiman},
		{"sanbaiman tsumo dealer", 11, 30, true, true, 0, 12000, 12000, LevelSanbaiman},
		{"kazoe ron", 13, 30, false, false, 0, 32000, 0, LevelKazoeYakuman},
		{"honba ron", 2, 30, false, false, 2, 2000, 0, ""},
	}
	for _, c := range cases {
		ctx := &HandContext{IsTsumo: c.tsumo, IsDealer: c.deal, Honba: c.honba}
		cost := calcCost(c.han, c.fu, ctx, 0)
		if cost.Main != c.main || cost.Additional != c.add || cost.YakuLevel != c.level {
			t.Fatalf("%s: got main=%d add=%d level=%q", c.name, cost.Main, cost.Additional, cost.YakuLevel)
		}
		if c.honba > 0 && cost.MainBonus != 300*c.honba {
			t.Fatalf("%s: honba bonus %d", c.name, cost.MainBonus)
		}
	}

	// Sticks count into Total only.
	cost := calcCost(3, 20, &HandContext{IsTsumo: true, Honba: 2, RiichiSticks: 1}, 0)
	want := cost.Main + cost.MainBonus + 2*(cost.Additional+cost.AdditionalBonus) + 1000
	if cost.Total != want {
		t.Fatalf("sticks total: got %d want %d", cost.Total, want)
	}
}
