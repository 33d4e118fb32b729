package mahjong

import (
	"errors"
	"strings"
	"testing"
)

// discardDrawn discards the freshly drawn tile and lets everyone pass
// on whatever calls that discard opened.
func discardDrawn(t *testing.T, g *Game, seat int) {
	t.Helper()
	tl := g.Players[seat].LatestDraw
	if tl == TileNone {
		t.Fatalf("P%d has no drawn tile", seat)
	}
	if err := g.DiscardTile(seat, tl, false); err != nil {
		t.Fatalf("P%d discard %s: %v", seat, tl, err)
	}
	g.RunContinuation()
}

func findQuery(g *Game, kind EventKind) Query {
	for _, q := range g.PendingQueries() {
		if q.Kind() == kind {
			return q
		}
	}
	return nil
}

func findDrawEvent(evs []SeatEvent) *DrawEvent {
	for _, se := range evs {
		if d, ok := se.Event.(*DrawEvent); ok {
			return d
		}
	}
	return nil
}

func findWinEvents(evs []SeatEvent) []*WinEvent {
	var out []*WinEvent
	for _, se := range evs {
		if w, ok := se.Event.(*WinEvent); ok {
			out = append(out, w)
		}
	}
	return out
}

func winYaku(w *Win) map[string]int {
	out := map[string]int{}
	for _, y := range w.Yaku {
		out[y.Name] = y.Han
	}
	return out
}

func pointsSum(g *Game) int {
	sum := 0
	for _, p := range g.Players {
		sum += p.Points
	}
	return sum
}

func TestStartGame_DealAndWallConservation(t *testing.T) {
	g := NewGame(DefaultRules(), 42)
	players := []*Player{NewPlayer("a"), NewPlayer("b"), NewPlayer("c"), NewPlayer("d")}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	// 52 dealt + 1 dora indicator + 1 dealer draw.
	if got := g.Wall.Remaining(); got != 82 {
		t.Fatalf("wall remaining expected 82, got %d", got)
	}
	for seat, p := range g.Players {
		want := 13
		if seat == 0 {
			want = 14 // dealer already drew
		}
		if len(p.Hand) != want {
			t.Fatalf("P%d hand size %d, want %d", seat, len(p.Hand), want)
		}
	}
	if pointsSum(g) != 4*25000 {
		t.Fatalf("points sum %d", pointsSum(g))
	}
	if findQuery(g, QueryDiscard) == nil {
		t.Fatalf("dealer should be asked to discard")
	}
	if d := g.Dump(); !strings.Contains(d, "25000") || !strings.Contains(d, "P3") {
		t.Fatalf("dump missing table state:\n%s", d)
	}

	bad := NewGame(DefaultRules(), 1)
	if err := bad.StartGame(players[:3], false); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected seat count error, got %v", err)
	}
}

func TestGame_FourWindsAbort(t *testing.T) {
	g := NewGame(DefaultRules(), 1)
	if err := g.SetTilePreset("1p2p3p4p6p"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m2m3m7m8m9m2s3s4s6s7s8s ew"),
		NewPresetPlayer("b", "1p2p3p7p8p9p4m6m4s6s2m7m ew"),
		NewPresetPlayer("c", "4m5m6m2p3p4p3s4s5s6p7p9m ew"),
		NewPresetPlayer("d", "1m2m3m5p6p7p6s7s8s3m4m9p ew"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	for seat := 0; seat < SeatCount; seat++ {
		ew := firstOfType(t, g.Players[seat].Hand, East)
		if err := g.DiscardTile(seat, ew, false); err != nil {
			t.Fatalf("P%d discard ew: %v", seat, err)
		}
	}

	evs := g.PopEvents()
	d := findDrawEvent(evs)
	if d == nil || d.DrawKind != DrawFourWinds {
		t.Fatalf("expected four winds abort, got %+v", d)
	}
	if g.Wind != WindEast || g.Round != 1 || g.Bonus != 1 {
		t.Fatalf("expected E1 bonus 1, got %s%d bonus %d", g.Wind, g.Round, g.Bonus)
	}
	for seat, p := range g.Players {
		if p.Points != 25000 {
			t.Fatalf("abortive draw must not move points, P%d has %d", seat, p.Points)
		}
	}
}

func TestGame_NineTerminalDraw(t *testing.T) {
	g := NewGame(DefaultRules(), 2)
	if err := g.SetTilePreset("ew4p"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m9m1p9p1s9s ew sw ww nw wd gd rd"),
		NewPresetPlayer("b", "2m3m4m5m6m7m8m2p3p4p2s3s4s"),
		NewPresetPlayer("c", "2m3m4m5p6p7p5s6s7s2p2p8s8s"),
		NewPresetPlayer("d", "6m7m8m6p7p8p2s3s4s9s9s3p3p"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	if findQuery(g, QueryDraw) == nil {
		t.Fatalf("expected nine terminal draw query for the dealer")
	}
	if err := g.Do9TileDraw(0); err != nil {
		t.Fatalf("nine terminal draw: %v", err)
	}

	d := findDrawEvent(g.PopEvents())
	if d == nil || d.DrawKind != DrawNineTiles {
		t.Fatalf("expected terminal draw event, got %+v", d)
	}
	if g.Bonus != 1 || g.Round != 1 {
		t.Fatalf("dealer keeps the deal after abortive draw, got round %d bonus %d", g.Round, g.Bonus)
	}
}

func TestGame_NonDealerTsumo(t *testing.T) {
	g := NewGame(DefaultRules(), 3)
	if err := g.SetTilePreset("ew nw 8p"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m5m6m7m9m9m1p9p1s9s ew ew ww"),
		NewPresetPlayer("b", "2m3m4m2p3p4p2s3s4s6p7p6s6s"),
		NewPresetPlayer("c", "1m2m6m8m1p6p9p1s3s7s sw sw ww"),
		NewPresetPlayer("d", "3m4m8m9m1p8p9p1s8s9s gd gd wd"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	nw := g.Players[0].LatestDraw
	if nw.Type() != North {
		t.Fatalf("preset draw expected nw, got %s", nw)
	}
	if err := g.DiscardTile(0, nw, false); err != nil {
		t.Fatalf("dealer discard: %v", err)
	}

	if g.ActiveSeat != 1 || g.Players[1].LatestDraw.Type() != Pin8 {
		t.Fatalf("P1 should have drawn 8p, got %s", g.Players[1].LatestDraw)
	}
	if findQuery(g, QueryTsumo) == nil {
		t.Fatalf("expected tsumo query")
	}
	if err := g.DoTsumo(1); err != nil {
		t.Fatalf("tsumo: %v", err)
	}

	wins := findWinEvents(g.PopEvents())
	if len(wins) != 1 {
		t.Fatalf("expected one win event, got %d", len(wins))
	}
	w := wins[0].Win
	if w.Seat != 1 || w.Han != 3 || w.Fu != 20 || w.Total != 2700 {
		t.Fatalf("expected 3 han 20 fu 2700 total, got %d han %d fu %d", w.Han, w.Fu, w.Total)
	}
	names := winYaku(w)
	if names["Menzen Tsumo"] != 1 || names["Pinfu"] != 1 || names["Tanyao"] != 1 {
		t.Fatalf("unexpected yaku %v", w.Yaku)
	}

	// Dealer pays 1300, the others 700 each.
	want := [SeatCount]int{23700, 27700, 24300, 24300}
	for seat, p := range g.Players {
		if p.Points != want[seat] {
			t.Fatalf("P%d points %d, want %d", seat, p.Points, want[seat])
		}
	}
	if pointsSum(g) != 4*25000 {
		t.Fatalf("points must be conserved, sum %d", pointsSum(g))
	}
	if g.Round != 2 || g.Bonus != 0 || g.Wind != WindEast {
		t.Fatalf("expected E2, got %s%d bonus %d", g.Wind, g.Round, g.Bonus)
	}
}

func TestGame_RiichiIppatsuRonWithUra(t *testing.T) {
	g := NewGame(DefaultRules(), 4)
	if err := g.SetTilePreset("ew nw wd nw nw ew ww sw nw 8p 3p"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m5m6m7m9m9m1p9p1s9s ew ew ww"),
		NewPresetPlayer("b", "2m3m4m2p3p4p2s3s4s6p7p6s6s"),
		NewPresetPlayer("c", "1m2m6m8m1p6p9p1s3s7s sw sw ww"),
		NewPresetPlayer("d", "3m4m8m9m1p8p9p1s8s9s gd gd wd"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	// First go-around: everyone throws the drawn honor (mixed kinds,
	// so no four-wind abort).
	for seat := 0; seat < SeatCount; seat++ {
		discardDrawn(t, g, seat)
	}
	// Dealer's second turn, then P1 declares riichi on the drawn ww.
	discardDrawn(t, g, 0)
	if findQuery(g, QueryRiichi) == nil {
		t.Fatalf("expected riichi query for P1")
	}
	if err := g.DiscardTile(1, g.Players[1].LatestDraw, true); err != nil {
		t.Fatalf("riichi discard: %v", err)
	}
	p1 := g.Players[1]
	if !p1.IsRiichi || p1.IsDoubleRiichi || !p1.IsIppatsu {
		t.Fatalf("riichi flags wrong: %+v", p1)
	}
	if p1.Points != 24000 || g.RiichiSticks != 1 {
		t.Fatalf("riichi stick not paid: points %d sticks %d", p1.Points, g.RiichiSticks)
	}

	discardDrawn(t, g, 2)
	discardDrawn(t, g, 3)

	// Dealer draws the winning 8p and throws it in.
	if err := g.DiscardTile(0, g.Players[0].LatestDraw, false); err != nil {
		t.Fatalf("deal-in discard: %v", err)
	}
	rq := findQuery(g, QueryRon)
	if rq == nil || rq.QuerySeat() != 1 {
		t.Fatalf("expected ron query for P1")
	}
	if err := g.DoRon([]int{1}, 0, TileNone); err != nil {
		t.Fatalf("ron: %v", err)
	}

	wins := findWinEvents(g.PopEvents())
	if len(wins) != 1 {
		t.Fatalf("expected one win event, got %d", len(wins))
	}
	w := wins[0].Win
	names := winYaku(w)
	if names["Riichi"] != 1 || names["Ippatsu"] != 1 || names["Pinfu"] != 1 || names["Tanyao"] != 1 || names["Dora"] != 1 {
		t.Fatalf("unexpected yaku %v", w.Yaku)
	}
	if w.Han != 5 || w.Level != LevelMangan || w.Total != 8000 {
		t.Fatalf("expected mangan 8000, got %d han %q %d", w.Han, w.Level, w.Total)
	}
	if len(w.UraDoraIndicators) != 1 || w.UraDoraIndicators[0].Type() != Pin3 {
		t.Fatalf("expected one ura indicator 3p, got %s", TilesString(w.UraDoraIndicators))
	}

	// Winner recovers the deposit along with the payment.
	if g.Players[1].Points != 33000 || g.Players[0].Points != 17000 {
		t.Fatalf("payment wrong: P1 %d P0 %d", g.Players[1].Points, g.Players[0].Points)
	}
	if g.RiichiSticks != 0 {
		t.Fatalf("sticks should be claimed, got %d", g.RiichiSticks)
	}
	if g.Round != 2 {
		t.Fatalf("expected round advance, got %d", g.Round)
	}
}

func TestGame_ChiKuikae(t *testing.T) {
	g := NewGame(DefaultRules(), 5)
	if err := g.SetTilePreset("ew 3m"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m5m6m7m9m9m1p9p1s9s ew ew ww"),
		NewPresetPlayer("b", "1m2m3m6m2p3p7p8p4s5s6s ww ww"),
		NewPresetPlayer("c", "4m8m9m1p4p9p1s7s8s sw sw gd gd"),
		NewPresetPlayer("d", "2m7m8m2p9p2s3s9s nw nw wd rd rd"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := g.DiscardTile(0, g.Players[0].LatestDraw, false); err != nil {
		t.Fatalf("discard 3m: %v", err)
	}
	cq := findQuery(g, QueryCall)
	if cq == nil || cq.(*CallQuery).CallKind != MeldChi {
		t.Fatalf("expected chi query for P1")
	}

	p1 := g.Players[1]
	chi := []Tile{firstOfType(t, p1.Hand, Man1), firstOfType(t, p1.Hand, Man2)}
	if err := g.CallChi(chi, 1, 0); err != nil {
		t.Fatalf("chi: %v", err)
	}
	if len(p1.Melds) != 1 || p1.Melds[0].Kind != MeldChi {
		t.Fatalf("chi meld missing: %v", p1.Melds)
	}
	if d := g.Players[0].Discards[0]; d.CalledBy != 1 {
		t.Fatalf("called discard should be marked, got %d", d.CalledBy)
	}

	// Calling 3m into 1m2m forbids throwing back 3m and the suji 6m.
	dq := findQuery(g, QueryDiscard)
	if dq == nil {
		t.Fatalf("expected discard query after chi")
	}
	for _, tl := range dq.(*DiscardQuery).Allowed {
		if tl.Type() == Man3 || tl.Type() == Man6 {
			t.Fatalf("kuikae kind %s must not be discardable", tl.Type())
		}
	}
	if err := g.DiscardTile(1, firstOfType(t, p1.Hand, Man6), false); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected kuikae rejection for 6m, got %v", err)
	}
	if err := g.DiscardTile(1, firstOfType(t, p1.Hand, Man3), false); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected kuikae rejection for 3m, got %v", err)
	}
	if err := g.DiscardTile(1, firstOfType(t, p1.Hand, West), false); err != nil {
		t.Fatalf("legal discard after chi: %v", err)
	}
}

func TestGame_DoubleRonSplitsBonusToNearest(t *testing.T) {
	g := NewGame(DefaultRules(), 6)
	if err := g.SetTilePreset("ew nw sw sw 7s"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m9m1p9p1s9s ew ew ww ww wd gd rd"),
		NewPresetPlayer("b", "2m3m4m6m7m8m3p4p5p14p4p5s16s"),
		NewPresetPlayer("c", "3m4m5m15p16p7p2s3s4s8m8m5s26s2"),
		NewPresetPlayer("d", "1m2m3m7m9m2p8p9p1s8s9s ww ww"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	g.Bonus = 1 // carried honba

	discardDrawn(t, g, 0)
	discardDrawn(t, g, 1)
	discardDrawn(t, g, 2)
	// P3 deals into both tenpai hands.
	if err := g.DiscardTile(3, g.Players[3].LatestDraw, false); err != nil {
		t.Fatalf("deal-in: %v", err)
	}
	if q := findQuery(g, QueryRon); q == nil {
		t.Fatalf("expected ron queries")
	}

	if err := g.DoRon([]int{1, 2}, 3, TileNone); err != nil {
		t.Fatalf("double ron: %v", err)
	}

	wins := findWinEvents(g.PopEvents())
	if len(wins) != 2 {
		t.Fatalf("expected two win events, got %d", len(wins))
	}
	// Nearest from the discarder is paid first and takes the honba.
	if wins[0].Win.Seat != 1 || wins[1].Win.Seat != 2 {
		t.Fatalf("win order wrong: %d then %d", wins[0].Win.Seat, wins[1].Win.Seat)
	}
	if wins[0].Win.Total != 2300 || wins[1].Win.Total != 2000 {
		t.Fatalf("expected 2300/2000, got %d/%d", wins[0].Win.Total, wins[1].Win.Total)
	}

	want := [SeatCount]int{25000, 27300, 27000, 20700}
	for seat, p := range g.Players {
		if p.Points != want[seat] {
			t.Fatalf("P%d points %d, want %d", seat, p.Points, want[seat])
		}
	}
	if g.Round != 2 || g.Bonus != 0 {
		t.Fatalf("non-dealer wins should advance the deal, got round %d bonus %d", g.Round, g.Bonus)
	}
}

func TestGame_ExhaustiveDrawTenpaiPayments(t *testing.T) {
	g := NewGame(DefaultRules(), 7)
	if err := g.SetTilePreset("ew 2p 8s 7s 4m 2s"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m5m6m7m9m9m1p9p1s9s ew ew ww"),
		NewPresetPlayer("b", "2m3m4m2p3p4p2s3s4s6p7p6s6s"),
		NewPresetPlayer("c", "1m2m6m8m1p6p9p1s3s7s sw sw ww"),
		NewPresetPlayer("d", "3m4m8m9m1p8p9p1s8s9s gd gd wd"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	discardDrawn(t, g, 0)
	discardDrawn(t, g, 1)
	discardDrawn(t, g, 2)
	// The wall runs out after the dealer's next draw.
	g.RemainingDraws = 1
	discardDrawn(t, g, 3)
	discardDrawn(t, g, 0)

	d := findDrawEvent(g.PopEvents())
	if d == nil || d.DrawKind != DrawExhaustive {
		t.Fatalf("expected exhaustive draw, got %+v", d)
	}
	for seat, n := range d.Nagashi {
		if n {
			t.Fatalf("P%d should not have nagashi mangan", seat)
		}
	}

	// Only P1 is tenpai: collects 1000 from each of the others.
	want := [SeatCount]int{24000, 28000, 24000, 24000}
	for seat, p := range g.Players {
		if p.Points != want[seat] {
			t.Fatalf("P%d points %d, want %d", seat, p.Points, want[seat])
		}
	}
	if g.Round != 2 || g.Bonus != 0 {
		t.Fatalf("noten dealer passes the deal, got round %d bonus %d", g.Round, g.Bonus)
	}
}

func TestGame_ClosedKanRevealsDoraAndDrawsDeadWall(t *testing.T) {
	g := NewGame(DefaultRules(), 8)
	if err := g.SetTilePreset("sw 1m wd 9p"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m1m1m2p3p4p5s6s7s ew ew ww gd"),
		NewPresetPlayer("b", "2m3m4m5p6p7p8s8s nw nw rd rd 9s"),
		NewPresetPlayer("c", "6m7m8m1p1p2s3s4s sw sw 9s9s 9m"),
		NewPresetPlayer("d", "9m9m1s1s4p4p6p7p2m3m4m gd gd"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	kq := findQuery(g, QueryCall)
	if kq == nil || kq.(*CallQuery).CallKind != CallKindKan {
		t.Fatalf("expected kan query for the dealer")
	}

	var four []Tile
	for _, tl := range g.Players[0].Hand {
		if tl.Type() == Man1 {
			four = append(four, tl)
		}
	}
	if len(four) != 4 {
		t.Fatalf("expected four 1m, got %s", TilesString(four))
	}
	if err := g.CallClosedOrAddedKan(four, 0); err != nil {
		t.Fatalf("closed kan: %v", err)
	}

	p0 := g.Players[0]
	if len(p0.Melds) != 1 || p0.Melds[0].Kind != MeldClosedKan {
		t.Fatalf("closed kan meld missing: %v", p0.Melds)
	}
	// Closed kan flips the new indicator immediately, then draws from the dead wall.
	if len(g.DoraIndicators) != 2 || g.DoraIndicators[1].Type() != White {
		t.Fatalf("expected second indicator wd, got %s", TilesString(g.DoraIndicators))
	}
	if p0.LatestDraw.Type() != Pin9 || !p0.LatestDrawDeadWall {
		t.Fatalf("expected dead wall 9p draw, got %s", p0.LatestDraw)
	}
	if g.RemainingDraws != g.Rules.LiveDraws-2 {
		t.Fatalf("dead wall draw should consume a live draw, remaining %d", g.RemainingDraws)
	}
}

func TestGame_ChankanOnAddedKan(t *testing.T) {
	g := NewGame(DefaultRules(), 9)
	if err := g.SetTilePreset("sw 8p ew nw rd 8p"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m9m5m6m7m ew ew ww gd rd wd 2s9s"),
		NewPresetPlayer("b", "2m3m4m2p3p4p2s3s4s6p7p6s6s"),
		NewPresetPlayer("c", "8p8p1m2m3m7s8s9s nw nw ww wd gd"),
		NewPresetPlayer("d", "9m9m1p1p9p9p1s1s9s sw sw ew rd"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Dealer throws 8p, P2 pons it while P1 quietly passes on the ron.
	if err := g.DiscardTile(0, g.Players[0].LatestDraw, false); err != nil {
		t.Fatalf("discard 8p: %v", err)
	}
	p2 := g.Players[2]
	pair := []Tile{}
	for _, tl := range p2.Hand {
		if tl.Type() == Pin8 {
			pair = append(pair, tl)
		}
	}
	if err := g.CallPon(pair, 2, 0); err != nil {
		t.Fatalf("pon: %v", err)
	}
	// Passing on that ron leaves P1 temporarily furiten.
	if !g.Players[1].IsTempFuriten {
		t.Fatalf("declined ron should set temporary furiten")
	}
	if err := g.DiscardTile(2, firstOfType(t, p2.Hand, West), false); err != nil {
		t.Fatalf("discard after pon: %v", err)
	}
	g.RunContinuation()

	// Rotate back: P1's own discard clears the temporary furiten.
	discardDrawn(t, g, 3)
	discardDrawn(t, g, 0)
	discardDrawn(t, g, 1)
	if g.Players[1].IsTempFuriten {
		t.Fatalf("temporary furiten should clear on own discard")
	}

	// P2 draws the last 8p and promotes the pon.
	kanTile := g.Players[2].LatestDraw
	if kanTile.Type() != Pin8 {
		t.Fatalf("expected 8p draw, got %s", kanTile)
	}
	if err := g.CallClosedOrAddedKan([]Tile{kanTile}, 2); err != nil {
		t.Fatalf("added kan: %v", err)
	}
	rq := findQuery(g, QueryRon)
	if rq == nil || !rq.(*RonQuery).IsChankan || rq.QuerySeat() != 1 {
		t.Fatalf("expected chankan ron query for P1")
	}

	if err := g.DoRon([]int{1}, 2, kanTile); err != nil {
		t.Fatalf("chankan ron: %v", err)
	}
	wins := findWinEvents(g.PopEvents())
	if len(wins) != 1 {
		t.Fatalf("expected one win, got %d", len(wins))
	}
	w := wins[0].Win
	names := winYaku(w)
	if names["Chankan"] != 1 || names["Pinfu"] != 1 || names["Tanyao"] != 1 {
		t.Fatalf("unexpected yaku %v", w.Yaku)
	}
	if w.Total != 3900 {
		t.Fatalf("3 han 30 fu ron expected 3900, got %d", w.Total)
	}
	if g.Players[1].Points != 28900 || g.Players[2].Points != 21100 {
		t.Fatalf("payment wrong: P1 %d P2 %d", g.Players[1].Points, g.Players[2].Points)
	}
}
