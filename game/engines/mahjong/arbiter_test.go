package mahjong

import (
	"errors"
	"testing"
)

// Dealer throws 4p; P1 can chi with 2p3p, P2 holds a 4p pair.
func ponChiGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame(DefaultRules(), 11)
	if err := g.SetTilePreset("sw 4p"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1m9m1p9p1s9s ew sw ww nw wd gd rd"),
		NewPresetPlayer("b", "2p3p6m7m8m2s3s4s ew ew ww gd rd"),
		NewPresetPlayer("c", "4p4p1m2m3m5s26s27s9m9m sw sw wd"),
		NewPresetPlayer("d", "1p9p1s9s5m6m7m ew nw nw ww gd rd"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := g.DiscardTile(0, g.Players[0].LatestDraw, false); err != nil {
		t.Fatalf("discard 4p: %v", err)
	}
	return g
}

func TestCallArbiter_PonBeatsChi(t *testing.T) {
	g := ponChiGame(t)
	arb, err := NewCallArbiter(g)
	if err != nil {
		t.Fatalf("arbiter: %v", err)
	}
	waiting := arb.Waiting()
	if len(waiting) != 2 || waiting[0] != 1 || waiting[1] != 2 {
		t.Fatalf("expected seats 1 and 2 waiting, got %v", waiting)
	}

	p1, p2 := g.Players[1], g.Players[2]
	chi := []Tile{firstOfType(t, p1.Hand, Pin2), firstOfType(t, p1.Hand, Pin3)}
	if err := arb.Respond(&CallResponse{Seat: 1, CallKind: MeldChi, Tiles: chi}); err != nil {
		t.Fatalf("chi response: %v", err)
	}
	var pair []Tile
	for _, tl := range p2.Hand {
		if tl.Type() == Pin4 {
			pair = append(pair, tl)
		}
	}
	if err := arb.Respond(&CallResponse{Seat: 2, CallKind: MeldPon, Tiles: pair}); err != nil {
		t.Fatalf("pon response: %v", err)
	}

	// Pon outranks chi: P2 gets the meld and the turn, P1 keeps its hand.
	if len(p2.Melds) != 1 || p2.Melds[0].Kind != MeldPon {
		t.Fatalf("expected pon meld for P2, got %v", p2.Melds)
	}
	if len(p1.Melds) != 0 || len(p1.Hand) != 13 {
		t.Fatalf("losing chi must not execute")
	}
	if g.ActiveSeat != 2 || findQuery(g, QueryDiscard) == nil {
		t.Fatalf("P2 should be discarding, active seat %d", g.ActiveSeat)
	}
}

func TestCallArbiter_RespondValidation(t *testing.T) {
	g := ponChiGame(t)
	arb, err := NewCallArbiter(g)
	if err != nil {
		t.Fatalf("arbiter: %v", err)
	}
	if err := arb.Respond(&CallResponse{Seat: 3, Pass: true}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("unqueried seat should be rejected, got %v", err)
	}
	if err := arb.Respond(&CallResponse{Seat: 1, Pass: true}); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := arb.Respond(&CallResponse{Seat: 1, Pass: true}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("double response should be rejected, got %v", err)
	}
}

// Dealer throws 7s; P1 can chi with 8s9s while P2 rons it.
func ronChiGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame(DefaultRules(), 12)
	if err := g.SetTilePreset("ew 7s"); err != nil {
		t.Fatalf("preset: %v", err)
	}
	players := []*Player{
		NewPresetPlayer("a", "1p9p9p1m9m1s9s nw nw sw wd gd rd"),
		NewPresetPlayer("b", "8s9s1m2m3m6m7m8m ew ew ww ww gd"),
		NewPresetPlayer("c", "3m4m5m15p16p7p2s3s4s8m8m5s26s2"),
		NewPresetPlayer("d", "2p3p4p6p7p8p1p2s9s9s sw sw nw"),
	}
	if err := g.StartGame(players, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := g.DiscardTile(0, g.Players[0].LatestDraw, false); err != nil {
		t.Fatalf("discard 7s: %v", err)
	}
	return g
}

func TestCallArbiter_RonBeatsChi(t *testing.T) {
	g := ronChiGame(t)
	arb, err := NewCallArbiter(g)
	if err != nil {
		t.Fatalf("arbiter: %v", err)
	}

	p1 := g.Players[1]
	chi := []Tile{firstOfType(t, p1.Hand, So8), firstOfType(t, p1.Hand, So9)}
	if err := arb.Respond(&CallResponse{Seat: 1, CallKind: MeldChi, Tiles: chi}); err != nil {
		t.Fatalf("chi response: %v", err)
	}
	if err := arb.Respond(&CallResponse{Seat: 2, Ron: true}); err != nil {
		t.Fatalf("ron response: %v", err)
	}

	wins := findWinEvents(g.PopEvents())
	if len(wins) != 1 || wins[0].Win.Seat != 2 {
		t.Fatalf("expected P2 ron, got %v", wins)
	}
	// Closed pinfu+tanyao ron off a non-dealer: 2 han 30 fu.
	if wins[0].Win.Total != 2000 {
		t.Fatalf("expected 2000, got %d", wins[0].Win.Total)
	}
	if g.Players[2].Points != 27000 || g.Players[0].Points != 23000 {
		t.Fatalf("payment wrong: P2 %d P0 %d", g.Players[2].Points, g.Players[0].Points)
	}
	if len(p1.Melds) != 0 {
		t.Fatalf("chi must lose to ron")
	}
	if g.Round != 2 {
		t.Fatalf("expected round advance, got %d", g.Round)
	}
}

func TestCallArbiter_AllPassRunsContinuation(t *testing.T) {
	g := ronChiGame(t)
	arb, err := NewCallArbiter(g)
	if err != nil {
		t.Fatalf("arbiter: %v", err)
	}
	if err := arb.Respond(&CallResponse{Seat: 1, Pass: true}); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := arb.Respond(&CallResponse{Seat: 2, Pass: true}); err != nil {
		t.Fatalf("pass: %v", err)
	}

	// Play moves on to P1's draw, and the waived ron leaves P2 furiten
	// until its next discard.
	if g.ActiveSeat != 1 || g.Players[1].LatestDraw == TileNone {
		t.Fatalf("expected P1 to draw, active seat %d", g.ActiveSeat)
	}
	if !g.Players[2].IsTempFuriten {
		t.Fatalf("waived ron should set temporary furiten")
	}

	if _, err := NewCallArbiter(g); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("no pending discard should reject the arbiter, got %v", err)
	}
}
