package mahjong

import (
	"testing"

	"riichi/record"
)

// feedPersister replays popped events the way the engine flush does.
func feedPersister(gp *GamePersister, evs []SeatEvent) {
	for _, se := range evs {
		gp.Observe(se.Event)
	}
}

func rowKinds(r *record.RoundRecord) []string {
	out := make([]string, 0, len(r.Events))
	for _, row := range r.Events {
		out = append(out, row.Kind)
	}
	return out
}

func TestPersister_TsumoRoundLog(t *testing.T) {
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
	if err := g.DiscardTile(0, g.Players[0].LatestDraw, false); err != nil {
		t.Fatalf("dealer discard: %v", err)
	}
	if err := g.DoTsumo(1); err != nil {
		t.Fatalf("tsumo: %v", err)
	}

	gp := NewGamePersister(nil, g.ID, g.Seed, "room-1", [SeatCount]string{"a", "b", "c", "d"})
	feedPersister(gp, g.PopEvents())

	rec := gp.rec
	if rec.Seed != 3 || rec.ID != g.ID || rec.RoomID != "room-1" {
		t.Fatalf("record header wrong: %+v", rec)
	}
	// E1 played out, E2 already opened by the win.
	if len(rec.Rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rec.Rounds))
	}
	r1 := rec.Rounds[0]
	if r1.Wind != "E" || r1.Round != 1 || r1.Bonus != 0 {
		t.Fatalf("round header wrong: %+v", r1)
	}

	want := []string{
		string(EventNewRound), string(EventDora), string(EventTile),
		string(EventDiscard), string(EventTile), string(EventWin),
	}
	got := rowKinds(r1)
	if len(got) != len(want) {
		t.Fatalf("row kinds %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d kind %s, want %s", i, got[i], want[i])
		}
	}
	if r1.Events[2].Seat != 0 || r1.Events[4].Seat != 1 {
		t.Fatalf("draw rows carry wrong seats: %v", r1.Events)
	}
	winRow := r1.Events[5]
	if winRow.Seat != 1 {
		t.Fatalf("win row seat %d", winRow.Seat)
	}
	// Rows keep the raw pre-projection event so replay sees everything.
	if ev, ok := winRow.Data.(*WinEvent); !ok || ev.Win.Total != 2700 {
		t.Fatalf("win row payload wrong: %+v", winRow.Data)
	}

	if len(rec.Wins) != 1 {
		t.Fatalf("expected one win summary, got %d", len(rec.Wins))
	}
	w := rec.Wins[0]
	if w.Seat != 1 || !w.Tsumo || w.Total != 2700 {
		t.Fatalf("win summary wrong: %+v", w)
	}

	if rec.Rounds[1].Round != 2 || len(rec.Rounds[1].Events) == 0 {
		t.Fatalf("next round should be open with its deal logged: %+v", rec.Rounds[1])
	}

	gp.Observe(&GameOverEvent{Points: [SeatCount]int{23700, 27700, 24300, 24300}})
	if rec.FinalPoints[1] != 27700 || rec.FinishedAt.IsZero() {
		t.Fatalf("game over not recorded: %+v", rec)
	}
	// Nil repo: flush is a no-op instead of a crash.
	gp.Flush()
}
