package mahjong

import (
	"context"
	"time"

	"riichi/log"
	"riichi/record"
)

// GamePersister 对局留档。引擎每次事件冲刷时喂入事件，
// 按小局堆出牌谱，终局后一次性落库
type GamePersister struct {
	repo record.Repository
	rec  *record.GameRecord
	cur  *record.RoundRecord
}

func NewGamePersister(repo record.Repository, gameID string, seed int64, roomID string, players [SeatCount]string) *GamePersister {
	return &GamePersister{
		repo: repo,
		rec: &record.GameRecord{
			ID:        gameID,
			RoomID:    roomID,
			Players:   players,
			Seed:      seed,
			StartedAt: time.Now(),
		},
	}
}

// Observe 从事件流中摘取留档条目。喂入的是投影前的事件，
// 牌谱行因此带全量信息
func (gp *GamePersister) Observe(ev Event) {
	switch e := ev.(type) {
	case *NewRoundEvent:
		gp.cur = &record.RoundRecord{Wind: e.Wind.String(), Round: e.Round, Bonus: e.Bonus}
		gp.rec.Rounds = append(gp.rec.Rounds, gp.cur)
		gp.row(SeatNone, ev)
	case *TileEvent:
		gp.row(e.Seat, ev)
	case *DiscardEvent:
		gp.row(e.Seat, ev)
	case *CallEvent:
		gp.row(e.Seat, ev)
	case *DoraEvent:
		gp.row(SeatNone, ev)
	case *WinEvent:
		gp.row(e.Win.Seat, ev)
		w := record.WinRecord{
			Seat:    e.Win.Seat,
			Tsumo:   e.Win.WinTile == TileNone,
			WinTile: int(e.Win.WinTile),
			Han:     e.Win.Han,
			Fu:      e.Win.Fu,
			Level:   e.Win.Level,
			Total:   e.Win.Total,
		}
		for _, y := range e.Win.Yaku {
			w.Yaku = append(w.Yaku, record.YakuRecord{Name: y.Name, Han: y.Han})
		}
		gp.rec.Wins = append(gp.rec.Wins, w)
	case *DrawEvent:
		gp.row(SeatNone, ev)
		gp.rec.Draws = append(gp.rec.Draws, record.DrawRecord{
			Kind:    string(e.DrawKind),
			Nagashi: e.Nagashi,
		})
	case *GameOverEvent:
		gp.rec.FinalPoints = e.Points
		gp.rec.FinishedAt = time.Now()
	}
}

// row 往当前小局的牌谱追加一行。座位无关的行 seat 取 SeatNone
func (gp *GamePersister) row(seat int, ev Event) {
	if gp.cur == nil {
		return
	}
	gp.cur.Events = append(gp.cur.Events, record.EventRow{
		Kind: string(ev.Kind()),
		Seat: seat,
		Data: ev,
	})
}

// Flush 终局落库。仓储未配置时跳过
func (gp *GamePersister) Flush() {
	if gp.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := gp.repo.Save(ctx, gp.rec); err != nil {
		log.Error("对局 %s 留档失败: %v", gp.rec.ID, err)
	}
}
