package record

import "time"

// YakuRecord 一个役的留档
type YakuRecord struct {
	Name string `bson:"name" json:"name"`
	Han  int    `bson:"han" json:"han"`
}

// WinRecord 一次和牌的留档。牌用 t136 编码
type WinRecord struct {
	Seat    int          `bson:"seat" json:"seat"`
	Tsumo   bool         `bson:"tsumo" json:"tsumo"`
	WinTile int          `bson:"winTile" json:"winTile"`
	Han     int          `bson:"han" json:"han"`
	Fu      int          `bson:"fu" json:"fu"`
	Level   string       `bson:"level,omitempty" json:"level,omitempty"`
	Total   int          `bson:"total" json:"total"`
	Yaku    []YakuRecord `bson:"yaku" json:"yaku"`
}

// DrawRecord 一次流局的留档
type DrawRecord struct {
	Kind    string  `bson:"kind" json:"kind"`
	Nagashi [4]bool `bson:"nagashi" json:"nagashi"`
}

// EventRow 牌谱里的一行。Data 存引擎事件原文，
// 回放时按 Kind 解码
type EventRow struct {
	Kind string `bson:"kind" json:"kind"`
	Seat int    `bson:"seat" json:"seat"`
	Data any    `bson:"data,omitempty" json:"data,omitempty"`
}

// RoundRecord 一小局的牌谱
type RoundRecord struct {
	Wind   string     `bson:"wind" json:"wind"`
	Round  int        `bson:"round" json:"round"`
	Bonus  int        `bson:"bonus" json:"bonus"`
	Events []EventRow `bson:"events" json:"events"`
}

// GameRecord 一整场对局的留档。Seed 加上牌谱即可复现全局
type GameRecord struct {
	ID          string         `bson:"_id" json:"id"`
	RoomID      string         `bson:"roomID" json:"roomID"`
	Players     [4]string      `bson:"players" json:"players"`
	Seed        int64          `bson:"seed" json:"seed"`
	StartedAt   time.Time      `bson:"startedAt" json:"startedAt"`
	FinishedAt  time.Time      `bson:"finishedAt" json:"finishedAt"`
	Rounds      []*RoundRecord `bson:"rounds" json:"rounds"`
	Wins        []WinRecord    `bson:"wins" json:"wins"`
	Draws       []DrawRecord   `bson:"draws" json:"draws"`
	FinalPoints [4]int         `bson:"finalPoints" json:"finalPoints"`
}
