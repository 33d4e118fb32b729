package share

// ActionKind 驱动方可提交的操作
type ActionKind string

const (
	ActionDiscard   ActionKind = "discard"
	ActionChi       ActionKind = "chi"
	ActionPon       ActionKind = "pon"
	ActionOpenKan   ActionKind = "open_kan"
	ActionSelfKan   ActionKind = "self_kan" // 暗杠或加杠
	ActionNineTiles ActionKind = "nine_tiles"
	ActionTsumo     ActionKind = "tsumo"
	ActionRon       ActionKind = "ron"
	ActionPass      ActionKind = "pass"
	ActionContinue  ActionKind = "continue"
)

// GameAction 玩家操作的线上格式。Tiles 为 t136 编码
type GameAction struct {
	Kind      ActionKind `json:"kind"`
	UserID    string     `json:"userID"`
	Seat      int        `json:"seat"`
	Tiles     []int      `json:"tiles,omitempty"`
	Riichi    bool       `json:"riichi,omitempty"`
	Discarder int        `json:"discarder,omitempty"`
	// 抢杠荣和时被抢的那张杠牌，普通荣和为 -1。
	// t136 的 0 是合法牌，缺省值必须由解码方填 -1
	ChankanTile int `json:"chankanTile"`
}

// GamePush 推送给客户端的事件封包
type GamePush struct {
	RoomID string `json:"roomID"`
	Kind   string `json:"kind"`
	Data   any    `json:"data"`
}
