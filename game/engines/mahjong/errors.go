package mahjong

import "errors"

// ErrInvalidAction 驱动方的非法操作：座位不对、牌不在手里、副露不合法等。
// 校验全部在任何状态变更之前完成
var ErrInvalidAction = errors.New("invalid action")

// 和牌评估错误。三者都会被引擎内部吸收；只有荣和时的无役会产生
// 临时振听的副作用
var (
	ErrNotWinning = errors.New("hand not winning")
	ErrNotCorrect = errors.New("hand not correct")
	ErrNoYaku     = errors.New("no yaku")
)
