package record

import "context"

// Repository 对局留档仓储
type Repository interface {
	Save(ctx context.Context, rec *GameRecord) error
	FindByID(ctx context.Context, id string) (*GameRecord, error)
	FindByPlayer(ctx context.Context, userID string, limit int64) ([]*GameRecord, error)
	Close(ctx context.Context) error
}
