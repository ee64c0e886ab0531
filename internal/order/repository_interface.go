package order

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, orderID string, userID int, amount int64, currency, receipt string) (*Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)
	MarkSuccess(ctx context.Context, orderID string) (*Order, error)
	MarkFailed(ctx context.Context, orderID, reason string) (*Order, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}
