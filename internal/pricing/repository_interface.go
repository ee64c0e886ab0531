package pricing

import "context"

type Repository interface {
	Get(ctx context.Context) (*Prices, error)
	Update(ctx context.Context, propertyPostCost, contactRevealCost *int64) (*Prices, error)
	Seed(ctx context.Context, propertyPostCost, contactRevealCost int64) error
}
