package pricing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotConfigured  = errors.New("pricing not configured")
	ErrNoFields       = errors.New("no valid fields to update")
	ErrNegativeAmount = errors.New("cost must be non-negative")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*Prices, error) {
	p := &Prices{}
	err := r.db.GetContext(ctx, p,
		`SELECT id, property_post_cost, contact_reveal_cost, updated_at FROM prices WHERE id = 1`,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial change. Nil fields are left untouched.
func (r *repository) Update(ctx context.Context, propertyPostCost, contactRevealCost *int64) (*Prices, error) {
	if propertyPostCost == nil && contactRevealCost == nil {
		return nil, ErrNoFields
	}
	if propertyPostCost != nil && *propertyPostCost < 0 {
		return nil, ErrNegativeAmount
	}
	if contactRevealCost != nil && *contactRevealCost < 0 {
		return nil, ErrNegativeAmount
	}

	p := &Prices{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE prices
		 SET property_post_cost = COALESCE($1, property_post_cost),
		     contact_reveal_cost = COALESCE($2, contact_reveal_cost),
		     updated_at = NOW()
		 WHERE id = 1
		 RETURNING id, property_post_cost, contact_reveal_cost, updated_at`,
		propertyPostCost, contactRevealCost,
	).StructScan(p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Seed inserts the singleton row if it does not exist yet. Called once at
// bootstrap so Get never fails with ErrNotConfigured in a healthy deploy.
func (r *repository) Seed(ctx context.Context, propertyPostCost, contactRevealCost int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prices (id, property_post_cost, contact_reveal_cost)
		 VALUES (1, $1, $2)
		 ON CONFLICT (id) DO NOTHING`,
		propertyPostCost, contactRevealCost,
	)
	return err
}
