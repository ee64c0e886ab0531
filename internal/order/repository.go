package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAlreadyTerminal = errors.New("order already in a terminal state")
)

type repository struct {
	db  *sqlx.DB
	ttl time.Duration
}

func NewRepository(db *sqlx.DB, ttl time.Duration) Repository {
	return &repository{db: db, ttl: ttl}
}

func (r *repository) Create(ctx context.Context, orderID string, userID int, amount int64, currency, receipt string) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO orders (order_id, user_id, amount, currency, receipt, status, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW() + $7 * INTERVAL '1 second')
		 RETURNING order_id, user_id, amount, currency, receipt, status, failure_reason, created_at, expires_at, processed_at`,
		orderID, userID, amount, currency, receipt, StatusProcessing, int64(r.ttl.Seconds()),
	).StructScan(o)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*Order, error) {
	o := &Order{}
	err := r.db.GetContext(ctx, o,
		`SELECT order_id, user_id, amount, currency, receipt, status, failure_reason, created_at, expires_at, processed_at
		 FROM orders WHERE order_id = $1`,
		orderID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// MarkSuccess flips processing -> success. The WHERE status clause is the
// terminality guard: whichever actor lands the update first wins, every
// later attempt gets ErrAlreadyTerminal.
func (r *repository) MarkSuccess(ctx context.Context, orderID string) (*Order, error) {
	return r.transition(ctx, orderID, StatusSuccess, nil)
}

func (r *repository) MarkFailed(ctx context.Context, orderID, reason string) (*Order, error) {
	return r.transition(ctx, orderID, StatusFailed, &reason)
}

func (r *repository) transition(ctx context.Context, orderID, status string, reason *string) (*Order, error) {
	o := &Order{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE orders
		 SET status = $1, failure_reason = $2, processed_at = NOW()
		 WHERE order_id = $3 AND status = $4
		 RETURNING order_id, user_id, amount, currency, receipt, status, failure_reason, created_at, expires_at, processed_at`,
		status, reason, orderID, StatusProcessing,
	).StructScan(o)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// No row updated: either the order is unknown or already terminal.
	existing, ferr := r.FindByOrderID(ctx, orderID)
	if ferr != nil {
		return nil, ferr
	}
	return existing, ErrAlreadyTerminal
}

// ExpireStale bulk-fails every processing order whose deadline passed.
// Re-entrant: overlapping sweeps race on the same status guard and the
// loser simply updates zero rows.
func (r *repository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1, failure_reason = $2, processed_at = NOW()
		 WHERE status = $3 AND expires_at <= $4`,
		StatusFailed, FailureExpired, StatusProcessing, now,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
