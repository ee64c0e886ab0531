package order

import "time"

// Order lifecycle. Transitions only move forward: processing is the only
// non-terminal state.
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

const (
	FailureExpired       = "expired"
	FailurePaymentFailed = "payment_failed"
)

// Order tracks one recharge attempt from creation at the provider through
// terminal resolution. Orders are never deleted.
type Order struct {
	OrderID       string     `db:"order_id" json:"order_id"`
	UserID        int        `db:"user_id" json:"user_id"`
	Amount        int64      `db:"amount" json:"amount"` // currency subunits, not coins
	Currency      string     `db:"currency" json:"currency"`
	Receipt       string     `db:"receipt" json:"receipt"`
	Status        string     `db:"status" json:"status"`
	FailureReason *string    `db:"failure_reason" json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt     time.Time  `db:"expires_at" json:"expires_at"`
	ProcessedAt   *time.Time `db:"processed_at" json:"processed_at,omitempty"`
}

func (o *Order) Terminal() bool {
	return o.Status == StatusSuccess || o.Status == StatusFailed
}
