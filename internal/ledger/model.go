package ledger

import "time"

// Transaction record kinds. Amounts are magnitudes; the kind carries the sign.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
	TypeRefund = "refund"
	TypeFailed = "failed"
)

const (
	DescPropertyPost        = "property_post"
	DescOwnerDetails        = "owner_details"
	DescCoinRecharge        = "coin_recharge"
	DescFailedTransaction   = "failed_transaction"
	DescServiceCancellation = "service_cancellation"
	DescReferralBonus       = "referral_bonus"
)

// Ledger is the single source of truth for a user's coin balance.
type Ledger struct {
	UserID    int       `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TransactionRecord is immutable once written. Records are only ever
// appended, in the same database transaction as the balance change they
// describe.
type TransactionRecord struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	Amount        int64     `db:"amount" json:"amount"`
	Type          string    `db:"type" json:"type"`
	Description   string    `db:"description" json:"description"`
	BalanceAfter  int64     `db:"balance_after" json:"balance_after"`
	PaymentID     *string   `db:"payment_id" json:"payment_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
