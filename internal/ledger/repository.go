package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrLedgerNotFound      = errors.New("ledger not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be non-negative")
)

type repository struct {
	db              *sqlx.DB
	startingBalance int64
}

// NewRepository returns a ledger store. startingBalance seeds ledgers
// created lazily by Credit for users registered before ledgers existed.
func NewRepository(db *sqlx.DB, startingBalance int64) Repository {
	return &repository{db: db, startingBalance: startingBalance}
}

func (r *repository) Create(ctx context.Context, userID int) (*Ledger, error) {
	l := &Ledger{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO ledgers (user_id, balance)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO NOTHING
		 RETURNING user_id, balance, created_at, updated_at`,
		userID, r.startingBalance,
	).StructScan(l)
	if errors.Is(err, sql.ErrNoRows) {
		// Already existed; registration must not re-seed a balance.
		return r.Get(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repository) Get(ctx context.Context, userID int) (*Ledger, error) {
	l := &Ledger{}
	err := r.db.GetContext(ctx, l,
		`SELECT user_id, balance, created_at, updated_at FROM ledgers WHERE user_id = $1`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLedgerNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repository) GetBalance(ctx context.Context, userID int) (int64, error) {
	l, err := r.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return l.Balance, nil
}

// Credit atomically increments the balance and appends a credit record.
// The row lock serializes concurrent mutations for the same user.
func (r *repository) Credit(ctx context.Context, userID int, amount int64, description, paymentID string) (*TransactionRecord, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	return r.apply(ctx, userID, amount, TypeCredit, description, paymentID)
}

// Debit fails with ErrInsufficientBalance before any write when the
// balance cannot cover the amount. The balance never goes negative.
func (r *repository) Debit(ctx context.Context, userID int, amount int64, description string) (*TransactionRecord, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	return r.apply(ctx, userID, -amount, TypeDebit, description, "")
}

// RecordFailure appends a failed-kind audit record without touching the
// balance. Used when the provider reports a failed payment.
func (r *repository) RecordFailure(ctx context.Context, userID int, amount int64, paymentID string) (*TransactionRecord, error) {
	return r.apply(ctx, userID, 0, TypeFailed, DescFailedTransaction, paymentID)
}

func (r *repository) apply(ctx context.Context, userID int, delta int64, txType, description, paymentID string) (*TransactionRecord, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var l Ledger
	err = tx.QueryRowxContext(ctx,
		`SELECT user_id, balance, created_at, updated_at
		 FROM ledgers
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&l)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if txType == TypeDebit {
			// A debit against a missing ledger is a caller error, not a
			// reason to create one with free coins.
			return nil, ErrLedgerNotFound
		}
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO ledgers (user_id, balance)
			 VALUES ($1, $2)
			 RETURNING user_id, balance, created_at, updated_at`,
			userID, r.startingBalance,
		).StructScan(&l)
		if err != nil {
			return nil, err
		}
	}

	newBalance := l.Balance + delta
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	if delta != 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE ledgers
			 SET balance = $1, updated_at = NOW()
			 WHERE user_id = $2`,
			newBalance, userID,
		)
		if err != nil {
			return nil, err
		}
	}

	var pid *string
	if paymentID != "" {
		pid = &paymentID
	}

	rec := &TransactionRecord{}
	amount := delta
	if amount < 0 {
		amount = -amount
	}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO ledger_transactions (user_id, transaction_id, amount, type, description, balance_after, payment_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, transaction_id, amount, type, description, balance_after, payment_id, created_at`,
		userID, newTransactionID(), amount, txType, description, newBalance, pid,
	).StructScan(rec)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return rec, nil
}

func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]TransactionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []TransactionRecord
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, transaction_id, amount, type, description, balance_after, payment_id, created_at
		FROM ledger_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func newTransactionID() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
