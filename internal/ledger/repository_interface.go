package ledger

import "context"

type Repository interface {
	Create(ctx context.Context, userID int) (*Ledger, error)
	Get(ctx context.Context, userID int) (*Ledger, error)
	GetBalance(ctx context.Context, userID int) (int64, error)
	Credit(ctx context.Context, userID int, amount int64, description, paymentID string) (*TransactionRecord, error)
	Debit(ctx context.Context, userID int, amount int64, description string) (*TransactionRecord, error)
	RecordFailure(ctx context.Context, userID int, amount int64, paymentID string) (*TransactionRecord, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]TransactionRecord, error)
}
