package settlement

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature = errors.New("payment signature verification failed")
	ErrUnknownEvent     = errors.New("unhandled webhook event")
)

// PartialSettlementError means an order was claimed as successful but the
// matching ledger credit did not apply. The ledger and the provider now
// disagree; the ids carried here are what an operator needs to reconcile
// by hand. Never collapse this into a generic failure.
type PartialSettlementError struct {
	OrderID   string
	UserID    int
	PaymentID string
	Err       error
}

func (e *PartialSettlementError) Error() string {
	return fmt.Sprintf("partial settlement: order %s (user %d, payment %s) marked success but credit failed: %v",
		e.OrderID, e.UserID, e.PaymentID, e.Err)
}

func (e *PartialSettlementError) Unwrap() error {
	return e.Err
}
