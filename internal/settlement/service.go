package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"propcoin/internal/gateway"
	"propcoin/internal/ledger"
	"propcoin/internal/logger"
	"propcoin/internal/metrics"
	"propcoin/internal/order"
	"propcoin/internal/pricing"

	"github.com/google/uuid"
)

// ProviderClient is the slice of the gateway the engine needs.
type ProviderClient interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*gateway.ProviderOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*gateway.ProviderPayment, error)
}

// ReceiptSender delivers best-effort receipts after a settlement. Failures
// are logged, never propagated: a lost email must not unsettle a ledger.
type ReceiptSender interface {
	SendRechargeReceipt(ctx context.Context, userID int, coins int64, orderID string)
}

type Service interface {
	ChargePropertyPost(ctx context.Context, userID int) (*ledger.TransactionRecord, error)
	ChargeContactReveal(ctx context.Context, userID int) (*ledger.TransactionRecord, error)
	CreateRecharge(ctx context.Context, userID int, amountUnits int64, currency string) (*order.Order, int64, error)
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
	ValidatePayment(ctx context.Context, orderID, paymentID, signature string) (*order.Order, error)
	CheckStatus(ctx context.Context, userID int, orderID string) (*order.Order, error)
}

type service struct {
	ledgerRepo  ledger.Repository
	orderRepo   order.Repository
	pricingRepo pricing.Repository
	provider    ProviderClient
	receipts    ReceiptSender

	keySecret     string
	webhookSecret string
}

func NewService(
	ledgerRepo ledger.Repository,
	orderRepo order.Repository,
	pricingRepo pricing.Repository,
	provider ProviderClient,
	receipts ReceiptSender,
	keySecret, webhookSecret string,
) Service {
	return &service{
		ledgerRepo:    ledgerRepo,
		orderRepo:     orderRepo,
		pricingRepo:   pricingRepo,
		provider:      provider,
		receipts:      receipts,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// ChargePropertyPost debits the posting fee. Callers must perform the paid
// side effect only after this returns nil: debit first, act second.
func (s *service) ChargePropertyPost(ctx context.Context, userID int) (*ledger.TransactionRecord, error) {
	return s.charge(ctx, userID, ledger.DescPropertyPost)
}

// ChargeContactReveal debits the owner-contact fee with the same contract.
func (s *service) ChargeContactReveal(ctx context.Context, userID int) (*ledger.TransactionRecord, error) {
	return s.charge(ctx, userID, ledger.DescOwnerDetails)
}

func (s *service) charge(ctx context.Context, userID int, action string) (*ledger.TransactionRecord, error) {
	prices, err := s.pricingRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var cost int64
	switch action {
	case ledger.DescPropertyPost:
		cost = prices.PropertyPostCost
	case ledger.DescOwnerDetails:
		cost = prices.ContactRevealCost
	default:
		return nil, fmt.Errorf("unknown paid action %q", action)
	}

	if cost == 0 {
		// Free action: nothing to debit, nothing to record.
		return nil, nil
	}

	rec, err := s.ledgerRepo.Debit(ctx, userID, cost, action)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			metrics.RecordDebit(action, "rejected")
		}
		return nil, err
	}

	metrics.RecordDebit(action, "ok")
	return rec, nil
}

// CreateRecharge registers the order with the provider first, then records
// it locally as processing. No coins move here; the credit waits for the
// provider's capture confirmation.
func (s *service) CreateRecharge(ctx context.Context, userID int, amountUnits int64, currency string) (*order.Order, int64, error) {
	if currency == "" {
		currency = "INR"
	}
	amountSubunits := amountUnits * gateway.SubunitsPerUnit
	receipt := uuid.NewString()

	providerOrder, err := s.provider.CreateOrder(ctx, amountSubunits, currency, receipt, map[string]string{
		"user_id": fmt.Sprintf("%d", userID),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("creating provider order: %w", err)
	}

	o, err := s.orderRepo.Create(ctx, providerOrder.ID, userID, amountSubunits, currency, receipt)
	if err != nil {
		return nil, 0, fmt.Errorf("recording order %s: %w", providerOrder.ID, err)
	}

	metrics.RecordOrderCreated()
	return o, gateway.CoinsForAmount(amountSubunits), nil
}

// HandleWebhook is the provider-driven settlement path. The signature is
// checked over the raw body before anything is parsed; an invalid
// signature changes no state.
func (s *service) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !gateway.VerifyWebhookSignature(rawBody, signature, s.webhookSecret) {
		logger.Errorf("webhook rejected: invalid signature")
		metrics.RecordWebhookEvent("unknown", "invalid_signature")
		return ErrInvalidSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return fmt.Errorf("parsing webhook body: %w", err)
	}

	payment := event.Payload.Payment.Entity

	switch event.Event {
	case EventPaymentCaptured:
		err := s.settleCapture(ctx, payment.OrderID, payment.ID, payment.Amount)
		if err != nil {
			metrics.RecordWebhookEvent(event.Event, "error")
			return err
		}
		metrics.RecordWebhookEvent(event.Event, "ok")
		return nil

	case EventPaymentFailed:
		err := s.settleFailure(ctx, payment.OrderID, payment.ID)
		if err != nil {
			metrics.RecordWebhookEvent(event.Event, "error")
			return err
		}
		metrics.RecordWebhookEvent(event.Event, "ok")
		return nil

	default:
		// Providers send more event types than we subscribe to; ack them.
		metrics.RecordWebhookEvent(event.Event, "ignored")
		return nil
	}
}

// settleCapture applies the credit exactly once per order. The order claim
// (processing -> success) is the single atomic decision point: duplicate
// and out-of-order deliveries lose that race and short-circuit as a no-op.
func (s *service) settleCapture(ctx context.Context, orderID, paymentID string, amountSubunits int64) error {
	o, err := s.orderRepo.MarkSuccess(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrAlreadyTerminal) {
			logger.Infof("order %s already terminal, capture for payment %s is a no-op", orderID, paymentID)
			return nil
		}
		return err
	}

	coins := gateway.CoinsForAmount(amountSubunits)
	if _, err := s.ledgerRepo.Credit(ctx, o.UserID, coins, ledger.DescCoinRecharge, paymentID); err != nil {
		metrics.RecordPartialSettlement()
		pErr := &PartialSettlementError{OrderID: orderID, UserID: o.UserID, PaymentID: paymentID, Err: err}
		logger.Errorf("%v", pErr)
		return pErr
	}

	metrics.RecordCredit()
	if s.receipts != nil {
		s.receipts.SendRechargeReceipt(ctx, o.UserID, coins, orderID)
	}
	return nil
}

func (s *service) settleFailure(ctx context.Context, orderID, paymentID string) error {
	o, err := s.orderRepo.MarkFailed(ctx, orderID, order.FailurePaymentFailed)
	if err != nil {
		if errors.Is(err, order.ErrAlreadyTerminal) {
			return nil
		}
		return err
	}

	// Audit record only; the balance is untouched.
	if _, err := s.ledgerRepo.RecordFailure(ctx, o.UserID, 0, paymentID); err != nil {
		logger.Errorf("recording failed payment %s for order %s: %v", paymentID, orderID, err)
	}
	return nil
}

// ValidatePayment is the client-side confirmation path. The signature is
// the provider's HMAC over "orderID|paymentID". A captured payment settles
// through the same claim as the webhook, so whichever path lands first
// wins and the other is a no-op; coins are never credited twice.
func (s *service) ValidatePayment(ctx context.Context, orderID, paymentID, signature string) (*order.Order, error) {
	if !gateway.VerifyPaymentSignature(orderID, paymentID, signature, s.keySecret) {
		logger.Errorf("payment validation rejected for order %s: invalid signature", orderID)
		return nil, ErrInvalidSignature
	}

	payment, err := s.provider.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("fetching payment %s: %w", paymentID, err)
	}

	switch payment.Status {
	case "captured":
		if err := s.settleCapture(ctx, orderID, paymentID, payment.Amount); err != nil {
			return nil, err
		}
	case "failed":
		if err := s.settleFailure(ctx, orderID, paymentID); err != nil {
			return nil, err
		}
	default:
		// Still in flight at the provider; leave the order processing.
	}

	return s.orderRepo.FindByOrderID(ctx, orderID)
}

// CheckStatus is strictly read-only. Polling must never trigger a credit.
func (s *service) CheckStatus(ctx context.Context, userID int, orderID string) (*order.Order, error) {
	o, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}
