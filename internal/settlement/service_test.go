package settlement

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"propcoin/internal/gateway"
	"propcoin/internal/ledger"
	"propcoin/internal/order"
	"propcoin/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories
type MockLedgerRepo struct{ mock.Mock }
type MockOrderRepo struct{ mock.Mock }
type MockPricingRepo struct{ mock.Mock }
type MockProvider struct{ mock.Mock }

func (m *MockLedgerRepo) Create(ctx context.Context, userID int) (*ledger.Ledger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Ledger), args.Error(1)
}

func (m *MockLedgerRepo) Get(ctx context.Context, userID int) (*ledger.Ledger, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Ledger), args.Error(1)
}

func (m *MockLedgerRepo) GetBalance(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) Credit(ctx context.Context, userID int, amount int64, description, paymentID string) (*ledger.TransactionRecord, error) {
	args := m.Called(ctx, userID, amount, description, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransactionRecord), args.Error(1)
}

func (m *MockLedgerRepo) Debit(ctx context.Context, userID int, amount int64, description string) (*ledger.TransactionRecord, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransactionRecord), args.Error(1)
}

func (m *MockLedgerRepo) RecordFailure(ctx context.Context, userID int, amount int64, paymentID string) (*ledger.TransactionRecord, error) {
	args := m.Called(ctx, userID, amount, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TransactionRecord), args.Error(1)
}

func (m *MockLedgerRepo) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]ledger.TransactionRecord, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.TransactionRecord), args.Error(1)
}

func (m *MockOrderRepo) Create(ctx context.Context, orderID string, userID int, amount int64, currency, receipt string) (*order.Order, error) {
	args := m.Called(ctx, orderID, userID, amount, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) FindByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) MarkSuccess(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) MarkFailed(ctx context.Context, orderID, reason string) (*order.Order, error) {
	args := m.Called(ctx, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPricingRepo) Get(ctx context.Context) (*pricing.Prices, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Prices), args.Error(1)
}

func (m *MockPricingRepo) Update(ctx context.Context, propertyPostCost, contactRevealCost *int64) (*pricing.Prices, error) {
	args := m.Called(ctx, propertyPostCost, contactRevealCost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Prices), args.Error(1)
}

func (m *MockPricingRepo) Seed(ctx context.Context, propertyPostCost, contactRevealCost int64) error {
	return m.Called(ctx, propertyPostCost, contactRevealCost).Error(0)
}

func (m *MockProvider) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*gateway.ProviderOrder, error) {
	args := m.Called(ctx, amount, currency, receipt, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ProviderOrder), args.Error(1)
}

func (m *MockProvider) FetchPayment(ctx context.Context, paymentID string) (*gateway.ProviderPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ProviderPayment), args.Error(1)
}

// recordingReceipts captures receipt calls without touching redis.
type recordingReceipts struct {
	calls []string
}

func (r *recordingReceipts) SendRechargeReceipt(ctx context.Context, userID int, coins int64, orderID string) {
	r.calls = append(r.calls, fmt.Sprintf("%d:%d:%s", userID, coins, orderID))
}

const (
	testKeySecret     = "key-secret"
	testWebhookSecret = "webhook-secret"
)

func newTestService(lr *MockLedgerRepo, or *MockOrderRepo, pr *MockPricingRepo, pc *MockProvider, rc ReceiptSender) Service {
	return NewService(lr, or, pr, pc, rc, testKeySecret, testWebhookSecret)
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func capturedBody(orderID, paymentID string, amount int64) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"%s","order_id":"%s","amount":%d,"status":"captured"}}}}`,
		paymentID, orderID, amount))
}

func failedBody(orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"%s","order_id":"%s","status":"failed"}}}}`,
		paymentID, orderID))
}

func TestService_ChargePropertyPost(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*MockLedgerRepo, *MockPricingRepo)
		expectError error
		expectNilTx bool
	}{
		{
			name: "successful debit",
			setupMocks: func(lr *MockLedgerRepo, pr *MockPricingRepo) {
				pr.On("Get", mock.Anything).Return(&pricing.Prices{PropertyPostCost: 10, ContactRevealCost: 10}, nil)
				lr.On("Debit", mock.Anything, 1, int64(10), ledger.DescPropertyPost).Return(&ledger.TransactionRecord{
					UserID:       1,
					Amount:       10,
					Type:         ledger.TypeDebit,
					BalanceAfter: 190,
				}, nil)
			},
		},
		{
			name: "insufficient balance",
			setupMocks: func(lr *MockLedgerRepo, pr *MockPricingRepo) {
				pr.On("Get", mock.Anything).Return(&pricing.Prices{PropertyPostCost: 10, ContactRevealCost: 10}, nil)
				lr.On("Debit", mock.Anything, 1, int64(10), ledger.DescPropertyPost).Return(nil, ledger.ErrInsufficientBalance)
			},
			expectError: ledger.ErrInsufficientBalance,
		},
		{
			name: "pricing not configured",
			setupMocks: func(lr *MockLedgerRepo, pr *MockPricingRepo) {
				pr.On("Get", mock.Anything).Return(nil, pricing.ErrNotConfigured)
			},
			expectError: pricing.ErrNotConfigured,
		},
		{
			name: "zero cost is free, no debit",
			setupMocks: func(lr *MockLedgerRepo, pr *MockPricingRepo) {
				pr.On("Get", mock.Anything).Return(&pricing.Prices{PropertyPostCost: 0, ContactRevealCost: 10}, nil)
			},
			expectNilTx: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := new(MockLedgerRepo)
			or := new(MockOrderRepo)
			pr := new(MockPricingRepo)
			pc := new(MockProvider)
			tt.setupMocks(lr, pr)

			svc := newTestService(lr, or, pr, pc, nil)
			rec, err := svc.ChargePropertyPost(context.Background(), 1)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, rec)
			} else if tt.expectNilTx {
				assert.NoError(t, err)
				assert.Nil(t, rec)
				lr.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, rec)
			}
			lr.AssertExpectations(t)
			pr.AssertExpectations(t)
		})
	}
}

func TestService_ChargeContactReveal_UsesRevealPrice(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	pr.On("Get", mock.Anything).Return(&pricing.Prices{PropertyPostCost: 10, ContactRevealCost: 25}, nil)
	lr.On("Debit", mock.Anything, 7, int64(25), ledger.DescOwnerDetails).Return(&ledger.TransactionRecord{
		UserID: 7, Amount: 25, Type: ledger.TypeDebit, BalanceAfter: 175,
	}, nil)

	svc := newTestService(lr, or, pr, pc, nil)
	rec, err := svc.ChargeContactReveal(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(25), rec.Amount)
	lr.AssertExpectations(t)
}

func TestService_CreateRecharge(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	pc.On("CreateOrder", mock.Anything, int64(50000), "INR", mock.Anything, mock.Anything).Return(&gateway.ProviderOrder{
		ID:       "order_ABC",
		Amount:   50000,
		Currency: "INR",
		Status:   "created",
	}, nil)
	or.On("Create", mock.Anything, "order_ABC", 1, int64(50000), "INR", mock.Anything).Return(&order.Order{
		OrderID:  "order_ABC",
		UserID:   1,
		Amount:   50000,
		Currency: "INR",
		Status:   order.StatusProcessing,
	}, nil)

	svc := newTestService(lr, or, pr, pc, nil)
	o, coins, err := svc.CreateRecharge(context.Background(), 1, 500, "")

	assert.NoError(t, err)
	assert.Equal(t, "order_ABC", o.OrderID)
	assert.Equal(t, order.StatusProcessing, o.Status)
	// 500 rupees buys 250 coins
	assert.Equal(t, int64(250), coins)
	pc.AssertExpectations(t)
	or.AssertExpectations(t)
}

func TestService_CreateRecharge_ProviderDown(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	pc.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, gateway.ErrGatewayUnavailable)

	svc := newTestService(lr, or, pr, pc, nil)
	o, _, err := svc.CreateRecharge(context.Background(), 1, 500, "INR")

	assert.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
	assert.Nil(t, o)
	or.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleWebhook_InvalidSignature(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	body := capturedBody("order_ABC", "pay_1", 50000)

	svc := newTestService(lr, or, pr, pc, nil)
	err := svc.HandleWebhook(context.Background(), body, "not-a-real-signature")

	assert.ErrorIs(t, err, ErrInvalidSignature)
	or.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything)
	lr.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleWebhook_TamperedBody(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	body := capturedBody("order_ABC", "pay_1", 50000)
	signature := sign(testWebhookSecret, body)
	tampered := capturedBody("order_ABC", "pay_1", 99900000)

	svc := newTestService(lr, or, pr, pc, nil)
	err := svc.HandleWebhook(context.Background(), tampered, signature)

	assert.ErrorIs(t, err, ErrInvalidSignature)
	lr.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleWebhook_Captured(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)
	receipts := &recordingReceipts{}

	or.On("MarkSuccess", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Amount:  50000,
		Status:  order.StatusSuccess,
	}, nil)
	// 50000 paise = 500 rupees = 250 coins
	lr.On("Credit", mock.Anything, 1, int64(250), ledger.DescCoinRecharge, "pay_1").Return(&ledger.TransactionRecord{
		UserID:       1,
		Amount:       250,
		Type:         ledger.TypeCredit,
		BalanceAfter: 450,
	}, nil)

	body := capturedBody("order_ABC", "pay_1", 50000)

	svc := newTestService(lr, or, pr, pc, receipts)
	err := svc.HandleWebhook(context.Background(), body, sign(testWebhookSecret, body))

	assert.NoError(t, err)
	assert.Equal(t, []string{"1:250:order_ABC"}, receipts.calls)
	or.AssertExpectations(t)
	lr.AssertExpectations(t)
}

func TestService_HandleWebhook_DuplicateDelivery(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)
	receipts := &recordingReceipts{}

	// Second delivery loses the claim race.
	or.On("MarkSuccess", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusSuccess,
	}, order.ErrAlreadyTerminal)

	body := capturedBody("order_ABC", "pay_1", 50000)

	svc := newTestService(lr, or, pr, pc, receipts)
	err := svc.HandleWebhook(context.Background(), body, sign(testWebhookSecret, body))

	assert.NoError(t, err)
	assert.Empty(t, receipts.calls)
	lr.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleWebhook_LateCaptureAfterExpiry(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	// The sweeper already failed the order; the late capture must not credit.
	reason := order.FailureExpired
	or.On("MarkSuccess", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID:       "order_ABC",
		UserID:        1,
		Status:        order.StatusFailed,
		FailureReason: &reason,
	}, order.ErrAlreadyTerminal)

	body := capturedBody("order_ABC", "pay_1", 50000)

	svc := newTestService(lr, or, pr, pc, nil)
	err := svc.HandleWebhook(context.Background(), body, sign(testWebhookSecret, body))

	assert.NoError(t, err)
	lr.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleWebhook_PaymentFailed(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	or.On("MarkFailed", mock.Anything, "order_ABC", order.FailurePaymentFailed).Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusFailed,
	}, nil)
	lr.On("RecordFailure", mock.Anything, 1, int64(0), "pay_1").Return(&ledger.TransactionRecord{
		UserID: 1,
		Type:   ledger.TypeFailed,
	}, nil)

	body := failedBody("order_ABC", "pay_1")

	svc := newTestService(lr, or, pr, pc, nil)
	err := svc.HandleWebhook(context.Background(), body, sign(testWebhookSecret, body))

	assert.NoError(t, err)
	lr.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	or.AssertExpectations(t)
	lr.AssertExpectations(t)
}

func TestService_HandleWebhook_PartialSettlement(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	or.On("MarkSuccess", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusSuccess,
	}, nil)
	lr.On("Credit", mock.Anything, 1, int64(250), ledger.DescCoinRecharge, "pay_1").
		Return(nil, errors.New("connection reset"))

	body := capturedBody("order_ABC", "pay_1", 50000)

	svc := newTestService(lr, or, pr, pc, nil)
	err := svc.HandleWebhook(context.Background(), body, sign(testWebhookSecret, body))

	var pErr *PartialSettlementError
	assert.ErrorAs(t, err, &pErr)
	assert.Equal(t, "order_ABC", pErr.OrderID)
	assert.Equal(t, 1, pErr.UserID)
	assert.Equal(t, "pay_1", pErr.PaymentID)
}

func TestService_HandleWebhook_UnknownEventAcked(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	body := []byte(`{"event":"refund.processed","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)

	svc := newTestService(lr, or, pr, pc, nil)
	err := svc.HandleWebhook(context.Background(), body, sign(testWebhookSecret, body))

	assert.NoError(t, err)
	or.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything)
	or.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ValidatePayment_InvalidSignature(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	svc := newTestService(lr, or, pr, pc, nil)
	o, err := svc.ValidatePayment(context.Background(), "order_ABC", "pay_1", "bogus")

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Nil(t, o)
	pc.AssertNotCalled(t, "FetchPayment", mock.Anything, mock.Anything)
}

func TestService_ValidatePayment_Captured(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	pc.On("FetchPayment", mock.Anything, "pay_1").Return(&gateway.ProviderPayment{
		ID:      "pay_1",
		OrderID: "order_ABC",
		Amount:  50000,
		Status:  "captured",
	}, nil)
	or.On("MarkSuccess", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusSuccess,
	}, nil)
	lr.On("Credit", mock.Anything, 1, int64(250), ledger.DescCoinRecharge, "pay_1").Return(&ledger.TransactionRecord{
		UserID: 1, Amount: 250, Type: ledger.TypeCredit,
	}, nil)
	or.On("FindByOrderID", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusSuccess,
	}, nil)

	signature := sign(testKeySecret, []byte("order_ABC|pay_1"))

	svc := newTestService(lr, or, pr, pc, nil)
	o, err := svc.ValidatePayment(context.Background(), "order_ABC", "pay_1", signature)

	assert.NoError(t, err)
	assert.Equal(t, order.StatusSuccess, o.Status)
	lr.AssertExpectations(t)
}

func TestService_ValidatePayment_AfterWebhookNoDoubleCredit(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	pc.On("FetchPayment", mock.Anything, "pay_1").Return(&gateway.ProviderPayment{
		ID:      "pay_1",
		OrderID: "order_ABC",
		Amount:  50000,
		Status:  "captured",
	}, nil)
	// Webhook settled first; validate loses the claim race.
	or.On("MarkSuccess", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusSuccess,
	}, order.ErrAlreadyTerminal)
	or.On("FindByOrderID", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusSuccess,
	}, nil)

	signature := sign(testKeySecret, []byte("order_ABC|pay_1"))

	svc := newTestService(lr, or, pr, pc, nil)
	o, err := svc.ValidatePayment(context.Background(), "order_ABC", "pay_1", signature)

	assert.NoError(t, err)
	assert.Equal(t, order.StatusSuccess, o.Status)
	lr.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ValidatePayment_StillInFlight(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	pc.On("FetchPayment", mock.Anything, "pay_1").Return(&gateway.ProviderPayment{
		ID:      "pay_1",
		OrderID: "order_ABC",
		Status:  "authorized",
	}, nil)
	or.On("FindByOrderID", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusProcessing,
	}, nil)

	signature := sign(testKeySecret, []byte("order_ABC|pay_1"))

	svc := newTestService(lr, or, pr, pc, nil)
	o, err := svc.ValidatePayment(context.Background(), "order_ABC", "pay_1", signature)

	assert.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, o.Status)
	or.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything)
	or.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CheckStatus(t *testing.T) {
	lr := new(MockLedgerRepo)
	or := new(MockOrderRepo)
	pr := new(MockPricingRepo)
	pc := new(MockProvider)

	or.On("FindByOrderID", mock.Anything, "order_ABC").Return(&order.Order{
		OrderID: "order_ABC",
		UserID:  1,
		Status:  order.StatusProcessing,
	}, nil)

	svc := newTestService(lr, or, pr, pc, nil)

	o, err := svc.CheckStatus(context.Background(), 1, "order_ABC")
	assert.NoError(t, err)
	assert.Equal(t, "order_ABC", o.OrderID)

	// Someone else's order looks like a missing order.
	_, err = svc.CheckStatus(context.Background(), 2, "order_ABC")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	// Polling never mutates.
	or.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything)
	or.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
	lr.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
