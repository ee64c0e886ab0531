package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"propcoin/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderRepo struct {
	expireCalls atomic.Int64
	expireErr   error
	expired     int64
}

func (s *stubOrderRepo) Create(ctx context.Context, orderID string, userID int, amount int64, currency, receipt string) (*order.Order, error) {
	return nil, errors.New("not implemented")
}

func (s *stubOrderRepo) FindByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (s *stubOrderRepo) MarkSuccess(ctx context.Context, orderID string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (s *stubOrderRepo) MarkFailed(ctx context.Context, orderID, reason string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}

func (s *stubOrderRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	s.expireCalls.Add(1)
	return s.expired, s.expireErr
}

func TestSweeper_SweepsOnInterval(t *testing.T) {
	repo := &stubOrderRepo{expired: 2}
	s := New(repo, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Start(ctx)

	require.Eventually(t, func() bool {
		return repo.expireCalls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()
}

func TestSweeper_StopWaitsForLoopExit(t *testing.T) {
	repo := &stubOrderRepo{}
	s := New(repo, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Start(ctx)

	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

func TestSweeper_KeepsRunningAfterSweepError(t *testing.T) {
	repo := &stubOrderRepo{expireErr: errors.New("db down")}
	s := New(repo, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Start(ctx)

	require.Eventually(t, func() bool {
		return repo.expireCalls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()

	assert.GreaterOrEqual(t, repo.expireCalls.Load(), int64(3))
}
