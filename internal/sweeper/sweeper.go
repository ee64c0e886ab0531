package sweeper

import (
	"context"
	"time"

	"propcoin/internal/logger"
	"propcoin/internal/metrics"
	"propcoin/internal/order"
)

// Sweeper periodically fails recharge orders that passed their deadline
// while still processing. It shares the order terminality guard with the
// webhook path, so a sweep racing a late capture is safe: only one of them
// flips the order, the other becomes a no-op.
type Sweeper struct {
	orders   order.Repository
	interval time.Duration
	done     chan struct{}
}

func New(orders order.Repository, interval time.Duration) *Sweeper {
	return &Sweeper{
		orders:   orders,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop until ctx is cancelled. An in-flight sweep is
// finished before the loop exits.
func (s *Sweeper) Start(ctx context.Context) {
	defer close(s.done)

	logger.Infof("expiry sweeper started, interval %s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop blocks until the loop has exited. Call after cancelling the context
// passed to Start.
func (s *Sweeper) Stop() {
	<-s.done
}

func (s *Sweeper) sweep(ctx context.Context) {
	// The sweep itself runs on a background context: a shutdown arriving
	// mid-sweep should not abort a half-applied bulk update.
	sweepCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer cancel()

	expired, err := s.orders.ExpireStale(sweepCtx, time.Now())
	if err != nil {
		logger.Errorf("expiry sweep failed: %v", err)
		return
	}

	if expired > 0 {
		metrics.RecordOrdersExpired(expired)
		logger.Infof("expired %d stale orders", expired)
	}
}
