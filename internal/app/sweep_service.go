package app

import (
	"context"
	"log"
	"time"

	"github.com/tonymorry/uniparty/internal/clock"
)

type SweepRepository interface {
	DeleteExpiredPendingOrders(ctx context.Context, before time.Time) (int64, error)
}

// SweepService reclaims abandoned carts. Orders that never saw a payment
// confirmation within the retention window are deleted; there is no
// cancellation signal in this design, only time.
type SweepService struct {
	repo      SweepRepository
	clock     clock.Clock
	retention time.Duration
	logger    *log.Logger
}

const defaultOrderRetention = 24 * time.Hour

func NewSweepService(repo SweepRepository, clk clock.Clock, retention time.Duration, logger *log.Logger) *SweepService {
	if retention <= 0 {
		retention = defaultOrderRetention
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SweepService{
		repo:      repo,
		clock:     clk,
		retention: retention,
		logger:    logger,
	}
}

// Sweep deletes pending orders older than the retention window and returns
// how many were removed.
func (s *SweepService) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().Add(-s.retention)
	n, err := s.repo.DeleteExpiredPendingOrders(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Printf("sweep removed %d abandoned orders older than %s", n, cutoff.Format(time.RFC3339))
	}
	return n, nil
}

// Run executes Sweep on a fixed interval until ctx is cancelled.
func (s *SweepService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Printf("WARN: order sweep failed: %v", err)
			}
		}
	}
}
