package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/revocation"
)

// HousekeepingService periodically prunes revocations whose tokens have
// expired.
type HousekeepingService struct {
	Revocations revocation.Set
	Logger      *slog.Logger
	Interval    time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to one hour.
func NewHousekeepingService(revocations revocation.Set, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Revocations: revocations,
		Logger:      logger,
		Interval:    interval,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start runs the worker in the background until Stop is called.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one pruning pass and returns how many entries went.
func (s *HousekeepingService) Cleanup(ctx context.Context) int {
	if s.Revocations == nil {
		return 0
	}
	n, err := s.Revocations.Prune(ctx, time.Now())
	if err != nil {
		s.Logger.Error("failed to prune revocations", "error", err)
		return 0
	}
	s.Logger.Debug("pruned revocations", "removed", n)
	return n
}
