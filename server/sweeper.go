package server

import (
	"context"
	"time"

	"github.com/EllieNosrat/chat-with-bing/logging"
)

// Sweeper evicts idle sessions on a fixed interval.
type Sweeper struct {
	service  ChatService
	interval time.Duration
	logger   logging.Logger
}

// NewSweeper builds a sweeper firing every interval.
func NewSweeper(service ChatService, interval time.Duration, logger logging.Logger) *Sweeper {
	return &Sweeper{service: service, interval: interval, logger: logger}
}

// Run sweeps until ctx is cancelled. It blocks; run it in a goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if evicted := s.service.Sweep(now); evicted > 0 {
				s.logger.Info("sweeper.swept", "evicted", evicted, "remaining", s.service.Sessions())
			}
		}
	}
}
