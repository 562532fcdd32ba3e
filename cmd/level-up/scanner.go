package main

import (
	"context"
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/clock"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/service"
)

// startStreakScanner periodically resets alliance streaks that missed a day.
func startStreakScanner(ctx context.Context, repo interface {
	ResetExpiredStreaks(time.Time) (int64, error)
}, clk clock.Clock, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if _, err := service.ResetExpiredStreaks(repo, clk.Now()); err != nil {
				logging.Error("streak scanner failed", err, nil)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
