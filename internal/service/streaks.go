package service

import (
	"time"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
)

// ResetExpiredStreaks zeroes every alliance streak that missed yesterday's
// check-in. It is run periodically by the server's streak scanner.
func ResetExpiredStreaks(repo interface {
	ResetExpiredStreaks(cutoff time.Time) (int64, error)
}, now time.Time) (int64, error) {
	cutoff := engine.StreakCutoff(now)
	n, err := repo.ResetExpiredStreaks(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logging.Info("alliance streaks reset", logging.Fields{"count": n, "cutoff": engine.DayKey(cutoff)})
	}
	return n, nil
}
