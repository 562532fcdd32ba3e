package engine

import "time"

const (
	dayLayout         = "2006-01-02"
	checkInGoldPerDay = 5
	checkInGoldDayCap = 7
)

// DayKey is the UTC calendar day of t.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween counts UTC calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(startOfDay(b).Sub(startOfDay(a)).Hours() / 24)
}

// NextStreak returns the alliance streak after a check-in at now.
func NextStreak(current int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	switch daysBetween(*last, now) {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

func CheckInGold(streak int) int {
	if streak > checkInGoldDayCap {
		streak = checkInGoldDayCap
	}
	if streak < 0 {
		streak = 0
	}
	return streak * checkInGoldPerDay
}

// StreakCutoff is the start of yesterday; check-ins before it break a streak.
func StreakCutoff(now time.Time) time.Time {
	return startOfDay(now).AddDate(0, 0, -1)
}

func StreakExpired(last *time.Time, now time.Time) bool {
	return last != nil && last.Before(StreakCutoff(now))
}

// SameDay reports whether a and b fall on the same UTC day.
func SameDay(a *time.Time, b time.Time) bool {
	return a != nil && DayKey(*a) == DayKey(b)
}
