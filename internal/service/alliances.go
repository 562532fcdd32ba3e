package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/keys"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
)

const (
	maxAllianceName        = 32
	maxAllianceDescription = 256
	joinCodeAttempts       = 5
)

type AllianceRepo interface {
	GetUserByUUID(uuid string) (*game.User, error)
	CreateAlliance(a *game.Alliance) error
	GetAlliance(id uint) (*game.Alliance, error)
	FindAllianceByJoinCode(code string) (*game.Alliance, error)
	ListAlliancesForPlayer(playerUUID string) ([]game.Alliance, error)
	AddAllianceMember(m *game.AllianceMember, max int) error
	RemoveAllianceMember(allianceID uint, playerUUID string) error
	SaveAlliance(a *game.Alliance) error
	DeleteAlliance(id uint) error
	RecordCheckIn(a *game.Alliance, m *game.AllianceMember, ci *game.AllianceCheckIn, u *game.User, p game.Progress) error
}

type NewAlliance struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (n *NewAlliance) validate() error {
	n.Name = strings.TrimSpace(n.Name)
	n.Description = strings.TrimSpace(n.Description)
	if l := utf8.RuneCountInString(n.Name); l < 1 || l > maxAllianceName {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidAlliance, maxAllianceName)
	}
	if utf8.RuneCountInString(n.Description) > maxAllianceDescription {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidAlliance, maxAllianceDescription)
	}
	return nil
}

// CreateAlliance founds an alliance owned by the caller. newCode produces
// join code candidates; a colliding code is retried a few times.
func CreateAlliance(repo AllianceRepo, now time.Time, newCode func() string, playerUUID string, in NewAlliance) (*game.Alliance, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		a := &game.Alliance{
			Name:        in.Name,
			Description: in.Description,
			JoinCode:    newCode(),
			OwnerUUID:   u.PlayerUUID,
			Members: []game.AllianceMember{{
				PlayerUUID: u.PlayerUUID,
				PlayerName: u.PlayerName,
				JoinedAt:   now,
			}},
		}
		err = repo.CreateAlliance(a)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return nil, fmt.Errorf("create alliance: %w", err)
		}
	}
	return nil, fmt.Errorf("create alliance: no free join code: %w", err)
}

func ListAlliances(repo AllianceRepo, now time.Time, playerUUID string) ([]game.Alliance, error) {
	alliances, err := repo.ListAlliancesForPlayer(playerUUID)
	if err != nil {
		return nil, fmt.Errorf("list alliances: %w", err)
	}
	for i := range alliances {
		expireStreak(&alliances[i], now)
	}
	return alliances, nil
}

func loadAlliance(repo AllianceRepo, id uint) (*game.Alliance, error) {
	a, err := repo.GetAlliance(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrAllianceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load alliance: %w", err)
	}
	return a, nil
}

// expireStreak zeroes a streak the scanner has not reset yet.
func expireStreak(a *game.Alliance, now time.Time) {
	if engine.StreakExpired(a.LastCheckIn, now) {
		a.CurrentStreak = 0
	}
}

// GetAlliance is visible to members only.
func GetAlliance(repo AllianceRepo, now time.Time, playerUUID string, id uint) (*game.Alliance, error) {
	a, err := loadAlliance(repo, id)
	if err != nil {
		return nil, err
	}
	if !a.HasMember(playerUUID) {
		return nil, ErrNotMember
	}
	expireStreak(a, now)
	return a, nil
}

func JoinAlliance(repo AllianceRepo, rules *game.Rules, now time.Time, playerUUID, joinCode string) (*game.Alliance, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	a, err := repo.FindAllianceByJoinCode(keys.JoinCode(joinCode))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrAllianceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find alliance: %w", err)
	}
	if a.HasMember(u.PlayerUUID) {
		return nil, ErrAlreadyMember
	}
	if len(a.Members) >= rules.Alliance.MaxMembers {
		return nil, ErrAllianceFull
	}
	m := game.AllianceMember{AllianceID: a.ID, PlayerUUID: u.PlayerUUID, PlayerName: u.PlayerName, JoinedAt: now}
	err = repo.AddAllianceMember(&m, rules.Alliance.MaxMembers)
	switch {
	case errors.Is(err, storage.ErrConflict):
		return nil, ErrAlreadyMember
	case errors.Is(err, storage.ErrLimitReached):
		return nil, ErrAllianceFull
	case errors.Is(err, storage.ErrNotFound):
		return nil, ErrAllianceNotFound
	case err != nil:
		return nil, fmt.Errorf("add member: %w", err)
	}
	a.Members = append(a.Members, m)
	expireStreak(a, now)
	return a, nil
}

// LeaveAlliance removes the caller. Ownership passes to the longest standing
// member; the last member out deletes the alliance. It returns nil when the
// alliance is gone.
func LeaveAlliance(repo AllianceRepo, playerUUID string, id uint) (*game.Alliance, error) {
	a, err := loadAlliance(repo, id)
	if err != nil {
		return nil, err
	}
	if !a.HasMember(playerUUID) {
		return nil, ErrNotMember
	}
	if len(a.Members) == 1 {
		if err := repo.DeleteAlliance(a.ID); err != nil {
			return nil, fmt.Errorf("delete alliance: %w", err)
		}
		return nil, nil
	}
	if err := repo.RemoveAllianceMember(a.ID, playerUUID); err != nil {
		return nil, fmt.Errorf("remove member: %w", err)
	}
	remaining := a.Members[:0]
	for _, m := range a.Members {
		if m.PlayerUUID != playerUUID {
			remaining = append(remaining, m)
		}
	}
	a.Members = remaining
	if a.OwnerUUID == playerUUID {
		// Members are loaded oldest first.
		a.OwnerUUID = a.Members[0].PlayerUUID
		if err := repo.SaveAlliance(a); err != nil {
			return nil, fmt.Errorf("transfer ownership: %w", err)
		}
	}
	return a, nil
}

type CheckInResult struct {
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	LastCheckIn   *time.Time `json:"last_check_in"`
	GoldGained    int        `json:"gold_gained"`
	Gold          int        `json:"gold"`
}

// CheckIn records the member's daily check-in and advances the shared streak.
func CheckIn(repo AllianceRepo, now time.Time, playerUUID string, id uint) (*CheckInResult, error) {
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	a, err := loadAlliance(repo, id)
	if err != nil {
		return nil, err
	}
	m := a.Member(u.PlayerUUID)
	if m == nil {
		return nil, ErrNotMember
	}
	if engine.SameDay(m.LastCheckIn, now) {
		return nil, ErrAlreadyCheckedIn
	}

	at := now
	streak := engine.NextStreak(a.CurrentStreak, a.LastCheckIn, now)
	a.CurrentStreak = streak
	if streak > a.LongestStreak {
		a.LongestStreak = streak
	}
	a.LastCheckIn = &at
	m.LastCheckIn = &at

	gold := engine.CheckInGold(streak)

	ci := &game.AllianceCheckIn{
		AllianceID: a.ID,
		PlayerUUID: u.PlayerUUID,
		Day:        engine.DayKey(now),
		Streak:     streak,
		GoldGained: gold,
	}
	if err := repo.RecordCheckIn(a, m, ci, u, game.Progress{Gold: gold}); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("record check-in: %w", err)
	}
	return &CheckInResult{
		CurrentStreak: a.CurrentStreak,
		LongestStreak: a.LongestStreak,
		LastCheckIn:   a.LastCheckIn,
		GoldGained:    gold,
		Gold:          u.Gold,
	}, nil
}

type StreakView struct {
	AllianceID     uint       `json:"alliance_id"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastCheckIn    *time.Time `json:"last_check_in"`
	CheckedInToday bool       `json:"checked_in_today"`
}

func GetStreak(repo AllianceRepo, now time.Time, playerUUID string, id uint) (*StreakView, error) {
	a, err := GetAlliance(repo, now, playerUUID, id)
	if err != nil {
		return nil, err
	}
	return &StreakView{
		AllianceID:     a.ID,
		CurrentStreak:  a.CurrentStreak,
		LongestStreak:  a.LongestStreak,
		LastCheckIn:    a.LastCheckIn,
		CheckedInToday: engine.SameDay(a.Member(playerUUID).LastCheckIn, now),
	}, nil
}
