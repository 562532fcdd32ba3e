package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
)

// UserRepo loads and saves players.
type UserRepo interface {
	GetUserByUUID(uuid string) (*game.User, error)
	UpdateProfile(u *game.User) error
}

// Letters, marks, digits, apostrophe, dot, hyphen and spaces; 4 to 40 runes.
var playerNameRegex = regexp.MustCompile(`^[\p{L}\p{M}\p{N}.'\- ]{4,40}$`)

func loadUser(repo interface {
	GetUserByUUID(string) (*game.User, error)
}, playerUUID string) (*game.User, error) {
	u, err := repo.GetUserByUUID(playerUUID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u.Level < 1 {
		u.Level = 1
	}
	return u, nil
}

// levelsSince counts the levels u gained above before.
func levelsSince(before int, u *game.User) int {
	if before < 1 {
		before = 1
	}
	if u.Level <= before {
		return 0
	}
	return u.Level - before
}

func GetPlayerProfile(repo UserRepo, playerUUID string) (*game.User, error) {
	return loadUser(repo, playerUUID)
}

// UpdatePlayerName validates and stores a new display name.
func UpdatePlayerName(repo UserRepo, playerUUID, name string) (*game.User, error) {
	trimmed := strings.TrimSpace(name)
	if !playerNameRegex.MatchString(trimmed) {
		return nil, ErrInvalidName
	}
	u, err := loadUser(repo, playerUUID)
	if err != nil {
		return nil, err
	}
	u.PlayerName = trimmed
	if err := repo.UpdateProfile(u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}
