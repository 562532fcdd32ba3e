// Package leaderboard ranks players by total experience. The Redis board
// keeps a sorted set up to date on every reward; the repository board reads
// straight from the database and is used when Redis is not configured.
package leaderboard

import (
	"context"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Entry struct {
	PlayerUUID string `json:"player_uuid"`
	Experience int    `json:"experience"`
}

type Board interface {
	Record(ctx context.Context, playerUUID string, xp int) error
	Top(ctx context.Context, n int) ([]Entry, error)
}

// UserSource is the slice of storage.Repository the repository board needs.
type UserSource interface {
	GetTopPlayers(limit int) ([]game.User, error)
}

type repoBoard struct {
	users UserSource
}

func NewRepositoryBoard(users UserSource) Board {
	return &repoBoard{users: users}
}

// Record is a no-op: the users table already holds the experience.
func (b *repoBoard) Record(context.Context, string, int) error { return nil }

func (b *repoBoard) Top(_ context.Context, n int) ([]Entry, error) {
	users, err := b.users.GetTopPlayers(clampLimit(n))
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(users))
	for _, u := range users {
		out = append(out, Entry{PlayerUUID: u.PlayerUUID, Experience: u.Experience})
	}
	return out, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Warm copies the current top players from users into b.
func Warm(ctx context.Context, b Board, users UserSource) (int, error) {
	top, err := users.GetTopPlayers(MaxLimit)
	if err != nil {
		return 0, err
	}
	for _, u := range top {
		if err := b.Record(ctx, u.PlayerUUID, u.Experience); err != nil {
			return 0, err
		}
	}
	return len(top), nil
}
