package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/keys"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users []game.User
	limit int
	err   error
}

func (f *fakeUsers) GetTopPlayers(limit int) ([]game.User, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.users) {
		return f.users[:limit], nil
	}
	return f.users, nil
}

func newRedisBoard(t *testing.T) (Board, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBoard(client), mr
}

func TestRedisBoard_RecordAndTop(t *testing.T) {
	ctx := context.Background()
	board, mr := newRedisBoard(t)

	require.NoError(t, board.Record(ctx, "a", 120))
	require.NoError(t, board.Record(ctx, "b", 300))
	require.NoError(t, board.Record(ctx, "c", 50))
	require.NoError(t, board.Record(ctx, "a", 400))

	top, err := board.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{PlayerUUID: "a", Experience: 400}, {PlayerUUID: "b", Experience: 300}}, top)

	score, err := mr.ZScore(keys.LeaderboardXP, "c")
	require.NoError(t, err)
	assert.Equal(t, float64(50), score)
}

func TestRepositoryBoard_ClampsLimit(t *testing.T) {
	users := &fakeUsers{users: []game.User{{PlayerUUID: "x", Experience: 9}}}
	board := NewRepositoryBoard(users)

	top, err := board.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, users.limit)
	assert.Equal(t, []Entry{{PlayerUUID: "x", Experience: 9}}, top)

	_, _ = board.Top(context.Background(), 1000)
	assert.Equal(t, MaxLimit, users.limit)

	users.err = errors.New("db down")
	_, err = board.Top(context.Background(), 5)
	assert.Error(t, err)
}

func TestWarm_CopiesUsersIntoRedis(t *testing.T) {
	ctx := context.Background()
	board, _ := newRedisBoard(t)
	users := &fakeUsers{users: []game.User{{PlayerUUID: "p1", Experience: 10}, {PlayerUUID: "p2", Experience: 20}}}

	n, err := Warm(ctx, board, users)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	top, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "p2", top[0].PlayerUUID)
}
