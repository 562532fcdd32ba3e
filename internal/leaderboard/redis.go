package leaderboard

import (
	"context"
	"fmt"

	"github.com/jillesblokker/level-up-dashboard-sub009/internal/keys"
	"github.com/redis/go-redis/v9"
)

type redisBoard struct {
	client redis.UniversalClient
	key    string
}

// NewRedisBoard ranks players in the sorted set keys.LeaderboardXP.
func NewRedisBoard(client redis.UniversalClient) Board {
	return &redisBoard{client: client, key: keys.LeaderboardXP}
}

// NewRedisClient builds a client for addr and checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (b *redisBoard) Record(ctx context.Context, playerUUID string, xp int) error {
	return b.client.ZAdd(ctx, b.key, redis.Z{Score: float64(xp), Member: playerUUID}).Err()
}

func (b *redisBoard) Top(ctx context.Context, n int) ([]Entry, error) {
	zs, err := b.client.ZRevRangeWithScores(ctx, b.key, 0, int64(clampLimit(n)-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, Entry{PlayerUUID: member, Experience: int(z.Score)})
	}
	return out, nil
}
