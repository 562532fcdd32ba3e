package keys

import (
	"fmt"
	"strings"
)

// LeaderboardXP is the Redis sorted set ranking players by experience.
const LeaderboardXP = "leaderboard:xp"

// Realm identifies lazy realm generation for one user.
func Realm(userID uint) string {
	return fmt.Sprintf("realm:%d", userID)
}

// Avatar identifies the resized avatar of one player.
func Avatar(playerUUID string) string {
	return "avatar:" + strings.ToLower(playerUUID)
}

// JoinCode canonicalizes user-typed alliance join codes.
func JoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
