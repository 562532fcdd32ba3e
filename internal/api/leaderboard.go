package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/leaderboard"
)

type leaderboardRow struct {
	Rank       int    `json:"rank"`
	PlayerUUID string `json:"player_uuid"`
	PlayerName string `json:"player_name"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Title      string `json:"title,omitempty"`
}

// ListLeaderboard returns the top players by experience, top 10 by default.
func (h *Handler) ListLeaderboard(c *gin.Context) {
	// optional ?limit=N
	limit := leaderboard.DefaultLimit
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= leaderboard.MaxLimit {
			limit = n
		}
	}
	entries, err := h.board.Top(c.Request.Context(), limit)
	if err != nil {
		respondError(c, fmt.Errorf("%s: %w", constants.ErrFailedFetchLeaderboard, err))
		return
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PlayerUUID)
	}
	users, err := h.repo.GetUsersByUUIDs(ids)
	if err != nil {
		respondError(c, fmt.Errorf("%s: %w", constants.ErrFailedFetchLeaderboard, err))
		return
	}
	byUUID := make(map[string]int, len(users))
	for i, u := range users {
		byUUID[u.PlayerUUID] = i
	}
	out := make([]leaderboardRow, 0, len(entries))
	for _, e := range entries {
		i, ok := byUUID[e.PlayerUUID]
		if !ok {
			continue
		}
		u := users[i]
		out = append(out, leaderboardRow{
			Rank:       len(out) + 1,
			PlayerUUID: e.PlayerUUID,
			PlayerName: u.PlayerName,
			Level:      u.Level,
			Experience: e.Experience,
			Title:      u.EquippedTitle,
		})
	}
	c.JSON(http.StatusOK, out)
}
