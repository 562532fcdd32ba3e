package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/metrics"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/service"
)

// ListStaticQuests returns the fixed starter quests, the same for everyone.
func (h *Handler) ListStaticQuests(c *gin.Context) {
	respondJSON(c, http.StatusOK, game.StaticQuests)
}

func (h *Handler) ListQuests(c *gin.Context) {
	quests, err := service.ListQuests(h.repo, h.rules, playerUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if quests == nil {
		quests = []game.Quest{}
	}
	respondJSON(c, http.StatusOK, quests)
}

func (h *Handler) CreateQuest(c *gin.Context) {
	var req service.NewQuest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	q, err := service.CreateQuest(h.repo, playerUUID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, q)
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

func (h *Handler) UpdateQuestProgress(c *gin.Context) {
	id, ok := parseID(c, "questID")
	if !ok {
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	res, err := service.UpdateQuestProgress(h.repo, h.rules, h.clock.Now(), playerUUID(c), id, *req.Progress)
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Completion != nil {
		h.afterCompletion(c, res.Completion)
	}
	respondJSON(c, http.StatusOK, res)
}

func (h *Handler) CompleteQuest(c *gin.Context) {
	id, ok := parseID(c, "questID")
	if !ok {
		return
	}
	res, err := service.CompleteQuest(h.repo, h.rules, h.clock.Now(), playerUUID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.afterCompletion(c, res)
	respondJSON(c, http.StatusOK, res)
}

func (h *Handler) afterCompletion(c *gin.Context, res *service.CompletionResult) {
	metrics.QuestsCompleted.WithLabelValues(string(res.Quest.Category)).Inc()
	h.recordXP(c, res.PlayerUUID, res.Experience)
	logging.Info("quest completed", logging.Fields{
		constants.LogFieldUserUUID: res.PlayerUUID,
		constants.LogFieldQuestID:  res.Quest.ID,
		"levels_gained":            res.LevelsGained,
	})
}

// recordXP updates the leaderboard. Errors are logged, not returned.
func (h *Handler) recordXP(c *gin.Context, uuid string, xp int) {
	if err := h.board.Record(c.Request.Context(), uuid, xp); err != nil {
		logging.Warn("leaderboard update failed", logging.Fields{constants.LogFieldUserUUID: uuid, "error": err.Error()})
	}
}
