package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/metrics"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/service"
)

func (h *Handler) ListMonsters(c *gin.Context) {
	spawns, err := service.ListMonsters(h.repo, h.rules, playerUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, spawns)
}

func (h *Handler) CheckSpawn(c *gin.Context) {
	res, err := service.CheckSpawn(h.repo, h.rules, h.newRand(), playerUUID(c), h.seed())
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Spawned != nil {
		logging.Info("monster spawned", logging.Fields{
			constants.LogFieldUserUUID: playerUUID(c),
			constants.LogFieldSpawnID:  res.Spawned.ID,
			"monster":                  res.Spawned.MonsterType,
		})
	}
	respondJSON(c, http.StatusOK, res)
}

func (h *Handler) Battle(c *gin.Context) {
	id, ok := parseID(c, "spawnID")
	if !ok {
		return
	}
	res, err := service.Battle(h.repo, h.rules, h.newRand(), h.clock.Now(), playerUUID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.MonsterBattles.WithLabelValues(res.Spawn.MonsterType, metrics.BattleOutcome(res.Victory)).Inc()
	respondJSON(c, http.StatusOK, res)
}

func (h *Handler) ClaimReward(c *gin.Context) {
	id, ok := parseID(c, "spawnID")
	if !ok {
		return
	}
	res, err := service.ClaimReward(h.repo, h.rules, h.clock.Now(), playerUUID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.RewardsClaimed.Inc()
	h.recordXP(c, res.PlayerUUID, res.Experience)
	respondJSON(c, http.StatusOK, res)
}
