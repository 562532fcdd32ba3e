package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/keys"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/metrics"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/service"
)

func (h *Handler) CreateAlliance(c *gin.Context) {
	var req service.NewAlliance
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	a, err := service.CreateAlliance(h.repo, h.clock.Now(), generateJoinCode, playerUUID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	logging.Info("alliance created", logging.Fields{constants.LogFieldAllianceID: a.ID, constants.LogFieldUserUUID: playerUUID(c)})
	respondJSON(c, http.StatusCreated, a)
}

func (h *Handler) ListAlliances(c *gin.Context) {
	alliances, err := service.ListAlliances(h.repo, h.clock.Now(), playerUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if alliances == nil {
		alliances = []game.Alliance{}
	}
	respondJSON(c, http.StatusOK, alliances)
}

func (h *Handler) GetAlliance(c *gin.Context) {
	id, ok := parseID(c, "allianceID")
	if !ok {
		return
	}
	a, err := service.GetAlliance(h.repo, h.clock.Now(), playerUUID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, a)
}

type JoinAllianceRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

func (h *Handler) JoinAlliance(c *gin.Context) {
	var req JoinAllianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	code := keys.JoinCode(req.JoinCode)
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidJoinCode})
		return
	}
	a, err := service.JoinAlliance(h.repo, h.rules, h.clock.Now(), playerUUID(c), code)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, a)
}

// LeaveAlliance answers 204 when the last member left and the alliance is gone.
func (h *Handler) LeaveAlliance(c *gin.Context) {
	id, ok := parseID(c, "allianceID")
	if !ok {
		return
	}
	a, err := service.LeaveAlliance(h.repo, playerUUID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if a == nil {
		c.Status(http.StatusNoContent)
		return
	}
	respondJSON(c, http.StatusOK, a)
}

func (h *Handler) CheckIn(c *gin.Context) {
	id, ok := parseID(c, "allianceID")
	if !ok {
		return
	}
	res, err := service.CheckIn(h.repo, h.clock.Now(), playerUUID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	metrics.AllianceCheckIns.Inc()
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetStreak(c *gin.Context) {
	id, ok := parseID(c, "allianceID")
	if !ok {
		return
	}
	v, err := service.GetStreak(h.repo, h.clock.Now(), playerUUID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
