package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/service"
)

func (h *Handler) GetRealm(c *gin.Context) {
	r, err := service.GetRealm(h.repo, h.rules, playerUUID(c), h.seed())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, r)
}

type revealRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

func (h *Handler) RevealCell(c *gin.Context) {
	var req revealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	res, err := service.RevealCell(h.repo, h.rules, playerUUID(c), *req.X, *req.Y, h.seed())
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, res)
}

func (h *Handler) PlaceTile(c *gin.Context) {
	var req service.Placement
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	res, err := service.PlaceTile(h.repo, h.rules, playerUUID(c), req, h.seed())
	if err != nil {
		respondError(c, err)
		return
	}
	h.recordXP(c, playerUUID(c), res.Experience)
	respondJSON(c, http.StatusOK, res)
}
