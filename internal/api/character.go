package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/service"
)

func (h *Handler) GetCharacterStats(c *gin.Context) {
	stats, err := service.GetCharacterStats(h.repo, h.rules, h.clock.Now(), playerUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListCharacterPerks answers with the {success, data, message} envelope.
func (h *Handler) ListCharacterPerks(c *gin.Context) {
	perks, err := service.ListCharacterPerks(h.repo, h.rules, h.clock.Now(), playerUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	msg := constants.MsgPerksRetrieved
	if len(perks) == 0 {
		msg = constants.MsgNoPerksYet
	}
	respondEnvelope(c, perks, msg)
}

func (h *Handler) ActivatePerk(c *gin.Context)   { h.setPerk(c, true) }
func (h *Handler) DeactivatePerk(c *gin.Context) { h.setPerk(c, false) }

func (h *Handler) setPerk(c *gin.Context, active bool) {
	perk, err := service.SetPerkActive(h.repo, h.rules, h.clock.Now(), playerUUID(c), c.Param("perkKey"), active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, perk)
}

func (h *Handler) ListCharacterTitles(c *gin.Context) {
	titles, err := service.ListCharacterTitles(h.repo, h.rules, h.clock.Now(), playerUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	msg := constants.MsgTitlesRetrieved
	unlocked := 0
	for _, t := range titles {
		if t.Unlocked {
			unlocked++
		}
	}
	if unlocked == 0 {
		msg = constants.MsgNoTitlesYet
	}
	respondEnvelope(c, titles, msg)
}

func (h *Handler) EquipTitle(c *gin.Context) {
	u, err := service.EquipTitle(h.repo, h.rules, h.clock.Now(), playerUUID(c), c.Param("titleKey"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, u)
}

func (h *Handler) GetPlayerProfile(c *gin.Context) {
	u, err := service.GetPlayerProfile(h.repo, playerUUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, u)
}

type UpdateProfileRequest struct {
	PlayerName string `json:"player_name" binding:"required"`
}

// UpdatePlayerProfile changes the display name.
func (h *Handler) UpdatePlayerProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidName})
		return
	}
	u, err := service.UpdatePlayerName(h.repo, playerUUID(c), req.PlayerName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, u)
}
