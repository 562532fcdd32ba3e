package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
)

// RegisterRoutes mounts every endpoint under /api.
func RegisterRoutes(router *gin.Engine, h *Handler) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		// Public endpoints
		apiRoutes.GET(constants.RouteHealth, Health)
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteLeaderboard, h.ListLeaderboard)
		apiRoutes.GET(constants.RouteAssetsAvatars+"/*file", h.ServeAvatar)

		apiRoutes.GET(constants.RouteAuthGitHub, h.GitHubLogin)
		apiRoutes.GET(constants.RouteAuthGitHubCallback, h.GitHubCallback)
		apiRoutes.POST(constants.RouteAuthGoogleCallBack, h.GoogleOAuthCallback)
		apiRoutes.POST(constants.RouteAuthLogout, h.Logout)

		// Authenticated endpoints
		protected := apiRoutes.Group("")
		protected.Use(h.AuthRequired())

		// Player profile: GET returns the profile, POST updates display name
		protected.GET(constants.RoutePlayerProfile, h.GetPlayerProfile)
		protected.POST(constants.RoutePlayerProfile, h.UpdatePlayerProfile)

		protected.GET(constants.RouteCharacterStats, h.GetCharacterStats)
		protected.GET(constants.RouteCharacterPerks, h.ListCharacterPerks)
		protected.POST(constants.RoutePerkActivate, h.ActivatePerk)
		protected.POST(constants.RoutePerkDeactivate, h.DeactivatePerk)
		protected.GET(constants.RouteCharacterTitles, h.ListCharacterTitles)
		protected.POST(constants.RouteTitleEquip, h.EquipTitle)

		protected.GET(constants.RouteQuestsStatic, h.ListStaticQuests)
		protected.GET(constants.RouteQuests, h.ListQuests)
		protected.POST(constants.RouteQuests, h.CreateQuest)
		protected.POST(constants.RouteQuestProgress, h.UpdateQuestProgress)
		protected.POST(constants.RouteQuestComplete, h.CompleteQuest)

		protected.GET(constants.RouteRealm, h.GetRealm)
		protected.POST(constants.RouteRealmReveal, h.RevealCell)
		protected.POST(constants.RouteRealmTiles, h.PlaceTile)

		protected.GET(constants.RouteMonsters, h.ListMonsters)
		protected.POST(constants.RouteMonsterSpawnCheck, h.CheckSpawn)
		protected.POST(constants.RouteMonsterBattle, h.Battle)
		protected.POST(constants.RouteMonsterClaim, h.ClaimReward)

		protected.GET(constants.RouteAlliances, h.ListAlliances)
		protected.POST(constants.RouteAlliances, h.CreateAlliance)
		protected.POST(constants.RouteAllianceJoin, h.JoinAlliance)
		protected.GET(constants.RouteAllianceByID, h.GetAlliance)
		protected.POST(constants.RouteAllianceLeave, h.LeaveAlliance)
		protected.POST(constants.RouteAllianceCheckIn, h.CheckIn)
		protected.GET(constants.RouteAllianceStreak, h.GetStreak)
	}
}

// Recovery turns a panic into a 500 carrying the panic message.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := fmt.Sprint(recovered)
		logging.Error("panic recovered", nil, logging.Fields{"path": c.Request.URL.Path, "panic": msg})
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: msg})
	})
}
