package constants

import "time"

// Centralized constants for headers, env keys and OAuth integration.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGitHubClientID      = "GITHUB_CLIENT_ID"
	EnvGitHubClientSecret  = "GITHUB_CLIENT_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"

	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Session / Cookie names
	CookieSessionName = "lu_session"
	CookieOAuthState  = "lu_oauth_state"
	CookieOAuthPath   = "/api/auth"

	SessionTTL    = 24 * time.Hour
	OAuthStateTTL = 10 * time.Minute

	// GitHub OAuth constants
	GitHubUserURL       = "https://api.github.com/user"
	GitHubUserEmailsURL = "https://api.github.com/user/emails"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"

	// Context keys set by the auth middleware
	CtxUserUUID  = "userUUID"
	CtxUserEmail = "userEmail"
	CtxUserName  = "userName"

	// Login providers
	ProviderGitHub = "github"
	ProviderGoogle = "google"

	// Avatar size in pixels (square)
	AvatarSize = 64
)

var (
	GitHubScopes         = []string{"read:user", "user:email"}
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteHealth             = "/health"
	RouteVersion            = "/version"
	RouteLeaderboard        = "/leaderboard"
	RouteAuthGitHub         = "/auth/github"
	RouteAuthGitHubCallback = "/auth/github/callback"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RouteAuthLogout         = "/auth/logout"

	RouteAssetsAvatars = "/assets/avatars"

	RoutePlayerProfile   = "/player-profile"
	RouteCharacterStats  = "/character-stats"
	RouteCharacterPerks  = "/character-perks"
	RoutePerkActivate    = "/character-perks/:perkKey/activate"
	RoutePerkDeactivate  = "/character-perks/:perkKey/deactivate"
	RouteCharacterTitles = "/character-titles"
	RouteTitleEquip      = "/character-titles/:titleKey/equip"

	RouteQuestsStatic  = "/quests-static"
	RouteQuests        = "/quests"
	RouteQuestProgress = "/quests/:questID/progress"
	RouteQuestComplete = "/quests/:questID/complete"

	RouteRealm       = "/realm"
	RouteRealmReveal = "/realm/reveal"
	RouteRealmTiles  = "/realm/tiles"

	RouteMonsters          = "/monsters"
	RouteMonsterSpawnCheck = "/monsters/spawn-check"
	RouteMonsterBattle     = "/monsters/:spawnID/battle"
	RouteMonsterClaim      = "/monsters/:spawnID/claim"

	RouteAlliances       = "/alliances"
	RouteAllianceJoin    = "/alliances/join"
	RouteAllianceByID    = "/alliances/:allianceID"
	RouteAllianceLeave   = "/alliances/:allianceID/leave"
	RouteAllianceCheckIn = "/alliances/:allianceID/check-in"
	RouteAllianceStreak  = "/alliances/:allianceID/streak"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
	JSONKeySuccess = "success"
	JSONKeyData    = "data"
)

// Common error messages used across API handlers
const (
	ErrUnauthorized      = "Unauthorized"
	ErrInvalidRequest    = "Invalid request"
	ErrInvalidID         = "Invalid ID"
	ErrInvalidJoinCode   = "Invalid join code"
	ErrInvalidName       = "Invalid player name"
	ErrMissingGitHubEnv  = "Missing GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET in environment"
	ErrMissingGoogleEnv  = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidOAuthState = "Invalid OAuth state"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInProfile       = "No email in provider profile"
	ErrFailedCreateSession    = "Failed to create session"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchAvatar      = "Failed to fetch avatar"
)

// Success messages for enveloped responses
const (
	MsgPerksRetrieved  = "Character perks retrieved"
	MsgTitlesRetrieved = "Character titles retrieved"
	MsgNoPerksYet      = "No perks unlocked yet"
	MsgNoTitlesYet     = "No titles unlocked yet"
	MsgLoggedOut       = "Logged out"
)

// Logging field names
const (
	LogFieldUserUUID   = "user_uuid"
	LogFieldQuestID    = "quest_id"
	LogFieldSpawnID    = "spawn_id"
	LogFieldAllianceID = "alliance_id"
	LogFieldProvider   = "provider"
	LogFieldAddr       = "addr"
	LogFieldCount      = "count"
)
