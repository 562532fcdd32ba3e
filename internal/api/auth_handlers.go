package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/metrics"
	"golang.org/x/oauth2"
)

// providerProfile is what a login needs from an identity provider.
type providerProfile struct {
	Email     string
	Name      string
	AvatarURL string
}

var errNoEmail = errors.New(constants.ErrNoEmailInProfile)

func (h *Handler) githubConfig() (*oauth2.Config, bool) {
	if h.auth.GitHubClientID == "" || h.auth.GitHubClientSecret == "" {
		return nil, false
	}
	return &oauth2.Config{
		ClientID:     h.auth.GitHubClientID,
		ClientSecret: h.auth.GitHubClientSecret,
		RedirectURL:  h.auth.GitHubRedirectURL,
		Scopes:       constants.GitHubScopes,
		Endpoint:     h.auth.GitHubEndpoint,
	}, true
}

// GitHubLogin starts the GitHub code flow. The state is kept in a short lived
// cookie scoped to the auth routes and checked on the callback.
func (h *Handler) GitHubLogin(c *gin.Context) {
	conf, ok := h.githubConfig()
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrMissingGitHubEnv})
		return
	}
	state := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.CookieOAuthState, state, int(constants.OAuthStateTTL.Seconds()), constants.CookieOAuthPath, "", h.auth.SessionSecureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, conf.AuthCodeURL(state))
}

func (h *Handler) GitHubCallback(c *gin.Context) {
	conf, ok := h.githubConfig()
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrMissingGitHubEnv})
		return
	}
	expected, err := c.Cookie(constants.CookieOAuthState)
	state := c.Query("state")
	if err != nil || expected == "" || state != expected {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrInvalidOAuthState})
		return
	}
	c.SetCookie(constants.CookieOAuthState, "", -1, constants.CookieOAuthPath, "", h.auth.SessionSecureCookie, true)

	code := c.Query("code")
	if code == "" {
		badRequest(c)
		return
	}
	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, h.client)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrFailedExchangeToken, constants.JSONKeyDetails: err.Error()})
		return
	}
	profile, err := h.fetchGitHubProfile(ctx, conf.Client(ctx, token))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errNoEmail) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo, constants.JSONKeyDetails: err.Error()})
		return
	}
	if _, ok := h.login(c, constants.ProviderGitHub, profile); !ok {
		return
	}
	target := h.auth.FrontendURL
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// fetchGitHubProfile reads /user and, for accounts with a private email,
// the primary verified address from /user/emails.
func (h *Handler) fetchGitHubProfile(ctx context.Context, client *http.Client) (*providerProfile, error) {
	var u githubUser
	if err := getJSON(ctx, client, h.auth.GitHubUserURL, &u); err != nil {
		return nil, err
	}
	p := &providerProfile{Email: u.Email, Name: u.Name, AvatarURL: u.AvatarURL}
	if p.Name == "" {
		p.Name = u.Login
	}
	if p.Email == "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, h.auth.GitHubUserEmailsURL, &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				p.Email = e.Email
				break
			}
		}
	}
	if p.Email == "" {
		return nil, errNoEmail
	}
	return p, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", constants.ContentTypeJSON)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf(constants.ErrFailedReadUserData, err.Error())
	}
	return json.Unmarshal(body, v)
}

type GoogleOAuthCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) GoogleOAuthCallback(c *gin.Context) {
	var req GoogleOAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	if h.auth.GoogleClientID == "" || h.auth.GoogleClientSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrMissingGoogleEnv})
		return
	}
	conf := &oauth2.Config{
		ClientID:     h.auth.GoogleClientID,
		ClientSecret: h.auth.GoogleClientSecret,
		RedirectURL:  constants.GoogleOAuthRedirect,
		Scopes:       constants.GoogleUserInfoScopes,
		Endpoint:     h.auth.GoogleEndpoint,
	}

	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, h.client)
	token, err := conf.Exchange(ctx, req.Code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrFailedExchangeToken, constants.JSONKeyDetails: err.Error()})
		return
	}

	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, conf.Client(ctx, token), h.auth.GoogleUserInfoURL, &payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo, constants.JSONKeyDetails: err.Error()})
		return
	}
	if payload.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrNoEmailInProfile})
		return
	}

	u, ok := h.login(c, constants.ProviderGoogle, &providerProfile{Email: payload.Email, Name: payload.Name, AvatarURL: payload.Picture})
	if !ok {
		return
	}
	// The stored display name wins over the provider's.
	c.JSON(http.StatusOK, gin.H{
		"player_uuid": u.PlayerUUID,
		"email":       u.Email,
		"name":        u.PlayerName,
		"picture":     payload.Picture,
	})
}

// login upserts the player and starts a session. It writes the error
// response itself and reports whether the caller may continue.
func (h *Handler) login(c *gin.Context, provider string, p *providerProfile) (*game.User, bool) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = strings.SplitN(p.Email, "@", 2)[0]
	}
	u, err := h.repo.UpsertLogin(strings.ToLower(p.Email), name, provider, p.AvatarURL, h.clock.Now())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	sess, err := h.createSessionToken(u, constants.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession, constants.JSONKeyDetails: err.Error()})
		return nil, false
	}
	h.setSessionCookie(c, sess, constants.SessionTTL)
	metrics.Logins.WithLabelValues(provider).Inc()
	logging.Info("player logged in", logging.Fields{constants.LogFieldUserUUID: u.PlayerUUID, constants.LogFieldProvider: provider})
	return u, true
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: constants.MsgLoggedOut})
}
