package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/game"
)

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func (h *Handler) createSessionToken(u *game.User, ttl time.Duration) (string, error) {
	now := h.clock.Now()
	claims := sessionClaims{
		Email: u.Email,
		Name:  u.PlayerName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.PlayerUUID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
}

func (h *Handler) parseSessionToken(token string) (*sessionClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return h.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(h.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("session token has no subject")
	}
	return &claims, nil
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.CookieSessionName, token, int(ttl.Seconds()), "/", "", h.auth.SessionSecureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(constants.CookieSessionName, "", -1, "/", "", h.auth.SessionSecureCookie, true)
}

// sessionToken reads the session cookie, falling back to a bearer token.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(constants.CookieSessionName); err == nil && token != "" {
		return token
	}
	if auth := c.GetHeader(constants.HeaderAuthorization); strings.HasPrefix(auth, constants.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(auth, constants.BearerPrefix))
	}
	return ""
}

// AuthRequired validates the session and injects identity into context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrUnauthorized})
			return
		}
		claims, err := h.parseSessionToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrUnauthorized})
			return
		}
		c.Set(constants.CtxUserUUID, claims.Subject)
		c.Set(constants.CtxUserEmail, claims.Email)
		c.Set(constants.CtxUserName, claims.Name)
		c.Next()
	}
}

func playerUUID(c *gin.Context) string {
	return c.GetString(constants.CtxUserUUID)
}
