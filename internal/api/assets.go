package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/dedupe"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/imageutil"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/keys"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/storage"
)

const (
	avatarFetchTimeout = 15 * time.Second
	maxAvatarBytes     = 5 << 20
)

// ServeAvatar serves a player's avatar from the DB. URL format:
// /api/assets/avatars/<player_uuid>.png
// The provider picture is downloaded and resized on first request.
func (h *Handler) ServeAvatar(c *gin.Context) {
	file := strings.TrimPrefix(c.Param("file"), "/")
	id := strings.TrimSuffix(file, path.Ext(file))
	if _, err := uuid.Parse(id); err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	u, err := h.repo.GetUserByUUID(id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		respondError(c, err)
		return
	}
	if len(u.AvatarPNG) > 0 {
		writePNG(c, u.AvatarPNG)
		return
	}
	if u.AvatarURL == "" {
		c.Status(http.StatusNotFound)
		return
	}

	avatarURL := u.AvatarURL
	ch := dedupe.AvatarGroup.DoChan(keys.Avatar(id), func() (interface{}, error) {
		// Another request may have stored it while this one was queued.
		if u2, err := h.repo.GetUserByUUID(id); err == nil && len(u2.AvatarPNG) > 0 {
			return u2.AvatarPNG, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), avatarFetchTimeout)
		defer cancel()
		raw, err := h.downloadAvatar(ctx, avatarURL)
		if err != nil {
			return nil, err
		}
		out, err := imageutil.AvatarPNG(raw, constants.AvatarSize)
		if err != nil {
			return nil, err
		}
		if err := h.repo.SaveAvatar(id, out); err != nil {
			logging.Error("failed to save avatar", err, logging.Fields{constants.LogFieldUserUUID: id})
		}
		return out, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchAvatar, constants.JSONKeyDetails: r.Err.Error()})
			return
		}
		out, ok := r.Val.([]byte)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchAvatar, constants.JSONKeyDetails: "invalid image result"})
			return
		}
		writePNG(c, out)
	case <-time.After(avatarFetchTimeout + time.Second):
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchAvatar, constants.JSONKeyDetails: "avatar download timed out"})
	}
}

func (h *Handler) downloadAvatar(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("avatar download: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
}

func writePNG(c *gin.Context, img []byte) {
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.Data(http.StatusOK, constants.ContentTypePNG, img)
}
