package api

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/constants"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/engine"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/logging"
	"github.com/jillesblokker/level-up-dashboard-sub009/internal/service"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 8

// generateJoinCode creates a short alphanumeric code for joining alliances.
func generateJoinCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}

var joinCodeRegex = regexp.MustCompile("^[A-Z0-9]{8}$")

// renamedKeys maps the untagged gorm.Model fields to snake_case.
var renamedKeys = map[string]string{
	"ID":        "id",
	"CreatedAt": "created_at",
	"UpdatedAt": "updated_at",
	"DeletedAt": "deleted_at",
}

// normalizeKeys recursively renames gorm.Model keys so clients consistently
// receive snake_case.
func normalizeKeys(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeKeys(val)
		}
		for from, to := range renamedKeys {
			if val, ok := vv[from]; ok {
				vv[to] = val
				delete(vv, from)
			}
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeKeys(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeTimestamps marshals v into JSON, decodes it back into
// generic values and normalizes the gorm.Model keys.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeKeys(out), nil
}

// respondJSON writes v with normalized keys.
func respondJSON(c *gin.Context, status int, v interface{}) {
	out, err := MarshalIntoSnakeTimestamps(v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, out)
}

// respondEnvelope writes the {success, data, message} shape.
func respondEnvelope(c *gin.Context, data interface{}, message string) {
	out, err := MarshalIntoSnakeTimestamps(data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		constants.JSONKeySuccess: true,
		constants.JSONKeyData:    out,
		constants.JSONKeyMessage: message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidQuest),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidAlliance),
		errors.Is(err, engine.ErrOutOfBounds),
		errors.Is(err, engine.ErrNotAdjacent),
		errors.Is(err, engine.ErrNotRevealed),
		errors.Is(err, engine.ErrTileNotPlaceable),
		errors.Is(err, engine.ErrInvalidRotation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPerkLocked),
		errors.Is(err, service.ErrTitleLocked),
		errors.Is(err, service.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrQuestNotFound),
		errors.Is(err, service.ErrPerkNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrSpawnNotFound),
		errors.Is(err, service.ErrAllianceNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrQuestCompleted),
		errors.Is(err, service.ErrPerkLimit),
		errors.Is(err, service.ErrInsufficientGold),
		errors.Is(err, engine.ErrAlreadyRevealed),
		errors.Is(err, engine.ErrCellOccupied),
		errors.Is(err, service.ErrMonsterDefeated),
		errors.Is(err, service.ErrMonsterNotDefeated),
		errors.Is(err, service.ErrRewardClaimed),
		errors.Is(err, service.ErrAllianceFull),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrAlreadyCheckedIn):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError maps service errors to statuses; anything unknown is a 500
// carrying the error message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error("request failed", err, logging.Fields{constants.LogFieldUserUUID: playerUUID(c), "path": c.FullPath()})
	}
	c.JSON(status, gin.H{constants.JSONKeyError: err.Error()})
}

// parseID reads a positive numeric route parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidID})
		return 0, false
	}
	return uint(n), true
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
}
