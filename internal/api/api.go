package api

import (
	"net/http"
	"strconv"
	"time"

	"wellness_tracker/internal/middleware"
	"wellness_tracker/internal/model"
	"wellness_tracker/pkg/auth"
	"wellness_tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// userGroup mounts a per-user resource: Telegram auth first, then the owner
// check on :user_id.
func userGroup(handler *gin.RouterGroup, path string, a *auth.TelegramAuth) *gin.RouterGroup {
	h := handler.Group(path + "/:user_id")
	h.Use(a.TelegramAuthMiddleware(), middleware.OwnerOnly())
	return h
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		logger.Logger().Info("failed to parse user_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return id, true
}

type AchievementResponse struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	UnlockedAt   time.Time `json:"unlocked_at"`
	Acknowledged bool      `json:"acknowledged"`
}

func toAchievementResponse(a *model.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:           a.ID,
		Type:         string(a.Type),
		UnlockedAt:   a.UnlockedAt,
		Acknowledged: a.Acknowledged,
	}
}

func toAchievementResponses(list []*model.Achievement) []AchievementResponse {
	out := make([]AchievementResponse, len(list))
	for i, a := range list {
		out[i] = toAchievementResponse(a)
	}
	return out
}

type ProgressResponse struct {
	Current  int `json:"current"`
	Required int `json:"required"`
}
