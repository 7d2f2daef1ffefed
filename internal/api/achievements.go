package api

import (
	"errors"
	"net/http"
	"time"

	"wellness_tracker/internal/middleware"
	"wellness_tracker/internal/service"
	"wellness_tracker/pkg/auth"
	"wellness_tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type achievementRoutes struct {
	as service.AchievementServiceI
}

func NewAchievementRoutes(handler *gin.RouterGroup, as service.AchievementServiceI, a *auth.TelegramAuth, limiter *middleware.RateLimiter) {
	r := &achievementRoutes{as: as}
	h := userGroup(handler, "/achievements", a)
	{
		h.GET("", r.ListAchievements)
		h.POST("/unlock", limiter.Middleware(), r.TryUnlock)
		h.GET("/:type/progress", r.GetProgress)
	}
}

type UnlockRequest struct {
	Type string `json:"type" binding:"required"`
}

type AchievementStatusResponse struct {
	Type          string           `json:"type"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	RequiredCount int              `json:"required_count"`
	Progress      ProgressResponse `json:"progress"`
	Unlocked      bool             `json:"unlocked"`
	UnlockedAt    *time.Time       `json:"unlocked_at"`
	Acknowledged  bool             `json:"acknowledged"`
	ID            *uuid.UUID       `json:"id,omitempty"`
}

// respondAchievementError maps engine errors onto HTTP statuses.
func respondAchievementError(c *gin.Context, userID int64, msg string, err error) {
	if errors.Is(err, service.ErrInvalidAchievementType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement type"})
		return
	}
	logger.Logger().Error(msg, zap.Int64("user_id", userID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (r *achievementRoutes) TryUnlock(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	achievementType, err := service.ParseAchievementType(req.Type)
	if err != nil {
		respondAchievementError(c, userID, "failed to unlock achievement", err)
		return
	}

	unlocked, err := r.as.TryUnlock(c.Request.Context(), userID, achievementType)
	if err != nil {
		respondAchievementError(c, userID, "failed to unlock achievement", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unlocked": unlocked})
}

func (r *achievementRoutes) GetProgress(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	achievementType, err := service.ParseAchievementType(c.Param("type"))
	if err != nil {
		respondAchievementError(c, userID, "failed to get progress", err)
		return
	}

	progress, err := r.as.GetProgress(c.Request.Context(), userID, achievementType)
	if err != nil {
		respondAchievementError(c, userID, "failed to get progress", err)
		return
	}

	c.JSON(http.StatusOK, ProgressResponse{
		Current:  progress.Current,
		Required: progress.Required,
	})
}

func (r *achievementRoutes) ListAchievements(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	statuses, err := r.as.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		respondAchievementError(c, userID, "failed to list achievements", err)
		return
	}

	out := make([]AchievementStatusResponse, len(statuses))
	for i, s := range statuses {
		out[i] = AchievementStatusResponse{
			Type:          string(s.Rule.Type),
			Title:         s.Rule.Title,
			Description:   s.Rule.Description,
			RequiredCount: s.Rule.RequiredCount,
			Progress: ProgressResponse{
				Current:  s.Progress.Current,
				Required: s.Progress.Required,
			},
			Unlocked:     s.Unlocked,
			UnlockedAt:   s.UnlockedAt,
			Acknowledged: s.Acknowledged,
			ID:           s.ID,
		}
	}

	c.JSON(http.StatusOK, out)
}
