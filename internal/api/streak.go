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
	"go.uber.org/zap"
)

type streakRoutes struct {
	ss  service.StreakServiceI
	now func() time.Time
}

func NewStreakRoutes(handler *gin.RouterGroup, ss service.StreakServiceI, a *auth.TelegramAuth, limiter *middleware.RateLimiter) {
	r := &streakRoutes{ss: ss, now: time.Now}
	h := userGroup(handler, "/streak", a)
	{
		h.GET("", r.GetStreak)
		h.POST("/checkin", limiter.Middleware(), r.CheckIn)
	}
}

type CheckInResponse struct {
	Outcome          string   `json:"outcome"`
	CurrentStreak    int      `json:"current_streak"`
	LongestStreak    int      `json:"longest_streak"`
	StreakIncreased  bool     `json:"streak_increased"`
	IsReset          bool     `json:"is_reset"`
	UsedRestDay      bool     `json:"used_rest_day"`
	AlreadyCheckedIn bool     `json:"already_checked_in"`
	Unlocked         []string `json:"unlocked"`
}

type StreakResponse struct {
	UserID          int64     `json:"user_id"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	LastCheckIn     time.Time `json:"last_check_in"`
	RestDayUsed     bool      `json:"rest_day_used"`
	NextCheckInAt   time.Time `json:"next_check_in_at"`
	StreakExpiresAt time.Time `json:"streak_expires_at"`
	CanCheckIn      bool      `json:"can_check_in"`
}

func (r *streakRoutes) CheckIn(c *gin.Context) {
	log := logger.Logger()

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	res, err := r.ss.CheckIn(c.Request.Context(), userID, r.now())
	if err != nil {
		log.Error("failed to check in", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check in"})
		return
	}

	unlocked := make([]string, len(res.Unlocked))
	for i, t := range res.Unlocked {
		unlocked[i] = string(t)
	}

	c.JSON(http.StatusOK, CheckInResponse{
		Outcome:          string(res.Outcome),
		CurrentStreak:    res.CurrentStreak,
		LongestStreak:    res.LongestStreak,
		StreakIncreased:  res.StreakIncreased,
		IsReset:          res.IsReset,
		UsedRestDay:      res.UsedRestDay,
		AlreadyCheckedIn: res.AlreadyCheckedIn,
		Unlocked:         unlocked,
	})
}

func (r *streakRoutes) GetStreak(c *gin.Context) {
	log := logger.Logger()

	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	status, err := r.ss.GetStreak(c.Request.Context(), userID, r.now())
	if err != nil {
		if errors.Is(err, service.ErrStreakNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "streak not found"})
			return
		}
		log.Error("failed to get streak", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get streak"})
		return
	}

	c.JSON(http.StatusOK, StreakResponse{
		UserID:          status.UserID,
		CurrentStreak:   status.CurrentStreak,
		LongestStreak:   status.LongestStreak,
		LastCheckIn:     status.LastCheckIn,
		RestDayUsed:     status.RestDayUsed,
		NextCheckInAt:   status.NextCheckInAt,
		StreakExpiresAt: status.StreakExpiresAt,
		CanCheckIn:      status.CanCheckIn,
	})
}
