package middleware

import (
	"net/http"
	"strconv"

	"wellness_tracker/pkg/auth"
	"wellness_tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDParam = "user_id"

// OwnerOnly lets a caller touch only the streak, achievements and
// notifications addressed by their own Telegram id.
func OwnerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		telegramUser, ok := auth.UserFromContext(c)
		if !ok {
			log.Error("telegram user data not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := strconv.ParseInt(c.Param(userIDParam), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		if userID != telegramUser.ID {
			log.Info("access to another user's progress denied",
				zap.Int64("telegram_id", telegramUser.ID),
				zap.Int64("user_id", userID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		c.Next()
	}
}
