package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"wellness_tracker/internal/notify"
	"wellness_tracker/internal/service"
	"wellness_tracker/pkg/auth"
	"wellness_tracker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	MessageAchievement = "achievement"
	MessageAck         = "ack"
	MessageAcked       = "acked"
	MessageError       = "error"

	defaultPollInterval = 30 * time.Second
	writeWait           = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type    string          `json:"type"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type notificationRoutes struct {
	ns           service.NotificationServiceI
	hub          *notify.Hub
	pollInterval time.Duration
}

func NewNotificationRoutes(handler *gin.RouterGroup, ns service.NotificationServiceI, hub *notify.Hub,
	pollInterval time.Duration, a *auth.TelegramAuth) {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	r := &notificationRoutes{ns: ns, hub: hub, pollInterval: pollInterval}
	h := userGroup(handler, "/notifications", a)
	{
		h.GET("", r.ListUnacknowledged)
		h.GET("/next", r.Next)
		h.GET("/ws", r.handleWebSocket)
		h.POST("/:achievement_id/ack", r.Acknowledge)
	}
}

func (r *notificationRoutes) ListUnacknowledged(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	list, err := r.ns.ListUnacknowledged(c.Request.Context(), userID)
	if err != nil {
		logger.Logger().Error("failed to list notifications", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, toAchievementResponses(list))
}

func (r *notificationRoutes) Next(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	next, err := r.ns.Next(c.Request.Context(), userID)
	if err != nil {
		logger.Logger().Error("failed to get next notification", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get next notification"})
		return
	}
	if next == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, toAchievementResponse(next))
}

func (r *notificationRoutes) Acknowledge(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("achievement_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement_id"})
		return
	}

	if err := r.ns.Acknowledge(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrAchievementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "achievement not found"})
			return
		}
		logger.Logger().Error("failed to acknowledge achievement", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to acknowledge achievement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *notificationRoutes) handleWebSocket(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Logger().Error("websocket upgrade failed", zap.Error(err))
		return
	}

	r.deliveryLoop(conn, userID)
}

// deliveryLoop shows one achievement at a time: the oldest unacknowledged
// one is pushed, and the next is pushed only after the client acks it.
func (r *notificationRoutes) deliveryLoop(conn *websocket.Conn, userID int64) {
	log := logger.Logger().With(zap.Int64("user_id", userID))
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		conn.Close()
	}()

	wake, unsubscribe := r.hub.Subscribe(userID)
	defer unsubscribe()

	incoming := make(chan Message)
	go func() {
		defer cancel()
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Info("websocket unexpected close", zap.Error(err))
				}
				return
			}

			var msg Message
			if err := json.Unmarshal(p, &msg); err != nil {
				msg = Message{Type: MessageError}
			}
			select {
			case incoming <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	var shown *uuid.UUID
	push := func() error {
		if shown != nil {
			return nil
		}
		next, err := r.ns.Next(ctx, userID)
		if err != nil || next == nil {
			return err
		}
		payload, err := json.Marshal(toAchievementResponse(next))
		if err != nil {
			return err
		}
		if err := r.write(conn, Message{Type: MessageAchievement, ID: &next.ID, Payload: payload}); err != nil {
			return err
		}
		shown = &next.ID
		return nil
	}

	if err := push(); err != nil {
		log.Warn("failed to push notification", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-wake:
		case <-ticker.C:

		case msg := <-incoming:
			if msg.Type != MessageAck || msg.ID == nil {
				if err := r.writeError(conn, "expected ack with id"); err != nil {
					return
				}
				continue
			}

			if err := r.ns.Acknowledge(ctx, userID, *msg.ID); err != nil {
				log.Warn("failed to acknowledge achievement", zap.Error(err))
				if err := r.writeError(conn, "failed to acknowledge achievement"); err != nil {
					return
				}
				continue
			}
			if shown != nil && *shown == *msg.ID {
				shown = nil
			}
			if err := r.write(conn, Message{Type: MessageAcked, ID: msg.ID}); err != nil {
				return
			}
		}

		if err := push(); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Warn("failed to push notification", zap.Error(err))
		}
	}
}

func (r *notificationRoutes) write(conn *websocket.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (r *notificationRoutes) writeError(conn *websocket.Conn, text string) error {
	payload, _ := json.Marshal(gin.H{"error": text})
	return r.write(conn, Message{Type: MessageError, Payload: payload})
}
