package notify

import (
	"context"
	"fmt"
	"time"

	"wellness_tracker/internal/model"
	"wellness_tracker/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultRedisChannel = "wellness:achievements:unlocked"

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// unlockEvent is published for every winning unlock so that consumers
// connected to other instances are woken too.
type unlockEvent struct {
	Origin        string                `json:"origin"`
	UserID        int64                 `json:"user_id"`
	AchievementID uuid.UUID             `json:"achievement_id"`
	Type          model.AchievementType `json:"type"`
	UnlockedAt    time.Time             `json:"unlocked_at"`
}

type RedisNotifier struct {
	client  *redis.Client
	channel string
	origin  string
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
		origin:  uuid.NewString(),
	}
}

func (n *RedisNotifier) encode(a *model.Achievement) ([]byte, error) {
	return json.Marshal(unlockEvent{
		Origin:        n.origin,
		UserID:        a.UserID,
		AchievementID: a.ID,
		Type:          a.Type,
		UnlockedAt:    a.UnlockedAt,
	})
}

// decode returns the event and whether it came from another instance.
func (n *RedisNotifier) decode(payload string) (*unlockEvent, bool, error) {
	var ev unlockEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, false, err
	}
	return &ev, ev.Origin != n.origin, nil
}

func (n *RedisNotifier) NotifyUnlocked(ctx context.Context, a *model.Achievement) error {
	payload, err := n.encode(a)
	if err != nil {
		return fmt.Errorf("failed to encode unlock event: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish unlock event: %w", err)
	}

	return nil
}

// Listen forwards unlocks published by other instances into hub until ctx
// is done.
func (n *RedisNotifier) Listen(ctx context.Context, hub *Hub) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.channel, err)
	}

	log := logger.Logger()
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			ev, remote, err := n.decode(msg.Payload)
			if err != nil {
				log.Warn("malformed unlock event", zap.Error(err))
				continue
			}
			if remote {
				hub.Wake(ev.UserID)
			}
		}
	}
}
