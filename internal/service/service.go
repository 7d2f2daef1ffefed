package service

import (
	"context"
	"errors"
	"time"

	"wellness_tracker/internal/model"

	"github.com/google/uuid"
)

var (
	ErrInvalidAchievementType = errors.New("invalid achievement type")
	ErrAchievementNotFound    = errors.New("achievement not found")
	ErrStreakNotFound         = errors.New("streak not found")
)

type Service struct {
	*StreakService
	*AchievementService
	*NotificationService
}

func NewService(streaks *StreakService, achievements *AchievementService, notifications *NotificationService) *Service {
	return &Service{
		StreakService:       streaks,
		AchievementService:  achievements,
		NotificationService: notifications,
	}
}

type StreakServiceI interface {
	CheckIn(ctx context.Context, userID int64, now time.Time) (*model.CheckInResult, error)
	GetStreak(ctx context.Context, userID int64, now time.Time) (*model.StreakStatus, error)
}

type StreakRepository interface {
	GetStreak(ctx context.Context, userID int64) (*model.StreakRecord, error)
	UpdateStreak(ctx context.Context, userID int64,
		update func(current *model.StreakRecord) (*model.StreakRecord, error)) (*model.StreakRecord, error)
}

type AchievementServiceI interface {
	TryUnlock(ctx context.Context, userID int64, achievementType model.AchievementType) (bool, error)
	GetProgress(ctx context.Context, userID int64, achievementType model.AchievementType) (*model.Progress, error)
	ListAchievements(ctx context.Context, userID int64) ([]*model.AchievementStatus, error)
	EvaluateAll(ctx context.Context, userID int64) ([]model.AchievementType, error)
}

type AchievementRepository interface {
	CreateAchievementIfAbsent(ctx context.Context, a *model.Achievement) (bool, error)
	ListAchievements(ctx context.Context, userID int64) ([]*model.Achievement, error)
}

type ActivityCounter interface {
	CountActivity(ctx context.Context, userID int64, source model.CounterSource) (int, error)
}

// UnlockNotifier is told about every achievement this process newly unlocked.
type UnlockNotifier interface {
	NotifyUnlocked(ctx context.Context, a *model.Achievement) error
}

type NotificationServiceI interface {
	ListUnacknowledged(ctx context.Context, userID int64) ([]*model.Achievement, error)
	Next(ctx context.Context, userID int64) (*model.Achievement, error)
	Acknowledge(ctx context.Context, userID int64, achievementID uuid.UUID) error
}

type NotificationRepository interface {
	ListUnacknowledgedAchievements(ctx context.Context, userID int64) ([]*model.Achievement, error)
	AcknowledgeAchievement(ctx context.Context, userID int64, id uuid.UUID) error
}
