package service

import (
	"context"
	"errors"
	"fmt"

	"wellness_tracker/internal/model"
	"wellness_tracker/internal/repository"

	"github.com/google/uuid"
)

// NotificationService exposes unlocked but unseen achievements. Showing one
// at a time is left to the consumer.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{
		repo: repo,
	}
}

func (s *NotificationService) ListUnacknowledged(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	achievements, err := s.repo.ListUnacknowledgedAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unacknowledged achievements: %w", err)
	}
	return achievements, nil
}

// Next returns the oldest unacknowledged achievement, or nil when there is none.
func (s *NotificationService) Next(ctx context.Context, userID int64) (*model.Achievement, error) {
	achievements, err := s.ListUnacknowledged(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(achievements) == 0 {
		return nil, nil
	}
	return achievements[0], nil
}

func (s *NotificationService) Acknowledge(ctx context.Context, userID int64, achievementID uuid.UUID) error {
	err := s.repo.AcknowledgeAchievement(ctx, userID, achievementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAchievementNotFound
		}
		return fmt.Errorf("failed to acknowledge achievement: %w", err)
	}
	return nil
}
