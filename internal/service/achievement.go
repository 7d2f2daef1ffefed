package service

import (
	"context"
	"fmt"
	"time"

	"wellness_tracker/internal/model"
	"wellness_tracker/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AchievementService struct {
	repo      AchievementRepository
	counter   ActivityCounter
	notifiers []UnlockNotifier
	now       func() time.Time
}

func NewAchievementService(repo AchievementRepository, counter ActivityCounter, notifiers ...UnlockNotifier) *AchievementService {
	return &AchievementService{
		repo:      repo,
		counter:   counter,
		notifiers: notifiers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// TryUnlock re-derives the rule's counter and unlocks the achievement when the
// threshold is met. It reports true only for the call whose insert created the
// row; concurrent or repeated calls for an unlocked achievement report false.
func (s *AchievementService) TryUnlock(ctx context.Context, userID int64, achievementType model.AchievementType) (bool, error) {
	rule, err := RuleFor(achievementType)
	if err != nil {
		return false, err
	}

	count, err := s.counter.CountActivity(ctx, userID, rule.ProgressSource)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", rule.ProgressSource, err)
	}
	if count < rule.RequiredCount {
		return false, nil
	}

	achievement := &model.Achievement{
		ID:         uuid.New(),
		UserID:     userID,
		Type:       rule.Type,
		UnlockedAt: s.now(),
	}

	created, err := s.repo.CreateAchievementIfAbsent(ctx, achievement)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	if !created {
		return false, nil
	}

	logger.Logger().Info("achievement unlocked",
		zap.Int64("user_id", userID),
		zap.String("type", string(rule.Type)),
		zap.Int("count", count))

	s.notify(ctx, achievement)

	return true, nil
}

func (s *AchievementService) notify(ctx context.Context, a *model.Achievement) {
	for _, n := range s.notifiers {
		if err := n.NotifyUnlocked(ctx, a); err != nil {
			logger.Logger().Warn("failed to notify unlock",
				zap.Int64("user_id", a.UserID),
				zap.String("type", string(a.Type)),
				zap.Error(err))
		}
	}
}

// GetProgress reports the counter against the threshold, clamped to the
// threshold for display.
func (s *AchievementService) GetProgress(ctx context.Context, userID int64, achievementType model.AchievementType) (*model.Progress, error) {
	rule, err := RuleFor(achievementType)
	if err != nil {
		return nil, err
	}

	count, err := s.counter.CountActivity(ctx, userID, rule.ProgressSource)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rule.ProgressSource, err)
	}

	return &model.Progress{
		Current:  min(count, rule.RequiredCount),
		Required: rule.RequiredCount,
	}, nil
}

func (s *AchievementService) ListAchievements(ctx context.Context, userID int64) ([]*model.AchievementStatus, error) {
	unlocked, err := s.repo.ListAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	byType := make(map[model.AchievementType]*model.Achievement, len(unlocked))
	for _, a := range unlocked {
		byType[a.Type] = a
	}

	// Sources shared by several rules are counted once.
	counts := make(map[model.CounterSource]int)
	statuses := make([]*model.AchievementStatus, 0, len(achievementRules))
	for _, rule := range achievementRules {
		count, ok := counts[rule.ProgressSource]
		if !ok {
			count, err = s.counter.CountActivity(ctx, userID, rule.ProgressSource)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", rule.ProgressSource, err)
			}
			counts[rule.ProgressSource] = count
		}

		status := &model.AchievementStatus{
			Rule: rule,
			Progress: model.Progress{
				Current:  min(count, rule.RequiredCount),
				Required: rule.RequiredCount,
			},
		}
		if a, ok := byType[rule.Type]; ok {
			unlockedAt := a.UnlockedAt
			id := a.ID
			status.Unlocked = true
			status.UnlockedAt = &unlockedAt
			status.Acknowledged = a.Acknowledged
			status.ID = &id
			// An unlocked achievement stays complete even if its counter drops.
			status.Progress.Current = rule.RequiredCount
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// EvaluateAll attempts every rule for the user and returns the newly unlocked types.
func (s *AchievementService) EvaluateAll(ctx context.Context, userID int64) ([]model.AchievementType, error) {
	var unlocked []model.AchievementType
	for _, rule := range achievementRules {
		ok, err := s.TryUnlock(ctx, userID, rule.Type)
		if err != nil {
			return unlocked, err
		}
		if ok {
			unlocked = append(unlocked, rule.Type)
		}
	}
	return unlocked, nil
}
