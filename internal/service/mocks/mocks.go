package mocks

import (
	"context"
	"time"

	"wellness_tracker/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStreakRepository returns the configured record as the stored state and
// runs the update callback against it, keeping every record written.
type MockStreakRepository struct {
	mock.Mock
	Written []*model.StreakRecord
}

func (m *MockStreakRepository) GetStreak(ctx context.Context, userID int64) (*model.StreakRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StreakRecord), args.Error(1)
}

func (m *MockStreakRepository) UpdateStreak(ctx context.Context, userID int64,
	update func(current *model.StreakRecord) (*model.StreakRecord, error)) (*model.StreakRecord, error) {
	args := m.Called(ctx, userID)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	var current *model.StreakRecord
	if stored, _ := args.Get(0).(*model.StreakRecord); stored != nil {
		clone := *stored
		current = &clone
	}

	next, err := update(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}

	m.Written = append(m.Written, next)
	return next, nil
}

type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) CreateAchievementIfAbsent(ctx context.Context, a *model.Achievement) (bool, error) {
	args := m.Called(ctx, a)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepository) ListAchievements(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Achievement), args.Error(1)
}

type MockActivityCounter struct {
	mock.Mock
}

func (m *MockActivityCounter) CountActivity(ctx context.Context, userID int64, source model.CounterSource) (int, error) {
	args := m.Called(ctx, userID, source)
	return args.Int(0), args.Error(1)
}

type MockStreakUnlocker struct {
	mock.Mock
}

func (m *MockStreakUnlocker) TryUnlock(ctx context.Context, userID int64, achievementType model.AchievementType) (bool, error) {
	args := m.Called(ctx, userID, achievementType)
	return args.Bool(0), args.Error(1)
}

type MockUnlockNotifier struct {
	mock.Mock
}

func (m *MockUnlockNotifier) NotifyUnlocked(ctx context.Context, a *model.Achievement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) ListUnacknowledgedAchievements(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Achievement), args.Error(1)
}

func (m *MockNotificationRepository) AcknowledgeAchievement(ctx context.Context, userID int64, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockStreakService struct {
	mock.Mock
}

func (m *MockStreakService) CheckIn(ctx context.Context, userID int64, now time.Time) (*model.CheckInResult, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckInResult), args.Error(1)
}

func (m *MockStreakService) GetStreak(ctx context.Context, userID int64, now time.Time) (*model.StreakStatus, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StreakStatus), args.Error(1)
}

type MockAchievementService struct {
	mock.Mock
}

func (m *MockAchievementService) TryUnlock(ctx context.Context, userID int64, achievementType model.AchievementType) (bool, error) {
	args := m.Called(ctx, userID, achievementType)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementService) GetProgress(ctx context.Context, userID int64, achievementType model.AchievementType) (*model.Progress, error) {
	args := m.Called(ctx, userID, achievementType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockAchievementService) ListAchievements(ctx context.Context, userID int64) ([]*model.AchievementStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AchievementStatus), args.Error(1)
}

func (m *MockAchievementService) EvaluateAll(ctx context.Context, userID int64) ([]model.AchievementType, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AchievementType), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) ListUnacknowledged(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Achievement), args.Error(1)
}

func (m *MockNotificationService) Next(ctx context.Context, userID int64) (*model.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Achievement), args.Error(1)
}

func (m *MockNotificationService) Acknowledge(ctx context.Context, userID int64, achievementID uuid.UUID) error {
	args := m.Called(ctx, userID, achievementID)
	return args.Error(0)
}
