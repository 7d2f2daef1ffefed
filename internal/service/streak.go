package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wellness_tracker/internal/model"
	"wellness_tracker/internal/repository"
	"wellness_tracker/pkg/logger"

	"go.uber.org/zap"
)

// StreakPolicy holds the gap boundaries measured from the last accepted check-in.
// Below DuplicateWindow a check-in repeats the current day, below ContinueWindow
// it extends the streak, below GraceWindow it extends the streak by spending the
// rest day, and anything later breaks the streak.
type StreakPolicy struct {
	DuplicateWindow time.Duration `mapstructure:"duplicateWindow"`
	ContinueWindow  time.Duration `mapstructure:"continueWindow"`
	GraceWindow     time.Duration `mapstructure:"graceWindow"`
}

func DefaultStreakPolicy() StreakPolicy {
	return StreakPolicy{
		DuplicateWindow: 24 * time.Hour,
		ContinueWindow:  48 * time.Hour,
		GraceWindow:     72 * time.Hour,
	}
}

func (p StreakPolicy) Validate() error {
	if p.DuplicateWindow <= 0 {
		return fmt.Errorf("streak duplicate window must be positive, got %s", p.DuplicateWindow)
	}
	if p.ContinueWindow <= p.DuplicateWindow {
		return fmt.Errorf("streak continue window %s must exceed duplicate window %s", p.ContinueWindow, p.DuplicateWindow)
	}
	if p.GraceWindow < p.ContinueWindow {
		return fmt.Errorf("streak grace window %s must not be shorter than continue window %s", p.GraceWindow, p.ContinueWindow)
	}
	return nil
}

type StreakStep struct {
	NewStreak   int
	UsedRestDay bool
	Outcome     model.CheckInOutcome
}

// ComputeNextStreak derives the streak that results from checking in at now.
func ComputeNextStreak(p StreakPolicy, currentStreak int, lastCheckIn time.Time, restDayUsed bool, now time.Time) StreakStep {
	gap := now.Sub(lastCheckIn)

	switch {
	case gap < p.DuplicateWindow:
		return StreakStep{NewStreak: currentStreak, UsedRestDay: restDayUsed, Outcome: model.CheckInAlreadyCheckedIn}
	case gap < p.ContinueWindow:
		return StreakStep{NewStreak: currentStreak + 1, UsedRestDay: restDayUsed, Outcome: model.CheckInIncreased}
	case gap < p.GraceWindow && !restDayUsed:
		return StreakStep{NewStreak: currentStreak + 1, UsedRestDay: true, Outcome: model.CheckInIncreased}
	default:
		// A real break refreshes the rest day.
		return StreakStep{NewStreak: 1, UsedRestDay: false, Outcome: model.CheckInReset}
	}
}

// StreakUnlocker is the part of the achievement engine a check-in drives.
type StreakUnlocker interface {
	TryUnlock(ctx context.Context, userID int64, achievementType model.AchievementType) (bool, error)
}

type StreakService struct {
	repo     StreakRepository
	policy   StreakPolicy
	unlocker StreakUnlocker
}

func NewStreakService(repo StreakRepository, policy StreakPolicy, unlocker StreakUnlocker) (*StreakService, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &StreakService{
		repo:     repo,
		policy:   policy,
		unlocker: unlocker,
	}, nil
}

func (s *StreakService) CheckIn(ctx context.Context, userID int64, now time.Time) (*model.CheckInResult, error) {
	now = now.UTC()
	var step StreakStep

	rec, err := s.repo.UpdateStreak(ctx, userID, func(current *model.StreakRecord) (*model.StreakRecord, error) {
		if current == nil {
			step = StreakStep{NewStreak: 1, Outcome: model.CheckInStarted}
			return &model.StreakRecord{
				UserID:        userID,
				CurrentStreak: 1,
				LongestStreak: 1,
				LastCheckIn:   now,
			}, nil
		}

		step = ComputeNextStreak(s.policy, current.CurrentStreak, current.LastCheckIn, current.RestDayUsed, now)
		if step.Outcome == model.CheckInAlreadyCheckedIn {
			return nil, nil
		}

		return &model.StreakRecord{
			UserID:        userID,
			CurrentStreak: step.NewStreak,
			LongestStreak: max(current.LongestStreak, step.NewStreak),
			LastCheckIn:   now,
			RestDayUsed:   step.UsedRestDay,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check in: %w", err)
	}

	result := &model.CheckInResult{
		Outcome:          step.Outcome,
		CurrentStreak:    rec.CurrentStreak,
		LongestStreak:    rec.LongestStreak,
		StreakIncreased:  step.Outcome == model.CheckInIncreased || step.Outcome == model.CheckInStarted,
		IsReset:          step.Outcome == model.CheckInReset,
		UsedRestDay:      rec.RestDayUsed,
		AlreadyCheckedIn: step.Outcome == model.CheckInAlreadyCheckedIn,
	}

	if result.StreakIncreased {
		result.Unlocked = s.unlockStreakAchievements(ctx, userID, rec.CurrentStreak)
	}

	return result, nil
}

// unlockStreakAchievements attempts every streak rule the new length satisfies.
// The check-in is already committed, so unlock failures are logged and retried
// by the next check-in instead of being returned.
func (s *StreakService) unlockStreakAchievements(ctx context.Context, userID int64, streak int) []model.AchievementType {
	if s.unlocker == nil {
		return nil
	}

	var unlocked []model.AchievementType
	for _, rule := range StreakRules() {
		if streak < rule.RequiredCount {
			continue
		}

		ok, err := s.unlocker.TryUnlock(ctx, userID, rule.Type)
		if err != nil {
			logger.Logger().Warn("failed to unlock streak achievement",
				zap.Int64("user_id", userID),
				zap.String("type", string(rule.Type)),
				zap.Error(err))
			continue
		}
		if ok {
			unlocked = append(unlocked, rule.Type)
		}
	}

	return unlocked
}

func (s *StreakService) GetStreak(ctx context.Context, userID int64, now time.Time) (*model.StreakStatus, error) {
	rec, err := s.repo.GetStreak(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStreakNotFound
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	expiresAt := rec.LastCheckIn.Add(s.policy.ContinueWindow)
	if !rec.RestDayUsed {
		expiresAt = rec.LastCheckIn.Add(s.policy.GraceWindow)
	}
	nextCheckIn := rec.LastCheckIn.Add(s.policy.DuplicateWindow)

	return &model.StreakStatus{
		UserID:          rec.UserID,
		CurrentStreak:   rec.CurrentStreak,
		LongestStreak:   rec.LongestStreak,
		LastCheckIn:     rec.LastCheckIn,
		RestDayUsed:     rec.RestDayUsed,
		NextCheckInAt:   nextCheckIn,
		StreakExpiresAt: expiresAt,
		CanCheckIn:      !now.Before(nextCheckIn),
	}, nil
}
