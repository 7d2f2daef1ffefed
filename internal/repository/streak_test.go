package repository

import (
	"context"
	"testing"
	"time"

	"wellness_tracker/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)

func TestGetStreak_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetStreak(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStreak(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.UpdateStreak(ctx, 7, func(current *model.StreakRecord) (*model.StreakRecord, error) {
		assert.Nil(t, current)
		return &model.StreakRecord{UserID: 7, CurrentStreak: 1, LongestStreak: 1, LastCheckIn: baseTime}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.CurrentStreak)

	updated, err := repo.UpdateStreak(ctx, 7, func(current *model.StreakRecord) (*model.StreakRecord, error) {
		require.NotNil(t, current)
		assert.Equal(t, 1, current.CurrentStreak)
		assert.True(t, current.LastCheckIn.Equal(baseTime))
		return &model.StreakRecord{
			UserID:        7,
			CurrentStreak: 2,
			LongestStreak: 2,
			LastCheckIn:   baseTime.Add(50 * time.Hour),
			RestDayUsed:   true,
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentStreak)

	stored, err := repo.GetStreak(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stored.UserID)
	assert.Equal(t, 2, stored.CurrentStreak)
	assert.Equal(t, 2, stored.LongestStreak)
	assert.True(t, stored.RestDayUsed)
	assert.True(t, stored.LastCheckIn.Equal(baseTime.Add(50*time.Hour)))
}

func TestUpdateStreak_NilLeavesRowUntouched(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.UpdateStreak(ctx, 8, func(*model.StreakRecord) (*model.StreakRecord, error) {
		return &model.StreakRecord{UserID: 8, CurrentStreak: 3, LongestStreak: 4, LastCheckIn: baseTime}, nil
	})
	require.NoError(t, err)

	current, err := repo.UpdateStreak(ctx, 8, func(*model.StreakRecord) (*model.StreakRecord, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, current.CurrentStreak)

	// A nil update for a user without a row creates nothing.
	none, err := repo.UpdateStreak(ctx, 80, func(*model.StreakRecord) (*model.StreakRecord, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = repo.GetStreak(ctx, 80)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStreak_ErrorRollsBack(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.UpdateStreak(ctx, 9, func(*model.StreakRecord) (*model.StreakRecord, error) {
		return &model.StreakRecord{UserID: 9, CurrentStreak: 1, LongestStreak: 1, LastCheckIn: baseTime}, nil
	})
	require.NoError(t, err)

	_, err = repo.UpdateStreak(ctx, 9, func(*model.StreakRecord) (*model.StreakRecord, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	// The check constraint rejects the write and the transaction leaves the row as it was.
	_, err = repo.UpdateStreak(ctx, 9, func(*model.StreakRecord) (*model.StreakRecord, error) {
		return &model.StreakRecord{UserID: 9, CurrentStreak: 5, LongestStreak: 2, LastCheckIn: baseTime.Add(time.Hour)}, nil
	})
	assert.Error(t, err)

	stored, err := repo.GetStreak(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)
	assert.True(t, stored.LastCheckIn.Equal(baseTime))
}
