package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"wellness_tracker/internal/model"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers []int64

func (s stubUsers) ListActiveUserIDs(context.Context) ([]int64, error) {
	return s, nil
}

type stubEvaluator map[int64][]model.AchievementType

func (s stubEvaluator) EvaluateAll(_ context.Context, userID int64) ([]model.AchievementType, error) {
	if userID < 0 {
		return nil, errors.New("counter unavailable")
	}
	return s[userID], nil
}

func TestBackfill(t *testing.T) {
	ev := stubEvaluator{
		1: {model.FirstBreathing, model.SelfKnowledge},
		2: nil,
		3: {model.Reflective10},
	}

	var out bytes.Buffer
	total, err := backfill(context.Background(), stubUsers{1, 2, 3}, ev, 0, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Contains(t, out.String(), "user 1: unlocked FIRST_BREATHING")
	assert.Contains(t, out.String(), "3 users evaluated, 3 achievements unlocked")

	out.Reset()
	total, err = backfill(context.Background(), stubUsers{1, 2, 3}, ev, 3, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NotContains(t, out.String(), "user 1")
}

func TestBackfill_ContinuesPastFailures(t *testing.T) {
	ev := stubEvaluator{1: {model.FirstBreathing}}

	var out bytes.Buffer
	total, err := backfill(context.Background(), stubUsers{-1, 1}, ev, 0, &out)
	assert.Error(t, err)
	assert.Equal(t, 1, total)
}

func TestBackfill_SQLite(t *testing.T) {
	ctx := context.Background()
	repo, err := repository.New(repository.Config{
		Driver: repository.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "backfill.db"),
	})
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Migrate(ctx))

	svc, err := newService(repo, service.DefaultStreakPolicy())
	require.NoError(t, err)

	// Streak history imported before the engine ran.
	_, err = repo.UpdateStreak(ctx, 11, func(*model.StreakRecord) (*model.StreakRecord, error) {
		return &model.StreakRecord{UserID: 11, CurrentStreak: 8, LongestStreak: 8, LastCheckIn: time.Now().UTC()}, nil
	})
	require.NoError(t, err)

	var out bytes.Buffer
	total, err := backfill(ctx, repo, svc.AchievementService, 0, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Contains(t, out.String(), "user 11: unlocked SEVEN_DAYS_JOURNEY")
	assert.Contains(t, out.String(), "1 users evaluated")

	// A second run is a no-op.
	total, err = backfill(ctx, repo, svc.AchievementService, 11, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
