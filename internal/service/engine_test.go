package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"wellness_tracker/internal/model"
	"wellness_tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engine struct {
	repo          *repository.Repository
	streaks       *StreakService
	achievements  *AchievementService
	notifications *NotificationService
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	repo, err := repository.New(repository.Config{
		Driver: repository.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "engine.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Migrate(context.Background()))

	achievements := NewAchievementService(repo, repo)
	streaks, err := NewStreakService(repo, DefaultStreakPolicy(), achievements)
	require.NoError(t, err)

	return &engine{
		repo:          repo,
		streaks:       streaks,
		achievements:  achievements,
		notifications: NewNotificationService(repo),
	}
}

func TestEngine_SevenDayStreakUnlocksOnce(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	start := time.Date(2026, time.May, 1, 7, 0, 0, 0, time.UTC)

	var last *model.CheckInResult
	for day := 0; day < 7; day++ {
		res, err := e.streaks.CheckIn(ctx, 100, start.Add(time.Duration(day)*30*time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.LongestStreak, res.CurrentStreak)
		last = res
	}

	assert.Equal(t, 7, last.CurrentStreak)
	assert.Equal(t, []model.AchievementType{model.SevenDaysJourney}, last.Unlocked)

	pending, err := e.notifications.ListUnacknowledged(ctx, 100)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.SevenDaysJourney, pending[0].Type)
	assert.False(t, pending[0].Acknowledged)
	assert.False(t, pending[0].UnlockedAt.IsZero())

	// The next day re-attempts the seven day rule without a second row.
	res, err := e.streaks.CheckIn(ctx, 100, start.Add(7*30*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 8, res.CurrentStreak)
	assert.Empty(t, res.Unlocked)

	all, err := e.repo.ListAchievements(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, e.notifications.Acknowledge(ctx, 100, pending[0].ID))
	require.NoError(t, e.notifications.Acknowledge(ctx, 100, pending[0].ID))

	next, err := e.notifications.Next(ctx, 100)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestEngine_DuplicateCheckInChangesNothing(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	start := time.Date(2026, time.May, 1, 7, 0, 0, 0, time.UTC)

	_, err := e.streaks.CheckIn(ctx, 101, start)
	require.NoError(t, err)
	_, err = e.streaks.CheckIn(ctx, 101, start.Add(30*time.Hour))
	require.NoError(t, err)

	before, err := e.repo.GetStreak(ctx, 101)
	require.NoError(t, err)

	res, err := e.streaks.CheckIn(ctx, 101, start.Add(40*time.Hour))
	require.NoError(t, err)
	assert.True(t, res.AlreadyCheckedIn)
	assert.Equal(t, model.CheckInAlreadyCheckedIn, res.Outcome)

	after, err := e.repo.GetStreak(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, before.CurrentStreak, after.CurrentStreak)
	assert.Equal(t, before.LongestStreak, after.LongestStreak)
	assert.True(t, before.LastCheckIn.Equal(after.LastCheckIn))
}

func TestEngine_ConcurrentCheckInsIncrementOnce(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	start := time.Date(2026, time.May, 1, 7, 0, 0, 0, time.UTC)

	_, err := e.streaks.CheckIn(ctx, 102, start)
	require.NoError(t, err)

	const callers = 16
	results := make([]*model.CheckInResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.streaks.CheckIn(ctx, 102, start.Add(30*time.Hour))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	increased := 0
	for _, res := range results {
		require.NotNil(t, res)
		if res.StreakIncreased {
			increased++
		} else {
			assert.True(t, res.AlreadyCheckedIn)
		}
	}
	assert.Equal(t, 1, increased)

	stored, err := e.repo.GetStreak(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CurrentStreak)
}

func TestEngine_ConcurrentFirstCheckInsCreateOnce(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	now := time.Date(2026, time.May, 1, 7, 0, 0, 0, time.UTC)

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.streaks.CheckIn(ctx, 103, now)
			if !assert.NoError(t, err) {
				return
			}
			if res.Outcome == model.CheckInStarted {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
}

type fixedCounter int

func (c fixedCounter) CountActivity(context.Context, int64, model.CounterSource) (int, error) {
	return int(c), nil
}

func TestEngine_ConcurrentTryUnlock(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	achievements := NewAchievementService(e.repo, fixedCounter(9))

	progress, err := achievements.GetProgress(ctx, 104, model.Explorer5Videos)
	require.NoError(t, err)
	assert.Equal(t, &model.Progress{Current: 5, Required: 5}, progress)

	const callers = 24
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := achievements.TryUnlock(ctx, 104, model.Explorer5Videos)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)

	all, err := e.repo.ListAchievements(ctx, 104)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.Explorer5Videos, all[0].Type)
	assert.False(t, all[0].Acknowledged)
}
