package repository

import (
	"context"
	"errors"
	"fmt"

	"wellness_tracker/internal/model"

	"github.com/Masterminds/squirrel"
)

// CountActivity reads the aggregate behind an achievement rule. The activity
// tables are owned by the recorders; the engine only counts.
func (r *Repository) CountActivity(ctx context.Context, userID int64, source model.CounterSource) (int, error) {
	switch source {
	case model.CompletedBreathingSessions:
		return r.count(ctx, r.builder.
			Select("COUNT(*)").
			From("breathing_sessions").
			Where(squirrel.Eq{"user_id": userID, "completed": true}))
	case model.DistinctVideosWatched:
		return r.count(ctx, r.builder.
			Select("COUNT(DISTINCT video_id)").
			From("video_watches").
			Where(squirrel.Eq{"user_id": userID}))
	case model.CompletedJourneys:
		return r.count(ctx, r.builder.
			Select("COUNT(DISTINCT journey_id)").
			From("journey_progress").
			Where(squirrel.And{
				squirrel.Eq{"user_id": userID},
				squirrel.NotEq{"completed_at": nil},
			}))
	case model.SavedReflections:
		return r.count(ctx, r.builder.
			Select("COUNT(*)").
			From("daily_reflections").
			Where(squirrel.Eq{"user_id": userID, "skipped": false}))
	case model.CurrentStreakLength:
		streak, err := r.GetStreak(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return 0, nil
			}
			return 0, fmt.Errorf("failed to read current streak: %w", err)
		}
		return streak.CurrentStreak, nil
	default:
		return 0, fmt.Errorf("unknown counter source %q", source)
	}
}

func (r *Repository) count(ctx context.Context, q squirrel.SelectBuilder) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}

	return n, nil
}

// ListActiveUserIDs returns every user with a streak or any recorded activity.
func (r *Repository) ListActiveUserIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT user_id FROM streaks
		UNION SELECT user_id FROM breathing_sessions
		UNION SELECT user_id FROM video_watches
		UNION SELECT user_id FROM journey_progress
		UNION SELECT user_id FROM daily_reflections
		ORDER BY user_id`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	return ids, nil
}
