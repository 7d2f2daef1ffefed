package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wellness_tracker/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Streak struct {
	UserID        int64     `db:"user_id"`
	CurrentStreak int       `db:"current_streak"`
	LongestStreak int       `db:"longest_streak"`
	LastCheckIn   time.Time `db:"last_check_in"`
	RestDayUsed   bool      `db:"rest_day_used"`
}

func (s *Streak) toModel() *model.StreakRecord {
	return &model.StreakRecord{
		UserID:        s.UserID,
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
		LastCheckIn:   s.LastCheckIn.UTC(),
		RestDayUsed:   s.RestDayUsed,
	}
}

var streakColumns = []string{"user_id", "current_streak", "longest_streak", "last_check_in", "rest_day_used"}

func (r *Repository) GetStreak(ctx context.Context, userID int64) (*model.StreakRecord, error) {
	query, args, err := r.builder.
		Select(streakColumns...).
		From("streaks").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var streak Streak
	err = r.db.GetContext(ctx, &streak, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return streak.toModel(), nil
}

// UpdateStreak runs a serialized read-modify-write of the user's streak row.
// update receives the locked record, or nil when the user has none yet, and
// returns the record to persist; a nil return leaves the row untouched.
// update may be invoked twice when a concurrent first check-in wins the
// creation race, so it must not have side effects beyond its return value.
func (r *Repository) UpdateStreak(ctx context.Context, userID int64,
	update func(current *model.StreakRecord) (*model.StreakRecord, error)) (*model.StreakRecord, error) {
	var result *model.StreakRecord

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := r.lockStreak(ctx, tx, userID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		if current == nil {
			next, err := update(nil)
			if err != nil {
				return err
			}
			if next == nil {
				return nil
			}

			created, err := r.insertStreak(ctx, tx, userID, next)
			if err != nil {
				return err
			}
			if created {
				result = next
				return nil
			}

			// Lost the creation race; continue from the committed row.
			current, err = r.lockStreak(ctx, tx, userID)
			if err != nil {
				return err
			}
		}

		next, err := update(current)
		if err != nil {
			return err
		}
		if next == nil {
			result = current
			return nil
		}

		if err := r.writeStreak(ctx, tx, userID, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Repository) lockStreak(ctx context.Context, tx *sqlx.Tx, userID int64) (*model.StreakRecord, error) {
	query, args, err := r.forUpdate(r.builder.
		Select(streakColumns...).
		From("streaks").
		Where(squirrel.Eq{"user_id": userID})).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build streak select query: %w", err)
	}

	var streak Streak
	err = tx.GetContext(ctx, &streak, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select streak: %w", err)
	}

	return streak.toModel(), nil
}

func (r *Repository) insertStreak(ctx context.Context, tx *sqlx.Tx, userID int64, rec *model.StreakRecord) (bool, error) {
	query, args, err := r.builder.
		Insert("streaks").
		SetMap(map[string]interface{}{
			"user_id":        userID,
			"current_streak": rec.CurrentStreak,
			"longest_streak": rec.LongestStreak,
			"last_check_in":  rec.LastCheckIn.UTC(),
			"rest_day_used":  rec.RestDayUsed,
		}).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build streak insert query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert streak: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}

func (r *Repository) writeStreak(ctx context.Context, tx *sqlx.Tx, userID int64, rec *model.StreakRecord) error {
	query, args, err := r.builder.
		Update("streaks").
		SetMap(map[string]interface{}{
			"current_streak": rec.CurrentStreak,
			"longest_streak": rec.LongestStreak,
			"last_check_in":  rec.LastCheckIn.UTC(),
			"rest_day_used":  rec.RestDayUsed,
		}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build streak update query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
