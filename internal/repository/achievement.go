package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wellness_tracker/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type Achievement struct {
	ID           uuid.UUID `db:"id"`
	UserID       int64     `db:"user_id"`
	Type         string    `db:"type"`
	UnlockedAt   time.Time `db:"unlocked_at"`
	Acknowledged bool      `db:"acknowledged"`
}

func (a *Achievement) toModel() *model.Achievement {
	return &model.Achievement{
		ID:           a.ID,
		UserID:       a.UserID,
		Type:         model.AchievementType(a.Type),
		UnlockedAt:   a.UnlockedAt.UTC(),
		Acknowledged: a.Acknowledged,
	}
}

var achievementColumns = []string{"id", "user_id", "type", "unlocked_at", "acknowledged"}

// CreateAchievementIfAbsent inserts the achievement unless the user already
// has one of the same type. It reports whether this call created the row;
// a duplicate is not an error.
func (r *Repository) CreateAchievementIfAbsent(ctx context.Context, a *model.Achievement) (bool, error) {
	query, args, err := r.builder.
		Insert("achievements").
		SetMap(map[string]interface{}{
			"id":           a.ID,
			"user_id":      a.UserID,
			"type":         string(a.Type),
			"unlocked_at":  a.UnlockedAt.UTC(),
			"acknowledged": a.Acknowledged,
		}).
		Suffix("ON CONFLICT (user_id, type) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build achievement insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to insert achievement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}

func (r *Repository) ListAchievements(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	return r.selectAchievements(ctx, squirrel.Eq{"user_id": userID})
}

// ListUnacknowledgedAchievements returns the user's unseen unlocks, oldest first.
func (r *Repository) ListUnacknowledgedAchievements(ctx context.Context, userID int64) ([]*model.Achievement, error) {
	return r.selectAchievements(ctx, squirrel.Eq{"user_id": userID, "acknowledged": false})
}

func (r *Repository) selectAchievements(ctx context.Context, where squirrel.Eq) ([]*model.Achievement, error) {
	query, args, err := r.builder.
		Select(achievementColumns...).
		From("achievements").
		Where(where).
		OrderBy("unlocked_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build achievements query: %w", err)
	}

	var rows []Achievement
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select achievements: %w", err)
	}

	achievements := make([]*model.Achievement, len(rows))
	for i := range rows {
		achievements[i] = rows[i].toModel()
	}

	return achievements, nil
}

func (r *Repository) GetAchievement(ctx context.Context, userID int64, id uuid.UUID) (*model.Achievement, error) {
	query, args, err := r.builder.
		Select(achievementColumns...).
		From("achievements").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var a Achievement
	err = r.db.GetContext(ctx, &a, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return a.toModel(), nil
}

// AcknowledgeAchievement marks the achievement as seen. Acknowledging an
// already acknowledged achievement succeeds without effect.
func (r *Repository) AcknowledgeAchievement(ctx context.Context, userID int64, id uuid.UUID) error {
	query, args, err := r.builder.
		Update("achievements").
		Set("acknowledged", true).
		Where(squirrel.Eq{
			"id":           id,
			"user_id":      userID,
			"acknowledged": false,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build acknowledge query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to acknowledge achievement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		if _, err := r.GetAchievement(ctx, userID, id); err != nil {
			return err
		}
	}

	return nil
}
