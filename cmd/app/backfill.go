package main

import (
	"context"
	"fmt"
	"io"

	"wellness_tracker/internal/model"
	"wellness_tracker/internal/service"
	"wellness_tracker/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type BackfillOptions struct {
	*RootOptions
	UserID int64
}

func NewBackfillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BackfillOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Evaluate every achievement rule for existing users",
		Long: `Evaluate every achievement rule for existing users.

Unlocks achievements earned by activity recorded before the engine ran.
Already unlocked achievements are left untouched, so the command can be
re-run safely.

Example:
  wellness backfill
  wellness backfill --user 5060715466`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository(opts.Config)
			if err != nil {
				return err
			}
			defer repo.Close()

			achievements := service.NewAchievementService(repo, repo)
			_, err = backfill(cmd.Context(), repo, achievements, opts.UserID, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().Int64Var(&opts.UserID, "user", 0, "only evaluate this user id")

	return cmd
}

type activeUserLister interface {
	ListActiveUserIDs(ctx context.Context) ([]int64, error)
}

type evaluator interface {
	EvaluateAll(ctx context.Context, userID int64) ([]model.AchievementType, error)
}

// backfill returns the number of achievements it unlocked. A failing user is
// logged and skipped; the error for the first one is returned at the end.
func backfill(ctx context.Context, users activeUserLister, ev evaluator, only int64, out io.Writer) (int, error) {
	ids := []int64{only}
	if only == 0 {
		var err error
		if ids, err = users.ListActiveUserIDs(ctx); err != nil {
			return 0, err
		}
	}

	var (
		total    int
		firstErr error
	)
	for _, id := range ids {
		unlocked, err := ev.EvaluateAll(ctx, id)
		if err != nil {
			logger.Logger().Error("backfill failed for user", zap.Int64("user_id", id), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("user %d: %w", id, err)
			}
			continue
		}
		for _, t := range unlocked {
			fmt.Fprintf(out, "user %d: unlocked %s\n", id, t)
		}
		total += len(unlocked)
	}

	fmt.Fprintf(out, "%d users evaluated, %d achievements unlocked\n", len(ids), total)
	return total, firstErr
}
