// Package commands provides CLI commands for the admin tool
package commands

import (
	"context"
	"fmt"

	"feedbackapp/internal/config"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/serviceinterfaces"
	contextutils "feedbackapp/internal/utils"

	"github.com/spf13/cobra"
)

// sampleFeedback is inserted by `adm db seed` into an empty database.
var sampleFeedback = []struct {
	User    string
	Comment string
}{
	{"ilinca", "Great! Very enice."},
	{"John", "I love it."},
	{"mcDonalds", "I'm lovin' it."},
}

// DatabaseCommands returns the database management commands
func DatabaseCommands(feedbackService serviceinterfaces.FeedbackServiceInterface, logger *observability.Logger, cfg *config.Config) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
		Long: `Database management commands for the feedback application.

Available commands:
  seed      - Insert sample feedback entries into an empty database
  clear     - Remove every feedback entry
  stats     - Show database statistics`,
	}

	dbCmd.AddCommand(seedCmd(feedbackService, logger))
	dbCmd.AddCommand(clearCmd(feedbackService, logger))
	dbCmd.AddCommand(statsCmd(feedbackService, logger, cfg))

	return dbCmd
}

func seedCmd(feedbackService serviceinterfaces.FeedbackServiceInterface, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample feedback entries",
		Long:  `Insert sample feedback entries. Skips seeding when the database already has data.`,
		RunE:  runSeed(feedbackService, logger),
	}
}

func clearCmd(feedbackService serviceinterfaces.FeedbackServiceInterface, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every feedback entry",
		RunE:  runClear(feedbackService, logger),
	}
}

func statsCmd(feedbackService serviceinterfaces.FeedbackServiceInterface, logger *observability.Logger, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE:  runStats(feedbackService, logger, cfg),
	}
}

// runSeed inserts the sample entries only when the table is empty.
func runSeed(feedbackService serviceinterfaces.FeedbackServiceInterface, logger *observability.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()

		count, err := feedbackService.Count(ctx)
		if err != nil {
			logger.Error(ctx, "Failed to count feedback entries", err)
			return contextutils.WrapError(err, "failed to count feedback entries")
		}
		if count > 0 {
			cmd.Printf("Database already has %d feedback entries.\n", count)
			return nil
		}

		for _, fb := range sampleFeedback {
			if !feedbackService.Create(ctx, fb.User, fb.Comment) {
				return contextutils.ErrorWithContextf("failed to insert sample feedback for %s", fb.User)
			}
		}
		cmd.Printf("Added %d sample feedback entries.\n", len(sampleFeedback))
		return nil
	}
}

// runClear empties the feedback table.
func runClear(feedbackService serviceinterfaces.FeedbackServiceInterface, logger *observability.Logger) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()

		removed, err := feedbackService.DeleteAll(ctx)
		if err != nil {
			logger.Error(ctx, "Failed to clear feedback entries", err)
			return contextutils.WrapError(err, "failed to clear feedback entries")
		}
		cmd.Printf("Removed %d feedback entries.\n", removed)
		return nil
	}
}

// runStats prints the row count and database location.
func runStats(feedbackService serviceinterfaces.FeedbackServiceInterface, logger *observability.Logger, cfg *config.Config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := context.Background()

		count, err := feedbackService.Count(ctx)
		if err != nil {
			logger.Error(ctx, "Failed to get database statistics", err)
			return contextutils.WrapError(err, "failed to get database statistics")
		}

		cmd.Println("Database statistics:")
		cmd.Println(fmt.Sprintf("  path:    %s", cfg.Database.Path))
		cmd.Println(fmt.Sprintf("  entries: %d", count))
		return nil
	}
}
