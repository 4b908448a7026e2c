package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	trackingCommands "github.com/mfeller/questlog/internal/tracking/application/commands"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
	"github.com/mfeller/questlog/pkg/observability"
)

var (
	completeRarity   string
	completeDuration int
)

var completeCmd = &cobra.Command{
	Use:   "complete <task-id>",
	Short: "Log a task completion and earn points",
	Long: `Record that you completed a catalog task. Points are computed from the
task's base value, the rarity tier, the session duration, and your
current streak.

Examples:
  questlog complete coding --duration 90
  questlog complete deep-work --rarity legendary --duration 120
  questlog complete journaling`,
	Aliases: []string{"done", "log"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Completion logging requires a database connection.")
			return nil
		}

		taskID := args[0]

		var rarity trackingDomain.Rarity
		if completeRarity != "" {
			parsed, err := trackingDomain.ParseRarity(completeRarity)
			if err != nil {
				return fmt.Errorf("unknown rarity %q (use common, uncommon, rare, or legendary)", completeRarity)
			}
			rarity = parsed
		}

		start := time.Now()
		result, err := app.RecordCompletionHandler.Handle(cmd.Context(), trackingCommands.RecordCompletionCommand{
			UserID:          app.CurrentUserID,
			TaskID:          taskID,
			Rarity:          rarity,
			DurationMinutes: completeDuration,
			CompletedAt:     time.Now(),
		})
		if err != nil {
			return err
		}

		app.Metrics.Counter("completions.recorded", 1, observability.T("task", taskID))
		app.Metrics.Timing("completions.record_duration", time.Since(start))

		fmt.Printf("\n  +%d points for %s", result.PointsEarned, taskID)
		if result.StreakUsed > 0 {
			fmt.Printf(" (streak bonus from %d days)", result.StreakUsed)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVarP(&completeRarity, "rarity", "r", "", "rarity tier (defaults to the catalog value)")
	completeCmd.Flags().IntVarP(&completeDuration, "duration", "d", 0, "session length in minutes")
	rootCmd.AddCommand(completeCmd)
}
