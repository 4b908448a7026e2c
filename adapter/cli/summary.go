package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	trackingQueries "github.com/mfeller/questlog/internal/tracking/application/queries"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the all-time completion summary",
	Long: `Display an all-time rollup of the completion log: total points,
completions, active days, first activity, and the current streak.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("The summary requires a database connection.")
			return nil
		}

		summary, err := app.GetSummaryHandler.Handle(cmd.Context(), trackingQueries.GetSummaryQuery{
			UserID: app.CurrentUserID,
			Date:   time.Now(),
		})
		if err != nil {
			return err
		}

		fmt.Println("\n  All-Time Summary")
		fmt.Println(strings.Repeat("=", 40))
		fmt.Printf("  Points:          %d\n", summary.TotalPoints)
		fmt.Printf("  Completions:     %d\n", summary.TasksCompleted)
		fmt.Printf("  Active days:     %d\n", summary.ActiveDays)
		if summary.FirstActiveDay != "" {
			fmt.Printf("  Tracking since:  %s\n", summary.FirstActiveDay)
		}
		fmt.Printf("  Streak:          %d day(s)\n", summary.CurrentStreak)
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
