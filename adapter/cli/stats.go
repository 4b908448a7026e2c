package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	trackingQueries "github.com/mfeller/questlog/internal/tracking/application/queries"
)

var statsDate string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the day's points, score, and streak",
	Long: `Display the statistics for one calendar day: total points earned,
productivity score against the daily target, tasks completed, active
categories, and the current streak.

Examples:
  questlog stats                    # today
  questlog stats --date 2026-08-14  # a specific day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Stats require a database connection.")
			return nil
		}

		date, err := resolveDate(statsDate)
		if err != nil {
			return err
		}

		stats, err := app.GetDailyStatsHandler.Handle(cmd.Context(), trackingQueries.GetDailyStatsQuery{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\n  Daily Stats for %s\n", stats.Date)
		fmt.Println(strings.Repeat("=", 40))
		fmt.Printf("  Points:          %d\n", stats.TotalPoints)
		fmt.Printf("  Score:           %d / 100\n", stats.ProductivityScore)
		fmt.Printf("  Tasks completed: %d\n", stats.TasksCompleted)
		fmt.Printf("  Categories:      %d\n", stats.CategoriesActive)
		fmt.Printf("  Streak:          %d day(s)\n", stats.Streak)
		fmt.Println()
		return nil
	},
}

// resolveDate parses a YYYY-MM-DD flag value, defaulting to today.
func resolveDate(flag string) (time.Time, error) {
	if flag == "" {
		return time.Now(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", flag, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", flag)
	}
	return date, nil
}

func init() {
	statsCmd.Flags().StringVar(&statsDate, "date", "", "day to report (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(statsCmd)
}
