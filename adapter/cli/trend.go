package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	trackingQueries "github.com/mfeller/questlog/internal/tracking/application/queries"
)

var (
	trendPeriod string
	trendDate   string
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show daily scores over a trailing window",
	Long: `Display one line per day over the trailing window, oldest first, with
points, score, and a simple bar.

Examples:
  questlog trend                  # last 7 days
  questlog trend --period month   # last 30 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Trends require a database connection.")
			return nil
		}

		window := trackingQueries.WeeklyWindowDays
		switch trendPeriod {
		case "", "week", "weekly":
		case "month", "monthly":
			window = trackingQueries.MonthlyWindowDays
		default:
			return fmt.Errorf("unknown period %q (use week or month)", trendPeriod)
		}

		end, err := resolveDate(trendDate)
		if err != nil {
			return err
		}

		trend, err := app.GetTrendHandler.Handle(cmd.Context(), trackingQueries.GetTrendQuery{
			UserID:     app.CurrentUserID,
			EndDate:    end,
			WindowDays: window,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\n  Trend (%d days)\n", window)
		fmt.Println(strings.Repeat("=", 56))
		for _, day := range trend {
			bar := strings.Repeat("#", day.ProductivityScore/5)
			fmt.Printf("  %s  %4d pts  %3d  %s\n", day.Date, day.TotalPoints, day.ProductivityScore, bar)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	trendCmd.Flags().StringVarP(&trendPeriod, "period", "p", "week", "window size: week or month")
	trendCmd.Flags().StringVar(&trendDate, "date", "", "window end day (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(trendCmd)
}
