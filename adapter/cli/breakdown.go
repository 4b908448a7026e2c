package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	trackingQueries "github.com/mfeller/questlog/internal/tracking/application/queries"
)

var breakdownDate string

var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Show the day's points grouped by category",
	Long: `Sum one day's earned points per task category, highest first.
Completions whose task no longer exists in the catalog are left out.

Examples:
  questlog breakdown
  questlog breakdown --date 2026-08-14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Breakdown requires a database connection.")
			return nil
		}

		date, err := resolveDate(breakdownDate)
		if err != nil {
			return err
		}

		breakdown, err := app.GetCategoryBreakdownHandler.Handle(cmd.Context(), trackingQueries.GetCategoryBreakdownQuery{
			UserID: app.CurrentUserID,
			Date:   date,
		})
		if err != nil {
			return err
		}

		if len(breakdown) == 0 {
			fmt.Println("\n  No completions for that day.")
			return nil
		}

		fmt.Println("\n  Category Breakdown")
		fmt.Println(strings.Repeat("=", 40))
		for _, cp := range breakdown {
			fmt.Printf("  %-14s %5d pts\n", cp.Category, cp.Points)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	breakdownCmd.Flags().StringVar(&breakdownDate, "date", "", "day to report (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(breakdownCmd)
}
