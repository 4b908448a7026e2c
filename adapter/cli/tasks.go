package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mfeller/questlog/internal/catalog"
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Short:   "List the task catalog",
	Aliases: []string{"catalog"},
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := catalog.Default().All()
		if app := GetApp(); app != nil {
			tasks = app.Catalog.All()
		}

		fmt.Println("\n  Task Catalog")
		fmt.Println(strings.Repeat("=", 72))
		var category string
		for _, t := range tasks {
			if t.Category.String() != category {
				category = t.Category.String()
				fmt.Printf("\n  %s\n", category)
			}
			duration := ""
			if t.SupportsDuration {
				duration = "  (duration bonus)"
			}
			fmt.Printf("    %-18s %-22s %3d pts  %-9s%s\n", t.ID, t.Name, t.BasePoints, t.DefaultRarity, duration)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
