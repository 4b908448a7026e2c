package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	profileCommands "github.com/mfeller/questlog/internal/profiles/application/commands"
	profileQueries "github.com/mfeller/questlog/internal/profiles/application/queries"
	trackingDomain "github.com/mfeller/questlog/internal/tracking/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles and their task selections",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Profiles require a database connection.")
			return nil
		}

		id, err := app.CreateProfileHandler.Handle(cmd.Context(), profileCommands.CreateProfileCommand{Name: args[0]})
		if err != nil {
			return err
		}

		fmt.Printf("Created profile %s (%s)\n", args[0], id)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Profiles require a database connection.")
			return nil
		}

		profiles, err := app.ListProfilesHandler.Handle(cmd.Context())
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles yet. Create one with: questlog profile create <name>")
			return nil
		}

		fmt.Println("\n  Profiles")
		fmt.Println(strings.Repeat("=", 56))
		for _, p := range profiles {
			fmt.Printf("  [%s] %-20s %d task(s)\n", p.ID().String()[:8], p.Name(), len(p.SelectedTasks()))
		}
		fmt.Println()
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <profile-id>",
	Short: "Show a profile and its selected tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Profiles require a database connection.")
			return nil
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid profile ID %q", args[0])
		}

		profile, err := app.GetProfileHandler.Handle(cmd.Context(), profileQueries.GetProfileQuery{ProfileID: id})
		if err != nil {
			return err
		}

		fmt.Printf("\n  %s\n", profile.Name())
		fmt.Println(strings.Repeat("=", 40))
		for _, task := range profile.SelectedTasks() {
			fmt.Printf("  %-18s %s\n", task.TaskID, task.Rarity)
		}
		fmt.Println()
		return nil
	},
}

var selectRarity string

var profileSelectCmd = &cobra.Command{
	Use:   "select <profile-id> <task-id>",
	Short: "Add a catalog task to a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Profiles require a database connection.")
			return nil
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid profile ID %q", args[0])
		}

		var rarity trackingDomain.Rarity
		if selectRarity != "" {
			rarity, err = trackingDomain.ParseRarity(selectRarity)
			if err != nil {
				return fmt.Errorf("unknown rarity %q", selectRarity)
			}
		}

		err = app.ManageTasksHandler.HandleSelect(cmd.Context(), profileCommands.SelectTaskCommand{
			ProfileID: id,
			TaskID:    args[1],
			Rarity:    rarity,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added %s to profile\n", args[1])
		return nil
	},
}

var profileDeselectCmd = &cobra.Command{
	Use:   "deselect <profile-id> <task-id>",
	Short: "Remove a task from a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Profiles require a database connection.")
			return nil
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid profile ID %q", args[0])
		}

		err = app.ManageTasksHandler.HandleDeselect(cmd.Context(), profileCommands.DeselectTaskCommand{
			ProfileID: id,
			TaskID:    args[1],
		})
		if err != nil {
			return err
		}

		fmt.Printf("Removed %s from profile\n", args[1])
		return nil
	},
}

var profileRarityCmd = &cobra.Command{
	Use:   "rarity <profile-id> <task-id> <rarity>",
	Short: "Change the rarity of a selected task",
	Long: `Reassign the rarity tier of an already selected task. Past completions
keep the points they earned under the old tier; only future completions
use the new multiplier.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			fmt.Println("Profiles require a database connection.")
			return nil
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid profile ID %q", args[0])
		}

		rarity, err := trackingDomain.ParseRarity(args[2])
		if err != nil {
			return fmt.Errorf("unknown rarity %q", args[2])
		}

		err = app.ManageTasksHandler.HandleSetRarity(cmd.Context(), profileCommands.SetRarityCommand{
			ProfileID: id,
			TaskID:    args[1],
			Rarity:    rarity,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Set %s to %s\n", args[1], rarity)
		return nil
	},
}

func init() {
	profileSelectCmd.Flags().StringVarP(&selectRarity, "rarity", "r", "", "rarity tier (defaults to the catalog value)")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSelectCmd)
	profileCmd.AddCommand(profileDeselectCmd)
	profileCmd.AddCommand(profileRarityCmd)
	rootCmd.AddCommand(profileCmd)
}
