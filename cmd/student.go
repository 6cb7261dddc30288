package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sproutcare/sprout/internal/activity"
	"github.com/sproutcare/sprout/internal/ui/theme"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage student records",
}

var studentAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Create or replace a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		personality, _ := cmd.Flags().GetString("personality")
		interests, _ := cmd.Flags().GetStringSlice("interests")
		goals, _ := cmd.Flags().GetStringSlice("goals")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		repo := d.store.Students()

		s := &activity.Student{ID: args[0]}
		if existing, err := repo.Get(ctx, args[0]); err == nil {
			s = existing
		} else if !errors.Is(err, activity.ErrNotFound) {
			return err
		}

		if cmd.Flags().Changed("name") {
			s.Name = name
		}
		if cmd.Flags().Changed("age") {
			s.Age = age
		}
		if cmd.Flags().Changed("personality") {
			s.Personality = personality
		}
		if cmd.Flags().Changed("interests") {
			s.Interests = interests
		}
		if cmd.Flags().Changed("goals") {
			s.Goals = goals
		}

		if err := repo.Put(ctx, s); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved student %s (%s).\n", s.ID, s.Name)
		return nil
	},
}

var studentRecentCmd = &cobra.Command{
	Use:   "recent <id>",
	Short: "Record the student's most recent activity",
	Long:  "Record the student's most recent activity. All four fields are required before suggestions can be requested.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ra := &activity.RecentActivity{}
		ra.Name, _ = cmd.Flags().GetString("name")
		ra.Result, _ = cmd.Flags().GetString("result")
		ra.Difficulty, _ = cmd.Flags().GetString("difficulty")
		ra.Observations, _ = cmd.Flags().GetString("observations")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		repo := d.store.Students()
		s, err := repo.Get(ctx, args[0])
		if err != nil {
			return err
		}
		s.RecentActivity = ra
		if err := repo.Put(ctx, s); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := s.ReadyForSuggestions(); err != nil {
			fmt.Fprintln(out, theme.Hint.Render("Recorded, but suggestions stay blocked: "+err.Error()))
			return nil
		}
		fmt.Fprintf(out, "Recorded recent activity for %s.\n", s.Name)
		return nil
	},
}

var studentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a student and their activity counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		s, err := d.store.Students().Get(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("%s (%s)", s.Name, s.ID)))
		fmt.Fprintf(out, "Age:          %d\n", s.Age)
		fmt.Fprintf(out, "Personality:  %s\n", orDash(s.Personality))
		fmt.Fprintf(out, "Interests:    %s\n", orDash(strings.Join(s.Interests, ", ")))
		fmt.Fprintf(out, "Goals:        %s\n", orDash(strings.Join(s.Goals, ", ")))

		fmt.Fprintln(out)
		if ra := s.RecentActivity; ra != nil {
			fmt.Fprintln(out, theme.Label.Render("Recent activity"))
			fmt.Fprintf(out, "  Name:         %s\n", orDash(ra.Name))
			fmt.Fprintf(out, "  Result:       %s\n", orDash(ra.Result))
			fmt.Fprintf(out, "  Difficulty:   %s\n", orDash(ra.Difficulty))
			fmt.Fprintf(out, "  Observations: %s\n", orDash(ra.Observations))
		}
		if err := s.ReadyForSuggestions(); err != nil {
			fmt.Fprintln(out, theme.Hint.Render("Not ready for suggestions: "+err.Error()))
		}

		fmt.Fprintln(out)
		for _, st := range []activity.State{activity.StateSaved, activity.StateDiscarded, activity.StateHistorical} {
			acts, err := d.store.Activities().List(ctx, s.ID, st, 0)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-12s %d\n", theme.ForState(st).Render(string(st)), len(acts))
		}
		return nil
	},
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all students",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		students, err := d.store.Students().List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(students) == 0 {
			fmt.Fprintln(out, "No students yet. Add one with: sprout student add <id> --name ... --age ...")
			return nil
		}
		fmt.Fprintf(out, "%-20s  %-24s  %3s  %s\n", "ID", "Name", "Age", "Ready")
		fmt.Fprintln(out, theme.Rule.Render(strings.Repeat("─", 60)))
		for _, s := range students {
			ready := "yes"
			if s.ReadyForSuggestions() != nil {
				ready = "no"
			}
			fmt.Fprintf(out, "%-20s  %-24s  %3d  %s\n", truncate(s.ID, 20), truncate(s.Name, 24), s.Age, ready)
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	studentAddCmd.Flags().String("name", "", "Display name")
	studentAddCmd.Flags().Int("age", 0, "Age in years")
	studentAddCmd.Flags().String("personality", "", "Short personality description, e.g. \"curious and energetic\"")
	studentAddCmd.Flags().StringSlice("interests", nil, "Comma-separated interests")
	studentAddCmd.Flags().StringSlice("goals", nil, "Comma-separated developmental goals")

	studentRecentCmd.Flags().String("name", "", "Activity name")
	studentRecentCmd.Flags().String("result", "", "What happened")
	studentRecentCmd.Flags().String("difficulty", "", "How hard it was, e.g. easy, medium, hard")
	studentRecentCmd.Flags().String("observations", "", "Caregiver observations")

	studentCmd.AddCommand(studentAddCmd)
	studentCmd.AddCommand(studentRecentCmd)
	studentCmd.AddCommand(studentShowCmd)
	studentCmd.AddCommand(studentListCmd)
}
